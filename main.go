package main

import (
	"flag"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"hydro/calculator"
	"hydro/config"
	"hydro/pipe_spec"
	"hydro/server"
	"hydro/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	confPath := flag.String("conf", "conf/config.ini", "配置文件路径")
	envFile := flag.String("env", ".env", "环境变量文件")
	flag.Parse()

	cfg := config.Load(*confPath, *envFile)
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	table := pipe_spec.Default()
	if cfg.PipeTable != "" {
		t, err := pipe_spec.LoadFile(cfg.PipeTable)
		if err != nil {
			log.Fatal("err: ", err)
		}
		table = t
	}

	convention, err := calculator.ParseSignConvention(cfg.SignConvention)
	if err != nil {
		log.Fatal("err: ", err)
	}
	st, err := store.New(cfg.StoreDir)
	if err != nil {
		log.Fatal("err: ", err)
	}
	log.WithFields(log.Fields{
		"addr":       cfg.Addr,
		"store":      cfg.StoreDir,
		"convention": convention,
		"pipes":      len(table.Sizes()),
	}).Info("加载配置")

	upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	s := server.NewServer(cfg.Addr, upgrader, calculator.NewCalculator(table, convention), st)
	if err := s.Serve(); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
