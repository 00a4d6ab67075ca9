package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

type Config struct {
	Addr           string // 监听地址
	StoreDir       string // 会话快照目录
	PipeTable      string // 管道规格扩展表，为空时只用内置表
	SignConvention string // polarity | value，由 calculator.ParseSignConvention 校验
	LogLevel       string
}

// 环境变量覆盖 ini 中的配置
const (
	EnvAddr           = "HYDRO_ADDR"
	EnvStoreDir       = "HYDRO_STORE_DIR"
	EnvSignConvention = "HYDRO_SIGN_CONVENTION"
)

// Load 读取 ini 配置；文件不存在时使用默认值。envFile 不为空时先加载其中的环境变量。
func Load(path, envFile string) Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			log.WithFields(log.Fields{"file": envFile, "err": err}).Warn("环境变量文件读取错误")
		}
	}

	file, err := ini.Load(path)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "err": err}).Warn("配置文件读取错误，使用默认配置")
		file = ini.Empty()
	}
	cfg := loadCfg(file)

	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvStoreDir); v != "" {
		cfg.StoreDir = v
	}
	if v := os.Getenv(EnvSignConvention); v != "" {
		cfg.SignConvention = v
	}
	return cfg
}

func loadCfg(file *ini.File) Config {
	return Config{
		Addr:           file.Section("server").Key("addr").MustString(":9000"),
		StoreDir:       file.Section("store").Key("dir").MustString("data"),
		PipeTable:      file.Section("pipe").Key("table").String(),
		SignConvention: file.Section("calculator").Key("sign_convention").MustString("polarity"),
		LogLevel:       file.Section("log").Key("level").MustString("info"),
	}
}
