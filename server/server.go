package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"hydro/calculator"
	"hydro/model"
	"hydro/session"
	"hydro/store"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	calc     *calculator.Calculator
	store    *store.Store
	router   *mux.Router
}

func NewServer(addr string, upgrader websocket.Upgrader, calc *calculator.Calculator, st *store.Store) *Server {
	s := &Server{
		addr:     addr,
		upgrader: upgrader,
		calc:     calc,
		store:    st,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/ws", s.serveWs)

	h := &Handler{calc: s.calc, store: s.store}
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/calc", h.Calc).Methods("POST")
	api.HandleFunc("/report/pdf", h.PDF).Methods("POST")
	api.HandleFunc("/report/xlsx", h.XLSX).Methods("POST")
	api.HandleFunc("/components/import", h.ImportComponents).Methods("POST")
	api.HandleFunc("/pipes", h.Pipes).Methods("GET")
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", h.DeleteSession).Methods("DELETE")
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// 恢复已保存的会话，没有或损坏时使用默认值
func (s *Server) openSession(id string) *session.Session {
	sess := session.New(id)
	if snap, ok := s.store.Load(id); ok {
		if err := sess.Restore(snap); err != nil {
			log.WithFields(log.Fields{"session": id, "err": err}).Warn("恢复会话失败，使用默认值")
		}
	}
	return sess
}

func newSessionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		log.Fatal("err: ", err)
	}
	return hex.EncodeToString(b)
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		id = newSessionID()
	} else if !store.ValidID(id) {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	hub := NewHub(s.openSession(id), s.calc, s.store)
	hub.conn = conn
	done := make(chan struct{})
	go hub.run(done)
	log.WithField("session", id).Info("会话已连接")

	// 连接建立后先推送当前状态和计算结果
	hub.msg <- model.Msg{Type: MsgState}
	hub.msg <- model.Msg{Type: MsgCalc}
	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithFields(log.Fields{"session": id, "err": err}).Error("读取消息失败")
			}
			break
		}
		select {
		case hub.msg <- msg:
		case <-done:
		}
	}
	close(hub.msg)
	<-done
	log.WithField("session", id).Info("会话已断开")
}

func (s *Server) Serve() error {
	log.WithField("addr", s.addr).Info("服务启动")
	return http.ListenAndServe(s.addr, s.router)
}
