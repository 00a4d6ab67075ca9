package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"hydro/calculator"
	"hydro/model"
	"hydro/report"
	"hydro/session"
	"hydro/store"
)

// 请求消息类型
const (
	MsgEnv             = "env"
	MsgComponentAdd    = "component.add"
	MsgComponentRemove = "component.remove"
	MsgComponentUp     = "component.up"
	MsgComponentDown   = "component.down"
	MsgCalc            = "calc"
	MsgReset           = "reset"
	MsgState           = "state"
	MsgTables          = "tables"
)

// 回复消息类型
const (
	ReplyResult  = "result"
	ReplyInvalid = "invalid"
	ReplyError   = "error"
	ReplyState   = "state"
	ReplyTables  = "tables"
)

// Hub 一个连接对应一个会话，消息逐条同步处理
type Hub struct {
	session *session.Session
	calc    *calculator.Calculator
	store   *store.Store
	conn    *websocket.Conn
	// request
	msg chan model.Msg
}

func NewHub(sess *session.Session, calc *calculator.Calculator, st *store.Store) *Hub {
	return &Hub{
		session: sess,
		calc:    calc,
		store:   st,
		msg:     make(chan model.Msg, 10),
	}
}

// run 处理请求直到 msg 关闭，只有这里写连接
func (h *Hub) run(done chan<- struct{}) {
	defer close(done)
	for msg := range h.msg {
		reply := h.Handle(msg)
		if err := h.conn.WriteJSON(&reply); err != nil {
			log.WithFields(log.Fields{"session": h.session.ID, "err": err}).Error("写入回复失败")
			return
		}
	}
}

// Handle 处理一条请求并返回回复；修改会话的请求处理后都会重新计算并保存
func (h *Hub) Handle(msg model.Msg) model.Msg {
	var err error
	switch msg.Type {
	case MsgEnv:
		var in model.Input
		if err = json.Unmarshal([]byte(msg.Content), &in); err == nil {
			h.session.SetInput(in)
		}
	case MsgComponentAdd:
		var req model.ComponentReq
		if err = json.Unmarshal([]byte(msg.Content), &req); err == nil {
			err = h.session.AddComponent(req.Position, req.Component)
		}
	case MsgComponentRemove, MsgComponentUp, MsgComponentDown:
		var req model.PositionReq
		if err = json.Unmarshal([]byte(msg.Content), &req); err == nil {
			switch msg.Type {
			case MsgComponentRemove:
				err = h.session.RemoveComponent(req.Position)
			case MsgComponentUp:
				err = h.session.MoveUp(req.Position)
			default:
				err = h.session.MoveDown(req.Position)
			}
		}
	case MsgReset:
		h.session.Reset()
		if err = h.store.Clear(h.session.ID); err != nil {
			return errorReply(err)
		}
		return h.calculate()
	case MsgCalc:
		return h.calculate()
	case MsgState:
		return jsonReply(ReplyState, h.session.Snapshot())
	case MsgTables:
		return jsonReply(ReplyTables, pipeSizes(h.calc))
	default:
		log.WithField("type", msg.Type).Warn("no such type")
		return errorReply(fmt.Errorf("unknown message type %q", msg.Type))
	}
	if err != nil {
		return errorReply(err)
	}

	if err := h.store.Save(h.session.ID, h.session.Snapshot()); err != nil {
		log.WithFields(log.Fields{"session": h.session.ID, "err": err}).Error("保存会话失败")
	}
	return h.calculate()
}

func (h *Hub) calculate() model.Msg {
	snap := h.session.Snapshot()
	res, err := h.calc.Calculate(snap.Input, snap.Components)
	if err != nil {
		return errorReply(err)
	}
	return jsonReply(ReplyResult, report.NewReport(snap.Input, snap.Components, res, h.calc.Convention()))
}

func jsonReply(typ string, v interface{}) model.Msg {
	data, err := json.Marshal(v)
	if err != nil {
		return errorReply(err)
	}
	return model.Msg{Type: typ, Content: string(data)}
}

func errorReply(err error) model.Msg {
	var verr *calculator.ValidationError
	if errors.As(err, &verr) {
		return jsonReply(ReplyInvalid, verr.Problems)
	}
	return model.Msg{Type: ReplyError, Content: err.Error()}
}

func pipeSizes(calc *calculator.Calculator) []model.PipeSize {
	table := calc.Table()
	var sizes []model.PipeSize
	for _, size := range table.Sizes() {
		spec, _ := table.Lookup(size)
		sizes = append(sizes, model.PipeSize{
			Size:          size,
			OuterDiameter: spec.OuterDiameter,
			Schedules:     table.Schedules(size),
		})
	}
	return sizes
}
