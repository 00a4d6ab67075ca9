package session

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"hydro/calculator"
	"hydro/model"
	"hydro/sequence"
)

// Session 一个交互会话的全部可变状态：输入快照 + 元件序列。
// 同一会话的所有操作在一次同步处理内完成，不加锁。
type Session struct {
	ID         string
	Input      model.Input
	Components sequence.Sequence
}

// 页面初始值
func DefaultInput() model.Input {
	return model.Input{
		Length:      100,
		NominalSize: "2",
		Schedule:    "40",
		FlowRate:    50,
		Density:     998,
		Viscosity:   0.001,
		RoughnessMm: 0.045,
	}
}

func New(id string) *Session {
	return &Session{
		ID:         id,
		Input:      DefaultInput(),
		Components: sequence.NewArrSequence(nil),
	}
}

func (s *Session) SetInput(in model.Input) {
	s.Input = in
	log.WithFields(log.Fields{
		"session":  s.ID,
		"length":   in.Length,
		"size":     in.NominalSize,
		"schedule": in.Schedule,
		"flowRate": in.FlowRate,
	}).Info("设置输入参数")
}

func (s *Session) AddComponent(pos int, c model.InlineComponent) error {
	if err := (model.Snapshot{Components: []model.InlineComponent{c}}).Check(); err != nil {
		return err
	}
	if err := s.Components.Insert(pos, c); err != nil {
		return fmt.Errorf("insert component at %d: %w", pos, err)
	}
	log.WithFields(log.Fields{
		"session":  s.ID,
		"position": pos,
		"type":     c.Type,
		"name":     c.Name,
	}).Info("添加元件")
	return nil
}

func (s *Session) RemoveComponent(pos int) error {
	c, err := s.Components.Remove(pos)
	if err != nil {
		return fmt.Errorf("remove component at %d: %w", pos, err)
	}
	log.WithFields(log.Fields{
		"session":  s.ID,
		"position": pos,
		"name":     c.Name,
	}).Info("删除元件")
	return nil
}

func (s *Session) MoveUp(pos int) error {
	if err := s.Components.MoveUp(pos); err != nil {
		return fmt.Errorf("move component %d up: %w", pos, err)
	}
	return nil
}

func (s *Session) MoveDown(pos int) error {
	if err := s.Components.MoveDown(pos); err != nil {
		return fmt.Errorf("move component %d down: %w", pos, err)
	}
	return nil
}

func (s *Session) Reset() {
	s.Input = DefaultInput()
	s.Components.Reset()
	log.WithField("session", s.ID).Info("会话已重置")
}

func (s *Session) Snapshot() model.Snapshot {
	return model.Snapshot{
		Input:      s.Input,
		Components: s.Components.Items(),
	}
}

func (s *Session) Restore(snap model.Snapshot) error {
	if err := snap.Check(); err != nil {
		return err
	}
	s.Input = snap.Input
	s.Components = sequence.NewArrSequence(snap.Components)
	return nil
}

func (s *Session) Calculate(c *calculator.Calculator) (calculator.Result, error) {
	return c.Calculate(s.Input, s.Components.Items())
}
