package session

import (
	"errors"
	"reflect"
	"testing"

	"hydro/calculator"
	"hydro/model"
	"hydro/sequence"
)

func TestSessionComponents(t *testing.T) {
	s := New("t1")
	pump := model.InlineComponent{Type: model.Pump, Name: "P", Effect: model.Gain, Value: 2, Unit: model.Bar}
	valve := model.InlineComponent{Type: model.Valve, Name: "V", Effect: model.Loss, Value: 20, Unit: model.KPa}

	if err := s.AddComponent(0, pump); err != nil {
		t.Fatal(err)
	}
	if err := s.AddComponent(1, valve); err != nil {
		t.Fatal(err)
	}
	if err := s.AddComponent(5, valve); !errors.Is(err, sequence.ErrOutOfRange) {
		t.Errorf("AddComponent(5): got %v, want ErrOutOfRange", err)
	}
	if err := s.AddComponent(0, model.InlineComponent{Type: "heater", Unit: model.Bar}); err == nil {
		t.Error("AddComponent with unknown type: expected error")
	}
	if err := s.MoveUp(1); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Components; !reflect.DeepEqual(got, []model.InlineComponent{valve, pump}) {
		t.Errorf("order after MoveUp: %+v", got)
	}
	if err := s.MoveDown(1); !errors.Is(err, sequence.ErrOutOfRange) {
		t.Errorf("MoveDown(last): got %v", err)
	}
	if err := s.RemoveComponent(0); err != nil {
		t.Fatal(err)
	}
	if s.Components.Size() != 1 {
		t.Errorf("Size: got %d, want 1", s.Components.Size())
	}
}

func TestSessionCalculate(t *testing.T) {
	s := New("t2")
	_ = s.AddComponent(0, model.InlineComponent{Type: model.Pump, Effect: model.Gain, Value: 2, Unit: model.Bar})
	r, err := s.Calculate(calculator.NewCalculator(nil, calculator.ByPolarity))
	if err != nil {
		t.Fatal(err)
	}
	if r.ComponentImpact != 2 {
		t.Errorf("ComponentImpact: got %v, want 2", r.ComponentImpact)
	}
}

func TestSessionResetAndRestore(t *testing.T) {
	s := New("t3")
	in := DefaultInput()
	in.Length = 250
	s.SetInput(in)
	_ = s.AddComponent(0, model.InlineComponent{Type: model.Vessel, Effect: model.Loss, Value: 1, Unit: model.Head})
	snap := s.Snapshot()

	s.Reset()
	if s.Input != DefaultInput() || !s.Components.IsEmpty() {
		t.Errorf("Reset: got %+v with %d components", s.Input, s.Components.Size())
	}
	if err := s.Restore(snap); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Snapshot(), snap) {
		t.Errorf("Restore: got %+v, want %+v", s.Snapshot(), snap)
	}

	bad := snap
	bad.Components = []model.InlineComponent{{Type: model.Pump, Unit: "psi"}}
	if err := s.Restore(bad); err == nil {
		t.Error("Restore with bad unit: expected error")
	}
	if !reflect.DeepEqual(s.Snapshot(), snap) {
		t.Error("failed Restore must leave the session unchanged")
	}
}
