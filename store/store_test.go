package store

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"hydro/calculator"
	"hydro/model"
	"hydro/session"
)

func sampleSnapshot() model.Snapshot {
	up, target := 5.0, 3.0
	in := session.DefaultInput()
	in.Upstream = &up
	in.Target = &target
	return model.Snapshot{
		Input: in,
		Components: []model.InlineComponent{
			{Type: model.Pump, Name: "P-101", Effect: model.Gain, Value: 4, Unit: model.Bar},
			{Type: model.Valve, Name: "V-2", Effect: model.Loss, Value: 35, Unit: model.KPa},
			{Type: model.StaticHead, Name: "riser", Effect: model.Loss, Value: 6, Unit: model.Head},
		},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	snap := sampleSnapshot()
	if err := st.Save("abc", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := st.Load("abc")
	if !ok {
		t.Fatal("Load: expected snapshot")
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", got, snap)
	}

	// 恢复后的计算结果与保存前一致
	calc := calculator.NewCalculator(nil, calculator.ByPolarity)
	before := session.New("abc")
	if err := before.Restore(snap); err != nil {
		t.Fatal(err)
	}
	after := session.New("abc")
	if err := after.Restore(got); err != nil {
		t.Fatal(err)
	}
	r1, err1 := before.Calculate(calc)
	r2, err2 := after.Calculate(calc)
	if err1 != nil || err2 != nil {
		t.Fatalf("Calculate: %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("result changed after restore:\n%+v\n%+v", r1, r2)
	}
}

func TestLoad_Missing(t *testing.T) {
	st, _ := New(t.TempDir())
	if _, ok := st.Load("nobody"); ok {
		t.Error("Load on empty store: expected false")
	}
}

func TestLoad_MalformedIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	st, _ := New(dir)
	cases := map[string]string{
		"garbage": "{not json",
		"badtype": `{"input":{},"components":[{"type":"turbine","unit":"bar"}]}`,
		"badunit": `{"input":{},"components":[{"type":"pump","unit":"psi"}]}`,
	}
	for id, doc := range cases {
		p := filepath.Join(dir, id, StorageKey+".json")
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := ioutil.WriteFile(p, []byte(doc), 0644); err != nil {
			t.Fatal(err)
		}
		if _, ok := st.Load(id); ok {
			t.Errorf("%s: expected malformed state to be treated as absent", id)
		}
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s: malformed snapshot should be removed, stat err %v", id, err)
		}
	}
}

func TestClear(t *testing.T) {
	st, _ := New(t.TempDir())
	if err := st.Save("abc", sampleSnapshot()); err != nil {
		t.Fatal(err)
	}
	if err := st.Clear("abc"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := st.Load("abc"); ok {
		t.Error("Load after Clear: expected false")
	}
	if err := st.Clear("abc"); err != nil {
		t.Errorf("Clear twice: %v", err)
	}
}

func TestInvalidID(t *testing.T) {
	st, _ := New(t.TempDir())
	for _, id := range []string{"", "../etc", "a/b", "x y"} {
		if err := st.Save(id, sampleSnapshot()); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Save(%q): got %v, want ErrInvalidID", id, err)
		}
		if _, ok := st.Load(id); ok {
			t.Errorf("Load(%q): expected false", id)
		}
	}
}

func TestLoad_DiscardIsLogged(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	defer log.SetLevel(level)

	dir := t.TempDir()
	st, _ := New(dir)
	p := filepath.Join(dir, "bad", StorageKey+".json")
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(p, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := st.Load("bad"); ok {
		t.Fatal("expected malformed state to be discarded")
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Data["session"] != "bad" {
			continue
		}
		switch e.Level {
		case log.WarnLevel:
			warned = true
		case log.DebugLevel:
			t.Errorf("removal reported a failure: %v", e.Data["err"])
		}
	}
	if !warned {
		t.Error("expected a warning for the discarded snapshot")
	}
}
