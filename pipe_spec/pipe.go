package pipe_spec

import (
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// 管道规格参照表：公称尺寸 -> 外径 + 各壁厚等级对应的壁厚，单位 mm

var ErrUnknownPipe = errors.New("unknown pipe size or schedule")

type PipeSpec struct {
	Size          string             `yaml:"size"`
	OuterDiameter float64            `yaml:"outer_diameter"`
	Schedules     map[string]float64 `yaml:"schedules"`
}

// Table 构造后只读
type Table struct {
	specs map[string]PipeSpec
	order []string
}

// ASME B36.10M
var builtin = []PipeSpec{
	{Size: "1/2", OuterDiameter: 21.3, Schedules: map[string]float64{"10": 2.11, "40": 2.77, "80": 3.73, "160": 4.78}},
	{Size: "3/4", OuterDiameter: 26.7, Schedules: map[string]float64{"10": 2.11, "40": 2.87, "80": 3.91, "160": 5.56}},
	{Size: "1", OuterDiameter: 33.4, Schedules: map[string]float64{"10": 2.77, "40": 3.38, "80": 4.55, "160": 6.35}},
	{Size: "1-1/4", OuterDiameter: 42.2, Schedules: map[string]float64{"10": 2.77, "40": 3.56, "80": 4.85, "160": 6.35}},
	{Size: "1-1/2", OuterDiameter: 48.3, Schedules: map[string]float64{"10": 2.77, "40": 3.68, "80": 5.08, "160": 7.14}},
	{Size: "2", OuterDiameter: 60.3, Schedules: map[string]float64{"10": 2.77, "40": 3.91, "80": 5.54, "160": 8.74}},
	{Size: "2-1/2", OuterDiameter: 73.0, Schedules: map[string]float64{"10": 3.05, "40": 5.16, "80": 7.01, "160": 9.53}},
	{Size: "3", OuterDiameter: 88.9, Schedules: map[string]float64{"10": 3.05, "40": 5.49, "80": 7.62, "160": 11.13}},
	{Size: "4", OuterDiameter: 114.3, Schedules: map[string]float64{"10": 3.05, "40": 6.02, "80": 8.56, "160": 13.49}},
	{Size: "6", OuterDiameter: 168.3, Schedules: map[string]float64{"10": 3.40, "40": 7.11, "80": 10.97, "160": 18.26}},
	{Size: "8", OuterDiameter: 219.1, Schedules: map[string]float64{"10": 3.76, "40": 8.18, "80": 12.70, "160": 23.01}},
	{Size: "10", OuterDiameter: 273.0, Schedules: map[string]float64{"10": 4.19, "40": 9.27, "80": 15.09, "160": 28.58}},
	{Size: "12", OuterDiameter: 323.8, Schedules: map[string]float64{"10": 4.57, "40": 10.31, "80": 17.48, "160": 33.32}},
}

func NewTable(specs []PipeSpec) *Table {
	t := &Table{specs: make(map[string]PipeSpec, len(specs))}
	t.merge(specs)
	return t
}

// Default 内置规格表
func Default() *Table {
	return NewTable(builtin)
}

// 同名尺寸整体覆盖，新尺寸追加到末尾
func (t *Table) merge(specs []PipeSpec) {
	for _, s := range specs {
		if _, ok := t.specs[s.Size]; !ok {
			t.order = append(t.order, s.Size)
		}
		schedules := make(map[string]float64, len(s.Schedules))
		for k, v := range s.Schedules {
			schedules[k] = v
		}
		s.Schedules = schedules
		t.specs[s.Size] = s
	}
}

// LoadFile 读取 yaml 扩展表并合并到内置表上
func LoadFile(path string) (*Table, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipe table %s: %w", path, err)
	}
	var doc struct {
		Pipes []PipeSpec `yaml:"pipes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse pipe table %s: %w", path, err)
	}
	for i, s := range doc.Pipes {
		if s.Size == "" || !(s.OuterDiameter > 0) {
			return nil, fmt.Errorf("pipe table %s: entry %d has no size or outer diameter", path, i)
		}
		for sch, th := range s.Schedules {
			if !(th > 0) || 2*th >= s.OuterDiameter {
				return nil, fmt.Errorf("pipe table %s: size %s schedule %s has invalid wall thickness %v", path, s.Size, sch, th)
			}
		}
	}

	t := Default()
	t.merge(doc.Pipes)
	log.WithFields(log.Fields{
		"path":  path,
		"pipes": len(doc.Pipes),
		"total": len(t.order),
	}).Info("加载管道规格表")
	return t, nil
}

func (t *Table) Lookup(size string) (PipeSpec, bool) {
	s, ok := t.specs[size]
	return s, ok
}

// InnerDiameter 内径 = 外径 - 2 * 壁厚，查不到时返回 NaN
func (t *Table) InnerDiameter(size, schedule string) (float64, bool) {
	s, ok := t.specs[size]
	if !ok {
		return math.NaN(), false
	}
	th, ok := s.Schedules[schedule]
	if !ok {
		return math.NaN(), false
	}
	return s.OuterDiameter - 2*th, true
}

func (t *Table) Sizes() []string {
	sizes := make([]string, len(t.order))
	copy(sizes, t.order)
	return sizes
}

// Schedules 按壁厚等级数值升序，非数字等级排在后面
func (t *Table) Schedules(size string) []string {
	s, ok := t.specs[size]
	if !ok {
		return nil
	}
	schedules := make([]string, 0, len(s.Schedules))
	for k := range s.Schedules {
		schedules = append(schedules, k)
	}
	sort.Slice(schedules, func(i, j int) bool {
		a, errA := strconv.ParseFloat(schedules[i], 64)
		b, errB := strconv.ParseFloat(schedules[j], 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return schedules[i] < schedules[j]
	})
	return schedules
}
