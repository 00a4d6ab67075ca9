package model

import "fmt"

// 管路内联元件类型
type ComponentType string

const (
	Pump             ComponentType = "pump"
	Vessel           ComponentType = "vessel"
	Valve            ComponentType = "valve"
	StaticHead       ComponentType = "static_head"
	PressureBoundary ComponentType = "pressure_boundary"
)

// 元件作用方向
type Effect string

const (
	Gain Effect = "gain"
	Loss Effect = "loss"
)

// 元件数值单位
type Unit string

const (
	Bar  Unit = "bar"
	KPa  Unit = "kPa"
	Head Unit = "m" // 水头
)

func (t ComponentType) Valid() bool {
	switch t {
	case Pump, Vessel, Valve, StaticHead, PressureBoundary:
		return true
	}
	return false
}

func (e Effect) Valid() bool {
	return e == Gain || e == Loss
}

func (u Unit) Valid() bool {
	switch u {
	case Bar, KPa, Head:
		return true
	}
	return false
}

// 内联元件，按流向顺序排列
type InlineComponent struct {
	Type   ComponentType `json:"type"`
	Name   string        `json:"name"`
	Effect Effect        `json:"effect"`
	Value  float64       `json:"value"`
	Unit   Unit          `json:"unit"`
}

// 表单输入快照
type Input struct {
	Length      float64  `json:"length"`             // 管长 m
	NominalSize string   `json:"nominal_size"`       // 公称尺寸，与 Schedule 一起查表得到内径
	Schedule    string   `json:"schedule"`           // 壁厚等级
	DiameterMm  float64  `json:"diameter_mm"`        // 未选择公称尺寸时直接给定的内径 mm
	FlowRate    float64  `json:"flow_rate"`          // m3/h
	Density     float64  `json:"density"`            // kg/m3
	Viscosity   float64  `json:"viscosity"`          // Pa·s
	RoughnessMm float64  `json:"roughness_mm"`       // 绝对粗糙度 mm
	Upstream    *float64 `json:"upstream,omitempty"` // 上游压力 bar
	Target      *float64 `json:"target,omitempty"`   // 下游目标压力 bar
}

// 持久化的会话快照：全部输入 + 元件序列
type Snapshot struct {
	Input      Input             `json:"input"`
	Components []InlineComponent `json:"components"`
}

// Check 检查快照结构是否完整，数值合法性由计算器负责
func (s Snapshot) Check() error {
	for i, c := range s.Components {
		if !c.Type.Valid() {
			return fmt.Errorf("component %d: unknown type %q", i, c.Type)
		}
		if !c.Unit.Valid() {
			return fmt.Errorf("component %d: unknown unit %q", i, c.Unit)
		}
		if c.Effect != "" && !c.Effect.Valid() {
			return fmt.Errorf("component %d: unknown effect %q", i, c.Effect)
		}
	}
	return nil
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// 元件插入请求
type ComponentReq struct {
	Position  int             `json:"position"`
	Component InlineComponent `json:"component"`
}

// 元件删除、上移、下移请求
type PositionReq struct {
	Position int `json:"position"`
}

// 管道规格列表
type PipeSize struct {
	Size          string   `json:"size"`
	OuterDiameter float64  `json:"outer_diameter"`
	Schedules     []string `json:"schedules"`
}
