package calculator

import (
	"math"
	"sort"

	"hydro/model"
)

const (
	PaPerBar  = 100000.0
	KPaPerBar = 100.0
	Gravity   = 9.80665
)

// 计算结果，构造后不再修改，输入变化时整体重算
type Result struct {
	Variant         Variant  `json:"variant"`
	Velocity        float64  `json:"velocity"` // m/s
	Reynolds        float64  `json:"reynolds"`
	Regime          Regime   `json:"regime"`
	FrictionFactor  float64  `json:"friction_factor"`
	PressureDropPa  float64  `json:"pressure_drop_pa"` // 沿程损失
	PressureDropBar float64  `json:"pressure_drop_bar"`
	ComponentImpact float64  `json:"component_impact"` // 元件总作用 bar，增压为正
	NetDrop         float64  `json:"net_drop"`         // bar
	Upstream        *float64 `json:"upstream,omitempty"`
	Downstream      *float64 `json:"downstream,omitempty"`
	Target          *float64 `json:"target,omitempty"`
	Margin          *float64 `json:"margin,omitempty"`
	Pass            *bool    `json:"pass,omitempty"`
}

// ToBar 把元件数值换算为 bar，不带符号处理
func ToBar(value float64, unit model.Unit, density float64) float64 {
	switch unit {
	case model.Bar:
		return value
	case model.KPa:
		return value / KPaPerBar
	case model.Head:
		return density * Gravity * value / PaPerBar
	}
	return math.NaN()
}

// ComponentImpact 单个元件对压力的贡献 bar，增压为正
func ComponentImpact(c model.InlineComponent, density float64, conv SignConvention) float64 {
	v := ToBar(c.Value, c.Unit, density)
	if conv == ByValue {
		return v
	}
	if c.Effect == model.Gain {
		return math.Abs(v)
	}
	return -math.Abs(v)
}

// SumImpacts 排序后再累加，交换元件顺序得到的总和逐位相同
func SumImpacts(comps []model.InlineComponent, density float64, conv SignConvention) float64 {
	impacts := make([]float64, len(comps))
	for i, c := range comps {
		impacts[i] = ComponentImpact(c, density, conv)
	}
	sort.Float64s(impacts)
	sum := 0.0
	for _, v := range impacts {
		sum += v
	}
	return sum
}

// Evaluate 纯函数：不校验输入，调用方须先通过 Validate
func Evaluate(p FluidParameters, comps []model.InlineComponent, b Boundary, conv SignConvention) Result {
	// 1. 单位换算 mm -> m，截面积
	d := p.DiameterMm / 1000
	roughness := p.RoughnessMm / 1000
	area := math.Pi * d * d / 4
	// 2. 流量 m3/h -> m3/s，流速
	velocity := p.FlowRate / 3600 / area
	// 3. 雷诺数
	reynolds := p.Density * velocity * d / p.Viscosity
	// 4. 相对粗糙度
	relativeRoughness := roughness / d
	// 5. 摩擦系数
	f := FrictionFactor(reynolds, relativeRoughness)
	// 6. Darcy-Weisbach 沿程损失
	dropPa := f * (p.Length / d) * (p.Density * velocity * velocity / 2)
	dropBar := dropPa / PaPerBar
	// 7. 元件作用求和，与元件顺序无关
	impact := SumImpacts(comps, p.Density, conv)
	// 8. 净压降
	net := dropBar - impact

	r := Result{
		Variant:         b.Variant(),
		Velocity:        velocity,
		Reynolds:        reynolds,
		Regime:          RegimeOf(reynolds),
		FrictionFactor:  f,
		PressureDropPa:  dropPa,
		PressureDropBar: dropBar,
		ComponentImpact: impact,
		NetDrop:         net,
	}
	// 9. 下游压力
	if b.Upstream != nil {
		up := *b.Upstream
		down := up - net
		r.Upstream = &up
		r.Downstream = &down
		// 10. 目标压力校核
		if b.Target != nil {
			target := *b.Target
			margin, pass := CheckTarget(down, target)
			r.Target = &target
			r.Margin = &margin
			r.Pass = &pass
		}
	}
	return r
}

// CheckTarget 余量非负为 PASS
func CheckTarget(downstream, target float64) (float64, bool) {
	margin := downstream - target
	return margin, margin >= 0
}
