package calculator

import (
	"fmt"

	"hydro/model"
)

// 计算参数，全部为有限正数
type FluidParameters struct {
	Length      float64 // 管长 m
	DiameterMm  float64 // 内径 mm
	FlowRate    float64 // 流量 m3/h
	Density     float64 // 密度 kg/m3
	Viscosity   float64 // 动力黏度 Pa·s
	RoughnessMm float64 // 绝对粗糙度 mm
}

// 边界压力，单位 bar；为 nil 表示未提供
type Boundary struct {
	Upstream *float64
	Target   *float64
}

type Variant string

const (
	VariantBasic    Variant = "basic"    // 只计算沿程损失
	VariantBoundary Variant = "boundary" // 上游压力 -> 下游压力
	VariantTarget   Variant = "target"   // 另外校核下游目标压力
)

func (b Boundary) Variant() Variant {
	switch {
	case b.Upstream == nil:
		return VariantBasic
	case b.Target == nil:
		return VariantBoundary
	}
	return VariantTarget
}

func Validate(p FluidParameters) error {
	v := &ValidationError{}
	v.validateFluid(p)
	return v.orNil()
}

func (e *ValidationError) validateFluid(p FluidParameters) {
	e.checkPositive("length", p.Length)
	e.checkPositive("diameter", p.DiameterMm)
	e.checkPositive("flow_rate", p.FlowRate)
	e.checkPositive("density", p.Density)
	e.checkPositive("viscosity", p.Viscosity)
	e.checkPositive("roughness", p.RoughnessMm)
}

func (e *ValidationError) validateBoundary(b Boundary) {
	if b.Target != nil && b.Upstream == nil {
		e.add("target", "requires an upstream pressure")
	}
	// 表压可以为 0 或负值
	if b.Upstream != nil {
		e.checkFinite("upstream", *b.Upstream)
	}
	if b.Target != nil {
		e.checkFinite("target", *b.Target)
	}
}

func (e *ValidationError) validateComponents(comps []model.InlineComponent, conv SignConvention) {
	for i, c := range comps {
		field := fmt.Sprintf("components[%d]", i)
		if !c.Type.Valid() {
			e.addf(field, "has unknown type %q", c.Type)
		}
		if !c.Unit.Valid() {
			e.addf(field, "has unknown unit %q", c.Unit)
		}
		if conv == ByPolarity && !c.Effect.Valid() {
			e.addf(field, "needs effect gain or loss, got %q", c.Effect)
		}
		e.checkFinite(field, c.Value)
	}
}
