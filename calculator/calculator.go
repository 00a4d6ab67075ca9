package calculator

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"hydro/model"
	"hydro/pipe_spec"
)

// 元件符号约定
type SignConvention string

const (
	ByPolarity SignConvention = "polarity" // 由 gain/loss 标记决定符号
	ByValue    SignConvention = "value"    // 由数值本身的正负决定符号
)

func ParseSignConvention(s string) (SignConvention, error) {
	switch SignConvention(strings.ToLower(strings.TrimSpace(s))) {
	case ByPolarity:
		return ByPolarity, nil
	case ByValue:
		return ByValue, nil
	}
	return "", fmt.Errorf("unknown sign convention %q", s)
}

type Calculator struct {
	table      *pipe_spec.Table
	convention SignConvention
}

func NewCalculator(table *pipe_spec.Table, convention SignConvention) *Calculator {
	if table == nil {
		table = pipe_spec.Default()
	}
	if convention == "" {
		convention = ByPolarity
	}
	return &Calculator{
		table:      table,
		convention: convention,
	}
}

func (c *Calculator) Convention() SignConvention {
	return c.convention
}

func (c *Calculator) Table() *pipe_spec.Table {
	return c.table
}

// Parameters 从表单快照得到计算参数，内径优先查表
func (c *Calculator) Parameters(in model.Input) (FluidParameters, Boundary, error) {
	v := &ValidationError{}
	diameter := in.DiameterMm
	if in.NominalSize != "" || in.Schedule != "" {
		d, ok := c.table.InnerDiameter(in.NominalSize, in.Schedule)
		if !ok {
			v.addf("diameter", "has no table entry for NPS %q schedule %q", in.NominalSize, in.Schedule)
			v.Err = pipe_spec.ErrUnknownPipe
			return FluidParameters{}, Boundary{}, v
		}
		diameter = d
	}
	p := FluidParameters{
		Length:      in.Length,
		DiameterMm:  diameter,
		FlowRate:    in.FlowRate,
		Density:     in.Density,
		Viscosity:   in.Viscosity,
		RoughnessMm: in.RoughnessMm,
	}
	b := Boundary{
		Upstream: in.Upstream,
		Target:   in.Target,
	}
	v.validateFluid(p)
	v.validateBoundary(b)
	if err := v.orNil(); err != nil {
		return FluidParameters{}, Boundary{}, err
	}
	return p, b, nil
}

// Calculate 校验后计算；校验失败时不产生任何结果
func (c *Calculator) Calculate(in model.Input, comps []model.InlineComponent) (Result, error) {
	p, b, err := c.Parameters(in)
	if err != nil {
		return Result{}, err
	}
	v := &ValidationError{}
	v.validateComponents(comps, c.convention)
	if err := v.orNil(); err != nil {
		return Result{}, err
	}

	r := Evaluate(p, comps, b, c.convention)
	log.WithFields(log.Fields{
		"variant":    r.Variant,
		"velocity":   r.Velocity,
		"reynolds":   r.Reynolds,
		"f":          r.FrictionFactor,
		"dropBar":    r.PressureDropBar,
		"impact":     r.ComponentImpact,
		"components": len(comps),
	}).Debug("水力计算完成")
	return r, nil
}
