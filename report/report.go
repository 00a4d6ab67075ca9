package report

import (
	"hydro/calculator"
	"hydro/model"
)

// Presenter 结果展示，计算核心不关心具体格式
type Presenter interface {
	Present(r Report) error
}

// Stage 流程图中的一段：每个元件一段，最后是管路沿程损失
type Stage struct {
	Index        int                 `json:"index"`
	Name         string              `json:"name"`
	Type         model.ComponentType `json:"type,omitempty"`
	Contribution float64             `json:"contribution"` // bar，增压为正
	Pressure     float64             `json:"pressure"`     // 该段之后的压力 bar
}

const (
	InletStage = "inlet"
	PipeStage  = "pipe friction"
)

type Report struct {
	Input      model.Input               `json:"input"`
	Components []model.InlineComponent   `json:"components"`
	Result     calculator.Result         `json:"result"`
	Convention calculator.SignConvention `json:"convention"`
	Stages     []Stage                   `json:"stages"`
}

func NewReport(in model.Input, comps []model.InlineComponent, res calculator.Result, conv calculator.SignConvention) Report {
	return Report{
		Input:      in,
		Components: comps,
		Result:     res,
		Convention: conv,
		Stages:     Stages(comps, res, in.Density, conv),
	}
}

// Stages 按元件顺序排布各段压力。没有上游压力时从 0 开始，表示相对变化。
// 最后一段的压力等于下游压力，中间各段随元件顺序变化。
func Stages(comps []model.InlineComponent, res calculator.Result, density float64, conv calculator.SignConvention) []Stage {
	start := 0.0
	if res.Upstream != nil {
		start = *res.Upstream
	}
	stages := make([]Stage, 0, len(comps)+2)
	stages = append(stages, Stage{Name: InletStage, Pressure: start})

	p := start
	for i, c := range comps {
		impact := calculator.ComponentImpact(c, density, conv)
		p += impact
		name := c.Name
		if name == "" {
			name = string(c.Type)
		}
		stages = append(stages, Stage{
			Index:        i + 1,
			Name:         name,
			Type:         c.Type,
			Contribution: impact,
			Pressure:     p,
		})
	}

	stages = append(stages, Stage{
		Index:        len(comps) + 1,
		Name:         PipeStage,
		Contribution: -res.PressureDropBar,
		Pressure:     start - res.NetDrop,
	})
	return stages
}
