package calculator

import "math"

// 层流/湍流分界雷诺数，硬分界，不做过渡区插值
const CriticalReynolds = 2300.0

type Regime string

const (
	Laminar   Regime = "laminar"
	Turbulent Regime = "turbulent"
)

func RegimeOf(re float64) Regime {
	if re < CriticalReynolds {
		return Laminar
	}
	return Turbulent
}

func (r Regime) Describe() string {
	if r == Laminar {
		return "laminar regime (f = 64/Re)"
	}
	return "turbulent regime (Swamee-Jain approximation)"
}

// FrictionFactor 返回 Darcy 摩擦系数。
// 层流 f = 64/Re；湍流采用 Swamee-Jain 显式近似。
// re 必须为正，由上游校验保证。
func FrictionFactor(re, relativeRoughness float64) float64 {
	if re < CriticalReynolds {
		return 64 / re
	}
	return SwameeJain(re, relativeRoughness)
}

func SwameeJain(re, relativeRoughness float64) float64 {
	l := math.Log10(relativeRoughness/3.7 + 5.74/math.Pow(re, 0.9))
	return 0.25 / (l * l)
}
