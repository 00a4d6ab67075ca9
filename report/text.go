package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

type TextPresenter struct {
	w io.Writer
}

func NewTextPresenter(w io.Writer) *TextPresenter {
	return &TextPresenter{w: w}
}

// FormatNumber 最多保留 digits 位小数并去掉末尾的 0，整数部分千分位分隔
func FormatNumber(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', digits, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	if neg && strings.Trim(s, "0.") != "" {
		b.WriteByte('-')
	}
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	b.WriteString(frac)
	return b.String()
}

func withUnit(v float64, unit string) string {
	return FormatNumber(v, 3) + " " + unit
}

// Lines 报告正文，各展示格式共用
func Lines(r Report) []string {
	res := r.Result
	lines := []string{
		"Velocity: " + withUnit(res.Velocity, "m/s"),
		"Reynolds number: " + FormatNumber(res.Reynolds, 0),
		"Friction factor: " + strconv.FormatFloat(res.FrictionFactor, 'f', 5, 64),
		fmt.Sprintf("Pressure drop: %s Pa (%s bar)",
			strconv.FormatFloat(res.PressureDropPa, 'f', 1, 64),
			strconv.FormatFloat(res.PressureDropBar, 'f', 4, 64)),
		"Component impact: " + withUnit(res.ComponentImpact, "bar"),
		"Net pressure drop: " + withUnit(res.NetDrop, "bar"),
	}
	if res.Downstream != nil {
		lines = append(lines, "Downstream pressure: "+withUnit(*res.Downstream, "bar"))
	}
	if res.Margin != nil && res.Pass != nil {
		verdict := "FAIL"
		if *res.Pass {
			verdict = "PASS"
		}
		lines = append(lines, fmt.Sprintf("Target check: %s (margin %s)", verdict, withUnit(*res.Margin, "bar")))
	}
	lines = append(lines, fmt.Sprintf("Flow identified as %s.", res.Regime.Describe()))
	return lines
}

func (p *TextPresenter) Present(r Report) error {
	for _, l := range Lines(r) {
		if _, err := fmt.Fprintln(p.w, l); err != nil {
			return err
		}
	}
	if len(r.Stages) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(p.w, "Stages:"); err != nil {
		return err
	}
	for _, s := range r.Stages {
		_, err := fmt.Fprintf(p.w, "  %2d %-20s %10s bar  -> %s bar\n",
			s.Index, s.Name, FormatNumber(s.Contribution, 3), FormatNumber(s.Pressure, 3))
		if err != nil {
			return err
		}
	}
	return nil
}
