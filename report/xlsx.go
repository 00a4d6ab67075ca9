package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"hydro/model"
)

const (
	ResultSheet    = "Result"
	StageSheet     = "Stages"
	ComponentSheet = "Components"
)

type XLSXPresenter struct {
	w io.Writer
}

func NewXLSXPresenter(w io.Writer) *XLSXPresenter {
	return &XLSXPresenter{w: w}
}

func (p *XLSXPresenter) Present(r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultSheet); err != nil {
		return err
	}
	res := r.Result
	rows := [][]interface{}{
		{"Quantity", "Value", "Unit"},
		{"Variant", string(res.Variant), ""},
		{"Velocity", res.Velocity, "m/s"},
		{"Reynolds number", res.Reynolds, ""},
		{"Regime", string(res.Regime), ""},
		{"Friction factor", res.FrictionFactor, ""},
		{"Pressure drop", res.PressureDropPa, "Pa"},
		{"Pressure drop", res.PressureDropBar, "bar"},
		{"Component impact", res.ComponentImpact, "bar"},
		{"Net pressure drop", res.NetDrop, "bar"},
	}
	if res.Upstream != nil && res.Downstream != nil {
		rows = append(rows,
			[]interface{}{"Upstream pressure", *res.Upstream, "bar"},
			[]interface{}{"Downstream pressure", *res.Downstream, "bar"})
	}
	if res.Target != nil && res.Margin != nil && res.Pass != nil {
		verdict := "FAIL"
		if *res.Pass {
			verdict = "PASS"
		}
		rows = append(rows,
			[]interface{}{"Target pressure", *res.Target, "bar"},
			[]interface{}{"Margin", *res.Margin, "bar"},
			[]interface{}{"Target check", verdict, ""})
	}
	if err := writeRows(f, ResultSheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(StageSheet); err != nil {
		return err
	}
	stageRows := [][]interface{}{{"#", "Stage", "Type", "Contribution (bar)", "Pressure (bar)"}}
	for _, s := range r.Stages {
		stageRows = append(stageRows, []interface{}{s.Index, s.Name, string(s.Type), s.Contribution, s.Pressure})
	}
	if err := writeRows(f, StageSheet, stageRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(ComponentSheet); err != nil {
		return err
	}
	compRows := [][]interface{}{{"Type", "Name", "Effect", "Value", "Unit"}}
	for _, c := range r.Components {
		compRows = append(compRows, []interface{}{string(c.Type), c.Name, string(c.Effect), c.Value, string(c.Unit)})
	}
	if err := writeRows(f, ComponentSheet, compRows); err != nil {
		return err
	}

	return f.Write(p.w)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// ImportComponents 从第一个工作表读取元件列表，表头为 type, name, effect, value, unit。
// 不合法的行跳过。
func ImportComponents(r io.Reader) ([]model.InlineComponent, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no component rows", sheet)
	}

	var comps []model.InlineComponent
	for i := 1; i < len(rows); i++ {
		c, err := parseComponentRow(rows[i])
		if err != nil {
			log.WithFields(log.Fields{"row": i + 1, "err": err}).Warn("跳过元件行")
			continue
		}
		comps = append(comps, c)
	}
	return comps, nil
}

// 单位不区分大小写
func parseUnit(s string) model.Unit {
	s = strings.TrimSpace(s)
	for _, u := range []model.Unit{model.Bar, model.KPa, model.Head} {
		if strings.EqualFold(s, string(u)) {
			return u
		}
	}
	return model.Unit(s)
}

func parseComponentRow(row []string) (model.InlineComponent, error) {
	if len(row) < 5 {
		return model.InlineComponent{}, fmt.Errorf("bad row")
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return model.InlineComponent{}, err
	}
	c := model.InlineComponent{
		Type:   model.ComponentType(strings.ToLower(strings.TrimSpace(row[0]))),
		Name:   strings.TrimSpace(row[1]),
		Effect: model.Effect(strings.ToLower(strings.TrimSpace(row[2]))),
		Value:  value,
		Unit:   parseUnit(row[4]),
	}
	if err := (model.Snapshot{Components: []model.InlineComponent{c}}).Check(); err != nil {
		return model.InlineComponent{}, err
	}
	return c, nil
}
