package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

type PDFPresenter struct {
	w     io.Writer
	Title string
	now   func() time.Time
}

func NewPDFPresenter(w io.Writer, title string) *PDFPresenter {
	if title == "" {
		title = "Hydraulic Calculation Report"
	}
	return &PDFPresenter{w: w, Title: title, now: time.Now}
}

func (p *PDFPresenter) Present(r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, p.Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", p.now().Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Sign convention: %s", r.Convention))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Input")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	in := r.Input
	inputs := []string{
		fmt.Sprintf("Pipe length: %s m", FormatNumber(in.Length, 3)),
		fmt.Sprintf("Flow rate: %s m3/h", FormatNumber(in.FlowRate, 3)),
		fmt.Sprintf("Density: %s kg/m3", FormatNumber(in.Density, 3)),
		fmt.Sprintf("Viscosity: %g Pa.s", in.Viscosity),
		fmt.Sprintf("Roughness: %s mm", FormatNumber(in.RoughnessMm, 4)),
	}
	if in.NominalSize != "" {
		inputs = append(inputs, fmt.Sprintf("Pipe: NPS %s schedule %s", in.NominalSize, in.Schedule))
	} else {
		inputs = append(inputs, fmt.Sprintf("Inner diameter: %s mm", FormatNumber(in.DiameterMm, 3)))
	}
	for _, l := range inputs {
		pdf.Cell(0, 6, l)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Result")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, l := range Lines(r) {
		pdf.MultiCell(0, 6, l, "", "L", false)
	}
	pdf.Ln(4)

	if len(r.Stages) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Stages")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 10)
		widths := []float64{15, 75, 45, 45}
		for i, h := range []string{"#", "Stage", "Contribution (bar)", "Pressure (bar)"} {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		for _, s := range r.Stages {
			pdf.CellFormat(widths[0], 6, fmt.Sprint(s.Index), "1", 0, "C", false, 0, "")
			pdf.CellFormat(widths[1], 6, s.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 6, FormatNumber(s.Contribution, 3), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 6, FormatNumber(s.Pressure, 3), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	return pdf.Output(p.w)
}
