package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/xuri/excelize/v2"

	"hydro/calculator"
	"hydro/model"
	"hydro/report"
	"hydro/session"
	"hydro/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(":0", websocket.Upgrader{}, calculator.NewCalculator(nil, calculator.ByPolarity), st), st
}

func do(t *testing.T, s *Server, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func snapshotBody(t *testing.T, in model.Input, comps ...model.InlineComponent) []byte {
	t.Helper()
	b, err := json.Marshal(model.Snapshot{Input: in, Components: comps})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestCalcHandler(t *testing.T) {
	s, _ := newTestServer(t)
	in := session.DefaultInput()
	up, target := 15.0, 3.0
	in.Upstream, in.Target = &up, &target
	pump := model.InlineComponent{Type: model.Pump, Effect: model.Gain, Value: 2, Unit: model.Bar}

	rec := do(t, s, "POST", "/api/calc", snapshotBody(t, in, pump), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rec.Code, rec.Body)
	}
	var rep report.Report
	if err := json.NewDecoder(rec.Body).Decode(&rep); err != nil {
		t.Fatal(err)
	}
	if rep.Result.Variant != calculator.VariantTarget || rep.Result.Pass == nil {
		t.Errorf("result: %+v", rep.Result)
	}
	if rep.Result.ComponentImpact != 2 {
		t.Errorf("ComponentImpact: got %v", rep.Result.ComponentImpact)
	}
}

func TestCalcHandler_Invalid(t *testing.T) {
	s, _ := newTestServer(t)
	in := session.DefaultInput()
	in.NominalSize = "7"

	rec := do(t, s, "POST", "/api/calc", snapshotBody(t, in), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Problems) != 1 || body.Problems[0].Field != "diameter" {
		t.Errorf("problems: %+v", body.Problems)
	}

	if rec := do(t, s, "POST", "/api/calc", []byte("nope"), ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad payload status: %d", rec.Code)
	}
	if rec := do(t, s, "GET", "/api/calc", nil, ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/calc status: %d", rec.Code)
	}
}

func TestReportHandlers(t *testing.T) {
	s, _ := newTestServer(t)
	body := snapshotBody(t, session.DefaultInput())

	rec := do(t, s, "POST", "/api/report/pdf?title=Line+7", body, "application/json")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("pdf: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("pdf: body is not a PDF")
	}

	rec = do(t, s, "POST", "/api/report/xlsx", body, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx: %d", rec.Code)
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(report.ResultSheet, "A3"); v != "Velocity" {
		t.Errorf("xlsx A3: got %q", v)
	}
}

func TestImportHandler(t *testing.T) {
	s, _ := newTestServer(t)

	x := excelize.NewFile()
	sheet := x.GetSheetName(0)
	rows := [][]interface{}{
		{"type", "name", "effect", "value", "unit"},
		{"vessel", "T-1", "loss", 1.5, "m"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var file bytes.Buffer
	if err := x.Write(&file); err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "components.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(file.Bytes())
	mw.Close()

	rec := do(t, s, "POST", "/api/components/import", body.Bytes(), mw.FormDataContentType())
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d %s", rec.Code, rec.Body)
	}
	var comps []model.InlineComponent
	if err := json.NewDecoder(rec.Body).Decode(&comps); err != nil {
		t.Fatal(err)
	}
	if len(comps) != 1 || comps[0].Type != model.Vessel || comps[0].Value != 1.5 {
		t.Errorf("imported: %+v", comps)
	}

	if rec := do(t, s, "POST", "/api/components/import", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing file status: %d", rec.Code)
	}
}

func TestPipesAndSessions(t *testing.T) {
	s, st := newTestServer(t)

	rec := do(t, s, "GET", "/api/pipes", nil, "")
	var sizes []model.PipeSize
	if err := json.NewDecoder(rec.Body).Decode(&sizes); err != nil {
		t.Fatal(err)
	}
	if len(sizes) == 0 || sizes[0].Size != "1/2" || len(sizes[0].Schedules) != 4 {
		t.Errorf("pipes: %+v", sizes)
	}

	if rec := do(t, s, "GET", "/api/sessions/abc", nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing session status: %d", rec.Code)
	}
	if err := st.Save("abc", model.Snapshot{Input: session.DefaultInput()}); err != nil {
		t.Fatal(err)
	}
	if rec := do(t, s, "GET", "/api/sessions/abc", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("session status: %d", rec.Code)
	}
	if rec := do(t, s, "DELETE", "/api/sessions/abc", nil, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status: %d", rec.Code)
	}
	if _, ok := st.Load("abc"); ok {
		t.Error("session should be cleared")
	}
}
