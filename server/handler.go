package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"hydro/calculator"
	"hydro/model"
	"hydro/report"
	"hydro/store"
)

// Handler REST 接口，请求体为完整的会话快照
type Handler struct {
	calc  *calculator.Calculator
	store *store.Store
}

type errorBody struct {
	Error    string                  `json:"error"`
	Problems []calculator.FieldError `json:"problems,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithField("err", err).Error("写入响应失败")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := errorBody{Error: err.Error()}
	var verr *calculator.ValidationError
	if errors.As(err, &verr) {
		body.Problems = verr.Problems
	}
	writeJSON(w, status, body)
}

func (h *Handler) buildReport(w http.ResponseWriter, r *http.Request) (report.Report, bool) {
	var snap model.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return report.Report{}, false
	}
	res, err := h.calc.Calculate(snap.Input, snap.Components)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return report.Report{}, false
	}
	return report.NewReport(snap.Input, snap.Components, res, h.calc.Convention()), true
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.NewPDFPresenter(&buf, r.URL.Query().Get("title")).Present(rep); err != nil {
		log.WithField("err", err).Error("生成 PDF 失败")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"hydraulic-report.pdf\"")
	w.Write(buf.Bytes())
}

func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.buildReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.NewXLSXPresenter(&buf).Present(rep); err != nil {
		log.WithField("err", err).Error("生成 xlsx 失败")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"hydraulic-report.xlsx\"")
	w.Write(buf.Bytes())
}

func (h *Handler) ImportComponents(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	comps, err := report.ImportComponents(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, comps)
}

func (h *Handler) Pipes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pipeSizes(h.calc))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	snap, ok := h.store.Load(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
