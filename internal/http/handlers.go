package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tripledger/internal/core"
	applog "tripledger/internal/log"
	"tripledger/internal/storage"
)

// API view types. Amounts render as decimal strings so clients never see
// float rounding.
type (
	syncRequest struct {
		Year  string `json:"year"`
		Month string `json:"month,omitempty"`
		Async bool   `json:"async,omitempty"`
	}

	syncResponse struct {
		Success bool             `json:"success"`
		Message string           `json:"message,omitempty"`
		Report  *core.SyncReport `json:"report,omitempty"`
	}

	purchaseView struct {
		ID          string  `json:"id"`
		Date        string  `json:"date"`
		Amount      string  `json:"amount"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
		Comment     *string `json:"comment,omitempty"`
		TripID      *string `json:"trip_id,omitempty"`
	}

	tripView struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		StartDate string  `json:"start_date"`
		EndDate   string  `json:"end_date"`
		Comment   *string `json:"comment,omitempty"`
	}

	totalView struct {
		ID       string  `json:"id"`
		Date     string  `json:"date"`
		Type     string  `json:"type"`
		Amount   string  `json:"amount"`
		Progress string  `json:"progress"`
		Budgeted string  `json:"budgeted"`
		TripID   *string `json:"trip_id,omitempty"`
	}

	listResponse[T any] struct {
		Items []T `json:"items"`
		Count int `json:"count"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.Year = strings.TrimSpace(req.Year)
	req.Month = strings.TrimSpace(req.Month)
	if req.Year == "" {
		writeError(w, http.StatusBadRequest, "year is required")
		return
	}

	if req.Async {
		if s.queue == nil {
			writeError(w, http.StatusServiceUnavailable, "async sync unavailable: no message queue configured")
			return
		}
		if err := s.queue.PublishSyncRequest(r.Context(), req.Year, req.Month); err != nil {
			fields := applog.NewFields().
				WithOperation(applog.OpSync).
				WithWindow(req.Year, req.Month).
				WithError(err)
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Enqueue sync request failed", fields.ToSlice()...)
			writeError(w, http.StatusServiceUnavailable, "enqueue sync request: "+err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, syncResponse{Success: true, Message: "sync request queued"})
		return
	}

	report, err := s.runner.Sync(r.Context(), req.Year, req.Month)
	if err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpSync).
			WithWindow(req.Year, req.Month).
			WithError(err)
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Sync failed", fields.ToSlice()...)
		writeJSON(w, http.StatusInternalServerError, syncResponse{Success: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Success: true, Report: &report})
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	filter := storage.PurchaseFilter{
		Categories:   q["category"],
		Descriptions: q["description"],
	}
	var err error
	if filter.StartDate, err = dateParam(q.Get("start_date")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date: expected YYYY-MM-DD")
		return
	}
	if filter.EndDate, err = dateParam(q.Get("end_date")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date: expected YYYY-MM-DD")
		return
	}
	if trip := strings.TrimSpace(q.Get("trip_id")); trip != "" {
		filter.TripID = &trip
	}

	purchases, err := s.store.ListPurchases(r.Context(), filter)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List purchases failed", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "list purchases")
		return
	}

	items := make([]purchaseView, 0, len(purchases))
	for _, p := range purchases {
		items = append(items, purchaseView{
			ID:          p.ID,
			Date:        p.Date.String(),
			Amount:      p.Amount.String(),
			Category:    p.Category,
			Description: p.Description,
			Comment:     p.Comment,
			TripID:      p.TripID,
		})
	}
	writeJSON(w, http.StatusOK, listResponse[purchaseView]{Items: items, Count: len(items)})
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	filter := storage.TripFilter{Names: q["name"]}
	var err error
	if filter.StartDate, err = dateParam(q.Get("start_date")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date: expected YYYY-MM-DD")
		return
	}
	if filter.EndDate, err = dateParam(q.Get("end_date")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date: expected YYYY-MM-DD")
		return
	}

	trips, err := s.store.ListTrips(r.Context(), filter)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List trips failed", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "list trips")
		return
	}

	items := make([]tripView, 0, len(trips))
	for _, t := range trips {
		items = append(items, tripView{
			ID:        t.ID,
			Name:      t.Name,
			StartDate: t.StartDate.String(),
			EndDate:   t.EndDate.String(),
			Comment:   t.Comment,
		})
	}
	writeJSON(w, http.StatusOK, listResponse[tripView]{Items: items, Count: len(items)})
}

func (s *Server) handleListTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	totals, err := s.store.ListTotals(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List totals failed", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "list totals")
		return
	}

	items := make([]totalView, 0, len(totals))
	for _, t := range totals {
		items = append(items, totalView{
			ID:       t.ID,
			Date:     t.Date.String(),
			Type:     t.Type,
			Amount:   t.Amount.String(),
			Progress: t.Progress.String(),
			Budgeted: t.Budgeted.String(),
			TripID:   t.TripID,
		})
	}
	writeJSON(w, http.StatusOK, listResponse[totalView]{Items: items, Count: len(items)})
}

// dateParam parses an optional YYYY-MM-DD query parameter.
func dateParam(value string) (*core.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	d := core.Date{Time: t}
	return &d, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
