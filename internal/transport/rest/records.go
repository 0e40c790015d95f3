package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/zinote-backend/internal/domain"
	"github.com/heartmarshall/zinote-backend/internal/service/dictionary"
)

type dictionaryService interface {
	Get(ctx context.Context, collection, id string) (*domain.Record, error)
	Paginate(ctx context.Context, collection string, pageSize int, cursor string) (*dictionary.Page, error)
	Search(ctx context.Context, collection, query string) ([]domain.Record, error)
	Suggest(ctx context.Context, collection, prefix string, limit int) ([]domain.Record, error)
	Add(ctx context.Context, collection string, rec domain.Record) (*domain.Record, error)
	Update(ctx context.Context, collection, id string, content domain.Record) (*domain.Record, error)
	Delete(ctx context.Context, collection, id string) error
	BatchAdd(ctx context.Context, collection string, recs []domain.Record) (dictionary.BatchResult, error)
	Invalidate(ctx context.Context, collection string) error
}

// RecordHandler serves dictionary record endpoints.
type RecordHandler struct {
	svc             dictionaryService
	defaultPageSize int
	suggestLimit    int
	log             *slog.Logger
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(svc dictionaryService, defaultPageSize, suggestLimit int, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		svc:             svc,
		defaultPageSize: defaultPageSize,
		suggestLimit:    suggestLimit,
		log:             logger.With("handler", "records"),
	}
}

type recordRequest struct {
	ID           string `json:"id"`
	SourceTerm   string `json:"sourceTerm"`
	TargetTerm   string `json:"targetTerm"`
	Definition   string `json:"definition"`
	Domain       string `json:"domain"`
	Subdomain    string `json:"subdomain"`
	Notes        string `json:"notes"`
	ExampleOfUse string `json:"exampleOfUse"`
	Forbidden    bool   `json:"forbidden"`
}

func (req recordRequest) toRecord() domain.Record {
	return domain.Record{
		ID:           req.ID,
		SourceTerm:   req.SourceTerm,
		TargetTerm:   req.TargetTerm,
		Definition:   req.Definition,
		Domain:       req.Domain,
		Subdomain:    req.Subdomain,
		Notes:        req.Notes,
		ExampleOfUse: req.ExampleOfUse,
		Forbidden:    req.Forbidden,
	}
}

type batchRequest struct {
	Records []recordRequest `json:"records"`
}

type pageResponse struct {
	Records    []domain.Record `json:"records"`
	NextCursor *string         `json:"nextCursor"`
}

type recordsResponse struct {
	Records []domain.Record `json:"records"`
}

type batchResponse struct {
	Written int `json:"written"`
	Chunks  int `json:"chunks"`
}

// List handles GET /records?limit=&cursor=.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.defaultPageSize)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := h.svc.Paginate(r.Context(), collectionParam(r), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, pageResponse{Records: page.Records, NextCursor: page.NextCursor})
}

// Search handles GET /records/search?q=.
func (h *RecordHandler) Search(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.Search(r.Context(), collectionParam(r), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Records: recs})
}

// Suggest handles GET /records/suggest?prefix=&limit=.
func (h *RecordHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.suggestLimit)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	recs, err := h.svc.Suggest(r.Context(), collectionParam(r), r.URL.Query().Get("prefix"), limit)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Records: recs})
}

// Get handles GET /records/{id}. Soft-deleted records are still returned.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), collectionParam(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Create handles POST /records.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Add(r.Context(), collectionParam(r), req.toRecord())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// Update handles PUT /records/{id}.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Update(r.Context(), collectionParam(r), chi.URLParam(r, "id"), req.toRecord())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /records/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), collectionParam(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchCreate handles POST /records/batch.
func (h *RecordHandler) BatchCreate(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recs := make([]domain.Record, len(req.Records))
	for i, item := range req.Records {
		recs[i] = item.toRecord()
	}

	res, err := h.svc.BatchAdd(r.Context(), collectionParam(r), recs)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, batchResponse{Written: res.Written, Chunks: res.Chunks})
}

// Invalidate handles POST /invalidate: drops the collection's mirror.
func (h *RecordHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Invalidate(r.Context(), collectionParam(r)); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func collectionParam(r *http.Request) string {
	return chi.URLParam(r, "collection")
}
