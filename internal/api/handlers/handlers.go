package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dvloznov/notionplus/internal/api/middleware"
	"github.com/dvloznov/notionplus/internal/logger"
	"github.com/dvloznov/notionplus/internal/model"
	"github.com/dvloznov/notionplus/internal/property"
	"github.com/dvloznov/notionplus/internal/schema"
	"github.com/jomei/notionapi"
)

// Records is the model surface the handlers use.
type Records interface {
	Schema() *schema.Schema
	Find(ctx context.Context, q model.Query) (*model.Result, error)
	Get(ctx context.Context, id string, opts ...model.CallOption) (model.Record, error)
	Create(ctx context.Context, fields model.Fields, opts ...model.CallOption) (model.Record, error)
	Update(ctx context.Context, id string, fields model.Fields, opts ...model.CallOption) (model.Record, error)
	Archive(ctx context.Context, id string) error
}

var _ Records = (*model.Model)(nil)

// RecordsHandler handles record endpoints for one collection.
type RecordsHandler struct {
	records Records
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(records Records) *RecordsHandler {
	return &RecordsHandler{records: records}
}

// ListRecords handles GET /api/records
func (h *RecordsHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.records.Find(r.Context(), q)
	if err != nil {
		h.writeModelError(w, r, err, "Failed to query records")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, res)
}

// GetRecord handles GET /api/records/:id
func (h *RecordsHandler) GetRecord(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.records.Get(r.Context(), id, h.callOptions(r)...)
	if err != nil {
		h.writeModelError(w, r, err, "Failed to get record")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, rec)
}

// CreateRecord handles POST /api/records
func (h *RecordsHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	fields, err := h.decodeFields(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.records.Create(r.Context(), fields, h.callOptions(r)...)
	if err != nil {
		h.writeModelError(w, r, err, "Failed to create record")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, rec)
}

// UpdateRecord handles PATCH /api/records/:id
// A partial update answers 207 with the record and the fields that failed.
func (h *RecordsHandler) UpdateRecord(w http.ResponseWriter, r *http.Request, id string) {
	fields, err := h.decodeFields(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := h.callOptions(r)
	if r.URL.Query().Get("all_or_nothing") == "true" {
		opts = append(opts, model.AllOrNothing())
	}

	rec, err := h.records.Update(r.Context(), id, fields, opts...)

	var partial *model.PartialError
	if errors.As(err, &partial) {
		failed := make([]fieldErrorJSON, 0, len(partial.Failed))
		for _, fe := range partial.Failed {
			failed = append(failed, fieldErrorJSON{Field: fe.Field, Kind: string(fe.Kind), Error: fe.Err.Error()})
		}
		middleware.WriteJSON(w, http.StatusMultiStatus, map[string]interface{}{
			"record":  rec,
			"applied": partial.Applied,
			"errors":  failed,
		})
		return
	}
	if err != nil {
		h.writeModelError(w, r, err, "Failed to update record")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, rec)
}

// ArchiveRecord handles DELETE /api/records/:id
func (h *RecordsHandler) ArchiveRecord(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.records.Archive(r.Context(), id); err != nil {
		h.writeModelError(w, r, err, "Failed to archive record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Schema handles GET /api/schema
func (h *RecordsHandler) Schema(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.records.Schema().Map())
}

type fieldErrorJSON struct {
	Field string `json:"field"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

func (h *RecordsHandler) callOptions(r *http.Request) []model.CallOption {
	if r.URL.Query().Get("metadata") == "true" {
		return []model.CallOption{model.WithMetadata()}
	}
	return nil
}

// parseQuery reads page_size, cursor, metadata and sort. sort is a comma
// separated list of field names; a leading "-" sorts descending.
func (h *RecordsHandler) parseQuery(r *http.Request) (model.Query, error) {
	params := r.URL.Query()
	q := model.Query{
		StartCursor: params.Get("cursor"),
		Metadata:    params.Get("metadata") == "true",
	}

	if ps := params.Get("page_size"); ps != "" {
		n, err := strconv.Atoi(ps)
		if err != nil || n < 0 {
			return q, fmt.Errorf("invalid page_size %q", ps)
		}
		q.PageSize = n
	}

	if s := params.Get("sort"); s != "" {
		for _, field := range strings.Split(s, ",") {
			dir := model.Ascending
			if strings.HasPrefix(field, "-") {
				dir = model.Descending
				field = field[1:]
			}
			q.Sorts = append(q.Sorts, model.SortBy(field, dir))
		}
	}

	return q, nil
}

func (h *RecordsHandler) decodeFields(r *http.Request) (model.Fields, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("Invalid request body")
	}

	fields, err := model.ParseFields(h.records.Schema(), body)
	switch {
	case errors.Is(err, model.ErrNoFields):
		return nil, errors.New("No fields to write")
	case errors.Is(err, property.ErrInvalidValue):
		return nil, err
	case err != nil:
		return nil, errors.New("Invalid request body")
	}
	return fields, nil
}

func (h *RecordsHandler) writeModelError(w http.ResponseWriter, r *http.Request, err error, message string) {
	log := logger.FromContext(r.Context())

	switch {
	case errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrReservedField),
		errors.Is(err, model.ErrInvalidID),
		errors.Is(err, property.ErrInvalidValue),
		errors.Is(err, property.ErrReadOnlyKind):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case isNotFound(err):
		middleware.WriteError(w, http.StatusNotFound, "Record not found")
	default:
		log.Error().Err(err).Msg(message)
		middleware.WriteError(w, http.StatusInternalServerError, message)
	}
}

func isNotFound(err error) bool {
	var nerr *notionapi.Error
	if errors.As(err, &nerr) {
		return nerr.Status == http.StatusNotFound
	}
	return false
}
