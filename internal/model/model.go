// Package model binds a schema to one Notion database and exposes
// find/create/update/archive over decoded records.
package model

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dvloznov/notionplus/internal/collection"
	"github.com/dvloznov/notionplus/internal/logger"
	"github.com/dvloznov/notionplus/internal/property"
	"github.com/dvloznov/notionplus/internal/schema"
	"github.com/jomei/notionapi"
)

// Model is the CRUD facade for one database. It holds no mutable state and is
// safe for concurrent use.
type Model struct {
	svc          collection.Service
	collectionID string
	schema       *schema.Schema
}

// New binds s to the database collectionID. The service is shared, not owned.
func New(svc collection.Service, collectionID string, s *schema.Schema) (*Model, error) {
	if svc == nil {
		return nil, errors.New("model: nil collection service")
	}
	if s == nil {
		return nil, ErrNilSchema
	}
	id, err := NormalizeID(collectionID)
	if err != nil {
		return nil, err
	}
	return &Model{svc: svc, collectionID: id, schema: s}, nil
}

// CollectionID returns the normalized database id.
func (m *Model) CollectionID() string {
	return m.collectionID
}

// Schema returns the bound schema.
func (m *Model) Schema() *schema.Schema {
	return m.schema
}

// CallOption tunes a single Get, Create or Update call.
type CallOption func(*callOptions)

type callOptions struct {
	metadata     bool
	allOrNothing bool
}

// WithMetadata fills the reserved fields of the returned record.
func WithMetadata() CallOption {
	return func(o *callOptions) { o.metadata = true }
}

// AllOrNothing makes Update refuse to write anything when any field fails to encode.
func AllOrNothing() CallOption {
	return func(o *callOptions) { o.allOrNothing = true }
}

func applyOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Find runs one query against the database and decodes every result.
// Any property that fails to decode fails the whole call.
func (m *Model) Find(ctx context.Context, q Query) (*Result, error) {
	log := logger.FromContext(ctx)

	req, err := m.queryRequest(q)
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}

	resp, err := m.svc.QueryDatabase(ctx, m.collectionID, req)
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}

	if resp == nil || len(resp.Results) == 0 {
		log.Debug().Str("collection_id", m.collectionID).Msg("Query returned no pages")
		return &Result{Results: []Record{}}, nil
	}

	results := make([]Record, 0, len(resp.Results))
	for i := range resp.Results {
		rec, err := m.decodePage(&resp.Results[i], q.Metadata)
		if err != nil {
			return nil, fmt.Errorf("Find: page %s: %w", resp.Results[i].ID, err)
		}
		results = append(results, rec)
	}

	log.Debug().
		Str("collection_id", m.collectionID).
		Int("count", len(results)).
		Bool("has_more", resp.HasMore).
		Msg("Decoded query results")

	return &Result{
		Results:    results,
		Count:      len(results),
		HasMore:    resp.HasMore,
		NextCursor: string(resp.NextCursor),
	}, nil
}

// FindAll follows cursors until the database reports no more pages.
// q.StartCursor, if set, is the starting point.
func (m *Model) FindAll(ctx context.Context, q Query) ([]Record, error) {
	all := []Record{}
	for {
		res, err := m.Find(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Results...)

		if !res.HasMore || res.NextCursor == "" {
			return all, nil
		}
		q.StartCursor = res.NextCursor
	}
}

// Get retrieves and decodes a single page.
func (m *Model) Get(ctx context.Context, id string, opts ...CallOption) (Record, error) {
	o := applyOptions(opts)

	pageID, err := NormalizeID(id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	page, err := m.svc.GetPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	rec, err := m.decodePage(page, o.metadata)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return rec, nil
}

// Create encodes fields and creates a page in the database. Unknown or
// reserved field names and encoding failures abort before any remote call.
func (m *Model) Create(ctx context.Context, fields Fields, opts ...CallOption) (Record, error) {
	o := applyOptions(opts)

	props, applied, failed, err := m.encode(fields)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("Create: %w", joinFieldErrors(failed))
	}

	page, err := m.svc.CreatePage(ctx, m.collectionID, props)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Str("collection_id", m.collectionID).
		Str("page_id", string(page.ID)).
		Strs("fields", applied).
		Msg("Created page")

	rec, err := m.decodePage(page, o.metadata)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return rec, nil
}

// Update writes fields to an existing page. Schema violations abort before any
// remote call. Encoding failures are collected: by default the fields that
// encoded are still written and a *PartialError lists the rest; with
// AllOrNothing nothing is written.
func (m *Model) Update(ctx context.Context, id string, fields Fields, opts ...CallOption) (Record, error) {
	o := applyOptions(opts)
	log := logger.FromContext(ctx)

	pageID, err := NormalizeID(id)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("Update: %w", ErrNoFields)
	}

	props, applied, failed, err := m.encode(fields)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	if len(failed) > 0 && (o.allOrNothing || len(applied) == 0) {
		return nil, fmt.Errorf("Update: %w", joinFieldErrors(failed))
	}

	page, err := m.svc.UpdatePage(ctx, pageID, props)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	rec, err := m.decodePage(page, o.metadata)
	if err != nil {
		if len(failed) > 0 {
			err = errors.Join(err, &PartialError{Applied: applied, Failed: failed})
		}
		return nil, fmt.Errorf("Update: %w", err)
	}

	if len(failed) > 0 {
		for _, fe := range failed {
			log.Warn().
				Err(fe.Err).
				Str("page_id", pageID).
				Str("field", fe.Field).
				Str("kind", string(fe.Kind)).
				Msg("Field not written")
		}
		return rec, &PartialError{Applied: applied, Failed: failed}
	}

	log.Debug().
		Str("page_id", pageID).
		Strs("fields", applied).
		Msg("Updated page")
	return rec, nil
}

// Archive soft-deletes a page.
func (m *Model) Archive(ctx context.Context, id string) error {
	pageID, err := NormalizeID(id)
	if err != nil {
		return fmt.Errorf("Archive: %w", err)
	}
	if _, err := m.svc.ArchivePage(ctx, pageID); err != nil {
		return fmt.Errorf("Archive: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Debug().Str("page_id", pageID).Msg("Archived page")
	return nil
}

// encode validates every field name against the schema, then encodes each
// value. Schema violations are returned as err; codec failures as failed.
func (m *Model) encode(fields Fields) (props notionapi.Properties, applied []string, failed []*property.FieldError, err error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var schemaErrs []error
	for _, name := range names {
		switch {
		case schema.IsReserved(name):
			schemaErrs = append(schemaErrs, fmt.Errorf("%w: %q", ErrReservedField, name))
		case !m.schema.Has(name):
			schemaErrs = append(schemaErrs, fmt.Errorf("%w: %q", ErrUnknownField, name))
		}
	}
	if len(schemaErrs) > 0 {
		return nil, nil, nil, errors.Join(schemaErrs...)
	}

	props = notionapi.Properties{}
	for _, name := range names {
		kind, _ := m.schema.Kind(name)
		fragment, err := property.Encode(kind, fields[name], name)
		if err != nil {
			var fe *property.FieldError
			if !errors.As(err, &fe) {
				fe = &property.FieldError{Field: name, Kind: kind, Err: err}
			}
			failed = append(failed, fe)
			continue
		}
		for k, v := range fragment {
			props[k] = v
		}
		applied = append(applied, name)
	}
	return props, applied, failed, nil
}

func joinFieldErrors(failed []*property.FieldError) error {
	errs := make([]error, 0, len(failed))
	for _, fe := range failed {
		errs = append(errs, fe)
	}
	return errors.Join(errs...)
}

// decodePage turns a page into a Record. User fields are decoded by their
// declared kind; reserved fields come from the page envelope when metadata is set.
func (m *Model) decodePage(page *notionapi.Page, metadata bool) (Record, error) {
	if page == nil {
		return nil, errors.New("nil page")
	}

	fields := m.schema.UserFields()
	rec := make(Record, len(fields)+len(schema.ReservedFields()))
	for _, field := range fields {
		kind, _ := m.schema.Kind(field)
		prop, ok := page.Properties[field]
		if !ok {
			return nil, &property.FieldError{Field: field, Kind: kind, Err: ErrMissingProperty}
		}
		v, err := property.Decode(kind, prop)
		if err != nil {
			return nil, &property.FieldError{Field: field, Kind: kind, Err: err}
		}
		rec[field] = v
	}

	if metadata {
		rec[schema.FieldID] = string(page.ID)
		rec[schema.FieldCreatedTime] = page.CreatedTime
		rec[schema.FieldLastEditedTime] = page.LastEditedTime
		rec[schema.FieldCreatedBy] = property.ActorFromUser(page.CreatedBy)
		rec[schema.FieldLastEditedBy] = property.ActorFromUser(page.LastEditedBy)
		rec[schema.FieldURL] = page.URL
	}

	return rec, nil
}
