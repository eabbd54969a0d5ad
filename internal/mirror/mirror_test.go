package mirror

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dvloznov/notionplus/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	pages   []*model.Result
	queries []model.Query
	err     error
}

func (f *fakeFinder) CollectionID() string { return "c1" }

func (f *fakeFinder) Find(ctx context.Context, q model.Query) (*model.Result, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[len(f.queries)-1], nil
}

type memSink struct {
	batches [][]model.Record
	err     error
	closed  bool
}

func (s *memSink) Write(ctx context.Context, collectionID string, records []model.Record) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, records)
	return nil
}

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

func rec(id, name string) model.Record {
	return model.Record{"id": id, "Name": name}
}

func TestRun(t *testing.T) {
	f := &fakeFinder{pages: []*model.Result{
		{Results: []model.Record{rec("p1", "a"), rec("p2", "b")}, Count: 2, HasMore: true, NextCursor: "n1"},
		{Results: []model.Record{rec("p3", "c")}, Count: 1},
	}}
	sink := &memSink{}

	stats, err := Run(context.Background(), f, model.Query{Metadata: true}, sink)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Pages: 2, Records: 3}, stats)
	assert.Len(t, sink.batches, 2)
	assert.False(t, sink.closed)

	require.Len(t, f.queries, 2)
	assert.Equal(t, "n1", f.queries[1].StartCursor)
	assert.True(t, f.queries[1].Metadata)
}

func TestRunErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := Run(context.Background(), &fakeFinder{err: boom}, model.Query{}, &memSink{})
	assert.ErrorIs(t, err, boom)

	f := &fakeFinder{pages: []*model.Result{{Results: []model.Record{rec("p1", "a")}, Count: 1}}}
	_, err = Run(context.Background(), f, model.Query{}, &memSink{err: boom})
	assert.ErrorIs(t, err, boom)
}

type bufferObject struct {
	bytes.Buffer
	closed bool
}

func (b *bufferObject) Close() error {
	b.closed = true
	return nil
}

func TestGCSSink(t *testing.T) {
	obj := &bufferObject{}
	var gotBucket, gotObject string
	s := NewGCSSinkWithOpener("bkt", "exports", func(ctx context.Context, bucket, object string) io.WriteCloser {
		gotBucket, gotObject = bucket, object
		return obj
	})
	s.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	assert.Empty(t, s.URI())

	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "c1", []model.Record{rec("p1", "a")}))
	require.NoError(t, s.Write(ctx, "c1", []model.Record{rec("p2", "b")}))
	require.NoError(t, s.Close())

	assert.Equal(t, "bkt", gotBucket)
	assert.Equal(t, "exports/c1-20240506T070809Z.jsonl", gotObject)
	assert.Equal(t, "gs://bkt/exports/c1-20240506T070809Z.jsonl", s.URI())
	assert.True(t, obj.closed)

	var lines []map[string]any
	sc := bufio.NewScanner(&obj.Buffer)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "p2", lines[1]["id"])
}

type fakePutter struct {
	rows []*RecordRow
}

func (p *fakePutter) Put(ctx context.Context, src interface{}) error {
	p.rows = append(p.rows, src.([]*RecordRow)...)
	return nil
}

func TestBigQuerySink(t *testing.T) {
	p := &fakePutter{}
	s := NewBigQuerySinkWithPutter(p)
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	s.now = func() time.Time { return at }

	require.NoError(t, s.Write(context.Background(), "c1", []model.Record{rec("p1", "a"), rec("p2", "b")}))
	require.Len(t, p.rows, 2)
	assert.Equal(t, "c1", p.rows[0].CollectionID)
	assert.Equal(t, "p1", p.rows[0].PageID)
	assert.Equal(t, at, p.rows[0].MirroredAt)
	assert.JSONEq(t, `{"id":"p1","Name":"a"}`, p.rows[0].RecordJSON)

	require.NoError(t, s.Write(context.Background(), "c1", nil))
	assert.Len(t, p.rows, 2)
	require.NoError(t, s.Close())
}

func TestRowsRequireID(t *testing.T) {
	_, err := Rows("c1", []model.Record{{"Name": "a"}}, time.Now())
	assert.Error(t, err)
}
