package mirror

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    SinkSpec
		wantErr bool
	}{
		{name: "stdout", spec: SinkSpec{Kind: SinkStdout, Stdout: &bytes.Buffer{}}},
		{name: "stdout without writer", spec: SinkSpec{Kind: SinkStdout}, wantErr: true},
		{name: "gcs", spec: SinkSpec{Kind: SinkGCS, Bucket: "b"}},
		{name: "gcs without bucket", spec: SinkSpec{Kind: SinkGCS}, wantErr: true},
		{name: "bigquery", spec: SinkSpec{Kind: SinkBigQuery, ProjectID: "p", Dataset: "d", Table: "t"}},
		{name: "bigquery without table", spec: SinkSpec{Kind: SinkBigQuery, ProjectID: "p", Dataset: "d"}, wantErr: true},
		{name: "unknown", spec: SinkSpec{Kind: "s3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSink)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOpenStdout(t *testing.T) {
	var buf bytes.Buffer
	s, err := Open(context.Background(), SinkSpec{Kind: SinkStdout, Stdout: &buf})
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), "c1", nil))
	assert.Equal(t, "", Location(s))

	_, err = Open(context.Background(), SinkSpec{Kind: SinkGCS})
	assert.ErrorIs(t, err, ErrInvalidSink)
}
