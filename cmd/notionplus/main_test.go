package main

import (
	"testing"

	"github.com/dvloznov/notionplus/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParseSorts(t *testing.T) {
	tests := []struct {
		spec string
		want []model.Sort
	}{
		{spec: "", want: nil},
		{spec: "Name", want: []model.Sort{model.SortBy("Name", model.Ascending)}},
		{spec: "-Points, Name", want: []model.Sort{
			model.SortBy("Points", model.Descending),
			model.SortBy("Name", model.Ascending),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSorts(tt.spec))
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"find", "get", "create", "update", "archive", "inspect", "mirror", "serve"} {
		assert.True(t, names[want], want)
	}
}
