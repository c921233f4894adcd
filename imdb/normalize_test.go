package imdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{name: "plain number", raw: `1999`, want: intPtr(1999)},
		{name: "numeric string", raw: `"1999"`, want: intPtr(1999)},
		{name: "range keeps start", raw: `"1999–2001"`, want: intPtr(1999)},
		{name: "range with spaces", raw: `" 1999 – 2001"`, want: intPtr(1999)},
		{name: "unparsable string", raw: `"unknown"`, want: nil},
		{name: "null", raw: `null`, want: nil},
		{name: "absent", raw: ``, want: nil},
		{name: "object", raw: `{"year":1999}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseYear(json.RawMessage(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{name: "number", raw: `8.1`, want: floatPtr(8.1)},
		{name: "integer", raw: `8`, want: floatPtr(8)},
		{name: "numeric string", raw: `"8.1"`, want: floatPtr(8.1)},
		{name: "unparsable string", raw: `"n/a"`, want: nil},
		{name: "null", raw: `null`, want: nil},
		{name: "absent", raw: ``, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRating(json.RawMessage(tt.raw))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.0001)
		})
	}
}

func TestJoinNames(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{
			name:  "plain strings",
			items: []string{`"Drama"`, `"Sci-Fi"`},
			want:  "Drama, Sci-Fi",
		},
		{
			name:  "objects with displayName",
			items: []string{`{"displayName":"Ridley Scott"}`, `{"displayName":"Denis Villeneuve"}`},
			want:  "Ridley Scott, Denis Villeneuve",
		},
		{
			name:  "name fallback",
			items: []string{`{"name":"Ridley Scott"}`},
			want:  "Ridley Scott",
		},
		{
			name:  "displayName preferred over name",
			items: []string{`{"displayName":"R. Scott","name":"Ridley Scott"}`},
			want:  "R. Scott",
		},
		{
			name:  "mixed shapes",
			items: []string{`"Drama"`, `{"name":"Thriller"}`},
			want:  "Drama, Thriller",
		},
		{
			name:  "empty",
			items: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := make([]json.RawMessage, 0, len(tt.items))
			for _, item := range tt.items {
				raw = append(raw, json.RawMessage(item))
			}
			assert.Equal(t, tt.want, joinNames(raw))
		})
	}
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }
