package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driverfinance/internal/domain"
)

func TestQueryTime(t *testing.T) {
	loc := time.FixedZone("UTC-03:00", -3*3600)

	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC), false},
		{"2024-03-01T10:30:00", time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC), false},
		{"2024-03-01T10:30:00Z", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), false},
		{"01/03/2024", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?d="+tt.raw, nil)
			got, err := queryTime(req, "d", loc)
			if tt.wantErr {
				assert.Equal(t, domain.KindValidation, domain.KindOf(err))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.want), "got %v", got)
		})
	}
}

func TestQueryTime_Absent(t *testing.T) {
	got, err := queryTime(httptest.NewRequest(http.MethodGet, "/", nil), "d", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeJSON(t *testing.T) {
	type target struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	tests := []struct {
		name      string
		body      string
		strict    bool
		wantField string
		wantErr   bool
	}{
		{name: "ok", body: `{"name":"a","age":3}`},
		{name: "unknown field tolerated", body: `{"name":"a","extra":1}`},
		{name: "unknown field strict", body: `{"name":"a","extra":1}`, strict: true, wantErr: true, wantField: "extra"},
		{name: "wrong type", body: `{"age":"three"}`, wantErr: true, wantField: "age"},
		{name: "empty", body: ``, wantErr: true},
		{name: "truncated", body: `{"name":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v target
			err := decodeJSON(httptest.NewRecorder(), req, &v, tt.strict)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			if tt.wantField != "" {
				var de *domain.Error
				require.ErrorAs(t, err, &de)
				assert.Contains(t, de.Fields, tt.wantField)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	for raw, ok := range map[string]bool{"12": true, "0": false, "-1": false, "abc": false} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetPathValue("id", raw)
		_, err := pathID(req)
		assert.Equal(t, ok, err == nil, raw)
	}
}
