package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"certinvite/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name string `json:"name"`
}

func (s sampleRequest) Validate() []string {
	if s.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOK  bool
		wantMsg string
	}{
		{name: "valid", body: `{"name":"x"}`, wantOK: true},
		{name: "empty body", body: ``, wantMsg: "request body is required"},
		{name: "unknown field", body: `{"name":"x","extra":1}`, wantMsg: "unknown field"},
		{name: "validation failure", body: `{}`, wantMsg: "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest sampleRequest

			ok := DecodeAndValidate(rr, req, &dest)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}
			require.Equal(t, http.StatusBadRequest, rr.Code)
			var envelope APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, ErrCodeBadRequest, envelope.Error.Code)
			assert.Contains(t, envelope.Error.Message, tt.wantMsg)
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{"", domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
		{"page=3&page_size=5", domain.PaginationParams{Page: 3, PageSize: 5}},
		{"page=0&page_size=-1", domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
		{"page=abc&page_size=1000", domain.PaginationParams{Page: 1, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(req))
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, 3, NewPaginationMeta(1, 10, 21).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(1, 0, 21).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(1, 10, 0).TotalPages)
}
