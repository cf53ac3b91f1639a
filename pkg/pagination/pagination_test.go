package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"explicit values", "limit=50&offset=10", 50, 10},
		{"limit capped", "limit=500", MaxLimit, 0},
		{"negative values ignored", "limit=-5&offset=-3", DefaultLimit, 0},
		{"non-numeric ignored", "limit=abc&offset=xyz", DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			c := e.NewContext(req, httptest.NewRecorder())

			p := FromContext(c)
			if p.Limit != tt.wantLimit {
				t.Errorf("limit: expected %d, got %d", tt.wantLimit, p.Limit)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("offset: expected %d, got %d", tt.wantOffset, p.Offset)
			}
		})
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	resp := NewResponse([]string{"a", "b"}, 10, 2, 0)
	if !resp.HasMore {
		t.Error("expected has_more true when more results remain")
	}

	resp = NewResponse([]string{"a", "b"}, 2, 2, 0)
	if resp.HasMore {
		t.Error("expected has_more false when all results returned")
	}
}
