package params

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest("GET", "/api/v1/events?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestNewQueryParamsDefaults(t *testing.T) {
	p := NewQueryParams(newContext(""))

	if p.PageNumber != 1 {
		t.Errorf("page = %d, want 1", p.PageNumber)
	}
	if p.PageSize != 10 {
		t.Errorf("page size = %d, want 10", p.PageSize)
	}
	if p.Order != "asc" {
		t.Errorf("order = %q, want asc", p.Order)
	}
	if p.HasReminder != "" {
		t.Errorf("has_reminder = %q, want empty", p.HasReminder)
	}
}

func TestNewQueryParamsClamping(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"negative page", "page=-3", 1, 10},
		{"zero page", "page=0", 1, 10},
		{"garbage page", "page=abc", 1, 10},
		{"oversized limit", "limit=5000", 1, 100},
		{"zero limit", "limit=0", 1, 10},
		{"normal", "page=4&limit=25", 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewQueryParams(newContext(tt.query))
			if p.PageNumber != tt.wantPage {
				t.Errorf("page = %d, want %d", p.PageNumber, tt.wantPage)
			}
			if p.PageSize != tt.wantSize {
				t.Errorf("size = %d, want %d", p.PageSize, tt.wantSize)
			}
		})
	}
}

func TestNewQueryParamsFilters(t *testing.T) {
	p := NewQueryParams(newContext("search=%20expo%20&status=DRAFT&start_date=2026-09-01&end_date=2026-09-30&has_reminder=YES&order=DESC&sort=title"))

	if p.Search != "expo" {
		t.Errorf("search = %q, want trimmed %q", p.Search, "expo")
	}
	if p.Status != "DRAFT" {
		t.Errorf("status = %q", p.Status)
	}
	if p.HasReminder != "yes" {
		t.Errorf("has_reminder = %q, want normalized yes", p.HasReminder)
	}
	if p.Order != "desc" {
		t.Errorf("order = %q, want desc", p.Order)
	}
	if p.Sort != "title" {
		t.Errorf("sort = %q", p.Sort)
	}
}

func TestSignature(t *testing.T) {
	a := NewQueryParams(newContext("page=1&search=x"))
	b := NewQueryParams(newContext("page=1&search=x"))
	c := NewQueryParams(newContext("page=2&search=x"))

	if a.Signature("u1") != b.Signature("u1") {
		t.Error("identical queries must share a signature")
	}
	if a.Signature("u1") == c.Signature("u1") {
		t.Error("different pages must not collide")
	}
	if a.Signature("u1") == a.Signature("u2") {
		t.Error("different requesters must not collide")
	}
	if a.Signature("") == a.Signature("u1") {
		t.Error("anonymous and authenticated signatures must differ")
	}
}
