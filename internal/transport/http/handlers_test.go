package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

func TestPageParams(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contents?page=3&paginate_count=25", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	page, perPage := pageParams(c, 10)
	if page != 3 || perPage != 25 {
		t.Fatalf("expected page 3 size 25, got page %d size %d", page, perPage)
	}
}

func TestPageParamsDefaultsOnGarbage(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contents?page=-1&paginate_count=banana", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	page, perPage := pageParams(c, 10)
	if page != 1 || perPage != 10 {
		t.Fatalf("expected defaults, got page %d size %d", page, perPage)
	}
}

func TestPageParamsCapsPerPage(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contents?paginate_count=5000", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	_, perPage := pageParams(c, 10)
	if perPage != 10 {
		t.Fatalf("oversized paginate_count must fall back to the default, got %d", perPage)
	}
}

func TestNewListMeta(t *testing.T) {
	meta := newListMeta(2, 10, 25)
	if meta.TotalPages != 3 {
		t.Fatalf("25 items at 10 per page is 3 pages, got %d", meta.TotalPages)
	}
	meta = newListMeta(1, 10, 30)
	if meta.TotalPages != 3 {
		t.Fatalf("30 items at 10 per page is 3 pages, got %d", meta.TotalPages)
	}
}

func TestBearerToken(t *testing.T) {
	e := echo.New()

	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Basic abc123", ""},
		{"abc123", ""},
		{"", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		if tc.header != "" {
			req.Header.Set(echo.HeaderAuthorization, tc.header)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		if got := bearerToken(c); got != tc.want {
			t.Fatalf("header %q: expected token %q, got %q", tc.header, tc.want, got)
		}
	}
}

func TestRequireAdminRejectsSubscriber(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(contextUserKey, &domain.User{ID: uuid.New(), Role: domain.RoleSubscriber})

	handler := RequireAdmin()(func(c echo.Context) error {
		t.Fatal("handler must not run for a subscriber")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(contextUserKey, &domain.User{ID: uuid.New(), Role: domain.RoleAdmin})

	called := false
	handler := RequireAdmin()(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if !called {
		t.Fatal("handler must run for an admin")
	}
}

func TestIsHTTPURL(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"https://cdn.example.com/a.png", true},
		{"http://cdn.example.com/a.png", true},
		{"ftp://cdn.example.com/a.png", false},
		{"uploads/genres/a.png", false},
		{"https://", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isHTTPURL(tc.raw); got != tc.want {
			t.Fatalf("isHTTPURL(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestFormValueDistinguishesAbsentFromEmpty(t *testing.T) {
	e := echo.New()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("description", ""); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/contents/x", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	c := e.NewContext(req, httptest.NewRecorder())

	if v, ok := formValue(c, "description"); !ok || v != "" {
		t.Fatalf("an empty field is still present, got ok=%v v=%q", ok, v)
	}
	if _, ok := formValue(c, "title"); ok {
		t.Fatal("a field missing from the form must report absent")
	}
}

func TestSummarizeBodyRedactsSecrets(t *testing.T) {
	body := []byte(`{"email":"a@example.com","password":"hunter22","otp":"482913"}`)
	raw := summarizeBody(body, echo.MIMEApplicationJSON)
	summary, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("expected a map summary, got %T", raw)
	}
	if summary["password"] != "redacted" || summary["otp"] != "redacted" {
		t.Fatalf("secrets must be redacted, got %v", summary)
	}
	if summary["email"] != "a@example.com" {
		t.Fatalf("non-secret fields must survive, got %v", summary)
	}
}

func TestSummarizeBodyElidesBinary(t *testing.T) {
	if got := summarizeBody([]byte{0xff, 0xfe, 0x00, 0x01}, "application/octet-stream"); got != "binary" {
		t.Fatalf("expected binary marker, got %v", got)
	}
	if got := summarizeBody([]byte("irrelevant"), "multipart/form-data; boundary=x"); got != "multipart" {
		t.Fatalf("expected multipart marker, got %v", got)
	}
}
