package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/service"
)

var handlerDBSeq int

type fixture struct {
	router *gin.Engine
	svc    *service.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gin.SetMode(gin.TestMode)
	RegisterValidations()

	handlerDBSeq++
	cfg := &config.Config{
		Data: &config.Data{
			Database: &config.Database{
				Driver: "sqlite3",
				Source: fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared&_fk=1", handlerDBSeq),
			},
		},
		Auth: &config.Auth{
			JWTSecret:        "handler-test-secret",
			ResetTokenExpiry: time.Hour,
			ResetBaseURL:     "https://learnhub.dev/reset",
		},
		AI:    &config.AI{},
		Email: &config.Email{},
	}

	log := logger.StdLogger()
	d, err := data.New(context.Background(), cfg.Data, log)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	svc, err := service.New(cfg, d, log)
	if err != nil {
		t.Fatalf("failed to build services: %v", err)
	}

	router := gin.New()
	h := New(svc, log)
	h.RegisterRoutes(router, nil)

	return &fixture{router: router, svc: svc}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("unparseable response %q: %v", w.Body.String(), err)
	}
}

func signupUser(t *testing.T, f *fixture, email string) string {
	t.Helper()

	w := f.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    email,
		"password": "Str0ngPass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	decode(t, w, &body)
	return body.Tokens.AccessToken
}

type productPage struct {
	Items []struct {
		ID int64 `json:"id"`
	} `json:"items"`
	HasNext    bool   `json:"has_next"`
	NextCursor string `json:"next_cursor"`
	Limit      int    `json:"limit"`
}

func TestProductsPagination(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Catalog.Seed(context.Background(), 5); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// First page of 2.
	w := f.do(t, http.MethodGet, "/api/v1/products?limit=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	var page productPage
	decode(t, w, &page)
	if len(page.Items) != 2 || !page.HasNext || page.NextCursor == "" {
		t.Fatalf("unexpected first page: %+v", page)
	}
	first := []int64{page.Items[0].ID, page.Items[1].ID}

	// Second page resumes after the first, no overlap.
	w = f.do(t, http.MethodGet, "/api/v1/products?limit=2&cursor="+page.NextCursor, "", nil)
	decode(t, w, &page)
	if len(page.Items) != 2 || !page.HasNext {
		t.Fatalf("unexpected second page: %+v", page)
	}
	if page.Items[0].ID <= first[1] {
		t.Errorf("second page overlaps the first: %v then %d", first, page.Items[0].ID)
	}

	// Final page.
	w = f.do(t, http.MethodGet, "/api/v1/products?limit=2&cursor="+page.NextCursor, "", nil)
	decode(t, w, &page)
	if len(page.Items) != 1 || page.HasNext || page.NextCursor != "" {
		t.Fatalf("unexpected final page: %+v", page)
	}
}

func TestProductsLimitHandling(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Catalog.Seed(context.Background(), 5); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	tests := []struct {
		query     string
		wantLimit int
		wantItems int
	}{
		{"", 20, 5},            // absent limit takes the default
		{"?limit=abc", 20, 5},  // unparseable limit takes the default
		{"?limit=0", 1, 1},     // clamps up to the minimum
		{"?limit=-5", 1, 1},    // clamps up to the minimum
		{"?limit=1000", 100, 5}, // clamps down to the maximum
	}
	for _, tt := range tests {
		w := f.do(t, http.MethodGet, "/api/v1/products"+tt.query, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("query %q returned %d", tt.query, w.Code)
		}
		var page productPage
		decode(t, w, &page)
		if page.Limit != tt.wantLimit {
			t.Errorf("query %q: expected limit %d, got %d", tt.query, tt.wantLimit, page.Limit)
		}
		if len(page.Items) != tt.wantItems {
			t.Errorf("query %q: expected %d items, got %d", tt.query, tt.wantItems, len(page.Items))
		}
	}
}

func TestProductsInvalidCursor(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/products?cursor=%21%21%21", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	decode(t, w, &body)
	if body.Code != -400 {
		t.Errorf("expected business code -400, got %d", body.Code)
	}
	if !strings.Contains(body.Message, "invalid cursor") {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestProductGet(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Catalog.Seed(context.Background(), 3); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	w := f.do(t, http.MethodGet, "/api/v1/products/1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/v1/products/999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/v1/products/abc", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", w.Code)
	}
}

func TestProductCreateRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	token := signupUser(t, f, "regular@example.com")

	body := map[string]any{"name": "Go Workbook", "price": 19.5, "category": "books"}

	w := f.do(t, http.MethodPost, "/api/v1/products", "", body)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/v1/products", token, body)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a non-admin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthFlow(t *testing.T) {
	f := newFixture(t)

	token := signupUser(t, f, "alice@example.com")

	// Me with a valid token.
	w := f.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me returned %d: %s", w.Code, w.Body.String())
	}
	var me struct {
		Email string `json:"email"`
	}
	decode(t, w, &me)
	if me.Email != "alice@example.com" {
		t.Errorf("unexpected profile %+v", me)
	}

	// Without a token.
	w = f.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	// With garbage.
	w = f.do(t, http.MethodGet, "/api/v1/auth/me", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad token, got %d", w.Code)
	}

	// Duplicate signup conflicts.
	w = f.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Str0ngPass",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", w.Code)
	}

	// Weak password is a 400.
	w = f.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "bob@example.com",
		"password": "weak",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for weak password, got %d", w.Code)
	}

	// Bad login is a 401.
	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad login, got %d", w.Code)
	}
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t)
	signupUser(t, f, "alice@example.com")

	w := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Str0ngPass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d", w.Code)
	}
	var login struct {
		Tokens struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	decode(t, w, &login)

	w = f.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": login.Tokens.RefreshToken,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh returned %d: %s", w.Code, w.Body.String())
	}
	var refreshed struct {
		RefreshToken string `json:"refresh_token"`
	}
	decode(t, w, &refreshed)

	// The old token was rotated out.
	w = f.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": login.Tokens.RefreshToken,
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for rotated token, got %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/v1/auth/logout", "", map[string]string{
		"refresh_token": refreshed.RefreshToken,
	})
	if w.Code != http.StatusOK {
		t.Errorf("logout returned %d", w.Code)
	}
}

func TestTaskEndpoints(t *testing.T) {
	f := newFixture(t)
	token := signupUser(t, f, "alice@example.com")

	// Tasks require authentication.
	w := f.do(t, http.MethodGet, "/api/v1/tasks", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	for i := 0; i < 3; i++ {
		w = f.do(t, http.MethodPost, "/api/v1/tasks", token, map[string]any{
			"title":     fmt.Sprintf("task %d", i),
			"task_type": "study",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
		}
	}

	// Unknown enum value is a 400.
	w = f.do(t, http.MethodPost, "/api/v1/tasks", token, map[string]any{
		"title":     "bad",
		"task_type": "napping",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad task_type, got %d", w.Code)
	}

	// Paginated list.
	w = f.do(t, http.MethodGet, "/api/v1/tasks?limit=2", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list returned %d: %s", w.Code, w.Body.String())
	}
	var page struct {
		Items []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
		HasNext    bool   `json:"has_next"`
		NextCursor string `json:"next_cursor"`
	}
	decode(t, w, &page)
	if len(page.Items) != 2 || !page.HasNext {
		t.Fatalf("unexpected page: %+v", page)
	}

	w = f.do(t, http.MethodGet, "/api/v1/tasks?limit=2&cursor="+page.NextCursor, token, nil)
	decode(t, w, &page)
	if len(page.Items) != 1 || page.HasNext {
		t.Fatalf("unexpected last page: %+v", page)
	}
	lastID := page.Items[0].ID

	// Update and delete.
	w = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%d", lastID), token, map[string]any{
		"status": "completed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", lastID), token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete returned %d", w.Code)
	}
	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", lastID), token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting twice, got %d", w.Code)
	}

	// Another user sees an empty list.
	other := signupUser(t, f, "bob@example.com")
	w = f.do(t, http.MethodGet, "/api/v1/tasks", other, nil)
	decode(t, w, &page)
	if len(page.Items) != 0 {
		t.Errorf("expected empty list for other user, got %d items", len(page.Items))
	}

	// Progress.
	w = f.do(t, http.MethodGet, "/api/v1/tasks/progress", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("progress returned %d", w.Code)
	}
	var progress struct {
		TotalTasks int `json:"total_tasks"`
	}
	decode(t, w, &progress)
	if progress.TotalTasks != 2 {
		t.Errorf("expected 2 tasks, got %d", progress.TotalTasks)
	}
}

func TestGenerateEndpointFallback(t *testing.T) {
	f := newFixture(t)
	token := signupUser(t, f, "alice@example.com")

	w := f.do(t, http.MethodPost, "/api/v1/tasks/ai-generate", token, map[string]any{
		"topic": "interfaces",
		"count": 2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("generate returned %d: %s", w.Code, w.Body.String())
	}
	var tasks []struct {
		AIGenerated bool   `json:"is_ai_generated"`
		Topic       string `json:"topic"`
	}
	decode(t, w, &tasks)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if !tasks[0].AIGenerated || tasks[0].Topic != "interfaces" {
		t.Errorf("unexpected task %+v", tasks[0])
	}
}

func TestChatEndpoints(t *testing.T) {
	f := newFixture(t)
	token := signupUser(t, f, "alice@example.com")

	// Without a provider the ask endpoint reports unavailability.
	w := f.do(t, http.MethodPost, "/api/v1/chat/ask", token, map[string]string{
		"question": "what is a cursor?",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without provider, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/v1/chat/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("chat health returned %d", w.Code)
	}
	var health struct {
		AIConfigured bool  `json:"ai_configured"`
		ChunkCount   int64 `json:"chunk_count"`
	}
	decode(t, w, &health)
	if health.AIConfigured {
		t.Error("expected ai to be unconfigured")
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health returned %d", w.Code)
	}
	var body struct {
		Status string `json:"status"`
	}
	decode(t, w, &body)
	if body.Status != "ok" {
		t.Errorf("unexpected health body %q", w.Body.String())
	}
}
