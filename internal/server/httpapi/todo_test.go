package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mlorenc/gotodo/internal/common"
)

func TestProtectedRoutes_RequireValidCookie(t *testing.T) {
	r, _ := newTestServer(t)

	// no cookie at all
	w := doJSON(t, r, http.MethodGet, "/api/todos", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: status %d", w.Code)
	}

	// tampered token
	w = doJSON(t, r, http.MethodGet, "/api/todos", nil,
		[]*http.Cookie{{Name: common.AccessTokenCookieName, Value: "not.a.jwt"}})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d", w.Code)
	}
}

func TestTodoCRUDFlow(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r, "alice@example.com", "s3cret-pass")
	cookies := login(t, r, "alice@example.com", "s3cret-pass")

	// create
	w := doJSON(t, r, http.MethodPost, "/api/todos",
		map[string]any{"title": "buy milk", "description": "2 liters"}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body.String())
	}
	var created todoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.ID == 0 || created.Title != "buy milk" || created.Completed {
		t.Fatalf("unexpected todo: %+v", created)
	}

	// missing title
	w = doJSON(t, r, http.MethodPost, "/api/todos", map[string]any{"description": "x"}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("create without title: status %d", w.Code)
	}

	// list
	w = doJSON(t, r, http.MethodGet, "/api/todos?page=1&limit=10", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	var page todoPageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Page != 1 || page.Limit != 10 {
		t.Fatalf("unexpected page: %+v", page)
	}

	// search miss
	w = doJSON(t, r, http.MethodGet, "/api/todos?search=bread", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("search: status %d", w.Code)
	}
	page = todoPageResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("search miss returned %d items", page.Total)
	}

	// get
	w = doJSON(t, r, http.MethodGet, "/api/todos/1", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}

	// partial update
	w = doJSON(t, r, http.MethodPatch, "/api/todos/1", map[string]any{"completed": true}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}
	var updated todoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if !updated.Completed || updated.Title != "buy milk" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	// delete
	w = doJSON(t, r, http.MethodDelete, "/api/todos/1", nil, cookies)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/todos/1", nil, cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d", w.Code)
	}
}

func TestTodo_OwnershipAcrossUsers(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r, "alice@example.com", "s3cret-pass")
	register(t, r, "bob@example.com", "s3cret-pass")
	aliceCookies := login(t, r, "alice@example.com", "s3cret-pass")
	bobCookies := login(t, r, "bob@example.com", "s3cret-pass")

	w := doJSON(t, r, http.MethodPost, "/api/todos", map[string]any{"title": "alice's"}, aliceCookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d", w.Code)
	}

	// bob cannot see, change or delete alice's todo
	if w := doJSON(t, r, http.MethodGet, "/api/todos/1", nil, bobCookies); w.Code != http.StatusForbidden {
		t.Fatalf("get: status %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPatch, "/api/todos/1", map[string]any{"completed": true}, bobCookies); w.Code != http.StatusForbidden {
		t.Fatalf("update: status %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/todos/1", nil, bobCookies); w.Code != http.StatusForbidden {
		t.Fatalf("delete: status %d", w.Code)
	}

	// bob's list does not include it
	w = doJSON(t, r, http.MethodGet, "/api/todos", nil, bobCookies)
	var page todoPageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("bob sees %d foreign todos", page.Total)
	}
}

func TestTodo_InvalidIDParam(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r, "alice@example.com", "s3cret-pass")
	cookies := login(t, r, "alice@example.com", "s3cret-pass")

	for _, path := range []string{"/api/todos/abc", "/api/todos/0", "/api/todos/-1"} {
		if w := doJSON(t, r, http.MethodGet, path, nil, cookies); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d", path, w.Code)
		}
	}
}

func TestImageUpload_MissingFileField(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r, "alice@example.com", "s3cret-pass")
	cookies := login(t, r, "alice@example.com", "s3cret-pass")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("note", "no file here"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestImage_InvalidIDParam(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r, "alice@example.com", "s3cret-pass")
	cookies := login(t, r, "alice@example.com", "s3cret-pass")

	if w := doJSON(t, r, http.MethodGet, "/api/images/abc", nil, cookies); w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/images/abc", nil, cookies); w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
}
