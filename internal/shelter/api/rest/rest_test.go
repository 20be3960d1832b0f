package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/strayhq/shelter/internal/shelter/domain"
	"github.com/strayhq/shelter/internal/shelter/storage/sqlite"
)

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("body = %q, want ok", body)
	}
}

func TestCreateUserAndDuplicate(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	env := doJSON(t, srv, http.MethodPost, "/user", map[string]any{
		"name":  "Alice",
		"email": "alice@example.com",
	}, http.StatusOK)
	if env.Code != 0 {
		t.Fatalf("code = %d, want 0", env.Code)
	}
	var user struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	mustUnmarshalData(t, env, &user)
	if user.ID == 0 || user.Email != "alice@example.com" {
		t.Fatalf("user = %+v, want persisted user", user)
	}

	env = doJSON(t, srv, http.MethodPost, "/user", map[string]any{
		"name":  "Alice Again",
		"email": "alice@example.com",
	}, http.StatusConflict)
	if env.Code != http.StatusConflict {
		t.Fatalf("code = %d, want %d", env.Code, http.StatusConflict)
	}
}

func TestCreateUserRejectsBadEmail(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	env := doJSON(t, srv, http.MethodPost, "/user", map[string]any{
		"name":  "Bob",
		"email": "not-an-email",
	}, http.StatusBadRequest)
	if env.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want %d", env.Code, http.StatusBadRequest)
	}
}

func TestCatDetailValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/cat/detail?id=abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestAdoptionFlowOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	userID := createUser(t, srv, "adopter@example.com")

	env := doJSON(t, srv, http.MethodPost, "/cat/insert", map[string]any{
		"name": "Ginger",
		"age":  2,
	}, http.StatusOK)
	var cat struct {
		ID int64 `json:"id"`
	}
	mustUnmarshalData(t, env, &cat)

	env = doJSON(t, srv, http.MethodPost, "/cat/adopt", map[string]any{
		"catId":  cat.ID,
		"userId": userID,
	}, http.StatusOK)
	var adopted struct {
		OwnerID *int64 `json:"ownerId"`
		Owner   *struct {
			ID int64 `json:"id"`
		} `json:"owner"`
	}
	mustUnmarshalData(t, env, &adopted)
	if adopted.OwnerID == nil || *adopted.OwnerID != userID {
		t.Fatalf("ownerId = %v, want %d", adopted.OwnerID, userID)
	}
	if adopted.Owner == nil || adopted.Owner.ID != userID {
		t.Fatalf("owner = %+v, want user %d", adopted.Owner, userID)
	}

	env = doJSON(t, srv, http.MethodPost, "/cat/adopt", map[string]any{
		"catId":  cat.ID,
		"userId": userID,
	}, http.StatusConflict)
	if env.Code != http.StatusConflict {
		t.Fatalf("code = %d, want %d", env.Code, http.StatusConflict)
	}

	env = doJSON(t, srv, http.MethodDelete, "/cat/delete", map[string]any{
		"catId": cat.ID,
	}, http.StatusOK)
	var deleted struct {
		OwnerID   *int64  `json:"ownerId"`
		DeletedAt *string `json:"deletedAt"`
	}
	mustUnmarshalData(t, env, &deleted)
	if deleted.OwnerID != nil {
		t.Fatal("expected cleared owner after delete")
	}
	if deleted.DeletedAt == nil {
		t.Fatal("expected deletedAt after delete")
	}
}

func TestCheckEmail(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	createUser(t, srv, "taken@example.com")

	resp, err := http.Get(srv.URL + "/user/check-email/taken@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	env := decodeEnvelope(t, resp, http.StatusOK)
	var check struct {
		Available bool `json:"available"`
	}
	mustUnmarshalData(t, env, &check)
	if check.Available {
		t.Fatal("expected taken email to be unavailable")
	}

	resp, err = http.Get(srv.URL + "/user/check-email/free@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	env = decodeEnvelope(t, resp, http.StatusOK)
	mustUnmarshalData(t, env, &check)
	if !check.Available {
		t.Fatal("expected free email to be available")
	}
}

func TestForceRemoveUser(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	userID := createUser(t, srv, "removed@example.com")
	doJSON(t, srv, http.MethodPost, "/post", map[string]any{
		"authorId": userID,
		"title":    "Farewell",
		"content":  "so long",
	}, http.StatusOK)

	env := doJSON(t, srv, http.MethodDelete, "/user/delete", map[string]any{
		"userId": userID,
	}, http.StatusConflict)
	if env.Code != http.StatusConflict {
		t.Fatalf("code = %d, want %d", env.Code, http.StatusConflict)
	}

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/user/force-delete/%d", srv.URL, userID), nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	env = decodeEnvelope(t, resp, http.StatusOK)
	var result struct {
		PostsDeleted int64 `json:"postsDeleted"`
	}
	mustUnmarshalData(t, env, &result)
	if result.PostsDeleted != 1 {
		t.Fatalf("postsDeleted = %d, want 1", result.PostsDeleted)
	}

	resp, err = http.Get(fmt.Sprintf("%s/user/detail?id=%d", srv.URL, userID))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	decodeEnvelope(t, resp, http.StatusNotFound)
}

func TestCatCount(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/cat/insert", map[string]any{"name": "Counted", "age": 1}, http.StatusOK)

	resp, err := http.Get(srv.URL + "/cat/num")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	env := decodeEnvelope(t, resp, http.StatusOK)
	var count int64
	mustUnmarshalData(t, env, &count)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/cat/insert", map[string]any{
		"name": "Typo", "age": 1, "onwerId": 3,
	}, http.StatusBadRequest)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "shelter.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	handler := NewHandler(
		domain.NewCatService(store),
		domain.NewUserService(store),
		domain.NewPostService(store),
	)
	srv := httptest.NewServer(handler.Router())
	t.Cleanup(srv.Close)
	return srv
}

func createUser(t *testing.T, srv *httptest.Server, email string) int64 {
	t.Helper()
	env := doJSON(t, srv, http.MethodPost, "/user", map[string]any{
		"name":  "Test User",
		"email": email,
	}, http.StatusOK)
	var user struct {
		ID int64 `json:"id"`
	}
	mustUnmarshalData(t, env, &user)
	return user.ID
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body map[string]any, wantStatus int) envelope {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do %s %s: %v", method, path, err)
	}
	return decodeEnvelope(t, resp, wantStatus)
}

func decodeEnvelope(t *testing.T, resp *http.Response, wantStatus int) envelope {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, wantStatus, raw)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, raw)
	}
	return env
}

func mustUnmarshalData(t *testing.T, env envelope, dst any) {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}
