package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crumbworks/todosvc/internal/database"
)

// apiEnvelope mirrors the JSON wrapper returned by every endpoint.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), database.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewServer(db, 0, "", 5*time.Second).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env apiEnvelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestGreeting(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hello World!", rec.Body.String())
}

func TestUserLifecycle(t *testing.T) {
	h := newTestHandler(t)

	// Create
	rec, env := doJSON(t, h, http.MethodPost, "/users", map[string]any{
		"name":  "Ann",
		"email": "ann@x.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)
	require.Equal(t, "User Created Successfully", env.Message)

	var created struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)
	require.Equal(t, "Ann", created.Name)

	userPath := fmt.Sprintf("/users/%d", created.ID)

	// Fetch
	rec, env = doJSON(t, h, http.MethodGet, userPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	require.Equal(t, "User Fetched Successfully", env.Message)
	var fetched struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, "ann@x.com", fetched.Email)

	// Update
	rec, env = doJSON(t, h, http.MethodPut, userPath, map[string]any{
		"name":  "Ann2",
		"email": "ann@x.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	var updated struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, "Ann2", updated.Name)

	// Delete carries an explicit null payload
	rec, env = doJSON(t, h, http.MethodDelete, userPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	require.Equal(t, "User Deleted", env.Message)
	require.JSONEq(t, "null", string(env.Data))

	// Gone
	rec, env = doJSON(t, h, http.MethodGet, userPath, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "User Not Found", env.Message)
}

func TestCreateUserMissingFields(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodPost, "/users", map[string]any{"name": "Ann"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "email is required", env.Message)
	require.Nil(t, env.Data)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/users", map[string]any{"name": "Ann", "email": "ann@x.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doJSON(t, h, http.MethodPost, "/users", map[string]any{"name": "Bob", "email": "ann@x.com"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.False(t, env.Success)
	require.Contains(t, env.Message, "already exists")
}

func TestMalformedIDIsBadRequest(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/users/abc", "/todos/12x"} {
		rec, env := doJSON(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		require.False(t, env.Success)
	}
}

func TestListEmptyUsers(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	require.JSONEq(t, "[]", string(env.Data))
}

func TestUpdateMissingUser(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodPut, "/users/999999", map[string]any{
		"name":  "Ghost",
		"email": "ghost@x.com",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "User Not Found", env.Message)
}

func TestTodoLifecycle(t *testing.T) {
	h := newTestHandler(t)

	_, env := doJSON(t, h, http.MethodPost, "/users", map[string]any{"name": "Ann", "email": "ann@x.com"})
	var user struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))

	rec, env := doJSON(t, h, http.MethodPost, "/todos", map[string]any{
		"user_id": user.ID,
		"title":   "T",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)
	var todo struct {
		ID        int64  `json:"id"`
		UserID    *int64 `json:"user_id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &todo))
	require.NotNil(t, todo.UserID)
	require.Equal(t, user.ID, *todo.UserID)
	require.False(t, todo.Completed)

	// Completing the todo via full update
	rec, env = doJSON(t, h, http.MethodPut, fmt.Sprintf("/todos/%d", todo.ID), map[string]any{
		"user_id":   user.ID,
		"title":     "T",
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &todo))
	require.True(t, todo.Completed)

	// Deleting the owner cascades
	rec, _ = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, h, http.MethodGet, fmt.Sprintf("/todos/%d", todo.ID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Todo Not Found", env.Message)
}

func TestTodoWithUnknownUserIsStoreError(t *testing.T) {
	h := newTestHandler(t)

	// Foreign keys are enforced, so this is rejected by the store
	rec, env := doJSON(t, h, http.MethodPost, "/todos", map[string]any{
		"user_id": 999999,
		"title":   "orphan",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.False(t, env.Success)
}

func TestTodoMissingTitle(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodPost, "/todos", map[string]any{"user_id": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "title is required", env.Message)
}

func TestUnmatchedRouteEnvelope(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "Not Found", env.Message)
	require.JSONEq(t, `"/nope"`, string(env.Data))

	// Wrong method on a known path gets the same envelope
	rec, env = doJSON(t, h, http.MethodPatch, "/users", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, env.Success)
}
