// Package handlers contains the HTTP handlers. Every response uses the
// uniform envelope {success, message, data?}.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/crumbworks/todosvc/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Handlers contains all HTTP handlers
type Handlers struct {
	users *store.Repository[store.User]
	todos *store.Repository[store.Todo]
}

// New creates a new Handlers instance
func New(users *store.Repository[store.User], todos *store.Repository[store.Todo]) *Handlers {
	return &Handlers{
		users: users,
		todos: todos,
	}
}

// Greeting handles GET / with a plain text response
func (h *Handlers) Greeting(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello World!"))
}

// NotFound handles unmatched routes with a 404 envelope carrying the
// requested path
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusNotFound, envelope{
		Success: false,
		Message: "Not Found",
		Data:    r.URL.Path,
	})
}

// envelope is the uniform JSON response wrapper
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (h *Handlers) respond(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// jsonData sends a success envelope with a payload
func (h *Handlers) jsonData(w http.ResponseWriter, status int, message string, data any) {
	h.respond(w, status, envelope{Success: true, Message: message, Data: data})
}

// jsonDeleted sends a success envelope with an explicit null payload
func (h *Handlers) jsonDeleted(w http.ResponseWriter, message string) {
	h.respond(w, http.StatusOK, envelope{Success: true, Message: message, Data: json.RawMessage("null")})
}

// jsonError sends a failure envelope with no payload
func (h *Handlers) jsonError(w http.ResponseWriter, status int, message string) {
	h.respond(w, status, envelope{Success: false, Message: message})
}

// storeError maps a repository error onto the response envelope.
// Not-found is the only 4xx outcome here; conflicts, timeouts and other
// store failures surface as 500 with the underlying message.
func (h *Handlers) storeError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, http.StatusNotFound, entity+" Not Found")
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("Store operation failed")
	h.jsonError(w, http.StatusInternalServerError, err.Error())
}

// decodeBody parses and validates a JSON request body. On failure it
// writes a 400 envelope and returns false.
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.jsonError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		h.jsonError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// pathID parses the {id} path parameter. Malformed identifiers are
// rejected before any store access.
func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request, entity string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.jsonError(w, http.StatusBadRequest, "Invalid "+strings.ToLower(entity)+" ID")
		return 0, false
	}
	return id, true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field())
		return fmt.Sprintf("%s is required", field)
	}
	return "Invalid request body"
}
