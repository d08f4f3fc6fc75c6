package handlers

import (
	"net/http"
	"time"

	"github.com/crumbworks/todosvc/internal/store"
)

// todoRequest is the JSON body for creating or updating a todo. Only
// the title is required; user_id is bound as-is and left to the foreign
// key constraint to reject.
type todoRequest struct {
	UserID      *int64     `json:"user_id"`
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
}

func (req *todoRequest) model() *store.Todo {
	return &store.Todo{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
	}
}

// TodoCreate handles POST /todos
func (h *Handlers) TodoCreate(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	todo, err := h.todos.Create(r.Context(), req.model())
	if err != nil {
		h.storeError(w, r, "Todo", err)
		return
	}
	h.jsonData(w, http.StatusCreated, "Todo Created Successfully", todo)
}

// TodoList handles GET /todos
func (h *Handlers) TodoList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todos.List(r.Context())
	if err != nil {
		h.storeError(w, r, "Todo", err)
		return
	}
	h.jsonData(w, http.StatusOK, "Todos Retrieved Successfully", todos)
}

// TodoGet handles GET /todos/{id}
func (h *Handlers) TodoGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "Todo")
	if !ok {
		return
	}

	todo, err := h.todos.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, r, "Todo", err)
		return
	}
	h.jsonData(w, http.StatusOK, "Todo Fetched Successfully", todo)
}

// TodoUpdate handles PUT /todos/{id}
func (h *Handlers) TodoUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "Todo")
	if !ok {
		return
	}

	var req todoRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	todo, err := h.todos.Update(r.Context(), id, req.model())
	if err != nil {
		h.storeError(w, r, "Todo", err)
		return
	}
	h.jsonData(w, http.StatusOK, "Todo Updated Successfully", todo)
}

// TodoDelete handles DELETE /todos/{id}
func (h *Handlers) TodoDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "Todo")
	if !ok {
		return
	}

	if err := h.todos.Delete(r.Context(), id); err != nil {
		h.storeError(w, r, "Todo", err)
		return
	}
	h.jsonDeleted(w, "Todo Deleted")
}
