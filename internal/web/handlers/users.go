package handlers

import (
	"net/http"

	"github.com/crumbworks/todosvc/internal/store"
)

// userRequest is the JSON body for creating or updating a user.
// Name and email are required; the remaining fields are optional.
type userRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required"`
	Age     *int64  `json:"age"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (req *userRequest) model() *store.User {
	return &store.User{
		Name:    req.Name,
		Email:   req.Email,
		Age:     req.Age,
		Phone:   req.Phone,
		Address: req.Address,
	}
}

// UserCreate handles POST /users
func (h *Handlers) UserCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), req.model())
	if err != nil {
		h.storeError(w, r, "User", err)
		return
	}
	h.jsonData(w, http.StatusCreated, "User Created Successfully", user)
}

// UserList handles GET /users
func (h *Handlers) UserList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.storeError(w, r, "User", err)
		return
	}
	h.jsonData(w, http.StatusOK, "Users Retrieved Successfully", users)
}

// UserGet handles GET /users/{id}
func (h *Handlers) UserGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "User")
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, r, "User", err)
		return
	}
	h.jsonData(w, http.StatusOK, "User Fetched Successfully", user)
}

// UserUpdate handles PUT /users/{id}
func (h *Handlers) UserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "User")
	if !ok {
		return
	}

	var req userRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Update(r.Context(), id, req.model())
	if err != nil {
		h.storeError(w, r, "User", err)
		return
	}
	h.jsonData(w, http.StatusOK, "User Updated Successfully", user)
}

// UserDelete handles DELETE /users/{id}
func (h *Handlers) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "User")
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.storeError(w, r, "User", err)
		return
	}
	h.jsonDeleted(w, "User Deleted")
}
