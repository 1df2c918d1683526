package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/msomdec/user-directory/internal/domain"
	"github.com/msomdec/user-directory/internal/service"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{Name: u.Name, Email: u.Email}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// UserHandler serves the /api/users routes.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(users))
}

// Get handles GET /api/users/{id}. A missing user surfaces as a 400, the
// same status the update path uses for an unknown id.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("No user with id '%s' found", id))
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// Create handles POST /api/users. Inputs arrive as query parameters; no
// request body is consumed.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	user, err := h.users.Create(r.Context(), q.Get("name"), q.Get("email"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	q := r.URL.Query()

	user, err := h.users.Update(r.Context(), id, q.Get("name"), q.Get("email"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// Delete handles DELETE /api/users/{id}. Older clients send name/email
// query parameters too; they are ignored. Deleting an unknown id succeeds.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.users.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "ok")
}
