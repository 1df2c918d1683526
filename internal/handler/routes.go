package handler

import (
	"net/http"

	"github.com/msomdec/user-directory/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, users *service.UserService) {
	h := NewUserHandler(users)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("GET /api/users", h.List)
	mux.HandleFunc("POST /api/users", h.Create)
	mux.HandleFunc("GET /api/users/{id}", h.Get)
	mux.HandleFunc("PUT /api/users/{id}", h.Update)
	mux.HandleFunc("DELETE /api/users/{id}", h.Delete)
}
