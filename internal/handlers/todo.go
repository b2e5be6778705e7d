package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/taskvault/apiserver/internal/services"
	"github.com/taskvault/apiserver/types"
)

// TodoHandler provides HTTP handlers for todos.
type TodoHandler struct {
	todoService *services.TodoService
	validate    *validator.Validate
}

// NewTodoHandler constructs a handler with the provided service.
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		validate:    validator.New(),
	}
}

// TodoRouter registers todo routes on the given router. Every route
// requires authentication; mutations are restricted to admins.
func TodoRouter(r chi.Router, todoService *services.TodoService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewTodoHandler(todoService)

	r.Use(authMiddleware)
	r.With(RequireRole(types.RoleAdmin)).Post("/", handler.CreateTodo)
	r.With(RequireRole(types.RoleAdmin, types.RoleViewer)).Get("/", handler.ListTodos)
	r.Route("/{todoID}", func(r chi.Router) {
		r.With(RequireRole(types.RoleAdmin, types.RoleViewer)).Get("/", handler.GetTodo)
		r.With(RequireRole(types.RoleAdmin)).Put("/", handler.UpdateTodo)
		r.With(RequireRole(types.RoleAdmin)).Delete("/", handler.DeleteTodo)
	})
}

type CreateTodoRequest struct {
	Title     string     `json:"title" validate:"required"`
	Details   string     `json:"details"`
	DueDate   *time.Time `json:"due_date"`
	Completed bool       `json:"completed"`
}

func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todoService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseTodoID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.todoService.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "todo not found")
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := h.todoService.Create(r.Context(), types.Todo{
		Title:     req.Title,
		Details:   req.Details,
		DueDate:   req.DueDate,
		Completed: req.Completed,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create todo")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseTodoID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch types.TodoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.todoService.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err, "todo not found")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseTodoID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.todoService.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "todo not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "todo deleted"})
}

func parseTodoID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "todoID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid todo id")
	}
	return id, nil
}
