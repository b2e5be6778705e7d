package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskvault/apiserver/internal/auth"
	"github.com/taskvault/apiserver/internal/services"
	"github.com/taskvault/apiserver/internal/store"
	"github.com/taskvault/apiserver/types"
)

const testSecret = "handlers-test-secret"

type fakeTodoRepo struct {
	mu     sync.Mutex
	nextID int
	todos  map[int]types.Todo
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: make(map[int]types.Todo)}
}

func (r *fakeTodoRepo) List(ctx context.Context) ([]types.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todos := make([]types.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		todos = append(todos, todo)
	}
	return todos, nil
}

func (r *fakeTodoRepo) GetByID(ctx context.Context, id int) (types.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo, ok := r.todos[id]
	if !ok {
		return types.Todo{}, store.ErrNotFound
	}
	return todo, nil
}

func (r *fakeTodoRepo) Create(ctx context.Context, todo types.Todo) (types.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	todo.ID = r.nextID
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	r.todos[todo.ID] = todo
	return todo, nil
}

func (r *fakeTodoRepo) UpdateByID(ctx context.Context, id int, patch types.TodoPatch) (types.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo, ok := r.todos[id]
	if !ok {
		return types.Todo{}, store.ErrNotFound
	}
	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Details != nil {
		todo.Details = *patch.Details
	}
	if patch.DueDate != nil {
		todo.DueDate = patch.DueDate
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	todo.UpdatedAt = time.Now()
	r.todos[id] = todo
	return todo, nil
}

func (r *fakeTodoRepo) DeleteByID(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.todos, id)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]types.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return user, nil
}

type testServer struct {
	router *chi.Mux
	tokens *auth.TokenManager
	todos  *fakeTodoRepo
	users  *fakeUserRepo
}

func newTestServer() *testServer {
	todos := newFakeTodoRepo()
	users := newFakeUserRepo()

	tokens := auth.NewTokenManager(testSecret, auth.NewBlacklist())
	todoService := services.NewTodoService(todos, nil)
	userService := services.NewUserService(users)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		AuthRouter(r, userService, tokens)
	})
	router.Route("/todos", func(r chi.Router) {
		TodoRouter(r, todoService, RequireAuth(tokens))
	})

	return &testServer{
		router: router,
		tokens: tokens,
		todos:  todos,
		users:  users,
	}
}

func (s *testServer) tokenFor(t *testing.T, role types.Role) string {
	t.Helper()
	token, err := s.tokens.Issue(1, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.NewDecoder(rec.Body).Decode(&value); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return value
}

var _ services.TodoRepository = (*fakeTodoRepo)(nil)
var _ services.UserRepository = (*fakeUserRepo)(nil)
