package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/taskvault/apiserver/internal/events"
	"github.com/taskvault/apiserver/types"
)

// TodoRepository defines persistence operations for todos.
type TodoRepository interface {
	List(ctx context.Context) ([]types.Todo, error)
	GetByID(ctx context.Context, id int) (types.Todo, error)
	Create(ctx context.Context, todo types.Todo) (types.Todo, error)
	UpdateByID(ctx context.Context, id int, patch types.TodoPatch) (types.Todo, error)
	DeleteByID(ctx context.Context, id int) error
}

// TodoService encapsulates todo use-cases. Successful mutations are
// announced through the publisher; a nil publisher disables events.
type TodoService struct {
	repo      TodoRepository
	publisher *events.Publisher
}

func NewTodoService(repo TodoRepository, publisher *events.Publisher) *TodoService {
	return &TodoService{repo: repo, publisher: publisher}
}

func (s *TodoService) List(ctx context.Context) ([]types.Todo, error) {
	return s.repo.List(ctx)
}

func (s *TodoService) Get(ctx context.Context, id int) (types.Todo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TodoService) Create(ctx context.Context, todo types.Todo) (types.Todo, error) {
	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		return types.Todo{}, err
	}
	s.announce(ctx, events.ActionCreated, created)
	return created, nil
}

func (s *TodoService) Update(ctx context.Context, id int, patch types.TodoPatch) (types.Todo, error) {
	updated, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return types.Todo{}, err
	}
	s.announce(ctx, events.ActionUpdated, updated)
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, id int) error {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.announce(ctx, events.ActionDeleted, todo)
	return nil
}

// announce publishes a change event. Broker failures are logged and never
// surfaced to the caller: the mutation already committed.
func (s *TodoService) announce(ctx context.Context, action events.Action, todo types.Todo) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.TodoChanged(ctx, action, todo); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action":  action,
			"todo_id": todo.ID,
		}).Warn("failed to publish todo event")
	}
}
