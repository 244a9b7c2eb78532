package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/avdmitry-dev/go-task-api/internal/models"
	"github.com/avdmitry-dev/go-task-api/internal/repository"
)

// FaultKind tags the user-visible failure categories. The delivery
// layer maps kinds to HTTP status codes; nothing outside these
// categories ever reaches a client.
type FaultKind int

const (
	FaultInternal FaultKind = iota
	FaultNotFound
	FaultConflict
	FaultUnprocessable
)

type Fault struct {
	Kind    FaultKind
	Message string
}

func (f *Fault) Error() string {
	return f.Message
}

const internalErrorMessage = "Internal server error. Please try again."

func newNotFoundFault(format string, args ...any) *Fault {
	return &Fault{Kind: FaultNotFound, Message: fmt.Sprintf(format, args...)}
}

func newConflictFault(format string, args ...any) *Fault {
	return &Fault{Kind: FaultConflict, Message: fmt.Sprintf(format, args...)}
}

func newInternalFault() *Fault {
	return &Fault{Kind: FaultInternal, Message: internalErrorMessage}
}

// TaskDTO is the task shape crossing the HTTP boundary.
type TaskDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      *int64    `json:"user_id"`
}

// UserDTO is the user shape crossing the HTTP boundary.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskStore is the task data-access surface the task service relies on.
// A nil tx runs the operation standalone.
type TaskStore interface {
	FindAll(ctx context.Context) ([]models.Task, error)
	Insert(ctx context.Context, tx pgx.Tx, params repository.InsertTaskParams) (*models.Task, error)
	UpdateByID(ctx context.Context, tx pgx.Tx, id int64, patch repository.TaskPatch) (*models.Task, error)
	DeleteByID(ctx context.Context, tx pgx.Tx, id int64) (*models.Task, error)
	RunTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// UserStore is the user data-access surface the services rely on.
type UserStore interface {
	FindByID(ctx context.Context, tx pgx.Tx, id int64) (*models.User, error)
	Insert(ctx context.Context, tx pgx.Tx, name, email string) (*models.User, error)
	EnsureEmailNotTaken(ctx context.Context, email string) error
}

type CreateTaskParams struct {
	Title       string
	Description *string
	UserID      *int64
}

type TaskService interface {
	// ListTasks returns every stored task mapped to its DTO.
	ListTasks(ctx context.Context) ([]TaskDTO, error)

	// CreateTask stores a new task. When params.UserID is set, the
	// referenced user must exist; otherwise the call fails with a
	// not-found fault and nothing is stored.
	CreateTask(ctx context.Context, params CreateTaskParams) (*TaskDTO, error)

	// UpdateTask applies a non-empty partial update to the task with
	// the given id. Callers guarantee the patch carries at least one
	// field.
	UpdateTask(ctx context.Context, id int64, patch repository.TaskPatch) (*TaskDTO, error)

	// DeleteTask removes the task with the given id and returns a
	// confirmation message keyed by the deleted id.
	DeleteTask(ctx context.Context, id int64) (string, error)

	// AssignUserToTask sets the task's owning user inside a single
	// transaction: the user-existence check and the update are atomic
	// with respect to other transactions.
	AssignUserToTask(ctx context.Context, taskID, userID int64) (*TaskDTO, error)
}

type UserService interface {
	// CreateUser stores a new user after checking the email is not
	// already taken, failing with a conflict fault when it is.
	CreateUser(ctx context.Context, name, email string) (*UserDTO, error)
}
