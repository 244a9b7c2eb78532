package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/avdmitry-dev/go-task-api/internal/models"
	"github.com/avdmitry-dev/go-task-api/internal/repository"
	"github.com/avdmitry-dev/go-task-api/internal/services"
)

type stubTaskStore struct {
	tasks       []models.Task
	findAllErr  error
	insertTask  *models.Task
	insertErr   error
	insertCalls int
	lastInsert  repository.InsertTaskParams
	updateTask  *models.Task
	updateErr   error
	updateCalls int
	lastPatch   repository.TaskPatch
	deleteTask  *models.Task
	deleteErr   error
	beginErr    error
}

func (s *stubTaskStore) FindAll(ctx context.Context) ([]models.Task, error) {
	return s.tasks, s.findAllErr
}

func (s *stubTaskStore) Insert(ctx context.Context, tx pgx.Tx, params repository.InsertTaskParams) (*models.Task, error) {
	s.insertCalls++
	s.lastInsert = params
	return s.insertTask, s.insertErr
}

func (s *stubTaskStore) UpdateByID(ctx context.Context, tx pgx.Tx, id int64, patch repository.TaskPatch) (*models.Task, error) {
	s.updateCalls++
	s.lastPatch = patch
	return s.updateTask, s.updateErr
}

func (s *stubTaskStore) DeleteByID(ctx context.Context, tx pgx.Tx, id int64) (*models.Task, error) {
	return s.deleteTask, s.deleteErr
}

func (s *stubTaskStore) RunTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	return fn(nil)
}

type stubUserStore struct {
	user        *models.User
	findErr     error
	findCalls   int
	insertUser  *models.User
	insertErr   error
	insertCalls int
	ensureErr   error
}

func (s *stubUserStore) FindByID(ctx context.Context, tx pgx.Tx, id int64) (*models.User, error) {
	s.findCalls++
	return s.user, s.findErr
}

func (s *stubUserStore) Insert(ctx context.Context, tx pgx.Tx, name, email string) (*models.User, error) {
	s.insertCalls++
	return s.insertUser, s.insertErr
}

func (s *stubUserStore) EnsureEmailNotTaken(ctx context.Context, email string) error {
	return s.ensureErr
}

func assertFault(t *testing.T, err error, kind services.FaultKind, message string) {
	t.Helper()

	var fault *services.Fault
	if !errors.As(err, &fault) {
		t.Fatalf("error = %v, want *services.Fault", err)
	}
	if fault.Kind != kind {
		t.Errorf("fault kind = %d, want %d", fault.Kind, kind)
	}
	if message != "" && fault.Message != message {
		t.Errorf("fault message = %q, want %q", fault.Message, message)
	}
}

func newTaskService(tasks *stubTaskStore, users *stubUserStore) services.TaskService {
	return services.NewTaskService(zerolog.Nop(), tasks, users)
}

func TestCreateTaskWithoutUser(t *testing.T) {
	now := time.Now()
	tasks := &stubTaskStore{
		insertTask: &models.Task{
			ID:        1,
			Title:     "T",
			Status:    models.StatusTodo,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	users := &stubUserStore{}

	dto, err := newTaskService(tasks, users).CreateTask(context.Background(), services.CreateTaskParams{Title: "T"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if users.findCalls != 0 {
		t.Errorf("user lookup calls = %d, want 0", users.findCalls)
	}
	if dto.Status != models.StatusTodo {
		t.Errorf("status = %q, want %q", dto.Status, models.StatusTodo)
	}
	if dto.UserID != nil {
		t.Errorf("user_id = %v, want nil", *dto.UserID)
	}
}

func TestCreateTaskWithMissingUser(t *testing.T) {
	tasks := &stubTaskStore{}
	users := &stubUserStore{
		findErr: &repository.NotFoundError{Subject: repository.SubjectUser, ID: 999},
	}
	userID := int64(999)

	_, err := newTaskService(tasks, users).CreateTask(context.Background(), services.CreateTaskParams{
		Title:  "T",
		UserID: &userID,
	})

	assertFault(t, err, services.FaultNotFound,
		"Task cannot be associated with a user because no user was found with ID: 999.")
	if tasks.insertCalls != 0 {
		t.Errorf("insert calls = %d, want 0", tasks.insertCalls)
	}
}

func TestCreateTaskWithExistingUser(t *testing.T) {
	userID := int64(1)
	description := "D"
	tasks := &stubTaskStore{
		insertTask: &models.Task{
			ID:          3,
			Title:       "T",
			Description: &description,
			Status:      models.StatusTodo,
			UserID:      &userID,
		},
	}
	users := &stubUserStore{user: &models.User{ID: 1, Name: "Jane", Email: "jane@example.com"}}

	dto, err := newTaskService(tasks, users).CreateTask(context.Background(), services.CreateTaskParams{
		Title:       "T",
		Description: &description,
		UserID:      &userID,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if tasks.lastInsert.UserID == nil || *tasks.lastInsert.UserID != 1 {
		t.Errorf("insert params user id = %v, want 1", tasks.lastInsert.UserID)
	}
	if dto.UserID == nil || *dto.UserID != 1 {
		t.Errorf("dto user_id = %v, want 1", dto.UserID)
	}
	if dto.Description == nil || *dto.Description != "D" {
		t.Errorf("dto description = %v, want D", dto.Description)
	}
}

func TestListTasks(t *testing.T) {
	userID := int64(1)
	tasks := &stubTaskStore{
		tasks: []models.Task{
			{ID: 1, Title: "A", Status: models.StatusTodo},
			{ID: 2, Title: "B", Status: models.StatusCompleted, UserID: &userID},
		},
	}

	dtos, err := newTaskService(tasks, &stubUserStore{}).ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}

	if len(dtos) != 2 {
		t.Fatalf("len(dtos) = %d, want 2", len(dtos))
	}
	if dtos[0].ID != 1 || dtos[0].Title != "A" {
		t.Errorf("dtos[0] = %+v, want id 1 title A", dtos[0])
	}
	if dtos[1].UserID == nil || *dtos[1].UserID != 1 {
		t.Errorf("dtos[1].UserID = %v, want 1", dtos[1].UserID)
	}
}

func TestListTasksInternalFault(t *testing.T) {
	tasks := &stubTaskStore{findAllErr: errors.New("connection reset")}

	_, err := newTaskService(tasks, &stubUserStore{}).ListTasks(context.Background())

	assertFault(t, err, services.FaultInternal, "Internal server error. Please try again.")
}

func TestUpdateTaskNotFound(t *testing.T) {
	tasks := &stubTaskStore{
		updateErr: &repository.NotFoundError{Subject: repository.SubjectTask, ID: 42},
	}
	title := "T"

	_, err := newTaskService(tasks, &stubUserStore{}).UpdateTask(
		context.Background(), 42, repository.TaskPatch{Title: &title})

	assertFault(t, err, services.FaultNotFound, "No task was found with ID: 42.")
}

func TestDeleteTask(t *testing.T) {
	tasks := &stubTaskStore{deleteTask: &models.Task{ID: 7, Title: "T"}}

	message, err := newTaskService(tasks, &stubUserStore{}).DeleteTask(context.Background(), 7)
	if err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}

	if want := "Task with ID: 7 deleted successfully."; message != want {
		t.Errorf("message = %q, want %q", message, want)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	tasks := &stubTaskStore{
		deleteErr: &repository.NotFoundError{Subject: repository.SubjectTask, ID: 999},
	}

	_, err := newTaskService(tasks, &stubUserStore{}).DeleteTask(context.Background(), 999)

	assertFault(t, err, services.FaultNotFound, "No task was found with ID: 999.")
}

func TestAssignUserToTask(t *testing.T) {
	userID := int64(1)
	tasks := &stubTaskStore{
		updateTask: &models.Task{ID: 5, Title: "T", Status: models.StatusTodo, UserID: &userID},
	}
	users := &stubUserStore{user: &models.User{ID: 1}}

	dto, err := newTaskService(tasks, users).AssignUserToTask(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("AssignUserToTask() error = %v", err)
	}

	if tasks.lastPatch.UserID == nil || *tasks.lastPatch.UserID != 1 {
		t.Errorf("patch user id = %v, want 1", tasks.lastPatch.UserID)
	}
	if dto.UserID == nil || *dto.UserID != 1 {
		t.Errorf("dto user_id = %v, want 1", dto.UserID)
	}
}

func TestAssignUserToTaskMissingUser(t *testing.T) {
	tasks := &stubTaskStore{}
	users := &stubUserStore{
		findErr: &repository.NotFoundError{Subject: repository.SubjectUser, ID: 999},
	}

	_, err := newTaskService(tasks, users).AssignUserToTask(context.Background(), 5, 999)

	assertFault(t, err, services.FaultNotFound,
		"Task cannot be associated with a user because no user was found with ID: 999.")
	if tasks.updateCalls != 0 {
		t.Errorf("update calls = %d, want 0", tasks.updateCalls)
	}
}

func TestAssignUserToTaskMissingTask(t *testing.T) {
	tasks := &stubTaskStore{
		updateErr: &repository.NotFoundError{Subject: repository.SubjectTask, ID: 999},
	}
	users := &stubUserStore{user: &models.User{ID: 1}}

	_, err := newTaskService(tasks, users).AssignUserToTask(context.Background(), 999, 1)

	assertFault(t, err, services.FaultNotFound, "No task was found with ID: 999.")
}

func TestAssignUserToTaskTransactionFailure(t *testing.T) {
	tasks := &stubTaskStore{beginErr: errors.New("deadlock detected")}

	_, err := newTaskService(tasks, &stubUserStore{}).AssignUserToTask(context.Background(), 5, 1)

	assertFault(t, err, services.FaultInternal, "Internal server error. Please try again.")
}
