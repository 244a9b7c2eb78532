package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/avdmitry-dev/go-task-api/internal/models"
	"github.com/avdmitry-dev/go-task-api/internal/repository"
)

const (
	taskNotFoundFormat      = "No task was found with ID: %d."
	userNotAssociableFormat = "Task cannot be associated with a user because no user was found with ID: %d."
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  TaskStore
	users  UserStore
}

func NewTaskService(
	logger zerolog.Logger,
	tasks TaskStore,
	users UserStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
		users:  users,
	}
}

func newTaskDTO(task *models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		UserID:      task.UserID,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]TaskDTO, error) {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		return nil, newInternalFault()
	}

	response := make([]TaskDTO, len(tasks))
	for i := range tasks {
		response[i] = newTaskDTO(&tasks[i])
	}

	s.logger.Info().
		Int("count", len(response)).
		Msg("listed tasks")
	return response, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*TaskDTO, error) {
	if params.UserID != nil {
		_, err := s.users.FindByID(ctx, nil, *params.UserID)
		if err != nil {
			var notFound *repository.NotFoundError
			if errors.As(err, &notFound) {
				s.logger.Warn().
					Int64("user_id", *params.UserID).
					Msg("cannot associate task with a missing user")
				return nil, newNotFoundFault(userNotAssociableFormat, *params.UserID)
			}

			s.logger.Error().
				Err(err).
				Msg("failed to check task owner")
			return nil, newInternalFault()
		}
	}

	task, err := s.tasks.Insert(ctx, nil, repository.InsertTaskParams{
		Title:       params.Title,
		Description: params.Description,
		UserID:      params.UserID,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		return nil, newInternalFault()
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	response := newTaskDTO(task)
	return &response, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, patch repository.TaskPatch) (*TaskDTO, error) {
	task, err := s.tasks.UpdateByID(ctx, nil, id, patch)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			s.logger.Warn().
				Int64("task_id", id).
				Msg("task not found")
			return nil, newNotFoundFault(taskNotFoundFormat, id)
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to update task")
		return nil, newInternalFault()
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	response := newTaskDTO(task)
	return &response, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) (string, error) {
	task, err := s.tasks.DeleteByID(ctx, nil, id)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			s.logger.Warn().
				Int64("task_id", id).
				Msg("task not found")
			return "", newNotFoundFault(taskNotFoundFormat, id)
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return "", newInternalFault()
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("deleted task")
	return fmt.Sprintf("Task with ID: %d deleted successfully.", task.ID), nil
}

func (s *taskServiceImpl) AssignUserToTask(ctx context.Context, taskID, userID int64) (*TaskDTO, error) {
	var task *models.Task
	err := s.tasks.RunTransaction(ctx, func(tx pgx.Tx) error {
		_, err := s.users.FindByID(ctx, tx, userID)
		if err != nil {
			return err
		}

		updated, err := s.tasks.UpdateByID(ctx, tx, taskID, repository.TaskPatch{UserID: &userID})
		if err != nil {
			return err
		}

		task = updated
		return nil
	})
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			if notFound.Subject == repository.SubjectUser {
				s.logger.Warn().
					Int64("task_id", taskID).
					Int64("user_id", userID).
					Msg("cannot assign a missing user")
				return nil, newNotFoundFault(userNotAssociableFormat, userID)
			}

			s.logger.Warn().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, newNotFoundFault(taskNotFoundFormat, taskID)
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Int64("user_id", userID).
			Msg("failed to assign user to task")
		return nil, newInternalFault()
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Int64("user_id", userID).
		Msg("assigned user to task")
	response := newTaskDTO(task)
	return &response, nil
}
