package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/avdmitry-dev/go-task-api/internal/models"
)

type InsertTaskParams struct {
	Title       string
	Description *string
	UserID      *int64
}

// TaskPatch holds the optional column values of a partial task update.
// Nil members are left untouched by the statement.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	UserID      *int64
}

func (p TaskPatch) fields() []Field {
	var fields []Field
	if p.Title != nil {
		fields = append(fields, Field{Column: "title", Value: *p.Title})
	}
	if p.Description != nil {
		fields = append(fields, Field{Column: "description", Value: *p.Description})
	}
	if p.Status != nil {
		fields = append(fields, Field{Column: "status", Value: *p.Status})
	}
	if p.UserID != nil {
		fields = append(fields, Field{Column: "user_id", Value: *p.UserID})
	}
	return fields
}

type TaskRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
	store  store[models.Task]
}

func NewTaskRepository(logger zerolog.Logger, pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		pool:   pool,
		logger: logger,
		store: store[models.Task]{
			db:      pool,
			logger:  logger,
			table:   "tasks",
			subject: SubjectTask,
			columns: "id, title, description, status, created_at, updated_at, user_id",
			scanRow: scanTask,
		},
	}
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) bound(tx pgx.Tx) store[models.Task] {
	if tx != nil {
		return r.store.withDB(tx)
	}
	return r.store
}

func (r *TaskRepository) FindAll(ctx context.Context) ([]models.Task, error) {
	tasks, err := r.store.findAll(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, tx pgx.Tx, id int64) (*models.Task, error) {
	task, err := r.bound(tx).findOneByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("selected task")
	return task, nil
}

// Insert stores a new task. Status and both timestamps are assigned by
// the database defaults.
func (r *TaskRepository) Insert(ctx context.Context, tx pgx.Tx, params InsertTaskParams) (*models.Task, error) {
	fields := []Field{{Column: "title", Value: params.Title}}
	if params.Description != nil {
		fields = append(fields, Field{Column: "description", Value: *params.Description})
	}
	if params.UserID != nil {
		fields = append(fields, Field{Column: "user_id", Value: *params.UserID})
	}

	task, err := r.bound(tx).insert(ctx, fields)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")
	return task, nil
}

func (r *TaskRepository) UpdateByID(ctx context.Context, tx pgx.Tx, id int64, patch TaskPatch) (*models.Task, error) {
	fields := append(patch.fields(), Field{Column: "updated_at", Value: time.Now()})

	task, err := r.bound(tx).updateByID(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (r *TaskRepository) DeleteByID(ctx context.Context, tx pgx.Tx, id int64) (*models.Task, error) {
	task, err := r.bound(tx).deleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("deleted task")
	return task, nil
}

// RunTransaction invokes fn inside a transaction, committing on success
// and rolling back when fn reports an error.
func (r *TaskRepository) RunTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(tx)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}
	return nil
}
