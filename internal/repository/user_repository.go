package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/avdmitry-dev/go-task-api/internal/models"
)

type UserRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
	store  store[models.User]
}

func NewUserRepository(logger zerolog.Logger, pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		logger: logger,
		store: store[models.User]{
			db:      pool,
			logger:  logger,
			table:   "users",
			subject: SubjectUser,
			columns: "id, name, email",
			scanRow: scanUser,
		},
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) bound(tx pgx.Tx) store[models.User] {
	if tx != nil {
		return r.store.withDB(tx)
	}
	return r.store
}

func (r *UserRepository) FindByID(ctx context.Context, tx pgx.Tx, id int64) (*models.User, error) {
	user, err := r.bound(tx).findOneByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().
		Int64("user_id", user.ID).
		Msg("selected user")
	return user, nil
}

// Insert stores a new user, mapping a unique-constraint violation on the
// email column to ErrEmailTaken. The constraint is the real uniqueness
// guarantee; EnsureEmailNotTaken is only the advisory fast path.
func (r *UserRepository) Insert(ctx context.Context, tx pgx.Tx, name, email string) (*models.User, error) {
	fields := []Field{
		{Column: "name", Value: name},
		{Column: "email", Value: email},
	}

	user, err := r.bound(tx).insert(ctx, fields)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			r.logger.Error().
				Str("email", email).
				Msg("user with this email already exists")
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	r.logger.Debug().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")
	return user, nil
}

// EnsureEmailNotTaken reports ErrEmailTaken when a user with the given
// email already exists. The check is not serialized against concurrent
// inserts; callers still rely on the unique constraint.
func (r *UserRepository) EnsureEmailNotTaken(ctx context.Context, email string) error {
	const selectUserIDByEmailQuery = `
SELECT id
FROM users
WHERE email = $1
`
	var id int64
	err := r.store.db.QueryRow(ctx, selectUserIDByEmailQuery, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}

		r.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return err
	}

	r.logger.Debug().
		Int64("user_id", id).
		Str("email", email).
		Msg("email is already taken")
	return ErrEmailTaken
}
