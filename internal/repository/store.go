package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// store is the generic CRUD executor behind the entity repositories.
// Each repository composes a configured store rather than inheriting
// shared behavior.
type store[T any] struct {
	db      DB
	logger  zerolog.Logger
	table   string
	subject string
	columns string
	scanRow func(row pgx.Row) (*T, error)
}

// withDB rebinds the store to another query surface, usually a
// transaction handle.
func (s store[T]) withDB(db DB) store[T] {
	s.db = db
	return s
}

func (s store[T]) findAll(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, s.columns, s.table)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("table", s.table).
			Msg("failed to select rows")
		return nil, err
	}
	defer rows.Close()

	var entries []T
	for rows.Next() {
		entry, err := s.scanRow(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("table", s.table).
				Msg("failed to scan row")
			return nil, err
		}
		entries = append(entries, *entry)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("table", s.table).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return entries, nil
}

func (s store[T]) findOneByID(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, s.columns, s.table)

	entry, err := s.scanRow(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Subject: s.subject, ID: id}
		}

		s.logger.Error().
			Err(err).
			Str("table", s.table).
			Int64("id", id).
			Msg("failed to select row")
		return nil, err
	}
	return entry, nil
}

func (s store[T]) insert(ctx context.Context, fields []Field) (*T, error) {
	columns, placeholders, args := insertClause(fields)
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		s.table, columns, placeholders, s.columns)

	entry, err := s.scanRow(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("table", s.table).
			Msg("failed to insert row")
		return nil, err
	}
	return entry, nil
}

func (s store[T]) updateByID(ctx context.Context, id int64, fields []Field) (*T, error) {
	assignments, args := setClause(fields)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		s.table, assignments, len(args)+1, s.columns)
	args = append(args, id)

	entry, err := s.scanRow(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Subject: s.subject, ID: id}
		}

		s.logger.Error().
			Err(err).
			Str("table", s.table).
			Int64("id", id).
			Msg("failed to update row")
		return nil, err
	}
	return entry, nil
}

func (s store[T]) deleteByID(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING %s`, s.table, s.columns)

	entry, err := s.scanRow(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Subject: s.subject, ID: id}
		}

		s.logger.Error().
			Err(err).
			Str("table", s.table).
			Int64("id", id).
			Msg("failed to delete row")
		return nil, err
	}
	return entry, nil
}
