package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	SubjectTask = "task"
	SubjectUser = "user"
)

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx, so the
// same statement runs standalone or inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var ErrEmailTaken = errors.New("email is already taken")

// NotFoundError reports a single-row operation that matched no rows.
// It carries the entity kind so callers can tell which lookup failed
// without inspecting message text.
type NotFoundError struct {
	Subject string
	ID      int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found with id %d", e.Subject, e.ID)
}

// Field is one column assignment in an INSERT or UPDATE statement.
type Field struct {
	Column string
	Value  any
}

func insertClause(fields []Field) (columns string, placeholders string, args []any) {
	names := make([]string, len(fields))
	marks := make([]string, len(fields))
	args = make([]any, len(fields))
	for i, f := range fields {
		names[i] = f.Column
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = f.Value
	}
	return strings.Join(names, ", "), strings.Join(marks, ", "), args
}

func setClause(fields []Field) (string, []any) {
	assignments := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		assignments[i] = fmt.Sprintf("%s = $%d", f.Column, i+1)
		args[i] = f.Value
	}
	return strings.Join(assignments, ", "), args
}
