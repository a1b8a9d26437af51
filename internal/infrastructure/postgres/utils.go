package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/erp-location-api/internal/domain"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// transientClasses clases SQLSTATE que indican una falla del almacén y no de la consulta:
// conexión (08), rollback de transacción (40), recursos (53) e intervención del operador (57).
var transientClasses = []string{"08", "40", "53", "57"}

// storeErr clasifica un error del driver: 23505 -> domain.ErrConflict, datos inválidos (clase 22,
// ej. 22P02 texto que no es uuid) -> domain.ErrInvalidInput, fallas de conexión o del servidor ->
// domain.ErrTransientStore. El mensaje original se conserva.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "22") {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidInput, err)
		}
		for _, class := range transientClasses {
			if strings.HasPrefix(pgErr.Code, class) {
				return fmt.Errorf("%s: %w: %w", op, domain.ErrTransientStore, err)
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	// Sin SQLSTATE: red, pool cerrado, timeout de conexión.
	return fmt.Errorf("%s: %w: %w", op, domain.ErrTransientStore, err)
}
