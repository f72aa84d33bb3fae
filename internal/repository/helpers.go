package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lore-server/internal/database"
	"lore-server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError maps driver errors onto model sentinels. Anything it does
// not recognise is returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", models.ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: unknown related id (%s)", models.ErrInvalidInput, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", models.ErrInvalidInput, pgErr.ConstraintName)
		}
	}
	return err
}

// isKnown reports whether translateError turned err into a client error.
func isKnown(err error) bool {
	return errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrConflict) || errors.Is(err, models.ErrInvalidInput)
}

// jsonb marshals v for a JSONB parameter. nil maps and slices become their
// empty JSON form.
func jsonb(v any, empty string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}
	if string(b) == "null" {
		return []byte(empty), nil
	}
	return b, nil
}

type auditParams struct {
	tags      []byte
	extraData []byte
}

func encodeAudit(a *models.Audit) (auditParams, error) {
	tags, err := jsonb(a.Tags, "[]")
	if err != nil {
		return auditParams{}, err
	}
	extra, err := jsonb(a.ExtraData, "{}")
	if err != nil {
		return auditParams{}, err
	}
	return auditParams{tags: tags, extraData: extra}, nil
}

// deleteByID removes one row. table is always a package constant.
func deleteByID(ctx context.Context, db database.DBTX, table string, id int64) error {
	tag, err := db.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// replaceLinks rewrites the rows of a join table for one owner.
func replaceLinks(ctx context.Context, tx pgx.Tx, table, ownerColumn, refColumn string, ownerID int64, ids []int64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE "+ownerColumn+" = $1", ownerID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if len(ids) == 0 {
		return nil
	}
	query := "INSERT INTO " + table + " (" + ownerColumn + ", " + refColumn + ") " +
		"SELECT DISTINCT $1::bigint, ref FROM unnest($2::bigint[]) AS ref"
	if _, err := tx.Exec(ctx, query, ownerID, ids); err != nil {
		return fmt.Errorf("failed to link %s: %w", table, translateError(err))
	}
	return nil
}

// linkedIDs builds a correlated subquery returning the ids linked to alias.id.
func linkedIDs(table, ownerColumn, refColumn, alias string) string {
	return "COALESCE((SELECT array_agg(" + refColumn + " ORDER BY " + refColumn + ") FROM " + table +
		" WHERE " + ownerColumn + " = " + alias + ".id), '{}')"
}
