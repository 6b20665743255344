package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/online-store/store-service/internal/database"
	"github.com/online-store/store-service/internal/domain"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes translated into domain errors.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
	checkViolation      = "23514"
)

type base struct {
	db *gorm.DB
}

func (b base) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, b.db)
}

// translateError maps gorm and lib/pq errors onto domain error kinds.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return domain.Conflict(op, "A record with the same unique value already exists.")
		case foreignKeyViolation:
			return domain.Conflict(op, "The record references, or is referenced by, another record.")
		case checkViolation:
			return domain.InvalidInput(op, "Value rejected by constraint %s.", pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// affected turns a zero-row write into ErrNotFound.
func affected(op string, result *gorm.DB) error {
	if result.Error != nil {
		return translateError(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func paginate(page domain.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page.Cursor != nil {
			db = db.Where("id > ?", *page.Cursor)
		}
		return db.Order("id").Limit(page.Limit)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
