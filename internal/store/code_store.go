package store

import (
	"context"

	"github.com/AdamBeresnev/tennis-leagues/internal/auth"
	"github.com/jmoiron/sqlx"
)

type CodeStore struct {
	db *sqlx.DB
}

const (
	codeColumns = `code_id, code_type, email, code, created_ts, expiry_ts, used`

	createCodeQuery = `
		INSERT INTO codes (code_type, email, code, created_ts, expiry_ts)
		VALUES (:code_type, :email, :code, :created_ts, :expiry_ts)
	`
	findCodeQuery = `
		SELECT ` + codeColumns + ` FROM codes
		WHERE code_type = ? AND code = ? AND used = 0 AND expiry_ts > ?
		ORDER BY created_ts DESC LIMIT 1
	`
	findCodeForEmailQuery = `
		SELECT ` + codeColumns + ` FROM codes
		WHERE code_type = ? AND email = ? AND code = ? AND used = 0 AND expiry_ts > ?
		ORDER BY created_ts DESC LIMIT 1
	`
	markCodeUsedQuery    = "UPDATE codes SET used = 1 WHERE code_id = ?"
	deleteStaleCodeQuery = "DELETE FROM codes WHERE used = 1 OR expiry_ts <= ?"
)

func NewCodeStore(db *sqlx.DB) *CodeStore {
	return &CodeStore{db: db}
}

func (s *CodeStore) CreateCode(ctx context.Context, exec sqlx.ExtContext, code *auth.Code) error {
	res, err := sqlx.NamedExecContext(ctx, exec, createCodeQuery, code)
	if err != nil {
		return err
	}
	code.ID, err = res.LastInsertId()
	return err
}

// FindValidCode returns the newest unused code of codeType matching value that has not
// expired at now (unix seconds).
func (s *CodeStore) FindValidCode(ctx context.Context, codeType auth.CodeType, value string, now int64) (*auth.Code, error) {
	var code auth.Code
	err := s.db.GetContext(ctx, &code, findCodeQuery, codeType, value, now)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (s *CodeStore) FindValidCodeForEmail(ctx context.Context, codeType auth.CodeType, email string, value string, now int64) (*auth.Code, error) {
	var code auth.Code
	err := s.db.GetContext(ctx, &code, findCodeForEmailQuery, codeType, email, value, now)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (s *CodeStore) MarkUsed(ctx context.Context, exec sqlx.ExtContext, codeID int64) error {
	return expectRows(exec.ExecContext(ctx, markCodeUsedQuery, codeID))
}

// DeleteStale removes codes that were used or expired at or before now.
func (s *CodeStore) DeleteStale(ctx context.Context, now int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteStaleCodeQuery, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
