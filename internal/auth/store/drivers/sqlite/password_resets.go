package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/terracehq/terrace-auth/internal/auth/domain"
	"github.com/terracehq/terrace-auth/internal/auth/store"
)

type passwordResetsRepo struct {
	q querier
}

func (r *passwordResetsRepo) CreatePasswordReset(ctx context.Context, pr domain.PasswordReset) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO password_resets (id, user_id, code_hash, expires_at, consumed_at, created_at)
		 VALUES (?, ?, ?, ?, NULL, ?)`,
		pr.ID, pr.UserID, pr.CodeHash, pr.ExpiresAt.UTC(), pr.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *passwordResetsRepo) GetPasswordResetByCodeHash(
	ctx context.Context,
	hash string,
) (domain.PasswordReset, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, code_hash, expires_at, consumed_at, created_at
		 FROM password_resets WHERE code_hash = ?`, hash)

	var pr domain.PasswordReset
	var consumedAt sql.NullTime
	err := row.Scan(&pr.ID, &pr.UserID, &pr.CodeHash, &pr.ExpiresAt, &consumedAt, &pr.CreatedAt)
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	if consumedAt.Valid {
		t := consumedAt.Time
		pr.ConsumedAt = &t
	}
	return pr, nil
}

// ConsumePasswordReset is the single conditional write of the reset
// lifecycle. The WHERE clause carries the whole invariant: only a pending,
// unexpired record can flip to consumed, so two racing callers resolve to
// exactly one winner at the database. Keying on code_hash lets callers run
// this as the first statement of a transaction, before any read pins a
// snapshot.
func (r *passwordResetsRepo) ConsumePasswordReset(ctx context.Context, codeHash string, at time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE password_resets SET consumed_at = ?
		 WHERE code_hash = ? AND consumed_at IS NULL AND expires_at > ?`,
		at.UTC(), codeHash, at.UTC())
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *passwordResetsRepo) DeleteExpiredPasswordResets(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM password_resets WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
