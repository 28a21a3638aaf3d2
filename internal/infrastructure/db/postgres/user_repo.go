// Package postgres implements the user credential store on Postgres via
// the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/taskapp/auth-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, email, password_hash, is_two_factor_enabled, two_factor_secret, backup_codes, created_at`

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepo) scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Name,
		&ur.Email,
		&ur.PasswordHash,
		&ur.IsTwoFactorEnabled,
		&ur.TwoFactorSecret,
		&ur.BackupCodes,
		&ur.CreatedAt,
	)
	return ur, err
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO users (id, name, email, password_hash)
VALUES ($1,$2,$3,$4)
RETURNING ` + userColumns + `;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// SetTwoFactorSetup stores pending enrollment material. The enabled flag
// is left untouched so re-generation while enabled matches prior behavior.
func (r *UserRepo) SetTwoFactorSetup(ctx context.Context, userID, secret string, backupCodes []string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if secret == "" {
		return domain.ErrMissingField("secret")
	}

	const q = `
UPDATE users
SET two_factor_secret = $2,
    backup_codes = $3
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, secret, textArray(backupCodes))
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) EnableTwoFactor(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET is_two_factor_enabled = TRUE
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// DisableTwoFactor clears the flag, the secret and any remaining backup
// codes in one statement.
func (r *UserRepo) DisableTwoFactor(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users
SET is_two_factor_enabled = FALSE,
    two_factor_secret = '',
    backup_codes = '{}'
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// ConsumeBackupCode removes the code only if it is present, in a single
// conditional UPDATE. Concurrent logins with the same code race on the
// row lock; exactly one sees an affected row.
func (r *UserRepo) ConsumeBackupCode(ctx context.Context, userID, code string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, domain.ErrMissingField("user_id")
	}
	if code == "" {
		return false, nil
	}

	const q = `
UPDATE users
SET backup_codes = array_remove(backup_codes, $2)
WHERE id = $1
  AND $2 = ANY(backup_codes);
`
	res, err := r.db.ExecContext(ctx, q, userID, code)
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}
