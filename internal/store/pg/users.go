package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"lumora.life/internal/access"
	"lumora.life/internal/mfa"
	"lumora.life/internal/store"
)

var _ store.UserStore = (*Store)(nil)

const userColumns = `id, email, name, password_hash,
	consumer_role, institutional_role, admin_role,
	mfa_enabled, mfa_secret, created_at, updated_at`

func scanUser(row *sql.Row) (*store.User, error) {
	var (
		u             store.User
		consumer      sql.NullString
		institutional sql.NullString
		admin         sql.NullString
		secret        sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&consumer, &institutional, &admin,
		&u.MFAEnabled, &secret, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Roles = access.RoleAssignment{
		Consumer:      access.Role(consumer.String),
		Institutional: access.Role(institutional.String),
		Admin:         access.Role(admin.String),
	}
	u.MFASecret = secret.String
	return &u, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*store.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+userColumns+`
		from users
		where id = $1
	`, id)
	return scanUser(row)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*store.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+userColumns+`
		from users
		where email = $1
	`, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

func (s *Store) RoleAssignment(ctx context.Context, userID string) (access.RoleAssignment, error) {
	var (
		consumer      sql.NullString
		institutional sql.NullString
		admin         sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select consumer_role, institutional_role, admin_role
		from users
		where id = $1
	`, userID).Scan(&consumer, &institutional, &admin)
	if errors.Is(err, sql.ErrNoRows) {
		return access.RoleAssignment{}, store.ErrNotFound
	}
	if err != nil {
		return access.RoleAssignment{}, err
	}
	return access.RoleAssignment{
		Consumer:      access.Role(consumer.String),
		Institutional: access.Role(institutional.String),
		Admin:         access.Role(admin.String),
	}, nil
}

func (s *Store) MFASettings(ctx context.Context, userID string) (mfa.Settings, error) {
	var (
		secret  sql.NullString
		enabled bool
	)
	err := s.db.QueryRowContext(ctx, `
		select mfa_secret, mfa_enabled
		from users
		where id = $1
	`, userID).Scan(&secret, &enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return mfa.Settings{}, store.ErrNotFound
	}
	if err != nil {
		return mfa.Settings{}, err
	}
	return mfa.Settings{Secret: secret.String, Enabled: enabled}, nil
}

// SetMFASecret stores a fresh secret and resets enrollment in one statement,
// so a re-setup can never leave the old secret enabled.
func (s *Store) SetMFASecret(ctx context.Context, userID, secret string) error {
	res, err := s.db.ExecContext(ctx, `
		update users
		set mfa_secret = $2, mfa_enabled = false, updated_at = now()
		where id = $1
	`, userID, secret)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) EnableMFA(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		update users
		set mfa_enabled = true, updated_at = now()
		where id = $1
	`, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
