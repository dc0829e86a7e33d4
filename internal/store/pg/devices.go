package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"lumora.life/internal/device"
	"lumora.life/internal/ids"
	"lumora.life/internal/store"
)

var _ store.DeviceStore = (*Store)(nil)

const pgErrUniqueViolation = "23505"

func (s *Store) Insert(ctx context.Context, rec *device.Record) error {
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx, `
		insert into trusted_devices (id, user_id, token, name, last_used, status)
		values ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.UserID, rec.Token, rec.Name, rec.LastUsed, rec.Status)
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
		return fmt.Errorf("device token collision: %w", err)
	}
	return err
}

func (s *Store) FindByToken(ctx context.Context, token string) (*device.Record, error) {
	var rec device.Record
	err := s.db.QueryRowContext(ctx, `
		select id, user_id, token, name, last_used, status
		from trusted_devices
		where token = $1
	`, token).Scan(&rec.ID, &rec.UserID, &rec.Token, &rec.Name, &rec.LastUsed, &rec.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]*device.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, user_id, token, name, last_used, status
		from trusted_devices
		where user_id = $1
		order by last_used desc
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*device.Record
	for rows.Next() {
		var rec device.Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Token, &rec.Name, &rec.LastUsed, &rec.Status); err != nil {
			return nil, err
		}
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) SetStatus(ctx context.Context, deviceID, status string) error {
	res, err := s.db.ExecContext(ctx, `
		update trusted_devices
		set status = $2
		where id = $1
	`, deviceID, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) TouchLastUsed(ctx context.Context, deviceID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		update trusted_devices
		set last_used = $2
		where id = $1
	`, deviceID, at)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	if err == nil {
		return nil, false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
