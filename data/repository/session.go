package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/structs"
)

// SessionRepository defines refresh-token session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *structs.Session) error
	FindByRefreshToken(ctx context.Context, refreshToken string) (*structs.Session, error)
	DeleteByRefreshToken(ctx context.Context, refreshToken string) error
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	d *data.Data
}

// NewSessionRepository creates a session repository.
func NewSessionRepository(d *data.Data) SessionRepository {
	return &sessionRepository{d: d}
}

func (r *sessionRepository) Create(ctx context.Context, session *structs.Session) error {
	_, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		INSERT INTO sessions (id, user_id, refresh_token, ip_address, user_agent, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`),
		session.ID,
		session.UserID,
		session.RefreshToken,
		nullString(session.IPAddress),
		nullString(session.UserAgent),
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*structs.Session, error) {
	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		SELECT id, user_id, refresh_token, ip_address, user_agent, expires_at, created_at
		FROM sessions WHERE refresh_token = ?
	`), refreshToken)

	var (
		session   structs.Session
		ipAddress sql.NullString
		userAgent sql.NullString
		expiresAt string
		createdAt string
	)
	err := row.Scan(&session.ID, &session.UserID, &session.RefreshToken, &ipAddress, &userAgent, &expiresAt, &createdAt)
	if err != nil {
		return nil, err
	}

	session.IPAddress = ipAddress.String
	session.UserAgent = userAgent.String
	session.ExpiresAt = parseTime(expiresAt)
	session.CreatedAt = parseTime(createdAt)
	return &session, nil
}

func (r *sessionRepository) DeleteByRefreshToken(ctx context.Context, refreshToken string) error {
	res, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		DELETE FROM sessions WHERE refresh_token = ?
	`), refreshToken)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireRow(res)
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		DELETE FROM sessions WHERE user_id = ?
	`), userID)
	return err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		DELETE FROM sessions WHERE expires_at < ?
	`), formatTime(nowUTC()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
