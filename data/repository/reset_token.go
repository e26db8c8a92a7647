package repository

import (
	"context"
	"fmt"

	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/structs"
)

// ResetTokenRepository defines password reset token persistence.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *structs.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*structs.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id string) error
}

type resetTokenRepository struct {
	d *data.Data
}

// NewResetTokenRepository creates a reset token repository.
func NewResetTokenRepository(d *data.Data) ResetTokenRepository {
	return &resetTokenRepository{d: d}
}

func (r *resetTokenRepository) Create(ctx context.Context, token *structs.PasswordResetToken) error {
	_, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		INSERT INTO password_reset_tokens (id, user_id, token, used, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`),
		token.ID,
		token.UserID,
		token.Token,
		boolToInt(token.Used),
		formatTime(token.ExpiresAt),
		formatTime(token.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *resetTokenRepository) FindByToken(ctx context.Context, token string) (*structs.PasswordResetToken, error) {
	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		SELECT id, user_id, token, used, expires_at, created_at
		FROM password_reset_tokens WHERE token = ?
	`), token)

	var (
		t         structs.PasswordResetToken
		used      int
		expiresAt string
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Token, &used, &expiresAt, &createdAt); err != nil {
		return nil, err
	}

	t.Used = used != 0
	t.ExpiresAt = parseTime(expiresAt)
	t.CreatedAt = parseTime(createdAt)
	return &t, nil
}

func (r *resetTokenRepository) MarkUsed(ctx context.Context, id string) error {
	res, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		UPDATE password_reset_tokens SET used = 1 WHERE id = ?
	`), id)
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return requireRow(res)
}
