package managers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"account-service/internal/schemas"
)

// ResetTokenMgr manages the lifecycle of single-use password reset tokens.
// Only a digest of the token secret is ever persisted, so a leaked table does
// not yield usable reset links.
type ResetTokenMgr interface {
	IssueResetToken(ctx context.Context, tx pgx.Tx, userId uuid.UUID) (string, error)
	FindValidResetToken(ctx context.Context, tx pgx.Tx, plaintext string) (*schemas.PasswordResetToken, error)
	ConsumeResetToken(ctx context.Context, tx pgx.Tx, tokenId uuid.UUID) error
}

// ErrResetTokenInvalid is returned when no unexpired reset token matches the
// presented secret, or when the token was already consumed by another request.
var ErrResetTokenInvalid = errors.New("reset token invalid or expired")

// resetTokenLifetime bounds how long a reset link stays usable.
const resetTokenLifetime = time.Minute * 30

// resetTokenSecretBytes is the entropy of the token secret.
const resetTokenSecretBytes = 32

// ResetTokenManager is a concrete implementation of the ResetTokenMgr interface.
// It is stateless between calls, expiry is enforced by filtering lookups rather
// than by a background sweep.
type ResetTokenManager struct{}

// NewResetTokenManager creates a new ResetTokenManager.
func NewResetTokenManager() ResetTokenMgr {
	return &ResetTokenManager{}
}

// IssueResetToken generates a fresh reset token for the user and persists its
// digest with a 30 minute expiry. Any previously issued token for the same user
// is deleted first, so at most one token per user is active. The returned
// plaintext is handed to the mail manager and never stored.
func (rm *ResetTokenManager) IssueResetToken(ctx context.Context, tx pgx.Tx, userId uuid.UUID) (string, error) {
	secret := make([]byte, resetTokenSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}

	// The user ID suffix keeps secrets distinct across users even in the
	// unlikely event of an entropy collision.
	plaintext := hex.EncodeToString(secret) + userId.String()

	queryString := "DELETE FROM account_schema.password_reset_tokens WHERE user_id = $1"
	if _, err := tx.Exec(ctx, queryString, userId); err != nil {
		return "", err
	}

	tokenId := uuid.New()
	createdAt := time.Now()
	expiresAt := createdAt.Add(resetTokenLifetime)

	queryString = "INSERT INTO account_schema.password_reset_tokens (token_id, user_id, token_hash, created_at, expires_at) VALUES ($1, $2, $3, $4, $5)"
	if _, err := tx.Exec(ctx, queryString, tokenId, userId, HashResetToken(plaintext), createdAt, expiresAt); err != nil {
		return "", err
	}

	return plaintext, nil
}

// FindValidResetToken looks up the reset token record matching the presented
// plaintext. The lookup goes through the digest and filters out expired rows,
// an expired record is treated as absent regardless of its presence in storage.
func (rm *ResetTokenManager) FindValidResetToken(ctx context.Context, tx pgx.Tx, plaintext string) (*schemas.PasswordResetToken, error) {
	queryString := "SELECT token_id, user_id, created_at, expires_at FROM account_schema.password_reset_tokens WHERE token_hash = $1 AND expires_at > $2"
	rows, err := tx.Query(ctx, queryString, HashResetToken(plaintext), time.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrResetTokenInvalid
	}

	var tokenId, ownerId uuid.UUID
	var createdAt, expiresAt time.Time
	if err := rows.Scan(&tokenId, &ownerId, &createdAt, &expiresAt); err != nil {
		return nil, err
	}

	return &schemas.PasswordResetToken{
		ID:        &tokenId,
		UserID:    &ownerId,
		TokenHash: HashResetToken(plaintext),
		CreatedAt: &createdAt,
		ExpiresAt: &expiresAt,
	}, nil
}

// ConsumeResetToken invalidates the token after a successful password reset.
// The delete is conditioned on the row still existing, so with concurrent
// consumers of the same token only one succeeds.
func (rm *ResetTokenManager) ConsumeResetToken(ctx context.Context, tx pgx.Tx, tokenId uuid.UUID) error {
	queryString := "DELETE FROM account_schema.password_reset_tokens WHERE token_id = $1"
	commandTag, err := tx.Exec(ctx, queryString, tokenId)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrResetTokenInvalid
	}

	return nil
}

// HashResetToken computes the deterministic digest stored in place of the
// token secret. Unlike password hashing this is deliberately unsalted, the
// digest must be recomputable from the plaintext alone at lookup time.
func HashResetToken(plaintext string) string {
	digest := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(digest[:])
}
