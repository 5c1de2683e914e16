package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fitcoach/coach/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")
)

// CredentialRepository stores password logins for the local auth provider.
type CredentialRepository interface {
	Create(ctx context.Context, credential *model.Credential) error
	ByEmail(ctx context.Context, email string) (*model.Credential, error)
}

type credentialRepository struct {
	db *sqlx.DB
}

func NewCredentialRepository(db *sqlx.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Create(ctx context.Context, credential *model.Credential) error {
	query := `INSERT INTO credentials (user_id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		credential.UserID,
		credential.Email,
		credential.PasswordHash,
		credential.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *credentialRepository) ByEmail(ctx context.Context, email string) (*model.Credential, error) {
	credential := &model.Credential{}
	query := `SELECT * FROM credentials WHERE email = $1`

	err := r.db.GetContext(ctx, credential, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}

	return credential, nil
}
