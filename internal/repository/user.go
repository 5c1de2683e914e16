package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fitcoach/coach/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByGoogleSub(ctx context.Context, sub string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	LinkGoogle(ctx context.Context, userID, sub string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, google_sub, email, email_verified, name, picture_url, gender, dob, height_cm, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.GoogleSub,
		user.Email,
		user.EmailVerified,
		user.Name,
		user.PictureURL,
		user.Gender,
		user.DOB,
		user.HeightCm,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByGoogleSub(ctx context.Context, sub string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE google_sub = $1`

	err := r.db.GetContext(ctx, user, query, sub)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateProfile writes the editable profile columns and bumps updated_at.
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()
	query := `UPDATE users
	          SET name = $1, picture_url = $2, gender = $3, dob = $4, height_cm = $5, updated_at = $6
	          WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.PictureURL,
		user.Gender,
		user.DOB,
		user.HeightCm,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) LinkGoogle(ctx context.Context, userID, sub string) error {
	query := `UPDATE users SET google_sub = $1, email_verified = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, sub, true, time.Now().UTC(), userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
