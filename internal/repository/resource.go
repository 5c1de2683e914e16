package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fitcoach/coach/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	ByID(ctx context.Context, userID, resourceID string) (*model.Resource, error)
	ByIDs(ctx context.Context, userID string, ids []string) ([]*model.Resource, error)
	Delete(ctx context.Context, userID, resourceID string) error
}

type resourceRepository struct {
	db *sqlx.DB
}

func NewResourceRepository(db *sqlx.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	query := `INSERT INTO resources (id, user_id, storage_path, resource_type, category, mime_type, file_size_bytes, metadata, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		resource.ID,
		resource.UserID,
		resource.StoragePath,
		resource.ResourceType,
		resource.Category,
		resource.MimeType,
		resource.FileSizeBytes,
		jsonOrEmpty(resource.Metadata),
		resource.CreatedAt,
	)

	return err
}

func (r *resourceRepository) ByID(ctx context.Context, userID, resourceID string) (*model.Resource, error) {
	resource := &model.Resource{}
	query := `SELECT * FROM resources WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, resource, query, resourceID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}

	return resource, nil
}

func (r *resourceRepository) ByIDs(ctx context.Context, userID string, ids []string) ([]*model.Resource, error) {
	resources := []*model.Resource{}
	if len(ids) == 0 {
		return resources, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM resources WHERE user_id = ? AND id IN (?) ORDER BY created_at ASC`, userID, ids)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &resources, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return resources, nil
}

func (r *resourceRepository) Delete(ctx context.Context, userID, resourceID string) error {
	query := `DELETE FROM resources WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, resourceID, userID)
	return affectedOrNotFound(result, err, ErrResourceNotFound)
}
