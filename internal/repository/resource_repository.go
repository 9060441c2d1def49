package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository/models"
	"tutorhub/internal/util"

	"github.com/jmoiron/sqlx"
)

// ResourceRepository defines data operations for saved resources.
type ResourceRepository interface {
	CreateResource(ctx context.Context, resource *domain.Resource) error
	GetResourceByID(ctx context.Context, resourceID string) (*domain.Resource, error)
	GetResourcesByUserID(ctx context.Context, userID string) ([]domain.Resource, error)
	DeleteResource(ctx context.Context, resourceID string) error
}

type sqlxResourceRepository struct {
	db *sqlx.DB
}

// NewSQLXResourceRepository creates a new instance of sqlxResourceRepository.
func NewSQLXResourceRepository(db *sqlx.DB) ResourceRepository {
	return &sqlxResourceRepository{db: db}
}

func (r *sqlxResourceRepository) CreateResource(ctx context.Context, resource *domain.Resource) error {
	if resource.ID == "" {
		resource.ID = util.NewULID()
	}
	resource.CreatedAt = time.Now()

	query := `INSERT INTO resources (id, user_id, query, content, created_at)
	          VALUES (:id, :user_id, :query, :content, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, &models.Resource{
		ID:        resource.ID,
		UserID:    resource.UserID,
		Query:     resource.Query,
		Content:   resource.Content,
		CreatedAt: resource.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (r *sqlxResourceRepository) GetResourceByID(ctx context.Context, resourceID string) (*domain.Resource, error) {
	var resource models.Resource
	query := `SELECT * FROM resources WHERE id = :id AND deleted_at IS NULL`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetResourceByID: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &resource, map[string]interface{}{"id": resourceID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resource by id: %w", err)
	}
	return resourceToDomain(&resource), nil
}

func (r *sqlxResourceRepository) GetResourcesByUserID(ctx context.Context, userID string) ([]domain.Resource, error) {
	var rows []models.Resource
	query := `SELECT * FROM resources WHERE user_id = :user_id AND deleted_at IS NULL ORDER BY created_at DESC`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetResourcesByUserID: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SelectContext(ctx, &rows, map[string]interface{}{"user_id": userID}); err != nil {
		return nil, fmt.Errorf("failed to get resources by user id: %w", err)
	}

	resources := make([]domain.Resource, 0, len(rows))
	for i := range rows {
		resources = append(resources, *resourceToDomain(&rows[i]))
	}
	return resources, nil
}

func (r *sqlxResourceRepository) DeleteResource(ctx context.Context, resourceID string) error {
	query := `UPDATE resources SET deleted_at = :deleted_at WHERE id = :id AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         resourceID,
		"deleted_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for resource delete: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func resourceToDomain(m *models.Resource) *domain.Resource {
	return &domain.Resource{
		ID:        m.ID,
		UserID:    m.UserID,
		Query:     m.Query,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
