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

// RoadmapRepository defines data operations for saved roadmaps.
type RoadmapRepository interface {
	CreateRoadmap(ctx context.Context, roadmap *domain.Roadmap) error
	GetRoadmapByID(ctx context.Context, roadmapID string) (*domain.Roadmap, error)
	GetRoadmapsByUserID(ctx context.Context, userID string) ([]domain.Roadmap, error)
	DeleteRoadmap(ctx context.Context, roadmapID string) error
}

type sqlxRoadmapRepository struct {
	db *sqlx.DB
}

// NewSQLXRoadmapRepository creates a new instance of sqlxRoadmapRepository.
func NewSQLXRoadmapRepository(db *sqlx.DB) RoadmapRepository {
	return &sqlxRoadmapRepository{db: db}
}

func (r *sqlxRoadmapRepository) CreateRoadmap(ctx context.Context, roadmap *domain.Roadmap) error {
	if roadmap.ID == "" {
		roadmap.ID = util.NewULID()
	}
	roadmap.CreatedAt = time.Now()

	query := `INSERT INTO roadmaps (id, user_id, topic, content, created_at)
	          VALUES (:id, :user_id, :topic, :content, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, &models.Roadmap{
		ID:        roadmap.ID,
		UserID:    roadmap.UserID,
		Topic:     roadmap.Topic,
		Content:   roadmap.Content,
		CreatedAt: roadmap.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create roadmap: %w", err)
	}
	return nil
}

func (r *sqlxRoadmapRepository) GetRoadmapByID(ctx context.Context, roadmapID string) (*domain.Roadmap, error) {
	var roadmap models.Roadmap
	query := `SELECT * FROM roadmaps WHERE id = :id AND deleted_at IS NULL`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetRoadmapByID: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &roadmap, map[string]interface{}{"id": roadmapID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get roadmap by id: %w", err)
	}
	return roadmapToDomain(&roadmap), nil
}

func (r *sqlxRoadmapRepository) GetRoadmapsByUserID(ctx context.Context, userID string) ([]domain.Roadmap, error) {
	var rows []models.Roadmap
	query := `SELECT * FROM roadmaps WHERE user_id = :user_id AND deleted_at IS NULL ORDER BY created_at DESC`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetRoadmapsByUserID: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SelectContext(ctx, &rows, map[string]interface{}{"user_id": userID}); err != nil {
		return nil, fmt.Errorf("failed to get roadmaps by user id: %w", err)
	}

	roadmaps := make([]domain.Roadmap, 0, len(rows))
	for i := range rows {
		roadmaps = append(roadmaps, *roadmapToDomain(&rows[i]))
	}
	return roadmaps, nil
}

func (r *sqlxRoadmapRepository) DeleteRoadmap(ctx context.Context, roadmapID string) error {
	query := `UPDATE roadmaps SET deleted_at = :deleted_at WHERE id = :id AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         roadmapID,
		"deleted_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to delete roadmap: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for roadmap delete: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func roadmapToDomain(m *models.Roadmap) *domain.Roadmap {
	return &domain.Roadmap{
		ID:        m.ID,
		UserID:    m.UserID,
		Topic:     m.Topic,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
