package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kgreeven-max/monopoly/monopoly/database/models"
	"github.com/uptrace/bun"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id string) (*models.Property, error)
	List(ctx context.Context) ([]*models.Property, error)
	SetLien(ctx context.Context, id string, lien int64) error
}

type propertyRepository struct {
	db *bun.DB
}

func NewPropertyRepository(db *bun.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	property.CreatedAt = time.Now()
	property.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().Model(property).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	property := new(models.Property)
	err := r.db.NewSelect().
		Model(property).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("property %s not found", id)
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return property, nil
}

func (r *propertyRepository) List(ctx context.Context) ([]*models.Property, error) {
	var properties []*models.Property
	err := r.db.NewSelect().
		Model(&properties).
		Order("id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (r *propertyRepository) SetLien(ctx context.Context, id string, lien int64) error {
	result, err := r.db.NewUpdate().
		Model((*models.Property)(nil)).
		Set("lien = ?", lien).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set lien: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil || affected == 0 {
		return fmt.Errorf("property %s not found", id)
	}
	return nil
}
