package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plate-service/internal/model"
)

type PlateCheckRepository struct {
	db *gorm.DB
}

func NewPlateCheckRepository(db *gorm.DB) *PlateCheckRepository {
	return &PlateCheckRepository{db: db}
}

func (r *PlateCheckRepository) Create(ctx context.Context, check *model.PlateCheck) error {
	return r.db.WithContext(ctx).Create(check).Error
}

type PlateCheckListFilter struct {
	Country         *string
	NormalizedPlate *string
	Operation       *model.PlateOperation
	Limit           int
}

func (r *PlateCheckRepository) List(ctx context.Context, filter PlateCheckListFilter) ([]model.PlateCheck, error) {
	query := r.db.WithContext(ctx).Model(&model.PlateCheck{})

	if filter.Country != nil {
		query = query.Where("country = ?", *filter.Country)
	}
	if filter.NormalizedPlate != nil {
		query = query.Where("normalized_plate = ?", *filter.NormalizedPlate)
	}
	if filter.Operation != nil {
		query = query.Where("operation = ?", *filter.Operation)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var checks []model.PlateCheck
	if err := query.Order("created_at DESC").Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

func (r *PlateCheckRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PlateCheck, error) {
	var check model.PlateCheck
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&check).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &check, nil
}
