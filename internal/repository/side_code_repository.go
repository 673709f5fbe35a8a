package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"plate-service/internal/model"
)

type SideCodeRepository struct {
	db *gorm.DB
}

func NewSideCodeRepository(db *gorm.DB) *SideCodeRepository {
	return &SideCodeRepository{db: db}
}

// LoadRegistry returns every country with its sidecodes in stored order.
func (r *SideCodeRepository) LoadRegistry(ctx context.Context) (map[string][]string, error) {
	var rows []model.CountrySideCode
	err := r.db.WithContext(ctx).
		Order("country ASC").
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	registry := make(map[string][]string)
	for _, row := range rows {
		registry[row.Country] = append(registry[row.Country], row.Pattern)
	}
	return registry, nil
}

// ReplaceCountry swaps the full sidecode list of a country in one transaction.
func (r *SideCodeRepository) ReplaceCountry(ctx context.Context, country string, sideCodes []string) error {
	country = strings.ToUpper(strings.TrimSpace(country))
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("country = ?", country).Delete(&model.CountrySideCode{}).Error; err != nil {
			return err
		}
		if len(sideCodes) == 0 {
			return nil
		}
		rows := make([]model.CountrySideCode, 0, len(sideCodes))
		for i, code := range sideCodes {
			rows = append(rows, model.CountrySideCode{
				Country:  country,
				Position: i,
				Pattern:  code,
			})
		}
		return tx.Create(&rows).Error
	})
}

// SeedIfEmpty stores registry when the table holds no sidecodes yet.
func (r *SideCodeRepository) SeedIfEmpty(ctx context.Context, registry map[string][]string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.CountrySideCode{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	for country, codes := range registry {
		if err := r.ReplaceCountry(ctx, country, codes); err != nil {
			return false, err
		}
	}
	return true, nil
}
