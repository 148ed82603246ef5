package repository

import (
	"context"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

type OfferingRepository struct {
	db *gorm.DB
}

func NewOfferingRepository(db *gorm.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

func (r *OfferingRepository) Create(ctx context.Context, o *domain.ServiceOffering) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OfferingRepository) Update(ctx context.Context, o *domain.ServiceOffering) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OfferingRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error) {
	var o domain.ServiceOffering
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OfferingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.ServiceOffering{}, id).Error
}

func (r *OfferingRepository) List(ctx context.Context, activeOnly bool) ([]domain.ServiceOffering, error) {
	q := r.db.WithContext(ctx).Model(&domain.ServiceOffering{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var offerings []domain.ServiceOffering
	err := q.Order("sort_order ASC").Find(&offerings).Error
	return offerings, err
}
