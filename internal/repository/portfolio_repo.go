package repository

import (
	"context"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

type PortfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// ---- marketing items ----

func (r *PortfolioRepository) CreateItem(ctx context.Context, item *domain.PortfolioItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PortfolioRepository) UpdateItem(ctx context.Context, item *domain.PortfolioItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *PortfolioRepository) GetItem(ctx context.Context, id int64) (*domain.PortfolioItem, error) {
	var item domain.PortfolioItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PortfolioRepository) DeleteItem(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.PortfolioItem{}, id).Error
}

func (r *PortfolioRepository) ListItems(ctx context.Context, publishedOnly bool) ([]domain.PortfolioItem, error) {
	q := r.db.WithContext(ctx).Model(&domain.PortfolioItem{})
	if publishedOnly {
		q = q.Where("published = ?", true)
	}

	var items []domain.PortfolioItem
	err := q.Order("sort_order ASC, created_at DESC").Find(&items).Error
	return items, err
}

// ---- per-user gallery ----

func (r *PortfolioRepository) CreateImage(ctx context.Context, img *domain.PortfolioImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *PortfolioRepository) GetImage(ctx context.Context, id int64) (*domain.PortfolioImage, error) {
	var img domain.PortfolioImage
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *PortfolioRepository) DeleteImage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.PortfolioImage{}, id).Error
}

func (r *PortfolioRepository) ListImagesByUser(ctx context.Context, userID int64) ([]domain.PortfolioImage, error) {
	var images []domain.PortfolioImage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&images).Error
	return images, err
}

func (r *PortfolioRepository) CountImagesByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PortfolioImage{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
