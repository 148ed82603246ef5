package repository

import (
	"context"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) ListAll(ctx context.Context, page, limit int) ([]domain.Project, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []domain.Project
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&projects).Error
	return projects, total, err
}

func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).Count(&count).Error
	return count, err
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&domain.Milestone{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Project{}, id).Error
	})
}

// ---- milestones ----

func (r *ProjectRepository) CreateMilestone(ctx context.Context, m *domain.Milestone) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ProjectRepository) UpdateMilestone(ctx context.Context, m *domain.Milestone) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *ProjectRepository) GetMilestone(ctx context.Context, id int64) (*domain.Milestone, error) {
	var m domain.Milestone
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ProjectRepository) DeleteMilestone(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Milestone{}, id).Error
}

func (r *ProjectRepository) NextMilestoneOrder(ctx context.Context, projectID int64) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&domain.Milestone{}).
		Where("project_id = ?", projectID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}
