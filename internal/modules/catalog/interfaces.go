package catalog

import (
	"context"

	"wmx/internal/domain"
)

type OfferingRepositoryInterface interface {
	Create(ctx context.Context, o *domain.ServiceOffering) error
	Update(ctx context.Context, o *domain.ServiceOffering) error
	GetByID(ctx context.Context, id int64) (*domain.ServiceOffering, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, activeOnly bool) ([]domain.ServiceOffering, error)
}
