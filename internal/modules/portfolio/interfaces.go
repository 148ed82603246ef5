package portfolio

import (
	"context"

	"wmx/internal/domain"
)

type PortfolioRepositoryInterface interface {
	CreateItem(ctx context.Context, item *domain.PortfolioItem) error
	UpdateItem(ctx context.Context, item *domain.PortfolioItem) error
	GetItem(ctx context.Context, id int64) (*domain.PortfolioItem, error)
	DeleteItem(ctx context.Context, id int64) error
	ListItems(ctx context.Context, publishedOnly bool) ([]domain.PortfolioItem, error)

	CreateImage(ctx context.Context, img *domain.PortfolioImage) error
	GetImage(ctx context.Context, id int64) (*domain.PortfolioImage, error)
	DeleteImage(ctx context.Context, id int64) error
	ListImagesByUser(ctx context.Context, userID int64) ([]domain.PortfolioImage, error)
	CountImagesByUser(ctx context.Context, userID int64) (int64, error)
}

// ObjectRemover deletes the stored file when a gallery image row goes away.
type ObjectRemover interface {
	Delete(ctx context.Context, key string) error
}
