package portfolio

import (
	"context"
	"errors"
	"log"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	repo      PortfolioRepositoryInterface
	objects   ObjectRemover
	maxImages int
}

func NewService(repo PortfolioRepositoryInterface, objects ObjectRemover, maxImages int) *Service {
	return &Service{repo: repo, objects: objects, maxImages: maxImages}
}

// ---- marketing items ----

func (s *Service) ListPublic(ctx context.Context) ([]domain.PortfolioItem, error) {
	return s.repo.ListItems(ctx, true)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.PortfolioItem, error) {
	return s.repo.ListItems(ctx, false)
}

func (s *Service) CreateItem(ctx context.Context, req CreateItemRequest) (*domain.PortfolioItem, error) {
	item := &domain.PortfolioItem{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		ProjectURL:  req.ProjectURL,
		SortOrder:   req.SortOrder,
		Published:   req.Published,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, id int64, req UpdateItemRequest) (*domain.PortfolioItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.ProjectURL != nil {
		item.ProjectURL = *req.ProjectURL
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if req.Published != nil {
		item.Published = *req.Published
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if _, err := s.repo.GetItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.DeleteItem(ctx, id)
}

// ---- per-user gallery ----

// AddImage attaches an uploaded image to the caller's gallery. The cap is
// checked against the current count, so the request that would become image
// max+1 is rejected.
func (s *Service) AddImage(ctx context.Context, userID int64, req AddImageRequest) (*domain.PortfolioImage, error) {
	count, err := s.repo.CountImagesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.maxImages) {
		return nil, ErrGalleryFull
	}

	img := &domain.PortfolioImage{
		UserID:    userID,
		URL:       req.URL,
		ObjectKey: req.ObjectKey,
		Caption:   req.Caption,
		Size:      req.Size,
		MimeType:  req.MimeType,
	}
	if err := s.repo.CreateImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Service) ListImages(ctx context.Context, userID int64) ([]domain.PortfolioImage, error) {
	return s.repo.ListImagesByUser(ctx, userID)
}

// DeleteImage removes the row and then the stored object. The object delete
// is best effort: an orphaned file is cheaper than a dangling DB row.
func (s *Service) DeleteImage(ctx context.Context, userID, imageID int64, isAdmin bool) error {
	img, err := s.repo.GetImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !isAdmin && img.UserID != userID {
		return ErrForbidden
	}

	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		return err
	}

	if img.ObjectKey != "" {
		if err := s.objects.Delete(ctx, img.ObjectKey); err != nil {
			log.Printf("object_delete_failed key=%s err=%v", img.ObjectKey, err)
		}
	}
	return nil
}

func (s *Service) MaxImages() int { return s.maxImages }
