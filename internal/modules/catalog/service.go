package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"wmx/internal/domain"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

type Service struct {
	offerings OfferingRepositoryInterface
}

func NewService(offerings OfferingRepositoryInterface) *Service {
	return &Service{offerings: offerings}
}

func (s *Service) ListPublic(ctx context.Context) ([]domain.ServiceOffering, error) {
	return s.offerings.List(ctx, true)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.ServiceOffering, error) {
	return s.offerings.List(ctx, false)
}

func (s *Service) Create(ctx context.Context, req CreateOfferingRequest) (*domain.ServiceOffering, error) {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}

	currency := req.Currency
	if currency == "" {
		currency = "IDR"
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	o := &domain.ServiceOffering{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		PriceFrom:   req.PriceFrom,
		Currency:    currency,
		SortOrder:   req.SortOrder,
		Active:      active,
	}
	if err := s.offerings.Create(ctx, o); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return o, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateOfferingRequest) (*domain.ServiceOffering, error) {
	o, err := s.offerings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.Slug != nil {
		o.Slug = *req.Slug
	}
	if req.Description != nil {
		o.Description = *req.Description
	}
	if req.PriceFrom != nil {
		o.PriceFrom = *req.PriceFrom
	}
	if req.Currency != nil {
		o.Currency = *req.Currency
	}
	if req.SortOrder != nil {
		o.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		o.Active = *req.Active
	}

	if err := s.offerings.Update(ctx, o); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.offerings.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.offerings.Delete(ctx, id)
}

// Slugify turns "Web Design & SEO" into "web-design-seo".
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
