package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yoestudio/enroll-api/internal/models"
	appErrors "github.com/yoestudio/enroll-api/pkg/errors"
)

const catalogCacheKey = "catalog:groups"

type groupLister interface {
	List(ctx context.Context) ([]models.Group, error)
}

// CatalogService serves the public group catalog with derived seat
// availability, backed by an optional Redis cache.
type CatalogService struct {
	repo   groupLister
	cache  *CacheService
	logger *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(repo groupLister, cache *CacheService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, logger: logger}
}

// List returns all groups in catalog order with seats_available computed.
func (s *CatalogService) List(ctx context.Context) ([]models.GroupView, error) {
	var cached []models.GroupView
	if hit, err := s.cache.Get(ctx, catalogCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}

	views := make([]models.GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, models.NewGroupView(g))
	}

	if err := s.cache.Set(ctx, catalogCacheKey, views, 0); err != nil {
		s.logger.Warn("failed to cache group catalog", zap.Error(err))
	}
	return views, nil
}

// Invalidate drops the cached catalog after a seat mutation. Safe to call
// with caching disabled or a nil service.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, catalogCacheKey); err != nil {
		s.logger.Warn("failed to invalidate group catalog cache", zap.Error(err))
	}
}
