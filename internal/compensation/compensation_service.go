package compensation

import (
	"context"
	"encoding/json"
	"time"

	"employee-records/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const CatalogCacheKey = "compensations:catalog"

type Service interface {
	Create(ctx context.Context, req CreateCompensationRequest) CreateCompensationResult
	GetAll(ctx context.Context) ([]CompensationResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("compensation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compensation.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// Create inserts a new catalog entry, active by default. Per the mutation
// contract the caller gets {success, compensation?, error?} and never a
// raw error.
func (s *service) Create(ctx context.Context, req CreateCompensationRequest) CreateCompensationResult {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create compensation requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
		zap.String("type", req.Type),
	)

	comp := &Compensation{
		ID:           uuid.New(),
		Name:         req.Name,
		Amount:       req.Amount,
		Description:  req.Description,
		Type:         req.Type,
		IsPercentage: req.IsPercentage,
		IsActive:     true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, comp)
	})
	if err != nil {
		s.logger.Error("create compensation failed", zap.String("request_id", rid), zap.Error(err))
		return CreateCompensationResult{
			Success: false,
			Error:   "Failed to create compensation. Please try again.",
		}
	}

	s.invalidateCatalog(ctx)
	s.logger.Info("create compensation success", zap.String("compensation_id", comp.ID.String()))

	resp := mapToResponse(*comp)
	return CreateCompensationResult{
		Success:      true,
		Compensation: &resp,
	}
}

func (s *service) GetAll(ctx context.Context) ([]CompensationResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, CatalogCacheKey).Result(); err == nil {
			var resp []CompensationResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(CatalogCacheKey, func() (interface{}, error) {
		comps, err := s.repo.FindAllActive(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(comps)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, CatalogCacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]CompensationResponse), nil
}

func (s *service) invalidateCatalog(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, CatalogCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate compensation catalog cache",
			zap.Error(err),
			zap.String("key", CatalogCacheKey),
		)
	}
}

func mapToResponse(comp Compensation) CompensationResponse {
	return CompensationResponse{
		ID:           comp.ID.String(),
		Name:         comp.Name,
		Amount:       comp.Amount,
		Description:  comp.Description,
		Type:         comp.Type,
		IsPercentage: comp.IsPercentage,
		IsActive:     comp.IsActive,
	}
}

func mapToListResponse(comps []Compensation) []CompensationResponse {
	res := make([]CompensationResponse, len(comps))
	for i, c := range comps {
		res[i] = mapToResponse(c)
	}
	return res
}
