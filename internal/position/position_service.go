package position

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

const OptionsCacheKeyPrefix = "positions:options:"

func optionsCacheKey(departmentID string) string {
	if departmentID == "" {
		return OptionsCacheKeyPrefix + "all"
	}
	return OptionsCacheKeyPrefix + departmentID
}

type Service interface {
	Create(ctx context.Context, req CreatePositionRequest) (PositionResponse, error)
	GetAll(ctx context.Context, departmentID string) ([]PositionResponse, error)
	GetByID(ctx context.Context, id string) (PositionResponse, error)
	Update(ctx context.Context, id string, req UpdatePositionRequest) (PositionResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("position.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("position.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreatePositionRequest) (PositionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create position requested",
		zap.String("request_id", rid),
		zap.String("title", req.Title),
		zap.String("department_id", req.DepartmentID),
	)

	pos := &Position{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		DepartmentID: uuid.MustParse(req.DepartmentID),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, pos)
	})
	if err != nil {
		s.logger.Error("create position failed", zap.String("request_id", rid), zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, req.DepartmentID)
	s.logger.Info("create position success", zap.String("position_id", pos.ID.String()))

	return mapToResponse(*pos), nil
}

func (s *service) GetAll(ctx context.Context, departmentID string) ([]PositionResponse, error) {
	cacheKey := optionsCacheKey(departmentID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []PositionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		positions, err := s.repo.FindAll(ctx, departmentID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(positions)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]PositionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PositionResponse, error) {
	pos, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get position by id failed", zap.String("position_id", id), zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*pos), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePositionRequest) (PositionResponse, error) {
	s.logger.Debug("update position requested", zap.String("position_id", id))

	var pos *Position
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		var err error
		pos, err = qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		pos.Title = req.Title
		pos.Description = req.Description
		pos.DepartmentID = uuid.MustParse(req.DepartmentID)
		pos.Department = nil

		return qtx.Update(ctx, pos)
	})
	if err != nil {
		s.logger.Error("update position failed", zap.String("position_id", id), zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, req.DepartmentID)
	s.logger.Info("update position success", zap.String("position_id", id))

	return mapToResponse(*pos), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete position requested", zap.String("position_id", id))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("delete position failed", zap.String("position_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, "")
	s.logger.Info("delete position success", zap.String("position_id", id))
	return nil
}

// Option lists are cached per department plus one "all" entry; drop both.
func (s *service) invalidateOptions(ctx context.Context, departmentID string) {
	if s.rdb == nil {
		return
	}

	keys := []string{optionsCacheKey("")}
	if departmentID != "" {
		keys = append(keys, optionsCacheKey(departmentID))
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate position options cache", zap.Error(err))
	}
}

func mapToResponse(pos Position) PositionResponse {
	resp := PositionResponse{
		ID:            pos.ID.String(),
		Title:         pos.Title,
		Description:   pos.Description,
		DepartmentID:  pos.DepartmentID.String(),
		EmployeeCount: pos.EmployeeCount,
	}
	if pos.Department != nil {
		resp.Department = &PositionDepartmentResponse{
			ID:   pos.Department.ID.String(),
			Name: pos.Department.Name,
		}
	}
	return resp
}

func mapToListResponse(positions []Position) []PositionResponse {
	res := make([]PositionResponse, len(positions))
	for i, p := range positions {
		res[i] = mapToResponse(p)
	}
	return res
}
