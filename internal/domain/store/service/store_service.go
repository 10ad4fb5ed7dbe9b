package service

import (
	"context"
	"errors"
	"strings"

	"paylink_console/internal/domain/store/model"
	"paylink_console/internal/domain/store/repository"
	"paylink_console/internal/pkg/config"
	"paylink_console/internal/pkg/gateway"
	"paylink_console/pkg/utils"

	"github.com/google/uuid"
)

// ErrNameBlank 店铺名为空或仅空白字符
var ErrNameBlank = errors.New("store name must not be blank")

// StoreService 店铺服务接口
type StoreService interface {
	ListStores(ctx context.Context) ([]model.Store, gateway.Source, error)
	GetStore(ctx context.Context, id string) (*model.Store, gateway.Source, error)
	CreateStore(ctx context.Context, name, description, apiKey string, feePercent, feeFixed *float64) (*model.Store, gateway.Source, error)
	UpdateStore(ctx context.Context, id, apiKey string, feePercent, feeFixed *float64) (*model.Store, gateway.Source, error)

	EffectiveAPIKey(store *model.Store) string
	EffectiveFees(store *model.Store) (percent, fixed float64)
}

// storeService 实现
type storeService struct {
	repo  repository.StoreRepository
	admin config.AdminConfig
}

// NewStoreService 创建店铺服务
// admin 显式传入，凭证解析不读取任何全局状态
func NewStoreService(repo repository.StoreRepository, admin config.AdminConfig) StoreService {
	return &storeService{repo: repo, admin: admin}
}

func (s *storeService) ListStores(ctx context.Context) ([]model.Store, gateway.Source, error) {
	return s.repo.List(ctx)
}

func (s *storeService) GetStore(ctx context.Context, id string) (*model.Store, gateway.Source, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateStore 创建店铺，名称不能为空白
func (s *storeService) CreateStore(ctx context.Context, name, description, apiKey string, feePercent, feeFixed *float64) (*model.Store, gateway.Source, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", ErrNameBlank
	}

	store := &model.Store{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		APIKey:      apiKey,
		FeePercent:  feePercent,
		FeeFixed:    feeFixed,
		CreatedAt:   utils.NowISO(),
	}

	return s.repo.Create(ctx, store)
}

// UpdateStore 只替换可变字段（apiKey、feePercent、feeFixed），
// id、name、description、createdAt 从现有记录保留，整条记录提交
func (s *storeService) UpdateStore(ctx context.Context, id, apiKey string, feePercent, feeFixed *float64) (*model.Store, gateway.Source, error) {
	existing, _, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	merged := *existing
	merged.APIKey = apiKey
	merged.FeePercent = feePercent
	merged.FeeFixed = feeFixed

	return s.repo.Update(ctx, &merged)
}

// EffectiveAPIKey 店铺自己的密钥优先，否则用运营者全局密钥
func (s *storeService) EffectiveAPIKey(store *model.Store) string {
	if store != nil && store.APIKey != "" {
		return store.APIKey
	}
	return s.admin.APIKey
}

// EffectiveFees 店铺自己的费率优先，缺省按 0 处理
func (s *storeService) EffectiveFees(store *model.Store) (percent, fixed float64) {
	if store != nil && store.FeePercent != nil {
		percent = *store.FeePercent
	}
	if store != nil && store.FeeFixed != nil {
		fixed = *store.FeeFixed
	}
	return percent, fixed
}
