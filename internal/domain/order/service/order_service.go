package service

import (
	"context"
	"errors"
	"fmt"

	"paylink_console/internal/domain/order/fee"
	"paylink_console/internal/domain/order/model"
	"paylink_console/internal/domain/order/repository"
	storeservice "paylink_console/internal/domain/store/service"
	"paylink_console/internal/pkg/gateway"
	"paylink_console/pkg/logger"
	"paylink_console/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrAmountOutOfRange 金额不在可收款区间，具体原因包在错误消息里
	ErrAmountOutOfRange = errors.New("amount out of range")
	// ErrStatusInvalid 状态不属于合法集合
	ErrStatusInvalid = errors.New("invalid order status")
)

// OrderService 订单服务接口
type OrderService interface {
	ListOrders(ctx context.Context, storeID string) ([]model.Order, gateway.Source, error)
	GetOrder(ctx context.Context, id string) (*model.Order, gateway.Source, error)
	CreateOrder(ctx context.Context, amount float64, description, storeID string) (*model.Order, gateway.Source, error)
	Transition(ctx context.Context, id, newStatus string) (*model.Order, gateway.Source, error)
	AttachCustomer(ctx context.Context, id string, fields model.CustomerFields) (*model.Order, gateway.Source, error)
	Quote(amount float64) fee.Quote
}

// orderService 实现
type orderService struct {
	repo    repository.OrderRepository
	stores  storeservice.StoreService
	nowFunc func() string
	newIDFn func() string
}

// NewOrderService 创建订单服务，店铺服务用于创建时解析快照
func NewOrderService(repo repository.OrderRepository, stores storeservice.StoreService) OrderService {
	return &orderService{
		repo:    repo,
		stores:  stores,
		nowFunc: utils.NowISO,
		newIDFn: func() string { return uuid.New().String() },
	}
}

func (s *orderService) ListOrders(ctx context.Context, storeID string) ([]model.Order, gateway.Source, error) {
	return s.repo.List(ctx, storeID)
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*model.Order, gateway.Source, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateOrder 创建收款订单
// 金额先过费用引擎校验，不通过则不发生任何持久化；
// storeID 非空时必须指向已存在的店铺，店铺名在此刻做快照
func (s *orderService) CreateOrder(ctx context.Context, amount float64, description, storeID string) (*model.Order, gateway.Source, error) {
	q := fee.Evaluate(amount)
	if !q.Valid {
		return nil, "", fmt.Errorf("%w: %s", ErrAmountOutOfRange, q.Reason)
	}

	var storeName string
	if storeID != "" {
		store, _, err := s.stores.GetStore(ctx, storeID)
		if err != nil {
			return nil, "", err
		}
		storeName = store.Name
	}

	now := s.nowFunc()
	order := &model.Order{
		ID:          s.newIDFn(),
		Amount:      amount,
		Description: description,
		Status:      model.StatusPending,
		StoreID:     storeID,
		StoreName:   storeName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Upsert(ctx, order)
}

// Transition 状态流转
// 终态之间的覆盖是被允许的（与上游语义保持一致），但会记一条告警日志
func (s *orderService) Transition(ctx context.Context, id, newStatus string) (*model.Order, gateway.Source, error) {
	if !model.IsValidStatus(newStatus) {
		return nil, "", fmt.Errorf("%w: %q", ErrStatusInvalid, newStatus)
	}

	current, _, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if model.IsTerminalStatus(current.Status) && current.Status != newStatus {
		if logger.Log != nil {
			logger.Log.Warn("overwriting terminal order status",
				zap.String("order_id", id),
				zap.String("from", current.Status),
				zap.String("to", newStatus),
			)
		}
	}

	return s.repo.UpdateStatus(ctx, id, newStatus)
}

// AttachCustomer 合并付款人信息，不改变订单状态
// 只覆盖提交了的字段，未提交的保持原值
func (s *orderService) AttachCustomer(ctx context.Context, id string, fields model.CustomerFields) (*model.Order, gateway.Source, error) {
	current, _, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	merged := *current
	if fields.Name != "" {
		merged.CustomerName = fields.Name
	}
	if fields.TaxID != "" {
		merged.CustomerTaxID = fields.TaxID
	}
	if fields.Email != "" {
		merged.CustomerEmail = fields.Email
	}
	if fields.Phone != "" {
		merged.CustomerPhone = fields.Phone
	}
	merged.UpdatedAt = s.nowFunc()

	return s.repo.Upsert(ctx, &merged)
}

// Quote 费用预览，纯计算不落库
func (s *orderService) Quote(amount float64) fee.Quote {
	return fee.Evaluate(amount)
}
