package repository

import (
	"context"

	"paylink_console/internal/domain/order/model"
	"paylink_console/internal/pkg/gateway"
	"paylink_console/internal/pkg/localstore"
	"paylink_console/internal/pkg/upstream"
	"paylink_console/pkg/utils"
)

// OrderRepository 订单仓库，远端优先、失败降级本地副本
type OrderRepository interface {
	List(ctx context.Context, storeID string) ([]model.Order, gateway.Source, error)
	GetByID(ctx context.Context, id string) (*model.Order, gateway.Source, error)
	// Upsert 按 id 匹配或插入，两侧目标都保证同 id 不重复
	Upsert(ctx context.Context, order *model.Order) (*model.Order, gateway.Source, error)
	// UpdateStatus 更新状态并把 updatedAt 推到当前时间
	UpdateStatus(ctx context.Context, id, status string) (*model.Order, gateway.Source, error)
}

type orderRepository struct {
	api   upstream.Client
	local localstore.Archive
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(api upstream.Client, local localstore.Archive) OrderRepository {
	return &orderRepository{api: api, local: local}
}

// List 列出订单，storeID 非空时按店铺过滤
func (r *orderRepository) List(ctx context.Context, storeID string) ([]model.Order, gateway.Source, error) {
	return gateway.Attempt(ctx, "order_list",
		func(ctx context.Context) ([]model.Order, error) {
			return r.api.ListOrders(ctx, storeID)
		},
		func(ctx context.Context) ([]model.Order, error) {
			orders, err := r.local.ListOrders(ctx)
			if err != nil {
				return nil, err
			}
			if storeID == "" {
				return orders, nil
			}
			filtered := make([]model.Order, 0, len(orders))
			for _, o := range orders {
				if o.StoreID == storeID {
					filtered = append(filtered, o)
				}
			}
			return filtered, nil
		},
	)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, gateway.Source, error) {
	return gateway.Attempt(ctx, "order_get",
		func(ctx context.Context) (*model.Order, error) {
			return r.api.GetOrder(ctx, id)
		},
		func(ctx context.Context) (*model.Order, error) {
			return r.local.GetOrder(ctx, id)
		},
	)
}

func (r *orderRepository) Upsert(ctx context.Context, order *model.Order) (*model.Order, gateway.Source, error) {
	return gateway.Attempt(ctx, "order_upsert",
		func(ctx context.Context) (*model.Order, error) {
			return r.api.UpsertOrder(ctx, order)
		},
		func(ctx context.Context) (*model.Order, error) {
			if err := r.local.SaveOrder(ctx, order); err != nil {
				return nil, err
			}
			return order, nil
		},
	)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Order, gateway.Source, error) {
	return gateway.Attempt(ctx, "order_status",
		func(ctx context.Context) (*model.Order, error) {
			return r.api.UpdateOrderStatus(ctx, id, status)
		},
		func(ctx context.Context) (*model.Order, error) {
			order, err := r.local.GetOrder(ctx, id)
			if err != nil {
				return nil, err
			}
			order.Status = status
			order.UpdatedAt = utils.NowISO()
			if err := r.local.SaveOrder(ctx, order); err != nil {
				return nil, err
			}
			return order, nil
		},
	)
}
