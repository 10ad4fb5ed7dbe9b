package localstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"paylink_console/internal/pkg/gateway"
	"paylink_console/pkg/cache"
	"paylink_console/pkg/metrics"

	ordermodel "paylink_console/internal/domain/order/model"
	storemodel "paylink_console/internal/domain/store/model"
)

// 固定命名空间键，每种实体一条有序序列
const (
	keyStores = "stores"
	keyOrders = "orders"
)

// Archive 本地副本存储
// 每种实体整体存成一条 JSON 序列，写入时读出-修改-整体重写；
// 并发写不加锁，以远端的 upsert 语义为准（last write wins）
type Archive interface {
	ListStores(ctx context.Context) ([]storemodel.Store, error)
	GetStore(ctx context.Context, id string) (*storemodel.Store, error)
	SaveStore(ctx context.Context, store *storemodel.Store) error

	ListOrders(ctx context.Context) ([]ordermodel.Order, error)
	GetOrder(ctx context.Context, id string) (*ordermodel.Order, error)
	SaveOrder(ctx context.Context, order *ordermodel.Order) error

	Reset(ctx context.Context) error
}

type archive struct {
	cache cache.CacheService
}

// New 创建本地副本存储
func New(c cache.CacheService) Archive {
	return &archive{cache: c}
}

// ListStores 返回全部店铺，按创建时间倒序
func (a *archive) ListStores(ctx context.Context) ([]storemodel.Store, error) {
	var stores []storemodel.Store
	if err := a.read(ctx, keyStores, &stores); err != nil {
		return nil, err
	}
	sort.Slice(stores, func(i, j int) bool {
		return stores[i].CreatedAt > stores[j].CreatedAt
	})
	return stores, nil
}

func (a *archive) GetStore(ctx context.Context, id string) (*storemodel.Store, error) {
	var stores []storemodel.Store
	if err := a.read(ctx, keyStores, &stores); err != nil {
		return nil, err
	}
	for i := range stores {
		if stores[i].ID == id {
			return &stores[i], nil
		}
	}
	return nil, fmt.Errorf("store %s: %w", id, gateway.ErrNotFound)
}

// SaveStore 按 id 覆盖或追加，然后整体重写序列
func (a *archive) SaveStore(ctx context.Context, store *storemodel.Store) error {
	var stores []storemodel.Store
	if err := a.read(ctx, keyStores, &stores); err != nil {
		return err
	}

	replaced := false
	for i := range stores {
		if stores[i].ID == store.ID {
			stores[i] = *store
			replaced = true
			break
		}
	}
	if !replaced {
		stores = append(stores, *store)
	}

	return a.cache.Set(ctx, keyStores, stores, 0)
}

// ListOrders 返回全部订单，按创建时间倒序
func (a *archive) ListOrders(ctx context.Context) ([]ordermodel.Order, error) {
	var orders []ordermodel.Order
	if err := a.read(ctx, keyOrders, &orders); err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt > orders[j].CreatedAt
	})
	return orders, nil
}

func (a *archive) GetOrder(ctx context.Context, id string) (*ordermodel.Order, error) {
	var orders []ordermodel.Order
	if err := a.read(ctx, keyOrders, &orders); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, gateway.ErrNotFound)
}

// SaveOrder 按 id 覆盖或追加，同 id 不产生重复记录
func (a *archive) SaveOrder(ctx context.Context, order *ordermodel.Order) error {
	var orders []ordermodel.Order
	if err := a.read(ctx, keyOrders, &orders); err != nil {
		return err
	}

	replaced := false
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = *order
			replaced = true
			break
		}
	}
	if !replaced {
		orders = append(orders, *order)
	}

	return a.cache.Set(ctx, keyOrders, orders, 0)
}

// Reset 清空两类实体的本地副本
func (a *archive) Reset(ctx context.Context) error {
	if err := a.cache.Delete(ctx, keyStores); err != nil {
		return err
	}
	return a.cache.Delete(ctx, keyOrders)
}

// read 读取整条序列，键不存在时视为空集
func (a *archive) read(ctx context.Context, key string, dest interface{}) error {
	err := a.cache.Get(ctx, key, dest)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			metrics.GetGlobalCollector().RecordCacheLookup(key, false)
			return nil
		}
		return err
	}
	metrics.GetGlobalCollector().RecordCacheLookup(key, true)
	return nil
}
