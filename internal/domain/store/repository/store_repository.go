package repository

import (
	"context"

	"paylink_console/internal/domain/store/model"
	"paylink_console/internal/pkg/gateway"
	"paylink_console/internal/pkg/localstore"
	"paylink_console/internal/pkg/upstream"
)

// StoreRepository 店铺仓库，远端优先、失败降级本地副本
type StoreRepository interface {
	List(ctx context.Context) ([]model.Store, gateway.Source, error)
	GetByID(ctx context.Context, id string) (*model.Store, gateway.Source, error)
	Create(ctx context.Context, store *model.Store) (*model.Store, gateway.Source, error)
	Update(ctx context.Context, store *model.Store) (*model.Store, gateway.Source, error)
}

type storeRepository struct {
	api   upstream.Client
	local localstore.Archive
}

// NewStoreRepository 创建店铺仓库
func NewStoreRepository(api upstream.Client, local localstore.Archive) StoreRepository {
	return &storeRepository{api: api, local: local}
}

func (r *storeRepository) List(ctx context.Context) ([]model.Store, gateway.Source, error) {
	return gateway.Attempt(ctx, "store_list",
		func(ctx context.Context) ([]model.Store, error) {
			return r.api.ListStores(ctx)
		},
		func(ctx context.Context) ([]model.Store, error) {
			return r.local.ListStores(ctx)
		},
	)
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*model.Store, gateway.Source, error) {
	return gateway.Attempt(ctx, "store_get",
		func(ctx context.Context) (*model.Store, error) {
			return r.api.GetStore(ctx, id)
		},
		func(ctx context.Context) (*model.Store, error) {
			return r.local.GetStore(ctx, id)
		},
	)
}

// Create 新建店铺；降级路径把完整记录写入本地副本
func (r *storeRepository) Create(ctx context.Context, store *model.Store) (*model.Store, gateway.Source, error) {
	return gateway.Attempt(ctx, "store_create",
		func(ctx context.Context) (*model.Store, error) {
			return r.api.CreateStore(ctx, store)
		},
		func(ctx context.Context) (*model.Store, error) {
			if err := r.local.SaveStore(ctx, store); err != nil {
				return nil, err
			}
			return store, nil
		},
	)
}

// Update 整条记录替换，调用方负责先合并好可变字段
func (r *storeRepository) Update(ctx context.Context, store *model.Store) (*model.Store, gateway.Source, error) {
	return gateway.Attempt(ctx, "store_update",
		func(ctx context.Context) (*model.Store, error) {
			return r.api.UpdateStore(ctx, store)
		},
		func(ctx context.Context) (*model.Store, error) {
			if err := r.local.SaveStore(ctx, store); err != nil {
				return nil, err
			}
			return store, nil
		},
	)
}
