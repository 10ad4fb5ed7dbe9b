package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"paylink_console/internal/domain/store/model"
	"paylink_console/internal/domain/store/service"
	"paylink_console/internal/pkg/gateway"
	"paylink_console/internal/pkg/validation"
	"paylink_console/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockStoreService is a mock of service.StoreService
type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) ListStores(ctx context.Context) ([]model.Store, gateway.Source, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).([]model.Store), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockStoreService) GetStore(ctx context.Context, id string) (*model.Store, gateway.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*model.Store), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockStoreService) CreateStore(ctx context.Context, name, description, apiKey string, feePercent, feeFixed *float64) (*model.Store, gateway.Source, error) {
	args := m.Called(ctx, name, description, apiKey, feePercent, feeFixed)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*model.Store), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockStoreService) UpdateStore(ctx context.Context, id, apiKey string, feePercent, feeFixed *float64) (*model.Store, gateway.Source, error) {
	args := m.Called(ctx, id, apiKey, feePercent, feeFixed)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gateway.Source), args.Error(2)
	}
	return args.Get(0).(*model.Store), args.Get(1).(gateway.Source), args.Error(2)
}

func (m *MockStoreService) EffectiveAPIKey(store *model.Store) string {
	args := m.Called(store)
	return args.String(0)
}

func (m *MockStoreService) EffectiveFees(store *model.Store) (float64, float64) {
	args := m.Called(store)
	return args.Get(0).(float64), args.Get(1).(float64)
}

func setupRouter(svc *MockStoreService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewStoreHandler(svc, validation.New())
	storeGroup := r.Group("/stores")
	{
		storeGroup.GET("", h.ListStores)
		storeGroup.POST("", h.CreateStore)
		storeGroup.GET("/:id", h.GetStore)
		storeGroup.PUT("/:id", h.UpdateStore)
	}
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListStoresEndpoint(t *testing.T) {
	t.Run("List carries data source header", func(t *testing.T) {
		svc := new(MockStoreService)
		r := setupRouter(svc)

		svc.On("ListStores", mock.Anything).
			Return([]model.Store{{ID: "s1", Name: "Coffee Corner"}}, gateway.SourceLocal, nil)

		w := doJSON(r, http.MethodGet, "/stores", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "local", w.Header().Get("X-Data-Source"))
	})
}

func TestGetStoreEndpoint(t *testing.T) {
	t.Run("Detail includes resolved api key", func(t *testing.T) {
		svc := new(MockStoreService)
		r := setupRouter(svc)

		store := &model.Store{ID: "s1", Name: "Coffee Corner"}
		svc.On("GetStore", mock.Anything, "s1").Return(store, gateway.SourceRemote, nil)
		svc.On("EffectiveAPIKey", store).Return("sk_admin_global")

		w := doJSON(r, http.MethodGet, "/stores/s1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "sk_admin_global", data["effectiveApiKey"])
		assert.Contains(t, data, "store")
	})

	t.Run("Unknown store returns 404", func(t *testing.T) {
		svc := new(MockStoreService)
		r := setupRouter(svc)

		svc.On("GetStore", mock.Anything, "missing").
			Return(nil, gateway.SourceRemote, gateway.ErrNotFound)

		w := doJSON(r, http.MethodGet, "/stores/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, response.ErrStoreNotFound, resp.Code)
	})
}

func TestCreateStoreEndpoint(t *testing.T) {
	t.Run("Valid store is created", func(t *testing.T) {
		svc := new(MockStoreService)
		r := setupRouter(svc)

		svc.On("CreateStore", mock.Anything, "Coffee Corner", "espresso bar", "", (*float64)(nil), (*float64)(nil)).
			Return(&model.Store{ID: "s1", Name: "Coffee Corner"}, gateway.SourceRemote, nil)

		w := doJSON(r, http.MethodPost, "/stores", gin.H{"name": "Coffee Corner", "description": "espresso bar"})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Missing name is rejected by validation", func(t *testing.T) {
		svc := new(MockStoreService)
		r := setupRouter(svc)

		w := doJSON(r, http.MethodPost, "/stores", gin.H{"description": "no name"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateStore")
	})

	t.Run("Whitespace name maps to store name code", func(t *testing.T) {
		// "   " 能过结构校验，业务层负责拒绝
		svc := new(MockStoreService)
		r := setupRouter(svc)

		svc.On("CreateStore", mock.Anything, "   ", "", "", (*float64)(nil), (*float64)(nil)).
			Return(nil, gateway.Source(""), service.ErrNameBlank)

		w := doJSON(r, http.MethodPost, "/stores", gin.H{"name": "   "})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, response.ErrStoreNameBlank, resp.Code)
	})

	t.Run("Negative fee percent is rejected", func(t *testing.T) {
		svc := new(MockStoreService)
		r := setupRouter(svc)

		w := doJSON(r, http.MethodPost, "/stores", gin.H{"name": "Bad Fees", "feePercent": -1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateStore")
	})
}

func TestUpdateStoreEndpoint(t *testing.T) {
	t.Run("Mutable fields are forwarded", func(t *testing.T) {
		svc := new(MockStoreService)
		r := setupRouter(svc)

		pct := 3.5
		svc.On("UpdateStore", mock.Anything, "s1", "sk_new", &pct, (*float64)(nil)).
			Return(&model.Store{ID: "s1", Name: "Coffee Corner", APIKey: "sk_new"}, gateway.SourceRemote, nil)

		w := doJSON(r, http.MethodPut, "/stores/s1", gin.H{"apiKey": "sk_new", "feePercent": 3.5})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Unknown store returns 404", func(t *testing.T) {
		svc := new(MockStoreService)
		r := setupRouter(svc)

		svc.On("UpdateStore", mock.Anything, "missing", "", (*float64)(nil), (*float64)(nil)).
			Return(nil, gateway.SourceRemote, gateway.ErrNotFound)

		w := doJSON(r, http.MethodPut, "/stores/missing", gin.H{})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
