package handler

import (
	"errors"
	"net/http"

	"paylink_console/internal/domain/store/service"
	"paylink_console/internal/pkg/gateway"
	"paylink_console/internal/pkg/validation"
	"paylink_console/pkg/response"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// StoreHandler 店铺处理器
type StoreHandler struct {
	service  service.StoreService
	validate *validatorv10.Validate
}

// NewStoreHandler 创建处理器
func NewStoreHandler(s service.StoreService, v *validatorv10.Validate) *StoreHandler {
	return &StoreHandler{service: s, validate: v}
}

// CreateStoreInput 创建店铺输入
type CreateStoreInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	APIKey      string   `json:"apiKey" validate:"omitempty"`
	FeePercent  *float64 `json:"feePercent" validate:"omitempty,gte=0,lte=100"`
	FeeFixed    *float64 `json:"feeFixed" validate:"omitempty,gte=0"`
}

// UpdateStoreInput 更新店铺输入，只接受可变字段
type UpdateStoreInput struct {
	APIKey     string   `json:"apiKey" validate:"omitempty"`
	FeePercent *float64 `json:"feePercent" validate:"omitempty,gte=0,lte=100"`
	FeeFixed   *float64 `json:"feeFixed" validate:"omitempty,gte=0"`
}

// ListStores 店铺列表
// @Summary 店铺列表
// @Tags Store
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Store}
// @Router /stores [get]
func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, source, err := h.service.ListStores(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrStorageFailed, err.Error())
		return
	}
	response.SuccessWithSource(c, string(source), stores)
}

// GetStore 店铺详情，带解析后的生效密钥
// @Summary 店铺详情
// @Tags Store
// @Produce json
// @Param id path string true "Store ID"
// @Success 200 {object} response.Response
// @Router /stores/{id} [get]
func (h *StoreHandler) GetStore(c *gin.Context) {
	id := c.Param("id")

	store, source, err := h.service.GetStore(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStoreNotFound, "store not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrStorageFailed, err.Error())
		return
	}

	response.SuccessWithSource(c, string(source), gin.H{
		"store":           store,
		"effectiveApiKey": h.service.EffectiveAPIKey(store),
	})
}

// CreateStore 创建店铺
// @Summary 创建店铺
// @Tags Store
// @Accept json
// @Produce json
// @Param input body CreateStoreInput true "Store Info"
// @Success 200 {object} response.Response{data=model.Store}
// @Router /stores [post]
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var input CreateStoreInput
	if err := validation.BindAndValidate(c, &input, h.validate); err != nil {
		return
	}

	store, source, err := h.service.CreateStore(c.Request.Context(),
		input.Name, input.Description, input.APIKey, input.FeePercent, input.FeeFixed)
	if err != nil {
		if errors.Is(err, service.ErrNameBlank) {
			response.Error(c, http.StatusBadRequest, response.ErrStoreNameBlank, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrStorageFailed, err.Error())
		return
	}

	response.SuccessWithSource(c, string(source), store)
}

// UpdateStore 更新店铺的费率/凭证字段
// @Summary 更新店铺
// @Tags Store
// @Accept json
// @Produce json
// @Param id path string true "Store ID"
// @Param input body UpdateStoreInput true "Mutable Fields"
// @Success 200 {object} response.Response{data=model.Store}
// @Router /stores/{id} [put]
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	id := c.Param("id")

	var input UpdateStoreInput
	if err := validation.BindAndValidate(c, &input, h.validate); err != nil {
		return
	}

	store, source, err := h.service.UpdateStore(c.Request.Context(), id, input.APIKey, input.FeePercent, input.FeeFixed)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStoreNotFound, "store not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrStorageFailed, err.Error())
		return
	}

	response.SuccessWithSource(c, string(source), store)
}
