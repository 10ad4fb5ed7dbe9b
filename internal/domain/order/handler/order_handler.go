package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"paylink_console/internal/domain/order/model"
	"paylink_console/internal/domain/order/service"
	"paylink_console/internal/pkg/gateway"
	"paylink_console/internal/pkg/validation"
	"paylink_console/pkg/response"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	service         service.OrderService
	validate        *validatorv10.Validate
	checkoutBaseURL string
}

// NewOrderHandler 创建处理器
func NewOrderHandler(s service.OrderService, v *validatorv10.Validate, checkoutBaseURL string) *OrderHandler {
	return &OrderHandler{
		service:         s,
		validate:        v,
		checkoutBaseURL: strings.TrimRight(checkoutBaseURL, "/"),
	}
}

// CreateOrderInput 创建订单输入
// Amount 用指针区分 0 和缺失
type CreateOrderInput struct {
	Amount      *float64 `json:"amount" validate:"required"`
	Description string   `json:"description" validate:"required"`
	StoreID     string   `json:"storeId" validate:"omitempty"`
}

// UpdateStatusInput 更新状态输入
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,order_status"`
}

// AttachCustomerInput 补录客户信息输入，字段均可选
type AttachCustomerInput struct {
	Name  string `json:"name" validate:"omitempty,max=200"`
	TaxID string `json:"taxId" validate:"omitempty,max=32"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// ListOrders 订单列表，可按店铺过滤
// @Summary 订单列表
// @Tags Order
// @Produce json
// @Param storeId query string false "Store ID"
// @Success 200 {object} response.Response{data=[]model.Order}
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	storeID := c.Query("storeId")

	orders, source, err := h.service.ListOrders(c.Request.Context(), storeID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrStorageFailed, err.Error())
		return
	}
	response.SuccessWithSource(c, string(source), orders)
}

// GetOrder 订单详情
// @Summary 订单详情
// @Tags Order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response{data=model.Order}
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")

	order, source, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrStorageFailed, err.Error())
		return
	}

	response.SuccessWithSource(c, string(source), order)
}

// CreateOrder 创建支付链接订单
// @Summary 创建订单
// @Tags Order
// @Accept json
// @Produce json
// @Param input body CreateOrderInput true "Order Info"
// @Success 200 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := validation.BindAndValidate(c, &input, h.validate); err != nil {
		return
	}

	order, source, err := h.service.CreateOrder(c.Request.Context(), *input.Amount, input.Description, input.StoreID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAmountOutOfRange):
			response.Error(c, http.StatusBadRequest, response.ErrOrderAmountInvalid, err.Error())
		case errors.Is(err, gateway.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.ErrStoreNotFound, "store not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrStorageFailed, err.Error())
		}
		return
	}

	response.SuccessWithSource(c, string(source), gin.H{
		"order":       order,
		"checkoutUrl": h.checkoutBaseURL + "/" + order.ID,
		"quote":       h.service.Quote(order.Amount),
	})
}

// UpdateStatus 更新订单状态
// @Summary 更新订单状态
// @Tags Order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body UpdateStatusInput true "New Status"
// @Success 200 {object} response.Response{data=model.Order}
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var input UpdateStatusInput
	if err := validation.BindAndValidate(c, &input, h.validate); err != nil {
		return
	}

	order, source, err := h.service.Transition(c.Request.Context(), id, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStatusInvalid):
			response.Error(c, http.StatusBadRequest, response.ErrOrderStatusInvalid, err.Error())
		case errors.Is(err, gateway.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "order not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrStorageFailed, err.Error())
		}
		return
	}

	response.SuccessWithSource(c, string(source), order)
}

// AttachCustomer 补录客户信息
// @Summary 补录客户信息
// @Tags Order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body AttachCustomerInput true "Customer Fields"
// @Success 200 {object} response.Response{data=model.Order}
// @Router /orders/{id}/customer [put]
func (h *OrderHandler) AttachCustomer(c *gin.Context) {
	id := c.Param("id")

	var input AttachCustomerInput
	if err := validation.BindAndValidate(c, &input, h.validate); err != nil {
		return
	}

	order, source, err := h.service.AttachCustomer(c.Request.Context(), id, model.CustomerFields{
		Name:  input.Name,
		TaxID: input.TaxID,
		Email: input.Email,
		Phone: input.Phone,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrStorageFailed, err.Error())
		return
	}

	response.SuccessWithSource(c, string(source), order)
}

// QuoteFee 费用试算，不落库
// @Summary 费用试算
// @Tags Order
// @Produce json
// @Param amount query number true "Order Amount"
// @Success 200 {object} response.Response{data=fee.Quote}
// @Router /fees/quote [get]
func (h *OrderHandler) QuoteFee(c *gin.Context) {
	raw := c.Query("amount")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "amount must be a number")
		return
	}

	response.Success(c, h.service.Quote(amount))
}
