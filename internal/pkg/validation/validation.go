package validation

import (
	"net/http"

	ordermodel "paylink_console/internal/domain/order/model"
	"paylink_console/pkg/response"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// New 返回配置好的校验器，注册了订单状态的自定义规则
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// order_status: 状态必须属于封闭集合
	_ = v.RegisterValidation("order_status", func(fl validatorv10.FieldLevel) bool {
		return ordermodel.IsValidStatus(fl.Field().String())
	})

	return v
}

// BindAndValidate 绑定 JSON 请求体并校验
// 失败时直接写出 400 响应并返回错误，handler 拿到错误后直接返回即可
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return err
	}

	if err := v.Struct(out); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, validationMessage(err))
		return err
	}
	return nil
}

// validationMessage 把校验错误压成一条可读消息
func validationMessage(err error) string {
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok || len(ve) == 0 {
		return err.Error()
	}
	return ve[0].Error()
}
