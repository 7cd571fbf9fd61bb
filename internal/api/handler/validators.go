package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"trip-expense/backend/internal/model"
	"trip-expense/backend/pkg/response"
)

var registerOnce sync.Once

// RegisterValidators 在 gin 的 validator 引擎上注册自定义规则，并让错误字段名使用 json/form 标签
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin 校验引擎不是 validator/v10")
			return
		}
		v.RegisterTagNameFunc(fieldTagName)
		err = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return model.IsValidMobile(fl.Field().String())
		})
	})
	return err
}

func fieldTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	if name == "-" {
		return ""
	}
	return name
}

// bindErrorFields 将绑定错误转换为字段级错误表
func bindErrorFields(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, exists := fields[fe.Field()]; !exists {
				fields[fe.Field()] = validationMessage(fe)
			}
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fields[typeErr.Field] = "类型不正确"
		return fields
	}

	fields["non_field_errors"] = "请求格式错误"
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "该字段为必填项"
	case "email":
		return "邮箱格式不正确"
	case "mobile":
		return "手机号必须为 10 位数字"
	case "oneof":
		return fmt.Sprintf("不是有效的选项，可选值: %s", fe.Param())
	case "datetime":
		return "日期格式应为 YYYY-MM-DD"
	case "uuid":
		return "无效的 ID"
	case "min":
		return fmt.Sprintf("不能小于 %s", fe.Param())
	case "max":
		return fmt.Sprintf("不能大于 %s", fe.Param())
	default:
		return "格式不正确"
	}
}

// bindJSON 绑定失败时写入 400 并返回 false
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.ValidationFailed(c, bindErrorFields(err))
		return false
	}
	return true
}

// bindQuery 绑定失败时写入 400 并返回 false
func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.ValidationFailed(c, bindErrorFields(err))
		return false
	}
	return true
}
