package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/api/middleware"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/response"
)

// FieldError 单个字段的校验失败
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

var tagNameOnce sync.Once

// useWireNames 让校验错误使用 json / form 标签名而非 Go 字段名
func useWireNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// bindJSON 绑定并校验 JSON 请求体；失败时已写入响应
func bindJSON(c *gin.Context, req interface{}) bool {
	useWireNames()
	if err := c.ShouldBindJSON(req); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

// bindQuery 绑定并校验查询参数；失败时已写入响应
func bindQuery(c *gin.Context, req interface{}) bool {
	useWireNames()
	if err := c.ShouldBindQuery(req); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

// writeBindError 校验错误 → 422 并逐项列出字段；格式错误 → 400；超限 → 413
func writeBindError(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		response.UnprocessableEntity(c, response.CodeValidation, "参数校验失败", gin.H{"fields": fields})
		return
	}

	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeBadRequest, "请求格式无效", err.Error())
}
