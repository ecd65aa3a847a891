package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/pkg/code"
)

func Response(c *gin.Context, code int, message string, data interface{}) {
	if nil == data {
		data = struct {
		}{}
	}
	resp := &models.RespValue{
		Code: code,
		Msg:  message,
		Data: data,
	}
	c.JSON(http.StatusOK, resp)
}

func ResponseWithErr(c *gin.Context, code int, message string, err string, data interface{}) {
	if nil == data {
		data = struct {
		}{}
	}
	resp := &models.RespValue{
		Code: code,
		Msg:  message,
		Err:  err,
		Data: data,
	}
	c.JSON(http.StatusOK, resp)
}

// BadRequest 请求体无法解析时直接返回 400
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, &models.RespValue{
		Code: code.ParamErr,
		Msg:  code.MsgParamErr,
		Err:  err.Error(),
		Data: struct{}{},
	})
}

func Health(c *gin.Context) {
	Response(c, code.Success, code.MsgSuccess, "")
}
