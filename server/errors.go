package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rushteam/pathwise/core"
)

// statusOf 把领域错误码映射为 HTTP 状态码。
func statusOf(de *core.DomainError) int {
	switch de.Code {
	case core.ErrorCodeNotFound:
		return http.StatusNotFound
	case core.ErrorCodeInvalidInput:
		return http.StatusUnprocessableEntity
	case core.ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case core.ErrorCodeEmptyResult:
		// 没有匹配结果不是服务端错误，前端提示用户换个选择
		return http.StatusOK
	case core.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case core.ErrorCodeNotSupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeError 输出 {success:false, message, code[, allowed]}。
// 非领域错误与内部错误不向外暴露细节。
func (h *Handler) writeError(c *gin.Context, err error) {
	de := core.GetDomainError(err)
	if de == nil {
		h.Log.Error("unhandled error", "request_id", c.GetString(ctxRequestID), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
		return
	}
	status := statusOf(de)
	body := gin.H{"success": false, "message": de.Message, "code": de.Code}
	if len(de.Allowed) > 0 {
		body["allowed"] = de.Allowed
	}
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		h.Log.Error("request failed", "request_id", c.GetString(ctxRequestID), "error", err)
		body["message"] = "internal error"
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request: " + err.Error()})
}
