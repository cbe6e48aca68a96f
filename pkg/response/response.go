package response

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// Response 统一 JSON 信封；Code=0 表示成功
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

const (
	codeSuccess    = 0
	messageSuccess = "success"
)

func write(c *gin.Context, httpStatus int, body Response) {
	c.JSON(httpStatus, body)
}

// OK 200
func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, Response{Code: codeSuccess, Message: messageSuccess, Data: data})
}

// Created 201
func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, Response{Code: codeSuccess, Message: messageSuccess, Data: data})
}

// Attachment 以附件形式下载二进制内容
// 文件名按 RFC 5987 编码，越南语文件名在浏览器中也能正常显示
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, data)
}

// Error 通用错误响应，并中止后续处理
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.Abort()
	write(c, httpStatus, Response{Code: code, Message: message})
}

// ErrorWithDetails 附带底层原因（如缺失的列名）的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.Abort()
	write(c, httpStatus, Response{Code: code, Message: message, Details: details})
}

// ── 按 HTTP 状态码的快捷方式 ──

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

func EntityTooLarge(c *gin.Context, code int, message string) {
	Error(c, http.StatusRequestEntityTooLarge, code, message)
}

func TooManyRequests(c *gin.Context, code int, message string) {
	Error(c, http.StatusTooManyRequests, code, message)
}

// InternalError 500，不向客户端暴露内部错误细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "服务器内部错误")
}
