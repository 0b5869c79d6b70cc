package util

import (
	"errors"
	"net/http"
	"workplace_training_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 需要提示文案时使用
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

var statusByError = []struct {
	err    error
	status int
}{
	{gorm.ErrRecordNotFound, http.StatusNotFound},
	{ErrUserNotFound, http.StatusNotFound},
	{ErrCourseNotFound, http.StatusNotFound},
	{ErrContentNotFound, http.StatusNotFound},
	{ErrCertificateNotFound, http.StatusNotFound},
	{ErrResetNotFound, http.StatusNotFound},
	{ErrAnnouncementNotFound, http.StatusNotFound},
	{ErrGroupNotFound, http.StatusNotFound},
	{ErrCategoryNotFound, http.StatusNotFound},
	{ErrEmailRegistered, http.StatusConflict},
	{ErrUsernameTaken, http.StatusConflict},
	{ErrCategoryInUse, http.StatusConflict},
	{ErrTestAlreadyPassed, http.StatusConflict},
	{ErrResetNotPending, http.StatusConflict},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrTokenRevoked, http.StatusUnauthorized},
	{ErrPermissionDenied, http.StatusForbidden},
	{ErrNotAssigned, http.StatusForbidden},
	{ErrInvalidPassphrase, http.StatusForbidden},
	{ErrContentIncomplete, http.StatusForbidden},
	{ErrNoTest, http.StatusBadRequest},
	{ErrPasswordMismatch, http.StatusBadRequest},
	{ErrWeakPassword, http.StatusBadRequest},
	{ErrInvalidAnswers, http.StatusBadRequest},
	{ErrInvalidFileType, http.StatusBadRequest},
	{ErrResetTokenInvalid, http.StatusBadRequest},
	{ErrInvalidBackup, http.StatusBadRequest},
	{ErrInvalidAnswerKey, http.StatusBadRequest},
	{ErrAdminUndeletable, http.StatusForbidden},
	{ErrInvalidInput, http.StatusBadRequest},
}

// HandleError 将业务错误映射为对应的 HTTP 状态码，未知错误记录日志并返回 500
func HandleError(c *gin.Context, err error) {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			Error(c, m.status, err.Error())
			return
		}
	}
	LogInternalError(c, err)
}
