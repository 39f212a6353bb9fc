package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/logger"
	"github.com/inkwell/internal/service"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parsePage(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	perPage, _ := strconv.Atoi(strings.TrimSpace(c.Query("perPage")))
	return page, perPage
}

// serviceErrorStatus 将服务层的哨兵错误映射为 HTTP 状态码与用户可读信息。
// 未识别的错误按存储故障处理：记录原始错误，对外只给通用提示。
func serviceErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTaxonomyNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrContactNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrAdminRequired),
		errors.Is(err, service.ErrNotPostOwner),
		errors.Is(err, service.ErrNotCommentOwner),
		errors.Is(err, service.ErrNotEditable):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrScheduleTimeRequired),
		errors.Is(err, service.ErrCommentEmpty),
		errors.Is(err, service.ErrCommentTooLong),
		errors.Is(err, service.ErrUnknownReactionType),
		errors.Is(err, service.ErrPostNotPublished),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrTaxonomyNameRequired),
		errors.Is(err, service.ErrTaxonomyExists),
		errors.Is(err, service.ErrCollaboratorKnown),
		errors.Is(err, service.ErrContactInvalid),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrIdentityMissing):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "服务器内部错误"
}

func respondServiceError(c *gin.Context, err error) {
	status, message := serviceErrorStatus(err)
	if status == http.StatusInternalServerError {
		logger.L.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
	}
	respondError(c, status, message)
}
