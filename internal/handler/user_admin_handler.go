package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

// ListUsers 返回后台用户列表。
func (a *API) ListUsers(c *gin.Context) {
	page, perPage := parsePage(c)
	filter := service.UserFilter{
		Search:  strings.TrimSpace(c.Query("search")),
		Role:    strings.TrimSpace(c.Query("role")),
		SortBy:  strings.TrimSpace(c.Query("sort")),
		Page:    page,
		PerPage: perPage,
	}

	result, err := a.users.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      result.Users,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
	})
}

// UpdateUserRole 修改用户的站点角色。
func (a *API) UpdateUserRole(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	var payload struct {
		Role string `json:"role"`
	}
	if !bindJSON(c, &payload, "无效的角色数据") {
		return
	}

	user, err := a.users.SetRole(id, payload.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
