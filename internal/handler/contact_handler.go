package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

// SubmitContact 保存访客提交的支持工单。
func (a *API) SubmitContact(c *gin.Context) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Subject  string `json:"subject"`
		Category string `json:"category"`
		Message  string `json:"message"`
	}
	if !bindJSON(c, &payload, "无效的工单数据") {
		return
	}

	query, err := a.contact.Submit(service.ContactInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Subject:  payload.Subject,
		Category: payload.Category,
		Message:  payload.Message,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"query": query})
}

// ListContactQueries 返回后台工单列表。
func (a *API) ListContactQueries(c *gin.Context) {
	page, perPage := parsePage(c)
	result, err := a.contact.List(service.ContactFilter{
		Status:  strings.TrimSpace(c.Query("status")),
		Search:  strings.TrimSpace(c.Query("search")),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queries":    result.Queries,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
	})
}

// ResolveContactQuery 更新工单状态与回复。
func (a *API) ResolveContactQuery(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的工单ID")
		return
	}

	var payload struct {
		Status string `json:"status"`
		Reply  string `json:"reply"`
	}
	if !bindJSON(c, &payload, "无效的工单数据") {
		return
	}

	query, err := a.contact.Resolve(id, payload.Status, payload.Reply)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query})
}

// DeleteContactQuery 删除工单。
func (a *API) DeleteContactQuery(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的工单ID")
		return
	}

	if err := a.contact.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "工单已删除"})
}
