package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ToggleReaction 切换当前用户在文章上的一种表态。
func (a *API) ToggleReaction(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var payload struct {
		Type string `json:"type"`
	}
	if !bindJSON(c, &payload, "无效的表态数据") {
		return
	}

	if err := a.reactions.Toggle(id, currentUser(c).ID, payload.Type); err != nil {
		respondServiceError(c, err)
		return
	}

	// 前端通过重新查询计数完成状态对齐
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// GetReactions 返回文章的表态计数；已登录用户同时返回其已设置的类型。
func (a *API) GetReactions(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	counts, err := a.reactions.Counts(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{"counts": counts}
	if user := currentUser(c); user != nil {
		mine, err := a.reactions.UserTypes(id, user.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response["mine"] = mine
	}

	c.JSON(http.StatusOK, response)
}
