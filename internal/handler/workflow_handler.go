package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

// ReviewPost 执行一次管理员工作流操作：
// PUT /admin/api/posts/:id  body {action, reason?, scheduledAt?}
func (a *API) ReviewPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var payload struct {
		Action      string `json:"action"`
		Reason      string `json:"reason"`
		ScheduledAt string `json:"scheduledAt"`
	}
	if !bindJSON(c, &payload, "无效的审核请求") {
		return
	}

	var scheduledAt *time.Time
	if raw := strings.TrimSpace(payload.ScheduledAt); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的排期时间")
			return
		}
		scheduledAt = &parsed
	}

	post, err := a.workflow.Transition(service.TransitionInput{
		PostID:      id,
		Actor:       currentUser(c),
		Action:      service.Action(strings.TrimSpace(payload.Action)),
		Reason:      payload.Reason,
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	audit, err := a.workflow.LastAudit(post.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "audit": audit})
}

// GetPostForReview 返回审核界面所需的完整文章视图。
func (a *API) GetPostForReview(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	comments, err := a.comments.List(post.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	reactions, err := a.reactions.Counts(post.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	lastAudit, err := a.workflow.LastAudit(post.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":           post,
		"comments":       comments,
		"reactions":      reactions,
		"lastAudit":      lastAudit,
		"allowedActions": service.AllowedActions(post.Status),
	})
}

// ListPostsForReview 返回待审核队列，缺省显示已提交与审核中的文章。
func (a *API) ListPostsForReview(c *gin.Context) {
	page, perPage := parsePage(c)
	status := db.Status(strings.TrimSpace(c.Query("status")))

	if status != "" {
		result, err := a.posts.List(service.PostFilter{Status: status, Page: page, PerPage: perPage})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": result.Posts, "total": result.Total, "totalPages": result.TotalPages})
		return
	}

	var posts []db.Post
	if err := a.db.Preload("User").
		Where("status IN ?", []string{string(db.StatusSubmitted), string(db.StatusUnderReview)}).
		Order("submitted_at asc, id asc").
		Find(&posts).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": int64(len(posts))})
}

// GetAuditTrail 返回文章的审计记录。
func (a *API) GetAuditTrail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	entries, err := a.workflow.AuditTrail(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": entries})
}
