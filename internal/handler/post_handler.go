package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

type postPayload struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	Excerpt        string `json:"excerpt"`
	SEOTitle       string `json:"seoTitle"`
	SEODescription string `json:"seoDescription"`
	CoverMediaID   *uint  `json:"coverMediaId"`
	CategoryIDs    []uint `json:"categoryIds"`
	TagIDs         []uint `json:"tagIds"`
}

// ListPublishedPosts 返回前台文章列表，仅含已发布文章。
func (a *API) ListPublishedPosts(c *gin.Context) {
	page, perPage := parsePage(c)
	filter := service.PostFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   db.StatusPublished,
		Page:     page,
		PerPage:  perPage,
		TagNames: c.QueryArray("tag"),
	}

	result, err := a.posts.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      result.Posts,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
	})
}

// GetPublishedPost 返回一篇已发布文章及其渲染后的 HTML。
// 路径参数既接受数字 ID 也接受 slug。
func (a *API) GetPublishedPost(c *gin.Context) {
	var post *db.Post
	if id, err := parseUintParam(c, "id"); err == nil {
		found, err := a.posts.Get(id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if found.Status != db.StatusPublished {
			respondServiceError(c, service.ErrPostNotFound)
			return
		}
		post = found
	} else {
		found, err := a.posts.GetPublishedBySlug(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		post = found
	}

	rendered, err := service.RenderMarkdown(post.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "html": rendered})
}

// ListMyPosts 返回当前用户的全部文章。
func (a *API) ListMyPosts(c *gin.Context) {
	user := currentUser(c)
	page, perPage := parsePage(c)

	filter := service.PostFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   db.Status(strings.TrimSpace(c.Query("status"))),
		AuthorID: user.ID,
		Page:     page,
		PerPage:  perPage,
	}

	result, err := a.posts.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":          result.Posts,
		"total":          result.Total,
		"publishedCount": result.PublishedCount,
		"draftCount":     result.DraftCount,
		"totalPages":     result.TotalPages,
		"page":           result.Page,
	})
}

// CreatePost 创建一篇草稿。
func (a *API) CreatePost(c *gin.Context) {
	var payload postPayload
	if !bindJSON(c, &payload, "无效的文章数据") {
		return
	}

	user := currentUser(c)
	post, err := a.posts.Create(service.PostInput{
		Title:          payload.Title,
		Content:        payload.Content,
		Excerpt:        payload.Excerpt,
		SEOTitle:       payload.SEOTitle,
		SEODescription: payload.SEODescription,
		CoverMediaID:   payload.CoverMediaID,
		CategoryIDs:    payload.CategoryIDs,
		TagIDs:         payload.TagIDs,
		UserID:         user.ID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost 更新文章内容，旧内容落为一条修订记录。
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var payload postPayload
	if !bindJSON(c, &payload, "无效的文章数据") {
		return
	}

	post, err := a.posts.Update(id, currentUser(c), service.PostInput{
		Title:          payload.Title,
		Content:        payload.Content,
		Excerpt:        payload.Excerpt,
		SEOTitle:       payload.SEOTitle,
		SEODescription: payload.SEODescription,
		CoverMediaID:   payload.CoverMediaID,
		CategoryIDs:    payload.CategoryIDs,
		TagIDs:         payload.TagIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost 软删除文章。
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	if err := a.posts.Delete(id, currentUser(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文章已删除"})
}

// SubmitPost 由作者将草稿提交进入审核流。
func (a *API) SubmitPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	post, err := a.workflow.Transition(service.TransitionInput{
		PostID: id,
		Actor:  currentUser(c),
		Action: service.ActionSubmit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// InviteCollaborator 邀请协作者。
func (a *API) InviteCollaborator(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var payload struct {
		UserID     uint   `json:"userId"`
		Role       string `json:"role"`
		CanEdit    bool   `json:"canEdit"`
		CanSubmit  bool   `json:"canSubmit"`
		CanComment bool   `json:"canComment"`
	}
	if !bindJSON(c, &payload, "无效的邀请数据") {
		return
	}

	collaborator, err := a.posts.Invite(id, currentUser(c), payload.UserID, payload.Role,
		payload.CanEdit, payload.CanSubmit, payload.CanComment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"collaborator": collaborator})
}

// AcceptInvite 由被邀请人接受协作邀请。
func (a *API) AcceptInvite(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的邀请ID")
		return
	}

	if err := a.posts.AcceptInvite(id, currentUser(c).ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已接受邀请"})
}

// GetAnalytics 返回当前用户在日期区间内的统计数据。
func (a *API) GetAnalytics(c *gin.Context) {
	user := currentUser(c)

	end := time.Now()
	start := end.AddDate(0, -6, 0)

	if raw := strings.TrimSpace(c.Query("startDate")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的开始日期")
			return
		}
		start = parsed
	}
	if raw := strings.TrimSpace(c.Query("endDate")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的结束日期")
			return
		}
		// 含当天
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	report, err := a.analytics.ForUser(user.ID, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
