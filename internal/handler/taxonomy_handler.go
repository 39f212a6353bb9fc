package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type taxonomyPayload struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GetTaxonomy 返回分类与标签及各自的使用计数。
func (a *API) GetTaxonomy(c *gin.Context) {
	categories, err := a.taxonomy.ListCategories()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tags, err := a.taxonomy.ListTags()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories, "tags": tags})
}

// CreateTaxonomy 依据 type 创建分类或标签。
func (a *API) CreateTaxonomy(c *gin.Context) {
	var payload taxonomyPayload
	if !bindJSON(c, &payload, "无效的分类数据") {
		return
	}

	switch payload.Type {
	case "category":
		category, err := a.taxonomy.CreateCategory(payload.Name)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"category": category})
	case "tag":
		tag, err := a.taxonomy.CreateTag(payload.Name, payload.Slug)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"tag": tag})
	default:
		respondError(c, http.StatusBadRequest, "未知的分类类型")
	}
}

// UpdateTaxonomy 依据 type 重命名分类或标签。
func (a *API) UpdateTaxonomy(c *gin.Context) {
	var payload taxonomyPayload
	if !bindJSON(c, &payload, "无效的分类数据") {
		return
	}

	switch payload.Type {
	case "category":
		category, err := a.taxonomy.UpdateCategory(payload.ID, payload.Name)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category})
	case "tag":
		tag, err := a.taxonomy.UpdateTag(payload.ID, payload.Name, payload.Slug)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tag": tag})
	default:
		respondError(c, http.StatusBadRequest, "未知的分类类型")
	}
}

// DeleteTaxonomy 依据 type 删除分类或标签，并清理与文章的关联。
func (a *API) DeleteTaxonomy(c *gin.Context) {
	var payload taxonomyPayload
	if !bindJSON(c, &payload, "无效的分类数据") {
		return
	}

	var err error
	switch payload.Type {
	case "category":
		err = a.taxonomy.DeleteCategory(payload.ID)
	case "tag":
		err = a.taxonomy.DeleteTag(payload.ID)
	default:
		respondError(c, http.StatusBadRequest, "未知的分类类型")
		return
	}

	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已删除"})
}
