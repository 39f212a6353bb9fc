package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetOverview 返回后台面板的聚合数据。
func (a *API) GetOverview(c *gin.Context) {
	overview, err := a.overview.Build()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
