package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkwell/internal/db"

	// 注册 webp 解码器，封面尺寸解析用
	_ "golang.org/x/image/webp"
)

// UploadImage 处理图片上传：类型校验、唯一文件名、尺寸解析并落库为媒体资源。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		return
	}

	width, height := decodeImageSize(file)

	if err := os.MkdirAll(a.cfg.UploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "创建上传目录失败")
		return
	}

	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.cfg.UploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	fileURL := fmt.Sprintf("%s/%s", strings.TrimRight(a.cfg.UploadURLPath, "/"), newFilename)

	asset := db.MediaAsset{
		UserID:      currentUser(c).ID,
		FileName:    newFilename,
		URL:         fileURL,
		ContentType: contentType,
		Width:       width,
		Height:      height,
		SizeBytes:   file.Size,
	}
	if err := a.db.Create(&asset).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": asset})
}

// ListMedia 返回当前用户上传的媒体资源。
func (a *API) ListMedia(c *gin.Context) {
	var assets []db.MediaAsset
	if err := a.db.Where("user_id = ?", currentUser(c).ID).
		Order("created_at desc").
		Find(&assets).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": assets})
}

func decodeImageSize(file *multipart.FileHeader) (int, int) {
	reader, err := file.Open()
	if err != nil {
		return 0, 0
	}
	defer reader.Close()

	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
