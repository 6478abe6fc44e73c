package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/evergreenbyte/keepsake/internal/media"
	"github.com/evergreenbyte/keepsake/internal/photos"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *httpHandler) handleUploadPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	headers := form.File["files"]
	files := make([]media.File, 0, len(headers))
	for _, header := range headers {
		opened, err := header.Open()
		if err != nil {
			h.logger.Warn("failed to open uploaded file", zap.String("file", header.Filename), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded files"})
			return
		}
		content, err := io.ReadAll(opened)
		opened.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded files"})
			return
		}
		files = append(files, media.File{Name: header.Filename, Content: content})
	}

	results, err := h.photos.Upload(c.Request.Context(), files)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *httpHandler) handleListPhotos(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	listing, err := h.photos.List(c.Request.Context(), page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Numeric fields are pointers so a partial body is rejected instead of
// silently overwriting brightness or contrast with zero.
type effectsRequestPayload struct {
	Filter     string `json:"filter"`
	Brightness *int   `json:"brightness"`
	Contrast   *int   `json:"contrast"`
}

func (h *httpHandler) handleApplyEffects(c *gin.Context) {
	var request effectsRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid effects payload"})
		return
	}
	if request.Brightness == nil || request.Contrast == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filter, brightness and contrast are required"})
		return
	}

	updated, err := h.photos.ApplyEffects(c.Request.Context(), c.Param("id"), photos.Effects{
		Filter:     request.Filter,
		Brightness: *request.Brightness,
		Contrast:   *request.Contrast,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
