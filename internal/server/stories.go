package server

import (
	"net/http"
	"time"

	"github.com/evergreenbyte/keepsake/internal/stories"
	"github.com/gin-gonic/gin"
)

type storyRequestPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	PhotoIDs    []string `json:"photoIds"`
}

func (h *httpHandler) handleCreateStory(c *gin.Context) {
	var request storyRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and photos are required"})
		return
	}

	var date *time.Time
	if request.Date != "" {
		parsed, err := time.Parse(time.RFC3339, request.Date)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", request.Date)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid story date"})
			return
		}
		date = &parsed
	}

	created, err := h.stories.Create(c.Request.Context(), stories.CreateInput{
		Title:       request.Title,
		Description: request.Description,
		Date:        date,
		PhotoIDs:    request.PhotoIDs,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *httpHandler) handleListStories(c *gin.Context) {
	listed, err := h.stories.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listed)
}
