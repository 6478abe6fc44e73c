package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type wishRequestPayload struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (h *httpHandler) handleCreateWish(c *gin.Context) {
	var request wishRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and message are required"})
		return
	}

	created, err := h.wishes.Create(c.Request.Context(), request.Name, request.Message)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *httpHandler) handleListWishes(c *gin.Context) {
	listed, err := h.wishes.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listed)
}

func (h *httpHandler) handleUpdateWish(c *gin.Context) {
	var request wishRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and message are required"})
		return
	}

	updated, err := h.wishes.Update(c.Request.Context(), c.Param("id"), request.Name, request.Message)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *httpHandler) handleDeleteWish(c *gin.Context) {
	if err := h.wishes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wish deleted successfully"})
}
