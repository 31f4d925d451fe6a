package http

import (
	"net/http"

	"classroom-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListScores(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}

	scores, err := h.ScoreUsecase.ListScores(c.Request.Context(), classID, c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": scores})
}

func (h *Handler) RecordScores(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}
	var req domain.Assessment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	scores, err := h.ScoreUsecase.RecordScores(c.Request.Context(), classID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"scores": scores})
}

func (h *Handler) ListCategories(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}

	categories, err := h.ScoreUsecase.ListCategories(c.Request.Context(), classID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) UpdateScore(c *gin.Context) {
	id, ok := parseID(c, "id", "score")
	if !ok {
		return
	}
	var req updateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	score, err := h.ScoreUsecase.UpdateScore(c.Request.Context(), id, *req.Points, req.MaxPoints)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

func (h *Handler) DeleteScore(c *gin.Context) {
	id, ok := parseID(c, "id", "score")
	if !ok {
		return
	}

	if err := h.ScoreUsecase.DeleteScore(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Score deleted"})
}
