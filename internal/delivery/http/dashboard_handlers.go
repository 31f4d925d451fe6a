package http

import (
	"net/http"

	"classroom-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) DashboardOverview(c *gin.Context) {
	overview, err := h.DashboardUsecase.Overview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) AttendanceTrend(c *gin.Context) {
	classID, ok := parseOptionalClassID(c)
	if !ok {
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	points, err := h.DashboardUsecase.AttendanceTrend(c.Request.Context(), classID, from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"from":   from.Format(domain.DateLayout),
		"to":     to.Format(domain.DateLayout),
		"points": points,
	})
}

func (h *Handler) AtRiskStudents(c *gin.Context) {
	classID, ok := parseOptionalClassID(c)
	if !ok {
		return
	}

	students, err := h.DashboardUsecase.AtRiskStudents(c.Request.Context(), classID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (h *Handler) CategoryAverages(c *gin.Context) {
	classID, ok := parseOptionalClassID(c)
	if !ok {
		return
	}

	averages, err := h.DashboardUsecase.CategoryAverages(c.Request.Context(), classID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"averages": averages})
}

func (h *Handler) ClassSummaries(c *gin.Context) {
	summaries, err := h.DashboardUsecase.ClassSummaries(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": summaries})
}

func (h *Handler) SendAtRiskAlert(c *gin.Context) {
	count, err := h.ReportUsecase.SendAtRiskDigest(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "At-risk digest sent", "students": count})
}
