package http

import (
	"bytes"
	"fmt"
	"net/http"

	"classroom-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetAttendanceSheet(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}
	date, ok := parseDay(c, c.Query("date"))
	if !ok {
		return
	}

	sheet, err := h.AttendanceUsecase.GetSheet(c.Request.Context(), classID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (h *Handler) RecordAttendance(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	date, ok := parseDay(c, req.Date)
	if !ok {
		return
	}

	if err := h.AttendanceUsecase.RecordAttendance(c.Request.Context(), classID, date, req.Entries); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance saved", "saved": len(req.Entries)})
}

func (h *Handler) MarkAllAttendance(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}
	var req markAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	date, ok := parseDay(c, req.Date)
	if !ok {
		return
	}

	count, err := h.AttendanceUsecase.MarkAll(c.Request.Context(), classID, date, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance saved", "saved": count})
}

func (h *Handler) DeleteAttendance(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}
	date, ok := parseDay(c, c.Query("date"))
	if !ok {
		return
	}

	deleted, err := h.AttendanceUsecase.DeleteAttendance(c.Request.Context(), classID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *Handler) AttendanceHistory(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	records, err := h.AttendanceUsecase.ListAttendance(c.Request.Context(), classID, from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *Handler) ExportAttendance(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.AttendanceUsecase.ExportCSV(c.Request.Context(), classID, from, to, &buf); err != nil {
		h.respondError(c, err)
		return
	}
	filename := fmt.Sprintf("attendance-%d-%s-%s.csv", classID, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
