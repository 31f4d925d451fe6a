package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadPhoto stores the "photo" form file as the student's picture.
func (h *Handler) UploadPhoto(c *gin.Context) {
	studentID, ok := parseID(c, "id", "student")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}
	defer file.Close()

	info, err := h.StudentUsecase.UploadPhoto(c.Request.Context(), studentID, header.Filename, header.Size, file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Photo uploaded successfully",
		"photo": gin.H{
			"id":           info.ID,
			"content_type": info.ContentType,
			"size":         info.Size,
			"upload_date":  info.UploadDate,
			"url":          fmt.Sprintf("/api/v1/students/%d/photo", studentID),
		},
	})
}

// StreamPhoto streams the stored JPEG of a student.
func (h *Handler) StreamPhoto(c *gin.Context) {
	studentID, ok := parseID(c, "id", "student")
	if !ok {
		return
	}

	stream, info, err := h.StudentUsecase.GetPhoto(c.Request.Context(), studentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", info.ContentType)
	c.Header("Content-Length", fmt.Sprintf("%d", info.Size))
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"student-%d.jpg\"", studentID))
	c.Header("Cache-Control", "private, max-age=300")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// headers are already sent, leave it to the request log
		_ = c.Error(err)
	}
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	studentID, ok := parseID(c, "id", "student")
	if !ok {
		return
	}

	if err := h.StudentUsecase.DeletePhoto(c.Request.Context(), studentID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted"})
}
