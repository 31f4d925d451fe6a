package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/pkg/logger"
	"classroom-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// defaultRangeDays is the span used when a range query omits its bounds.
const defaultRangeDays = 30

type Handler struct {
	AuthUsecase       domain.AuthUsecase
	ClassUsecase      domain.ClassUsecase
	StudentUsecase    domain.StudentUsecase
	AttendanceUsecase domain.AttendanceUsecase
	ScoreUsecase      domain.ScoreUsecase
	DashboardUsecase  domain.DashboardUsecase
	ReportUsecase     domain.ReportUsecase

	reporter   logger.Reporter
	sessionTTL time.Duration
}

func NewHandler(
	au domain.AuthUsecase,
	cu domain.ClassUsecase,
	su domain.StudentUsecase,
	atu domain.AttendanceUsecase,
	scu domain.ScoreUsecase,
	du domain.DashboardUsecase,
	ru domain.ReportUsecase,
	reporter logger.Reporter,
	sessionTTL time.Duration,
) *Handler {
	return &Handler{
		AuthUsecase:       au,
		ClassUsecase:      cu,
		StudentUsecase:    su,
		AttendanceUsecase: atu,
		ScoreUsecase:      scu,
		DashboardUsecase:  du,
		ReportUsecase:     ru,
		reporter:          reporter,
		sessionTTL:        sessionTTL,
	}
}

// ========== UTILITY FUNCTIONS ==========

func formatValidationErrors(err error) gin.H {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		errors := make(map[string]string)
		for _, f := range ve {
			errors[f.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", f.Field(), f.Tag())
		}
		return gin.H{"error": "Validation failed", "details": errors}
	}
	return gin.H{"error": "Invalid request: " + err.Error()}
}

// sessionCookie stores token in the "token" cookie for as long as the token lives.
func sessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetCookie("token", token, int(ttl.Seconds()), "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON; unexpected errors are reported and hidden from the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		if h.reporter != nil {
			h.reporter.Report(err, map[string]interface{}{
				"method": c.Request.Method,
				"path":   c.FullPath(),
			})
		}
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID"})
		return 0, false
	}
	return uint(id), true
}

// parseOptionalClassID reads ?class_id=, where a missing value means every class.
func parseOptionalClassID(c *gin.Context) (uint, bool) {
	raw := c.Query("class_id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return 0, false
	}
	return uint(id), true
}

func parseDay(c *gin.Context, value string) (time.Time, bool) {
	day, err := utils.ParseDate(value, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	return day, true
}

// parseRange reads ?from=&to=; to defaults to today and from to the defaultRangeDays before it.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	to, ok := parseDay(c, c.Query("to"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	from, ok := parseDay(c, c.Query("from"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if c.Query("from") == "" {
		from = to.AddDate(0, 0, -(defaultRangeDays - 1))
	}
	return from, to, true
}

// ========== AUTH HANDLERS ==========

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	token, err := h.AuthUsecase.Login(c.Request.Context(), req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sessionCookie(c, token, h.sessionTTL)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString(tokenKey)
	if err := h.AuthUsecase.Logout(c.Request.Context(), token); err != nil {
		h.respondError(c, err)
		return
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ========== CLASS HANDLERS ==========

func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.ClassUsecase.ListClasses(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if classes == nil {
		classes = []domain.ClassWithCount{}
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

func (h *Handler) CreateClass(c *gin.Context) {
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	class, err := h.ClassUsecase.CreateClass(c.Request.Context(), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"class": class})
}

func (h *Handler) GetClass(c *gin.Context) {
	id, ok := parseID(c, "id", "class")
	if !ok {
		return
	}

	class, err := h.ClassUsecase.GetClass(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": class})
}

func (h *Handler) RenameClass(c *gin.Context) {
	id, ok := parseID(c, "id", "class")
	if !ok {
		return
	}
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	class, err := h.ClassUsecase.RenameClass(c.Request.Context(), id, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": class})
}

func (h *Handler) DeleteClass(c *gin.Context) {
	id, ok := parseID(c, "id", "class")
	if !ok {
		return
	}

	if err := h.ClassUsecase.DeleteClass(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Class deleted"})
}

// ========== STUDENT HANDLERS ==========

func (h *Handler) ListStudents(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}

	students, err := h.StudentUsecase.ListStudents(c.Request.Context(), classID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if students == nil {
		students = []domain.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (h *Handler) EnrollStudent(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	student, err := h.StudentUsecase.EnrollStudent(c.Request.Context(), classID, req.FullName, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"student": student})
}

func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := parseID(c, "id", "student")
	if !ok {
		return
	}

	student, err := h.StudentUsecase.GetStudent(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": student})
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := parseID(c, "id", "student")
	if !ok {
		return
	}
	var req domain.StudentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	student, err := h.StudentUsecase.UpdateStudent(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": student})
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := parseID(c, "id", "student")
	if !ok {
		return
	}

	if err := h.StudentUsecase.DeleteStudent(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}

func (h *Handler) StudentProfile(c *gin.Context) {
	id, ok := parseID(c, "id", "student")
	if !ok {
		return
	}

	profile, err := h.DashboardUsecase.StudentProfile(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) ReportCard(c *gin.Context) {
	id, ok := parseID(c, "id", "student")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.ReportUsecase.ReportCardPDF(c.Request.Context(), id, &buf); err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"report-card-%d.pdf\"", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ========== IMPORT HANDLERS ==========

func (h *Handler) ImportStudents(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required"})
		return
	}
	defer file.Close()

	report, err := h.StudentUsecase.ImportStudents(c.Request.Context(), classID, header.Filename, file)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *Handler) ListImports(c *gin.Context) {
	classID, ok := parseID(c, "id", "class")
	if !ok {
		return
	}

	reports, err := h.StudentUsecase.ListImportReports(c.Request.Context(), classID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if reports == nil {
		reports = []domain.ImportReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) GetImport(c *gin.Context) {
	report, err := h.StudentUsecase.GetImportReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
