package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"classroom-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"percent": func(v *float64) string {
		if v == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.1f%%", *v)
	},
	"date": func(d datatypes.Date) string {
		return time.Time(d).Format(domain.DateLayout)
	},
}

// loadTemplates parses the embedded page templates.
func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html"))
}

type WebHandler struct {
	AuthUsecase       domain.AuthUsecase
	ClassUsecase      domain.ClassUsecase
	StudentUsecase    domain.StudentUsecase
	AttendanceUsecase domain.AttendanceUsecase
	DashboardUsecase  domain.DashboardUsecase

	sessionTTL time.Duration
}

func NewWebHandler(
	au domain.AuthUsecase,
	cu domain.ClassUsecase,
	su domain.StudentUsecase,
	atu domain.AttendanceUsecase,
	du domain.DashboardUsecase,
	sessionTTL time.Duration,
) *WebHandler {
	return &WebHandler{
		AuthUsecase:       au,
		ClassUsecase:      cu,
		StudentUsecase:    su,
		AttendanceUsecase: atu,
		DashboardUsecase:  du,
		sessionTTL:        sessionTTL,
	}
}

func (h *WebHandler) renderError(c *gin.Context, err error) {
	c.HTML(errorStatus(err), "error.html", gin.H{
		"title": "Error | Classroom",
		"error": err.Error(),
	})
}

func (h *WebHandler) ShowLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Login | Classroom",
		"error": c.Query("error"),
	})
}

func (h *WebHandler) Login(c *gin.Context) {
	token, err := h.AuthUsecase.Login(c.Request.Context(), c.PostForm("password"))
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"title": "Login | Classroom",
			"error": "Wrong password",
		})
		return
	}
	sessionCookie(c, token, h.sessionTTL)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *WebHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie("token"); err == nil && token != "" {
		_ = h.AuthUsecase.Logout(c.Request.Context(), token)
	}
	clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *WebHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	overview, err := h.DashboardUsecase.Overview(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	summaries, err := h.DashboardUsecase.ClassSummaries(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	atRisk, err := h.DashboardUsecase.AtRiskStudents(ctx, 0)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title":    "Dashboard | Classroom",
		"overview": overview,
		"classes":  summaries,
		"atRisk":   atRisk,
	})
}

func (h *WebHandler) ClassPage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.renderError(c, fmt.Errorf("class: %w", domain.ErrNotFound))
		return
	}
	ctx := c.Request.Context()

	class, err := h.ClassUsecase.GetClass(ctx, uint(id))
	if err != nil {
		h.renderError(c, err)
		return
	}
	students, err := h.StudentUsecase.ListStudents(ctx, class.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	sheet, err := h.AttendanceUsecase.GetSheet(ctx, class.ID, time.Now())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "class.html", gin.H{
		"title":    class.Name + " | Classroom",
		"class":    class,
		"students": students,
		"sheet":    sheet,
	})
}

func (h *WebHandler) StudentPage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.renderError(c, fmt.Errorf("student: %w", domain.ErrNotFound))
		return
	}

	profile, err := h.DashboardUsecase.StudentProfile(c.Request.Context(), uint(id))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "student.html", gin.H{
		"title":   profile.Student.FullName + " | Classroom",
		"profile": profile,
	})
}
