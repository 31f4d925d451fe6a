package http

import "classroom-backend/internal/domain"

// Request bodies bound by the API handlers.

type loginRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
}

type classRequest struct {
	Name string `json:"name" binding:"required"`
}

type enrollRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type attendanceRequest struct {
	Date    string                   `json:"date"`
	Entries []domain.AttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}

type markAllRequest struct {
	Date   string                  `json:"date"`
	Status domain.AttendanceStatus `json:"status" binding:"required"`
}

type updateScoreRequest struct {
	Points    *float64 `json:"points" binding:"required"`
	MaxPoints float64  `json:"max_points"`
}
