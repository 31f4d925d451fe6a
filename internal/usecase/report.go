package usecase

import (
	"context"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/internal/notify"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

type reportUsecase struct {
	dashboard  domain.DashboardUsecase
	mailer     notify.Mailer
	alertEmail string
	log        *zap.Logger
}

func NewReportUsecase(
	dashboard domain.DashboardUsecase,
	mailer notify.Mailer,
	alertEmail string,
	log *zap.Logger,
) domain.ReportUsecase {
	return &reportUsecase{
		dashboard:  dashboard,
		mailer:     mailer,
		alertEmail: strings.TrimSpace(alertEmail),
		log:        log,
	}
}

func formatPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func formatReasons(reasons []domain.RiskReason) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, strings.ReplaceAll(string(r), "_", " "))
	}
	return strings.Join(parts, ", ")
}

// ========== REPORT CARD ==========

func (uc *reportUsecase) ReportCardPDF(ctx context.Context, studentID uint, w io.Writer) error {
	profile, err := uc.dashboard.StudentProfile(ctx, studentID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Report card - "+profile.Student.FullName, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "REPORT CARD")
	pdf.Ln(12)
	pdf.SetDrawColor(40, 90, 160)
	pdf.SetLineWidth(0.5)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(5)

	field := func(label, value string) {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(45, 6, tr(label))
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, tr(value))
		pdf.Ln(6)
	}
	field("Student:", profile.Student.FullName)
	field("Class:", profile.ClassName)
	if profile.Student.Email != "" {
		field("Email:", profile.Student.Email)
	}
	field("Issued:", time.Now().Format("January 2, 2006"))
	pdf.Ln(4)

	section := func(title string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, title)
		pdf.Ln(7)
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetLineWidth(0.3)
		pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
		pdf.Ln(3)
	}

	a := profile.Attendance
	section("ATTENDANCE")
	field("Attendance rate:", formatPercent(a.Rate))
	field("Days recorded:", fmt.Sprintf("%d (present %d, late %d, absent %d, excused %d)",
		a.Total, a.Present, a.Late, a.Absent, a.Excused))
	pdf.Ln(4)

	section("CATEGORY AVERAGES")
	categories := make([]string, 0, len(profile.CategoryAverages))
	for c := range profile.CategoryAverages {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	if len(categories) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "No scores recorded.")
		pdf.Ln(6)
	}
	for _, c := range categories {
		avg := profile.CategoryAverages[c]
		field(c+":", formatPercent(&avg))
	}
	field("Overall average:", formatPercent(profile.OverallAverage))
	pdf.Ln(4)

	if len(profile.Scores) > 0 {
		section("SCORES")
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(40, 90, 160)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(30, 7, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "CATEGORY", "1", 0, "L", true, 0, "")
		pdf.CellFormat(70, 7, "TITLE", "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 7, "POINTS", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, "PERCENT", "1", 1, "C", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", 9)
		for _, s := range profile.Scores {
			pdf.CellFormat(30, 6, dateKey(time.Time(s.Date)), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, tr(s.Category), "1", 0, "L", false, 0, "")
			pdf.CellFormat(70, 6, tr(s.Title), "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%g/%g", s.Points, s.MaxPoints), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%.1f%%", s.Percentage), "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(profile.RiskReasons) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(180, 30, 30)
		pdf.Cell(0, 6, "Needs attention: "+formatReasons(profile.RiskReasons))
		pdf.Ln(6)
	}

	return pdf.Output(w)
}

// ========== AT-RISK DIGEST ==========

func (uc *reportUsecase) SendAtRiskDigest(ctx context.Context) (int, error) {
	if uc.alertEmail == "" {
		return 0, fmt.Errorf("no alert recipient configured: %w", domain.ErrInvalidInput)
	}
	students, err := uc.dashboard.AtRiskStudents(ctx, 0)
	if err != nil {
		return 0, err
	}

	var text, body strings.Builder
	if len(students) == 0 {
		text.WriteString("No students are currently at risk.\n")
		body.WriteString("<p>No students are currently at risk.</p>")
	} else {
		fmt.Fprintf(&text, "%d student(s) need attention:\n\n", len(students))
		fmt.Fprintf(&body, "<p>%d student(s) need attention:</p><table border=\"1\" cellpadding=\"4\">", len(students))
		body.WriteString("<tr><th>Class</th><th>Student</th><th>Attendance</th><th>Average</th><th>Reasons</th></tr>")
		for _, s := range students {
			fmt.Fprintf(&text, "- %s (%s): attendance %s, average %s [%s]\n",
				s.FullName, s.ClassName, formatPercent(s.AttendanceRate), formatPercent(s.AverageScore), formatReasons(s.Reasons))
			fmt.Fprintf(&body, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				html.EscapeString(s.ClassName), html.EscapeString(s.FullName),
				formatPercent(s.AttendanceRate), formatPercent(s.AverageScore), formatReasons(s.Reasons))
		}
		body.WriteString("</table>")
	}

	msg := notify.Message{
		To:          uc.alertEmail,
		Subject:     fmt.Sprintf("At-risk students (%d)", len(students)),
		TextContent: text.String(),
		HTMLContent: body.String(),
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		return 0, err
	}
	uc.log.Info("at-risk digest sent", zap.String("to", uc.alertEmail), zap.Int("students", len(students)))
	return len(students), nil
}
