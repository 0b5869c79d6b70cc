package service

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/pkg/logger"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// CourseReport 单个课程所有已分配学员的进度
type CourseReport struct {
	Course model.Course   `json:"course"`
	Users  []UserProgress `json:"users"`
}

type ReportService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	now          func() time.Time
}

func NewReportService(courseRepo *repository.CourseRepository, progressRepo *repository.ProgressRepository) *ReportService {
	return &ReportService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		now:          time.Now,
	}
}

// ProgressDashboard courseIDs 为空时返回所有课程
func (s *ReportService) ProgressDashboard(courseIDs []uint) ([]CourseReport, error) {
	courses, err := s.CourseRepo.ListWithAssignments(courseIDs)
	if err != nil {
		return nil, err
	}
	reports := make([]CourseReport, 0, len(courses))
	for i := range courses {
		users, err := courseUserProgress(s.ProgressRepo, &courses[i])
		if err != nil {
			return nil, err
		}
		course := courses[i]
		course.AssignedUsers = nil
		reports = append(reports, CourseReport{Course: course, Users: users})
	}
	return reports, nil
}

const (
	reportSheet   = "Raporlar"
	reportColumns = 8
)

var reportHeaders = []string{
	"Kullanıcı Adı", "E-posta", "T. İçerik", "Tamamlanan",
	"İlerleme (%)", "Test Sonucu", "Durum", "Son Tamamlanma",
}

func reportStatus(up UserProgress) string {
	if up.Progress.IsCompleted {
		return "Tamamlandı"
	}
	return "Devam Ediyor"
}

type reportStyles struct {
	title, header, cell int
}

func newReportStyles(f *excelize.File) (reportStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "B4B4B4", Style: 1},
		{Type: "right", Color: "B4B4B4", Style: 1},
		{Type: "top", Color: "B4B4B4", Style: 1},
		{Type: "bottom", Color: "B4B4B4", Style: 1},
	}
	var st reportStyles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13, Color: "4F8CFF"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return st, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"6A82FB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return st, err
	}
	st.cell, err = f.NewStyle(&excelize.Style{Border: border})
	return st, err
}

// reportWriter 逐行写入并记录每列最大宽度
type reportWriter struct {
	f      *excelize.File
	row    int
	widths [reportColumns]int
}

func (w *reportWriter) setRow(values []interface{}, style int) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(reportSheet, cell, v); err != nil {
			return err
		}
		if n := utf8.RuneCountInString(fmt.Sprint(v)); n > w.widths[i] {
			w.widths[i] = n
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, w.row)
	last, _ := excelize.CoordinatesToCellName(len(values), w.row)
	return w.f.SetCellStyle(reportSheet, first, last, style)
}

// Excel 生成多课程进度报表：每个课程一个标题行、表头、学员行，课程之间空一行
func (s *ReportService) Excel(courseIDs []uint) ([]byte, error) {
	reports, err := s.ProgressDashboard(courseIDs)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Log.Warn("Failed to close workbook", zap.Error(err))
		}
	}()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	styles, err := newReportStyles(f)
	if err != nil {
		return nil, err
	}

	w := &reportWriter{f: f, row: 1}
	generatedAt := s.now().Format("02.01.2006 15:04")
	for _, report := range reports {
		first, _ := excelize.CoordinatesToCellName(1, w.row)
		last, _ := excelize.CoordinatesToCellName(reportColumns, w.row)
		if err := f.MergeCell(reportSheet, first, last); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheet, first, fmt.Sprintf("%s - Rapor Tarihi: %s", report.Course.Title, generatedAt)); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(reportSheet, first, first, styles.title); err != nil {
			return nil, err
		}
		w.row++

		headers := make([]interface{}, len(reportHeaders))
		for i, h := range reportHeaders {
			headers[i] = h
		}
		if err := w.setRow(headers, styles.header); err != nil {
			return nil, err
		}
		w.row++

		for _, up := range report.Users {
			score := "-"
			if up.Progress.TestScore != nil {
				score = fmt.Sprint(*up.Progress.TestScore)
			}
			lastCompletion := ""
			if up.LastCompletion != nil {
				lastCompletion = up.LastCompletion.Format("02.01.2006 15:04")
			}
			if err := w.setRow([]interface{}{
				up.User.FullName(),
				up.User.Email,
				up.Progress.TotalSteps,
				up.Progress.CompletedSteps,
				fmt.Sprintf("%d%%", up.Progress.ProgressPercent),
				score,
				reportStatus(up),
				lastCompletion,
			}, styles.cell); err != nil {
				return nil, err
			}
			w.row++
		}
		w.row++
	}

	for i, width := range w.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(reportSheet, col, col, float64(width+4)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	logger.Log.Info("Progress report generated", zap.Int("courses", len(reports)))
	return buf.Bytes(), nil
}
