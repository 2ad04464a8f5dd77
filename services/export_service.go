package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"tutortrack_go/config"
	"tutortrack_go/database"
	"tutortrack_go/models"
	"tutortrack_go/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Field order is a wire contract with existing spreadsheets; do not reorder.
var dailySummaryHeader = []string{"id", "student_name", "parent_number", "exam_grade", "homework_status", "status", "paid", "payment_amount"}
var monthlyReportHeader = []string{"date", "status", "homework_status", "exam_grade", "paid"}

// ExportService writes the CSV/zip artifacts admins download and optionally
// ships the monthly archive to S3.
type ExportService struct {
	db      *gorm.DB
	reports *ReportService
}

func NewExportService() *ExportService {
	return &ExportService{db: database.DB, reports: NewReportService()}
}

// DailySummaryCSV writes the merged daily report to <summary_dir>/<date>.csv and
// returns the path.
func (es *ExportService) DailySummaryCSV(date string) (string, error) {
	rows, _, err := es.reports.DailyReport(date)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(config.AppConfig.SummaryDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create summary directory: %v", err)
	}
	path := filepath.Join(config.AppConfig.SummaryDir, date+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create daily summary: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(dailySummaryHeader); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := []string{
			row.ID,
			row.Name,
			row.ParentPhone,
			row.ExamGrade,
			row.HomeworkStatus,
			row.Status,
			row.Paid,
			strconv.FormatFloat(row.PaymentAmount, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// monthlyReportBytes renders one student's monthly CSV into memory. The preamble
// rows and the "no data" placeholder match the legacy report format.
func monthlyReportBytes(student *models.Student, month string, records []models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	preamble := [][]string{
		{"Student ID", student.ID},
		{"Student Name", student.Name},
		{"Month", month},
		{},
	}
	for _, row := range preamble {
		if len(row) == 0 {
			buf.WriteString("\n")
			continue
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
		w.Flush()
	}

	if err := w.Write(monthlyReportHeader); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		if err := w.Write([]string{"no data", models.Sentinel, models.Sentinel, models.Sentinel, models.Sentinel}); err != nil {
			return nil, err
		}
	}
	for _, rec := range records {
		row := []string{rec.Date, rec.Status, rec.HomeworkStatus, rec.ExamGrade, rec.Paid}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var unsafeNameChars = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
var nameSpaces = regexp.MustCompile(`\s+`)

// reportFileName builds a filesystem-safe name for a student's monthly report.
func reportFileName(student *models.Student, month string) string {
	name := unsafeNameChars.ReplaceAllString(student.Name, "")
	name = nameSpaces.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		name = "student_" + student.ID
	}
	return fmt.Sprintf("%s_%s.csv", name, month)
}

// MonthlyReportCSV writes one student's monthly report under the monthly
// directory and returns the path.
func (es *ExportService) MonthlyReportCSV(studentID, month string) (string, error) {
	student, records, err := es.reports.MonthHistory(studentID, month)
	if err != nil {
		return "", err
	}

	data, err := monthlyReportBytes(student, month, records)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(config.AppConfig.MonthlyDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create monthly report directory: %v", err)
	}
	path := filepath.Join(config.AppConfig.MonthlyDir, reportFileName(student, month))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write monthly report: %v", err)
	}
	return path, nil
}

// AllMonthlyReportsZip bundles every student's monthly CSV into an in-memory
// zip. When archive upload is enabled the zip is also shipped to S3; an upload
// failure only logs, the download still succeeds.
func (es *ExportService) AllMonthlyReportsZip(month string) (*bytes.Buffer, string, error) {
	var students []models.Student
	if err := es.db.Order("id ASC").Find(&students).Error; err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for i := range students {
		student := &students[i]
		var records []models.HistoryRecord
		if err := es.db.Where("student_id = ? AND date LIKE ?", student.ID, month+"-%").
			Order("date ASC").Find(&records).Error; err != nil {
			return nil, "", err
		}

		data, err := monthlyReportBytes(student, month, records)
		if err != nil {
			return nil, "", err
		}
		entry, err := zw.Create(reportFileName(student, month))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create zip entry: %v", err)
		}
		if _, err := entry.Write(data); err != nil {
			return nil, "", err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close zip: %v", err)
	}

	name := fmt.Sprintf("monthly_reports_%s.zip", month)
	if config.AppConfig.UploadArchivesToS3 {
		es.uploadArchive(name, buf)
	}
	return buf, name, nil
}

func (es *ExportService) uploadArchive(name string, buf *bytes.Buffer) {
	ctx := context.Background()
	store, err := storage.NewArchiveStore(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Archive upload skipped: AWS not configured")
		return
	}
	key, err := store.UploadArchive(ctx, name, buf)
	if err != nil {
		logrus.WithError(err).Error("Failed to upload monthly archive")
		return
	}
	logrus.WithField("s3_key", key).Info("Monthly report archive uploaded")
}
