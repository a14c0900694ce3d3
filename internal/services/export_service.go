package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

// exportPageSize is the batch size used while walking a filtered list
const exportPageSize = 100

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error) {
	users, err := collect(ctx, func(ctx context.Context, page int) ([]*models.User, models.Pagination, error) {
		f := filters
		f.Page, f.Limit = page, exportPageSize
		return s.repo.User().List(ctx, f)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect users: %w", err)
	}

	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{
			u.ID, u.FullName, u.Email, u.Phone, string(u.Role), activeLabel(u.IsActive), formatTime(u.CreatedAt),
		})
	}
	return s.writeSheet("Users", []string{"ID", "Full name", "Email", "Phone", "Role", "Status", "Created at"}, rows)
}

func (s *exportService) ExportMajors(ctx context.Context, filters repositories.MajorFilters) ([]byte, error) {
	majors, err := collect(ctx, func(ctx context.Context, page int) ([]*models.Major, models.Pagination, error) {
		f := filters
		f.Page, f.Limit = page, exportPageSize
		return s.repo.Major().List(ctx, f)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect majors: %w", err)
	}

	rows := make([][]interface{}, 0, len(majors))
	for _, m := range majors {
		rows = append(rows, []interface{}{
			m.Code, m.Name, m.Department, m.TotalCredits, strings.Join(m.AvailableAt, ", "),
			m.Tuition.FirstSem, m.Tuition.MidSem, m.Tuition.LastSem, activeLabel(m.IsActive),
		})
	}
	return s.writeSheet("Majors", []string{
		"Code", "Name", "Department", "Total credits", "Campuses",
		"Tuition (first)", "Tuition (mid)", "Tuition (last)", "Status",
	}, rows)
}

func (s *exportService) ExportConversations(ctx context.Context, filters repositories.ChatFilters) ([]byte, error) {
	conversations, err := collect(ctx, func(ctx context.Context, page int) ([]*models.Conversation, models.Pagination, error) {
		f := filters
		f.Page, f.Limit = page, exportPageSize
		return s.repo.Chat().List(ctx, f)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect conversations: %w", err)
	}

	rows := make([][]interface{}, 0, len(conversations))
	for _, c := range conversations {
		rows = append(rows, []interface{}{
			c.ID, c.Student.FullName, c.Student.Email, formatTime(c.StartTime), c.LastTopic, len(c.Interactions),
		})
	}
	return s.writeSheet("Conversations", []string{"ID", "Student", "Email", "Started", "Last topic", "Interactions"}, rows)
}

// collect walks every page of a list until the reported page count is reached
func collect[T any](ctx context.Context, fetch func(ctx context.Context, page int) ([]T, models.Pagination, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, pagination, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || page >= pagination.TotalPages() {
			return all, nil
		}
	}
}

func (s *exportService) writeSheet(name string, header []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(name, "A1", last, style)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	s.logger.Info("Workbook exported", "sheet", name, "rows", len(rows))
	return buf.Bytes(), nil
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
