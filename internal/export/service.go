package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/cardscan/internal/repository"
)

// Service is a tiny façade over the contact repository that produces XLSX
// bytes for exports.
type Service struct {
	contactsRepo repository.ContactRepository
	logger       *slog.Logger
}

func NewService(repo repository.ContactRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{contactsRepo: repo, logger: logger}
}

// ExportContactsXLSX returns an XLSX workbook (as bytes) for the given date window.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all stored contacts.
func (s *Service) ExportContactsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	// Normalize dates (date-only, UTC)
	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := endOfDay(*to)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		t := endOfDay(time.Now().UTC())
		toDate = &t
	}

	contacts, err := s.contactsRepo.List(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Contacts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Name",
		"Phone Number",
		"Email Address",
		"Source File",
		"Confidence",
		"Extracted At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range contacts {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, c.GetName())
		write(2, c.GetPhoneNumber())
		write(3, c.GetEmailAddress())
		write(4, truncate(c.SourcePath, 80))
		write(5, fmt.Sprintf("%.2f", c.Confidence))
		if !c.CreatedAt.IsZero() {
			write(6, c.CreatedAt.UTC().Format("2006-01-02 15:04"))
		} else {
			write(6, "")
		}

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 26) // name
	_ = f.SetColWidth(sheet, "B", "B", 16) // phone
	_ = f.SetColWidth(sheet, "C", "C", 34) // email
	_ = f.SetColWidth(sheet, "D", "D", 60) // source path
	_ = f.SetColWidth(sheet, "E", "F", 14) // confidence, timestamp

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(contacts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// endOfDay returns the last instant of t's calendar day, matching the
// inclusive upper bound the HTTP date window uses.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		Add(24*time.Hour - time.Nanosecond)
}

// truncate shortens s to n runes, not bytes, so multi-byte path characters
// are never split mid-rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
