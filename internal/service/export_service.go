package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/certification"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	questionsSheet = "Questions"
	resultsSheet   = "Results"
)

// ResultLister reads persisted assessment results.
type ResultLister interface {
	ListByCertification(ctx context.Context, certificationID string) ([]model.AssessmentResult, error)
}

// ExportService renders a certification and its results as a spreadsheet.
type ExportService struct {
	certs   *CertificationService
	results ResultLister
	log     zerolog.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(certs *CertificationService, results ResultLister, log zerolog.Logger) *ExportService {
	return &ExportService{
		certs:   certs,
		results: results,
		log:     logger.Component(log, "export_service"),
	}
}

// Export builds an xlsx workbook for the named certification and returns its
// bytes along with the certification name.
func (s *ExportService) Export(ctx context.Context, name string) ([]byte, string, error) {
	cert, err := s.certs.Get(ctx, name)
	if err != nil {
		return nil, "", err
	}
	cert = certification.AssignIDs(cert)

	results, err := s.results.ListByCertification(ctx, cert.ID)
	if err != nil {
		return nil, "", fmt.Errorf("list results: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	if err := writeQuestions(f, cert); err != nil {
		return nil, "", err
	}
	if err := writeResults(f, results); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	s.log.Info().
		Str("certification_id", cert.ID).
		Int("results", len(results)).
		Msg("Certification exported")
	return buf.Bytes(), cert.Name, nil
}

func writeQuestions(f *excelize.File, cert model.Certification) error {
	if err := f.SetSheetName("Sheet1", questionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{{"No", "Question", "Answer", "Correct"}}
	for i, q := range cert.Questions {
		if len(q.Answers) == 0 {
			rows = append(rows, []interface{}{i + 1, q.Text, "", ""})
			continue
		}
		for j, a := range q.Answers {
			no, text := interface{}(""), ""
			if j == 0 {
				no, text = i+1, q.Text
			}
			rows = append(rows, []interface{}{no, text, a.Text, yesNo(a.IsCorrect)})
		}
	}
	return setRows(f, questionsSheet, rows)
}

func writeResults(f *excelize.File, results []model.AssessmentResult) error {
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	rows := [][]interface{}{{"Completed At", "Correct", "Questions", "Percentage", "Passed"}}
	for _, r := range results {
		rows = append(rows, []interface{}{
			r.CompletedAt.UTC().Format("2006-01-02 15:04:05"),
			r.CorrectCount,
			r.QuestionCount,
			r.Percentage,
			yesNo(r.Passed),
		})
	}
	return setRows(f, resultsSheet, rows)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
