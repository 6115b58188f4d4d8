package forms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/integridad-lab/taller-core/internal/config"
	"github.com/integridad-lab/taller-core/internal/models"
	"github.com/integridad-lab/taller-core/internal/modules/sheets"
)

// ErrTextColumnMissing reports that the configured free-text column does not
// exist in the Form 1 sheet.
var ErrTextColumnMissing = errors.New("columna de texto no encontrada en Formulario 1")

// Service collects participant responses and reactions from the
// spreadsheet-backed form store.
type Service struct {
	gw          sheets.Gateway
	sheetCfg    config.SheetsConfig
	workshopCfg config.WorkshopConfig
	textCol     string
	logger      *zap.Logger
}

func NewService(gw sheets.Gateway, sheetCfg config.SheetsConfig, workshopCfg config.WorkshopConfig, logger *zap.Logger) *Service {
	return &Service{
		gw:          gw,
		sheetCfg:    sheetCfg,
		workshopCfg: workshopCfg,
		textCol:     workshopCfg.TextColumn,
		logger:      logger,
	}
}

// WorkshopDates lists the distinct workshop dates from Form 0, preferring
// the explicit implementation-date column over the submission timestamp,
// newest first.
func (s *Service) WorkshopDates(ctx context.Context) ([]string, error) {
	table, err := s.gw.ReadTable(ctx, s.sheetCfg.SpreadsheetID, s.sheetCfg.Form0Tab)
	if err != nil {
		return nil, fmt.Errorf("leer Formulario 0: %w", err)
	}
	if table.Empty() {
		return []string{}, nil
	}

	col := ImplementationDateColumn(table.Headers)
	if col == "" {
		col = DateColumn(table.Headers)
	}

	seen := make(map[string]struct{})
	var dates []string
	for _, row := range table.Rows {
		d := NormalizeDate(row[col])
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// Responses returns the Form 1 rows for one workshop date with the
// recognized fields extracted. A date with no submissions yields an empty
// slice, not an error.
func (s *Service) Responses(ctx context.Context, date string) ([]models.ParticipantResponse, error) {
	table, err := s.gw.ReadTable(ctx, s.sheetCfg.SpreadsheetID, s.sheetCfg.Form1Tab)
	if err != nil {
		return nil, fmt.Errorf("leer Formulario 1: %w", err)
	}
	filtered := FilterByDate(table, date)
	if filtered.Empty() {
		return []models.ParticipantResponse{}, nil
	}

	dateCol := DateColumn(filtered.Headers)
	cardCol := CardColumn(filtered.Headers)
	genderCol := GenderColumn(filtered.Headers)
	textCol := FindColumn(filtered.Headers, s.textCol)

	out := make([]models.ParticipantResponse, 0, len(filtered.Rows))
	for _, row := range filtered.Rows {
		resp := models.ParticipantResponse{
			Timestamp: row[dateCol],
			Fields:    row,
		}
		if cardCol != "" {
			resp.Card = strings.TrimSpace(row[cardCol])
		}
		if genderCol != "" {
			resp.Gender = strings.TrimSpace(row[genderCol])
		}
		if textCol != "" {
			resp.FreeText = strings.TrimSpace(row[textCol])
		}
		out = append(out, resp)
	}
	return out, nil
}

// FreeTextAnswers returns the non-empty free-text answers for the
// classifier. Errors when the configured column is absent from a non-empty
// sheet, naming the available columns so the facilitator can fix the config.
func (s *Service) FreeTextAnswers(ctx context.Context, date string) ([]string, error) {
	table, err := s.gw.ReadTable(ctx, s.sheetCfg.SpreadsheetID, s.sheetCfg.Form1Tab)
	if err != nil {
		return nil, fmt.Errorf("leer Formulario 1: %w", err)
	}
	if len(table.Headers) > 0 && FindColumn(table.Headers, s.textCol) == "" {
		return nil, fmt.Errorf("%w: %q (columnas: %s)",
			ErrTextColumnMissing, s.textCol, strings.Join(table.Headers, ", "))
	}

	filtered := FilterByDate(table, date)
	col := FindColumn(filtered.Headers, s.textCol)
	var answers []string
	for _, row := range filtered.Rows {
		if v := strings.TrimSpace(row[col]); v != "" {
			answers = append(answers, v)
		}
	}
	return answers, nil
}

// Reactions returns the normalized long-format Form 2 rows for one date.
func (s *Service) Reactions(ctx context.Context, date string) ([]models.ParticipantReaction, error) {
	form2, err := s.gw.ReadTable(ctx, s.sheetCfg.SpreadsheetID, s.sheetCfg.Form2Tab)
	if err != nil {
		return nil, fmt.Errorf("leer Formulario 2: %w", err)
	}
	form1, err := s.gw.ReadTable(ctx, s.sheetCfg.SpreadsheetID, s.sheetCfg.Form1Tab)
	if err != nil {
		return nil, fmt.Errorf("leer Formulario 1: %w", err)
	}

	reactions := NormalizeReactions(FilterByDate(form1, date), FilterByDate(form2, date), date)
	if reactions == nil {
		reactions = []models.ParticipantReaction{}
	}
	return reactions, nil
}

var exportHeader = []string{"Taller", "Marca temporal", "Encuadre", "Número de tarjeta", "Género", "Pregunta", "Valor"}

// ExportReactions appends the normalized reaction table to the configured
// export tab and returns the number of exported rows.
func (s *Service) ExportReactions(ctx context.Context, date string) (int, error) {
	reactions, err := s.Reactions(ctx, date)
	if err != nil {
		return 0, err
	}
	if len(reactions) == 0 {
		return 0, nil
	}

	rows := make([][]string, 0, len(reactions))
	for _, r := range reactions {
		rows = append(rows, []string{
			r.Workshop, r.Timestamp, r.FrameLabel, r.Card, r.Gender, r.Question, r.Value,
		})
	}
	if err := s.gw.AppendRows(ctx, s.sheetCfg.SpreadsheetID, s.sheetCfg.ExportTab, exportHeader, rows); err != nil {
		return 0, fmt.Errorf("exportar reacciones: %w", err)
	}
	s.logger.Info("reacciones exportadas",
		zap.String("date", date), zap.Int("rows", len(rows)), zap.String("tab", s.sheetCfg.ExportTab))
	return len(rows), nil
}

// GroupContext builds the context text for the analysis prompts: the
// facilitator-provided general context plus the Form 0 rows matching the
// workshop date. Missing Form 0 data is not an error; the classifier simply
// works with less context.
func (s *Service) GroupContext(ctx context.Context, date string) string {
	var parts []string
	if v := strings.TrimSpace(s.workshopCfg.GeneralContext); v != "" {
		parts = append(parts, v)
	}

	if form0 := s.renderForm0(ctx, date); form0 != "" {
		parts = append(parts, form0)
	} else if v := strings.TrimSpace(s.workshopCfg.Form0Context); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, "\n\n")
}

func (s *Service) renderForm0(ctx context.Context, date string) string {
	table, err := s.gw.ReadTable(ctx, s.sheetCfg.SpreadsheetID, s.sheetCfg.Form0Tab)
	if err != nil {
		s.logger.Warn("no se pudo leer Formulario 0", zap.Error(err))
		return ""
	}
	if table.Empty() {
		return ""
	}

	col := ImplementationDateColumn(table.Headers)
	if col == "" {
		col = DateColumn(table.Headers)
	}

	var b strings.Builder
	count := 0
	for _, row := range table.Rows {
		if date != "" && NormalizeDate(row[col]) != date {
			continue
		}
		for _, h := range table.Headers {
			if v := strings.TrimSpace(row[h]); v != "" && h != col {
				fmt.Fprintf(&b, "- %s: %s\n", h, v)
			}
		}
		count++
		if count >= 5 {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
