package service

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
)

// ExportFormat is the serialization of an export.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
)

// ExportQuery selects what to export.
type ExportQuery struct {
	Format ExportFormat
	Status domain.CardStatus // defaults to active
}

// ExportCard is the exported view of a card.
type ExportCard struct {
	ID        uuid.UUID         `json:"id"`
	Front     string            `json:"front"`
	Back      string            `json:"back"`
	Tags      []string          `json:"tags"`
	Source    domain.CardSource `json:"source"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Export is a snapshot of a user's cards.
type Export struct {
	Format     ExportFormat `json:"-"`
	Cards      []ExportCard `json:"data"`
	ExportedAt time.Time    `json:"exported_at"`
	TotalCards int          `json:"total_cards"`
}

var csvHeader = []string{"id", "front", "back", "tags", "source", "created_at", "updated_at"}

// WriteCSV writes the export as CSV with a header row. Tags are joined with ';'.
func (e *Export) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range e.Cards {
		record := []string{
			c.ID.String(),
			c.Front,
			c.Back,
			strings.Join(c.Tags, ";"),
			string(c.Source),
			c.CreatedAt.UTC().Format(time.RFC3339Nano),
			c.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export implements CardService.Export
func (s *cardServiceImpl) Export(ctx context.Context, userID uuid.UUID, query ExportQuery) (*Export, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if query.Format != ExportFormatCSV && query.Format != ExportFormatJSON {
		return nil, ErrInvalidExportFormat
	}
	status := query.Status
	if status == "" {
		status = domain.CardStatusActive
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	cards, err := s.cards.ListForExport(ctx, userID, status)
	if err != nil {
		log.Error("failed to load cards for export",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewCardServiceError("export_cards", "failed to load cards", err)
	}

	exported := make([]ExportCard, 0, len(cards))
	for _, c := range cards {
		exported = append(exported, ExportCard{
			ID:        c.ID,
			Front:     c.Front,
			Back:      c.Back,
			Tags:      c.Tags,
			Source:    c.Source,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}

	log.Info("cards exported",
		slog.String("user_id", userID.String()),
		slog.String("format", string(query.Format)),
		slog.Int("card_count", len(exported)))
	return &Export{
		Format:     query.Format,
		Cards:      exported,
		ExportedAt: s.now().UTC(),
		TotalCards: len(exported),
	}, nil
}
