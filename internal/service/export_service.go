package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"time"

	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/repository"
	"github.com/farmio-app/farmio/internal/storage"
	"github.com/rs/zerolog/log"
)

// ExportService writes a CSV snapshot of the inventory to object storage.
// Projection here is read-only: exporting never raises orders.
type ExportService struct {
	meds  repository.MedicationRepository
	store storage.ObjectStorage
}

func NewExportService(meds repository.MedicationRepository, store storage.ObjectStorage) *ExportService {
	return &ExportService{meds: meds, store: store}
}

// Export builds the snapshot and uploads it, returning the object key.
func (s *ExportService) Export(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", ErrExportDisabled
	}

	medications, err := s.meds.List(ctx)
	if err != nil {
		return "", err
	}

	data, err := buildSnapshotCSV(medications)
	if err != nil {
		return "", fmt.Errorf("failed to build inventory snapshot: %w", err)
	}

	key := fmt.Sprintf("exports/inventory_%s.csv", time.Now().UTC().Format("20060102_150405"))
	if err := s.store.UploadObject(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to upload inventory snapshot: %w", err)
	}

	log.Info().Str("key", key).Int("medications", len(medications)).Msg("inventory snapshot exported")
	return key, nil
}

func buildSnapshotCSV(medications []domain.Medication) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Name", "Dosage", "Form", "Pack Size", "Daily Dose", "Quantity", "Days Remaining", "Last Verified"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, m := range medications {
		days := ProjectSingle(m)
		daysLabel := "n/a"
		if !math.IsInf(days, 1) {
			daysLabel = fmt.Sprintf("%.1f", days)
		}

		record := []string{
			m.Name,
			m.Dosage,
			m.Form,
			fmt.Sprintf("%d", m.PackSize),
			fmt.Sprintf("%d", m.DailyDose),
			fmt.Sprintf("%d", m.Quantity),
			daysLabel,
			m.LastVerifiedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
