// Package export renders the record collections as tables for spreadsheet tools.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository/sheets"
	"github.com/mamadbah2/dairyflow/internal/service/records"
)

var (
	// ErrUnknownCollection is returned for a collection name outside models.Collections.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrSheetsDisabled is returned by SyncSheet when no spreadsheet is configured.
	ErrSheetsDisabled = errors.New("google sheets export is not configured")
)

// Source is the part of the record store exports read from.
type Source interface {
	Animals(ctx context.Context, f records.AnimalFilter) ([]models.Animal, error)
	HealthRecords(ctx context.Context, f records.HealthFilter) ([]models.HealthRecord, error)
	MilkRecords(ctx context.Context, f records.MilkFilter) ([]models.MilkRecord, error)
	BreedingRecords(ctx context.Context, f records.BreedingFilter) ([]models.BreedingRecord, error)
	FeedItems(ctx context.Context) ([]models.FeedItem, error)
	Transactions(ctx context.Context, f records.TransactionFilter) ([]models.Transaction, error)
	Alerts(ctx context.Context, f records.AlertFilter) ([]models.Alert, error)
}

// Service builds tables, workbooks and spreadsheet syncs.
type Service struct {
	source Source
	sheets sheets.Repository
	logger *zap.Logger
}

// NewService wires the export service. sheetRepo may be nil when Google Sheets is not configured.
func NewService(source Source, sheetRepo sheets.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, sheets: sheetRepo, logger: logger}
}

// Table renders one collection.
func (s *Service) Table(ctx context.Context, collection string) (Table, error) {
	herd, err := s.source.Animals(ctx, records.AnimalFilter{})
	if err != nil {
		return Table{}, err
	}

	switch collection {
	case models.CollectionAnimals:
		return animalTable(herd), nil
	case models.CollectionHealthRecords:
		rows, err := s.source.HealthRecords(ctx, records.HealthFilter{})
		if err != nil {
			return Table{}, err
		}
		return healthTable(rows, herd), nil
	case models.CollectionMilkRecords:
		rows, err := s.source.MilkRecords(ctx, records.MilkFilter{})
		if err != nil {
			return Table{}, err
		}
		return milkTable(rows, herd), nil
	case models.CollectionBreedingRecords:
		rows, err := s.source.BreedingRecords(ctx, records.BreedingFilter{})
		if err != nil {
			return Table{}, err
		}
		return breedingTable(rows, herd), nil
	case models.CollectionFeedItems:
		rows, err := s.source.FeedItems(ctx)
		if err != nil {
			return Table{}, err
		}
		return feedTable(rows), nil
	case models.CollectionTransactions:
		rows, err := s.source.Transactions(ctx, records.TransactionFilter{})
		if err != nil {
			return Table{}, err
		}
		return transactionTable(rows, herd), nil
	case models.CollectionAlerts:
		rows, err := s.source.Alerts(ctx, records.AlertFilter{})
		if err != nil {
			return Table{}, err
		}
		return alertTable(rows, herd), nil
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
}

// WriteWorkbook writes an xlsx workbook with one sheet per collection to w.
func (s *Service) WriteWorkbook(ctx context.Context, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, collection := range models.Collections {
		table, err := s.Table(ctx, collection)
		if err != nil {
			return err
		}

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), collection); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(collection); err != nil {
			return fmt.Errorf("create sheet %s: %w", collection, err)
		}

		for r, row := range table.Values(true) {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			values := row
			if err := f.SetSheetRow(collection, cell, &values); err != nil {
				return fmt.Errorf("write %s row %d: %w", collection, r+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SyncSheet appends a collection to the tab of the same name and returns the number of
// data rows written. The header is written only when the tab is empty.
func (s *Service) SyncSheet(ctx context.Context, collection string) (int, error) {
	if s.sheets == nil {
		return 0, ErrSheetsDisabled
	}
	table, err := s.Table(ctx, collection)
	if err != nil {
		return 0, err
	}

	existing, err := s.sheets.ReadRange(ctx, collection+"!A1:A1")
	if err != nil {
		return 0, fmt.Errorf("inspect sheet %s: %w", collection, err)
	}

	if err := s.sheets.AppendRows(ctx, collection+"!A1", table.Values(len(existing) == 0)); err != nil {
		return 0, err
	}
	s.logger.Info("collection synced to sheet", zap.String("collection", collection), zap.Int("rows", len(table.Rows)))
	return len(table.Rows), nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
