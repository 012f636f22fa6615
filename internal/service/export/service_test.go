package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository/memory"
	"github.com/mamadbah2/dairyflow/internal/service/export"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/internal/service/records"
)

type fakeSheets struct {
	tabs map[string][][]interface{}
}

func (f *fakeSheets) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	tab := sheetRange[:len(sheetRange)-len("!A1")]
	f.tabs[tab] = append(f.tabs[tab], rows...)
	return nil
}

func (f *fakeSheets) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	tab := sheetRange[:len(sheetRange)-len("!A1:A1")]
	if len(f.tabs[tab]) == 0 {
		return nil, nil
	}
	return f.tabs[tab][:1], nil
}

func seeded(t *testing.T) *records.Service {
	t.Helper()
	svc := records.NewService(memory.NewStore(), ingestion.New(), nil)
	if _, err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return svc
}

func TestTableResolvesParentTags(t *testing.T) {
	svc := export.NewService(seeded(t), nil, nil)

	table, err := svc.Table(context.Background(), models.CollectionAnimals)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if len(table.Rows) != 6 {
		t.Fatalf("expected 6 animals, got %d", len(table.Rows))
	}
	for _, row := range table.Rows {
		if row[1] == "Clover" && (row[6] != "HC-005" || row[7] != "HC-001") {
			t.Fatalf("Clover parents rendered as %v / %v", row[6], row[7])
		}
	}

	if _, err := svc.Table(context.Background(), "cows"); !errors.Is(err, export.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestWriteWorkbookHasSheetPerCollection(t *testing.T) {
	svc := export.NewService(seeded(t), nil, nil)

	var buf bytes.Buffer
	if err := svc.WriteWorkbook(context.Background(), &buf); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != len(models.Collections) || got[0] != models.CollectionAnimals {
		t.Fatalf("unexpected sheets %v", got)
	}
	rows, err := f.GetRows(models.CollectionTransactions)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 6 || rows[0][0] != "Date" {
		t.Fatalf("expected header plus 5 transactions, got %v", rows)
	}
}

func TestSyncSheetWritesHeaderOnce(t *testing.T) {
	fake := &fakeSheets{tabs: map[string][][]interface{}{}}
	svc := export.NewService(seeded(t), fake, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		n, err := svc.SyncSheet(ctx, models.CollectionFeedItems)
		if err != nil || n != 5 {
			t.Fatalf("SyncSheet = %d, %v", n, err)
		}
	}
	if got := len(fake.tabs[models.CollectionFeedItems]); got != 11 {
		t.Fatalf("expected one header and two batches, got %d rows", got)
	}

	if _, err := export.NewService(seeded(t), nil, nil).SyncSheet(ctx, models.CollectionFeedItems); !errors.Is(err, export.ErrSheetsDisabled) {
		t.Fatalf("expected ErrSheetsDisabled, got %v", err)
	}
}
