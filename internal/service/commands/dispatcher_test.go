package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository/memory"
	"github.com/mamadbah2/dairyflow/internal/service/commands"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/internal/service/records"
	"github.com/mamadbah2/dairyflow/internal/service/reporting"
)

func newDispatcher(t *testing.T) (*commands.Dispatcher, *records.Service) {
	t.Helper()
	svc := records.NewService(memory.NewStore(), ingestion.New(), nil)
	if _, err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	d := commands.NewDispatcher(svc, reporting.NewService(svc, nil), time.UTC, nil)
	return d, svc
}

func run(t *testing.T, d *commands.Dispatcher, text string) (string, error) {
	t.Helper()
	return d.HandleCommand(context.Background(), models.ParseCommand(text), "221770000000")
}

func TestMilkCommandRecordsYield(t *testing.T) {
	d, svc := newDispatcher(t)

	reply, err := run(t, d, "/milk hc-001 14.5 12,5 180")
	if err != nil {
		t.Fatalf("milk: %v", err)
	}
	if !strings.Contains(reply, "Bella") || !strings.Contains(reply, "27.0 L") {
		t.Fatalf("unexpected reply %q", reply)
	}

	bella, _ := svc.AnimalByTag(context.Background(), "HC-001")
	milk, _ := svc.MilkRecords(context.Background(), records.MilkFilter{AnimalID: bella.ID})
	last := milk[len(milk)-1]
	if last.TotalYield != 27 || last.SCC == nil || *last.SCC != 180 {
		t.Fatalf("unexpected record %+v", last)
	}
}

func TestCommandErrorsExplained(t *testing.T) {
	d, _ := newDispatcher(t)

	cases := []struct {
		text string
		want string
	}{
		{"/milk HC-001 ten 12", "usage: /milk"},
		{"/milk HC-999 10 12", "Not found"},
		{"/milk HC-005 10 12", "Not saved"},
		{"/health HC-001 surgery sore leg", "Not saved"},
		{"/stock Hay", "usage: /stock"},
	}
	for _, tc := range cases {
		_, err := run(t, d, tc.text)
		if err == nil {
			t.Fatalf("%q: expected an error", tc.text)
		}
		msg, ok := commands.Explain(err)
		if !ok || !strings.Contains(msg, tc.want) {
			t.Fatalf("%q: Explain = %q, %v", tc.text, msg, ok)
		}
	}

	if _, ok := commands.Explain(errors.New("store offline")); ok {
		t.Fatalf("infrastructure errors must not be explained to the sender")
	}
}

func TestExpenseAndStockCommands(t *testing.T) {
	d, svc := newDispatcher(t)
	ctx := context.Background()

	if _, err := run(t, d, "/expense 120 veterinary hoof trimming"); err != nil {
		t.Fatalf("expense: %v", err)
	}
	txs, _ := svc.Transactions(ctx, records.TransactionFilter{Category: "veterinary"})
	found := false
	for _, tx := range txs {
		if tx.Description == "hoof trimming" && tx.Type == models.TransactionExpense && tx.Amount == 120 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expense not recorded: %+v", txs)
	}

	reply, err := run(t, d, "/stock corn silage 22")
	if err != nil {
		t.Fatalf("stock: %v", err)
	}
	if !strings.Contains(reply, "Low stock") {
		t.Fatalf("expected low stock warning, got %q", reply)
	}
	item, _ := svc.FeedItemByName(ctx, "Corn Silage")
	if item.CurrentStock != 22 {
		t.Fatalf("stock not updated: %v", item.CurrentStock)
	}
}

func TestSummaryAlertsAndHelp(t *testing.T) {
	d, _ := newDispatcher(t)

	summary, err := run(t, d, "/summary")
	if err != nil || !strings.HasPrefix(summary, "Dairy summary") {
		t.Fatalf("summary = %q, %v", summary, err)
	}

	alerts, err := run(t, d, "/alerts")
	if err != nil || !strings.HasPrefix(alerts, "3 unread alerts") {
		t.Fatalf("alerts = %q, %v", alerts, err)
	}

	help, _ := run(t, d, "what can you do")
	if help != commands.Help() {
		t.Fatalf("unknown commands should get help, got %q", help)
	}
}
