// Package reporting derives the dashboard figures from the record collections.
package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/service/records"
)

const recentAlertLimit = 5

// RecordSource is the part of the record store the reporter reads from.
type RecordSource interface {
	Animals(ctx context.Context, f records.AnimalFilter) ([]models.Animal, error)
	MilkRecords(ctx context.Context, f records.MilkFilter) ([]models.MilkRecord, error)
	BreedingRecords(ctx context.Context, f records.BreedingFilter) ([]models.BreedingRecord, error)
	FeedItems(ctx context.Context) ([]models.FeedItem, error)
	Transactions(ctx context.Context, f records.TransactionFilter) ([]models.Transaction, error)
	Alerts(ctx context.Context, f records.AlertFilter) ([]models.Alert, error)
}

// Service loads collections and summarizes them on every call; nothing is cached.
type Service struct {
	source RecordSource
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(source RecordSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger}
}

// Milk summarizes the yield of one day.
func (s *Service) Milk(ctx context.Context, date time.Time) (models.MilkSummary, error) {
	milk, err := s.source.MilkRecords(ctx, records.MilkFilter{})
	if err != nil {
		return models.MilkSummary{}, fmt.Errorf("load milk records: %w", err)
	}
	return SummarizeMilk(milk, date.Format(models.DateLayout)), nil
}

// Finance summarizes the whole ledger.
func (s *Service) Finance(ctx context.Context) (models.FinanceSummary, error) {
	txs, err := s.source.Transactions(ctx, records.TransactionFilter{})
	if err != nil {
		return models.FinanceSummary{}, fmt.Errorf("load transactions: %w", err)
	}
	return SummarizeFinance(txs), nil
}

// Feed summarizes the inventory.
func (s *Service) Feed(ctx context.Context) (models.FeedSummary, error) {
	items, err := s.source.FeedItems(ctx)
	if err != nil {
		return models.FeedSummary{}, fmt.Errorf("load feed items: %w", err)
	}
	return SummarizeFeed(items), nil
}

// Breeding counts breeding records.
func (s *Service) Breeding(ctx context.Context) (models.BreedingSummary, error) {
	recs, err := s.source.BreedingRecords(ctx, records.BreedingFilter{})
	if err != nil {
		return models.BreedingSummary{}, fmt.Errorf("load breeding records: %w", err)
	}
	return SummarizeBreeding(recs), nil
}

// Herd breaks the roster down as of date.
func (s *Service) Herd(ctx context.Context, date time.Time) (models.HerdSummary, error) {
	animals, err := s.source.Animals(ctx, records.AnimalFilter{})
	if err != nil {
		return models.HerdSummary{}, fmt.Errorf("load animals: %w", err)
	}
	return SummarizeHerd(animals, date), nil
}

// Dashboard assembles the overview page for date.
func (s *Service) Dashboard(ctx context.Context, date time.Time) (models.Dashboard, error) {
	herd, err := s.Herd(ctx, date)
	if err != nil {
		return models.Dashboard{}, err
	}
	milk, err := s.source.MilkRecords(ctx, records.MilkFilter{})
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load milk records: %w", err)
	}
	alerts, err := s.source.Alerts(ctx, records.AlertFilter{})
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load alerts: %w", err)
	}

	recent := make([]models.Alert, 0, recentAlertLimit)
	for _, a := range alerts {
		if a.IsRead {
			continue
		}
		recent = append(recent, a)
		if len(recent) == recentAlertLimit {
			break
		}
	}

	day := date.Format(models.DateLayout)
	return models.Dashboard{
		Date:         day,
		Herd:         herd,
		Milk:         SummarizeMilk(milk, day),
		WeeklyMilk:   WeeklyYield(milk, date),
		Alerts:       SummarizeAlerts(alerts),
		RecentAlerts: recent,
	}, nil
}

// DailyDigest renders the end-of-day text summary sent to the farm team.
func (s *Service) DailyDigest(ctx context.Context, date time.Time) (string, error) {
	dash, err := s.Dashboard(ctx, date)
	if err != nil {
		return "", err
	}
	finance, err := s.Finance(ctx)
	if err != nil {
		return "", err
	}
	feed, err := s.Feed(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dairy summary %s\n", dash.Date)
	if dash.Milk.Records == 0 {
		b.WriteString("Milk: no records yet.\n")
	} else {
		fmt.Fprintf(&b, "Milk: %.1f L from %d cows (%.1f L/cow).\n", dash.Milk.TotalYield, dash.Milk.ContributingAnimals, dash.Milk.AveragePerCow)
	}
	fmt.Fprintf(&b, "Herd: %d head, %d lactating, %d dry, %d pregnant.\n", dash.Herd.TotalHerd, dash.Herd.Lactating, dash.Herd.Dry, dash.Herd.Pregnant)
	fmt.Fprintf(&b, "Finance: income %.2f, expenses %.2f, net %.2f (%.1f%%).\n", finance.TotalIncome, finance.TotalExpenses, finance.NetProfit, finance.ProfitMargin)

	if feed.LowStockCount > 0 {
		low := make([]string, 0, feed.LowStockCount)
		for _, item := range feed.Items {
			if item.LowStock {
				low = append(low, item.Item.Name)
			}
		}
		fmt.Fprintf(&b, "Feed low: %s.\n", strings.Join(low, ", "))
	}
	fmt.Fprintf(&b, "Alerts: %d unread, %d high priority.", dash.Alerts.Unread, dash.Alerts.HighPriority)

	s.logger.Debug("daily digest built", zap.String("date", dash.Date))
	return b.String(), nil
}
