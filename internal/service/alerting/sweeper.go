// Package alerting derives reminders from due dates recorded on other collections.
package alerting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/internal/service/notify"
	"github.com/mamadbah2/dairyflow/internal/service/records"
	"github.com/mamadbah2/dairyflow/internal/service/reporting"
)

// Source is the part of the record store the sweep reads and writes.
type Source interface {
	Animals(ctx context.Context, f records.AnimalFilter) ([]models.Animal, error)
	HealthRecords(ctx context.Context, f records.HealthFilter) ([]models.HealthRecord, error)
	BreedingRecords(ctx context.Context, f records.BreedingFilter) ([]models.BreedingRecord, error)
	FeedItems(ctx context.Context) ([]models.FeedItem, error)
	RaiseAlert(ctx context.Context, form ingestion.AlertForm, sourceKey string) (models.Alert, bool, error)
}

// Sweeper raises alerts for upcoming health due dates, expected calvings, ending milk
// withdrawal periods and low feed stock. Each source raises at most one alert, keyed
// by Alert.SourceKey.
type Sweeper struct {
	source    Source
	notifier  notify.Notifier
	lookahead int
	logger    *zap.Logger
}

// NewSweeper wires a sweeper looking lookaheadDays ahead.
func NewSweeper(source Source, notifier notify.Notifier, lookaheadDays int, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewNop(logger)
	}
	return &Sweeper{source: source, notifier: notifier, lookahead: lookaheadDays, logger: logger}
}

type candidate struct {
	key  string
	form ingestion.AlertForm
}

// Sweep raises the alerts due as of today and returns the ones newly created.
// High-priority alerts are forwarded to the notifier in one message.
func (s *Sweeper) Sweep(ctx context.Context, today time.Time) ([]models.Alert, error) {
	day := today.Format(models.DateLayout)
	horizon := today.AddDate(0, 0, s.lookahead).Format(models.DateLayout)

	herd, err := s.source.Animals(ctx, records.AnimalFilter{})
	if err != nil {
		return nil, fmt.Errorf("load animals: %w", err)
	}
	health, err := s.source.HealthRecords(ctx, records.HealthFilter{})
	if err != nil {
		return nil, fmt.Errorf("load health records: %w", err)
	}
	breeding, err := s.source.BreedingRecords(ctx, records.BreedingFilter{})
	if err != nil {
		return nil, fmt.Errorf("load breeding records: %w", err)
	}
	feed, err := s.source.FeedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feed items: %w", err)
	}

	var candidates []candidate
	candidates = append(candidates, healthDue(health, herd, day, horizon)...)
	candidates = append(candidates, withdrawalEnds(health, herd, today, horizon)...)
	candidates = append(candidates, calvingDue(breeding, herd, horizon)...)
	candidates = append(candidates, lowStock(feed, day)...)

	var created []models.Alert
	for _, c := range candidates {
		alert, isNew, err := s.source.RaiseAlert(ctx, c.form, c.key)
		if err != nil {
			s.logger.Error("raise alert failed", zap.String("source", c.key), zap.Error(err))
			continue
		}
		if isNew {
			created = append(created, alert)
		}
	}

	s.logger.Info("alert sweep finished", zap.String("date", day), zap.Int("candidates", len(candidates)), zap.Int("created", len(created)))
	s.notifyUrgent(ctx, created)
	return created, nil
}

func (s *Sweeper) notifyUrgent(ctx context.Context, alerts []models.Alert) {
	var lines []string
	for _, a := range alerts {
		if a.Priority == models.PriorityHigh {
			lines = append(lines, fmt.Sprintf("- %s (due %s): %s", a.Title, a.DueDate, a.Description))
		}
	}
	if len(lines) == 0 {
		return
	}
	message := "Urgent farm alerts\n" + strings.Join(lines, "\n")
	if err := s.notifier.Notify(ctx, message); err != nil {
		s.logger.Error("failed to send urgent alerts", zap.Error(err))
	}
}

func healthDue(health []models.HealthRecord, herd []models.Animal, day, horizon string) []candidate {
	var out []candidate
	for _, r := range health {
		if r.NextDueDate == nil || *r.NextDueDate > horizon {
			continue
		}
		alertType, title := models.AlertHealth, "Health follow-up due"
		if r.Type == models.HealthVaccination {
			alertType, title = models.AlertVaccination, "Vaccination due"
		}
		priority := models.PriorityMedium
		if *r.NextDueDate <= day {
			priority = models.PriorityHigh
		}
		out = append(out, candidate{
			key: "health:" + r.ID + ":next_due",
			form: ingestion.AlertForm{
				Type:        string(alertType),
				Title:       title,
				Description: fmt.Sprintf("%s for %s", r.Description, label(herd, r.AnimalID)),
				DueDate:     *r.NextDueDate,
				AnimalID:    animalRef(herd, r.AnimalID),
				Priority:    string(priority),
			},
		})
	}
	return out
}

// withdrawalEnds covers treatments whose milk withdrawal period ends between today and
// the horizon.
func withdrawalEnds(health []models.HealthRecord, herd []models.Animal, today time.Time, horizon string) []candidate {
	var out []candidate
	for _, r := range health {
		if r.WithdrawalPeriod == nil || *r.WithdrawalPeriod <= 0 {
			continue
		}
		start, err := time.Parse(models.DateLayout, r.Date)
		if err != nil {
			continue
		}
		end := start.Add(time.Duration(*r.WithdrawalPeriod) * time.Hour)
		endDay := end.Format(models.DateLayout)
		if endDay < today.Format(models.DateLayout) || endDay > horizon {
			continue
		}
		out = append(out, candidate{
			key: "health:" + r.ID + ":withdrawal",
			form: ingestion.AlertForm{
				Type:        string(models.AlertHealth),
				Title:       "Milk withdrawal ends",
				Description: fmt.Sprintf("Withdrawal after %s ends for %s; milk can return to the tank", strings.ToLower(r.Description), label(herd, r.AnimalID)),
				DueDate:     endDay,
				AnimalID:    animalRef(herd, r.AnimalID),
				Priority:    string(models.PriorityLow),
			},
		})
	}
	return out
}

// calvingDue covers expected calvings that no later calving record has closed.
func calvingDue(breeding []models.BreedingRecord, herd []models.Animal, horizon string) []candidate {
	lastCalving := make(map[string]string)
	for _, r := range breeding {
		if r.Type == models.BreedingCalving && r.Date > lastCalving[r.AnimalID] {
			lastCalving[r.AnimalID] = r.Date
		}
	}

	var out []candidate
	for _, r := range breeding {
		if r.ExpectedCalvingDate == nil || *r.ExpectedCalvingDate > horizon {
			continue
		}
		if r.Result != nil && *r.Result == models.ResultNegative {
			continue
		}
		if calved, ok := lastCalving[r.AnimalID]; ok && calved >= r.Date {
			continue
		}
		out = append(out, candidate{
			key: "breeding:" + r.ID + ":calving",
			form: ingestion.AlertForm{
				Type:        string(models.AlertCalving),
				Title:       "Expected calving",
				Description: fmt.Sprintf("%s expected to calve on %s", label(herd, r.AnimalID), *r.ExpectedCalvingDate),
				DueDate:     *r.ExpectedCalvingDate,
				AnimalID:    animalRef(herd, r.AnimalID),
				Priority:    string(models.PriorityHigh),
			},
		})
	}
	return out
}

// lowStock keys on the stock count so a fresh alert follows each new low reading.
func lowStock(items []models.FeedItem, day string) []candidate {
	var out []candidate
	for _, item := range items {
		if !reporting.LowStock(item) {
			continue
		}
		out = append(out, candidate{
			key: fmt.Sprintf("feed:%s:low:%g", item.ID, item.CurrentStock),
			form: ingestion.AlertForm{
				Type:        string(models.AlertGeneral),
				Title:       "Low feed stock",
				Description: fmt.Sprintf("%s is down to %g %s (minimum %g)", item.Name, item.CurrentStock, item.Unit, item.MinimumStock),
				DueDate:     day,
				Priority:    string(models.PriorityMedium),
			},
		})
	}
	return out
}

// animalRef drops references the herd no longer resolves.
func animalRef(herd []models.Animal, id string) string {
	if _, ok := models.FindAnimal(herd, id); ok {
		return id
	}
	return ""
}

func label(herd []models.Animal, id string) string {
	if a, ok := models.FindAnimal(herd, id); ok {
		return a.Label()
	}
	return "unknown animal"
}
