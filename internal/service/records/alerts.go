package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
)

// AlertFilter narrows the alert list.
type AlertFilter struct {
	UnreadOnly bool
	Priority   string
}

// Alerts lists alerts by due date, earliest first.
func (s *Service) Alerts(ctx context.Context, f AlertFilter) ([]models.Alert, error) {
	filter := bson.M{}
	if f.UnreadOnly {
		filter["is_read"] = false
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}

	var alerts []models.Alert
	order := bson.D{{Key: "due_date", Value: 1}, {Key: "created_at", Value: 1}}
	if err := s.findSorted(ctx, models.CollectionAlerts, filter, order, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// AddAlert validates and appends a manual reminder.
func (s *Service) AddAlert(ctx context.Context, form ingestion.AlertForm) (models.Alert, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	herd, err := s.herd(ctx)
	if err != nil {
		return models.Alert{}, err
	}
	alert, err := s.ingest.BuildAlert(form, herd)
	if err != nil {
		s.logRejected(models.CollectionAlerts, err)
		return models.Alert{}, err
	}
	if err := s.insert(ctx, models.CollectionAlerts, alert); err != nil {
		return models.Alert{}, err
	}
	return alert, nil
}

// RaiseAlert appends a derived alert unless one with the same source key already exists
// or was read and purged. The returned bool reports whether a new alert was created.
func (s *Service) RaiseAlert(ctx context.Context, form ingestion.AlertForm, sourceKey string) (models.Alert, bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var existing models.Alert
	err := s.store.FindOne(ctx, models.CollectionAlerts, bson.M{"source_key": sourceKey}, &existing)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return models.Alert{}, false, fmt.Errorf("lookup alert %s: %w", sourceKey, err)
	}

	var tomb models.AlertTombstone
	err = s.store.FindOne(ctx, models.CollectionAlertTombstones, bson.M{"_id": sourceKey}, &tomb)
	switch {
	case err == nil:
		return models.Alert{}, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return models.Alert{}, false, fmt.Errorf("lookup tombstone %s: %w", sourceKey, err)
	}

	herd, err := s.herd(ctx)
	if err != nil {
		return models.Alert{}, false, err
	}
	alert, err := s.ingest.BuildAlert(form, herd)
	if err != nil {
		return models.Alert{}, false, fmt.Errorf("build alert %s: %w", sourceKey, err)
	}
	alert.SourceKey = &sourceKey
	if err := s.insert(ctx, models.CollectionAlerts, alert); err != nil {
		return models.Alert{}, false, err
	}
	s.logger.Info("alert raised", zap.String("source", sourceKey), zap.String("priority", string(alert.Priority)))
	return alert, true, nil
}

// MarkAlertRead flags one alert as read.
func (s *Service) MarkAlertRead(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.store.UpdateOne(ctx, models.CollectionAlerts, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("alert %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// MarkAllAlertsRead flags every unread alert and returns how many changed.
func (s *Service) MarkAllAlertsRead(ctx context.Context) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.store.UpdateMany(ctx, models.CollectionAlerts, bson.M{"is_read": false}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, fmt.Errorf("mark all alerts read: %w", err)
	}
	return res.ModifiedCount, nil
}

// DismissAlert removes one alert.
func (s *Service) DismissAlert(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.store.DeleteOne(ctx, models.CollectionAlerts, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("dismiss alert: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("alert %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// PurgeReadAlerts removes every alert already read and returns how many went.
// Derived alerts leave a tombstone behind so the sweep keeps them suppressed.
func (s *Service) PurgeReadAlerts(ctx context.Context) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var derived []models.Alert
	filter := bson.M{"is_read": true, "source_key": bson.M{"$exists": true}}
	if err := s.find(ctx, models.CollectionAlerts, filter, &derived); err != nil {
		return 0, err
	}
	if len(derived) > 0 {
		now := time.Now().UTC()
		tombs := make([]any, 0, len(derived))
		for _, a := range derived {
			tombs = append(tombs, models.AlertTombstone{SourceKey: *a.SourceKey, PurgedAt: now})
		}
		if _, err := s.store.InsertMany(ctx, models.CollectionAlertTombstones, tombs); err != nil {
			return 0, fmt.Errorf("record alert tombstones: %w", err)
		}
	}

	n, err := s.store.DeleteMany(ctx, models.CollectionAlerts, bson.M{"is_read": true})
	if err != nil {
		return 0, fmt.Errorf("purge read alerts: %w", err)
	}
	return n, nil
}
