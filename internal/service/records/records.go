package records

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
)

// unknownAnimalLabel is what a health record's animal reads as when the reference no
// longer resolves.
const unknownAnimalLabel = "Unknown"

// HealthFilter narrows health records. Search matches the "Name (Tag)" label of the
// animal or the description, case-insensitively.
type HealthFilter struct {
	Search   string
	Type     string
	AnimalID string
}

// HealthRecords lists health events in insertion order.
func (s *Service) HealthRecords(ctx context.Context, f HealthFilter) ([]models.HealthRecord, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.AnimalID != "" {
		filter["animal_id"] = f.AnimalID
	}

	var records []models.HealthRecord
	if err := s.find(ctx, models.CollectionHealthRecords, filter, &records); err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return records, nil
	}
	herd, err := s.herd(ctx)
	if err != nil {
		return nil, err
	}
	out := records[:0]
	for _, r := range records {
		label := unknownAnimalLabel
		if a, ok := models.FindAnimal(herd, r.AnimalID); ok {
			label = a.Label()
		}
		if strings.Contains(strings.ToLower(label), term) || strings.Contains(strings.ToLower(r.Description), term) {
			out = append(out, r)
		}
	}
	return out, nil
}

// AddHealthRecord validates and appends a health event.
func (s *Service) AddHealthRecord(ctx context.Context, form ingestion.HealthRecordForm) (models.HealthRecord, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	herd, err := s.herd(ctx)
	if err != nil {
		return models.HealthRecord{}, err
	}
	record, err := s.ingest.BuildHealthRecord(form, herd)
	if err != nil {
		s.logRejected(models.CollectionHealthRecords, err)
		return models.HealthRecord{}, err
	}
	if err := s.insert(ctx, models.CollectionHealthRecords, record); err != nil {
		return models.HealthRecord{}, err
	}
	s.logger.Debug("health record appended", zap.String("id", record.ID), zap.String("animal", record.AnimalID))
	return record, nil
}

// MilkFilter narrows milk records to an exact date and/or animal.
type MilkFilter struct {
	Date     string
	AnimalID string
}

// MilkRecords lists yield entries, oldest day first.
func (s *Service) MilkRecords(ctx context.Context, f MilkFilter) ([]models.MilkRecord, error) {
	filter := bson.M{}
	if f.Date != "" {
		date, err := ingestion.NormalizeDate(f.Date)
		if err != nil {
			return nil, &ingestion.ValidationError{Fields: map[string]string{"date": "date must be a calendar date (YYYY-MM-DD)"}}
		}
		filter["date"] = date
	}
	if f.AnimalID != "" {
		filter["animal_id"] = f.AnimalID
	}

	var records []models.MilkRecord
	order := bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}}
	if err := s.findSorted(ctx, models.CollectionMilkRecords, filter, order, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddMilkRecord validates and appends a yield entry.
func (s *Service) AddMilkRecord(ctx context.Context, form ingestion.MilkRecordForm) (models.MilkRecord, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	herd, err := s.herd(ctx)
	if err != nil {
		return models.MilkRecord{}, err
	}
	record, err := s.ingest.BuildMilkRecord(form, herd)
	if err != nil {
		s.logRejected(models.CollectionMilkRecords, err)
		return models.MilkRecord{}, err
	}
	if err := s.insert(ctx, models.CollectionMilkRecords, record); err != nil {
		return models.MilkRecord{}, err
	}
	s.logger.Debug("milk record appended", zap.String("id", record.ID), zap.Float64("total", record.TotalYield))
	return record, nil
}

// BreedingFilter narrows breeding records.
type BreedingFilter struct {
	AnimalID string
	Type     string
}

// BreedingRecords lists breeding events in insertion order.
func (s *Service) BreedingRecords(ctx context.Context, f BreedingFilter) ([]models.BreedingRecord, error) {
	filter := bson.M{}
	if f.AnimalID != "" {
		filter["animal_id"] = f.AnimalID
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}

	var records []models.BreedingRecord
	if err := s.find(ctx, models.CollectionBreedingRecords, filter, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddBreedingRecord validates and appends a breeding event.
func (s *Service) AddBreedingRecord(ctx context.Context, form ingestion.BreedingRecordForm) (models.BreedingRecord, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	herd, err := s.herd(ctx)
	if err != nil {
		return models.BreedingRecord{}, err
	}
	record, err := s.ingest.BuildBreedingRecord(form, herd)
	if err != nil {
		s.logRejected(models.CollectionBreedingRecords, err)
		return models.BreedingRecord{}, err
	}
	if err := s.insert(ctx, models.CollectionBreedingRecords, record); err != nil {
		return models.BreedingRecord{}, err
	}
	s.logger.Debug("breeding record appended", zap.String("id", record.ID), zap.String("type", string(record.Type)))
	return record, nil
}

// FeedItems lists the feed inventory in insertion order.
func (s *Service) FeedItems(ctx context.Context) ([]models.FeedItem, error) {
	var items []models.FeedItem
	if err := s.find(ctx, models.CollectionFeedItems, bson.M{}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FeedItemByName finds an inventory line by name, ignoring case.
func (s *Service) FeedItemByName(ctx context.Context, name string) (models.FeedItem, error) {
	items, err := s.FeedItems(ctx)
	if err != nil {
		return models.FeedItem{}, err
	}
	for _, item := range items {
		if strings.EqualFold(item.Name, strings.TrimSpace(name)) {
			return item, nil
		}
	}
	return models.FeedItem{}, fmt.Errorf("feed item %q: %w", name, repository.ErrNotFound)
}

// AddFeedItem validates and appends an inventory line.
func (s *Service) AddFeedItem(ctx context.Context, form ingestion.FeedItemForm) (models.FeedItem, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item, err := s.ingest.BuildFeedItem(form)
	if err != nil {
		s.logRejected(models.CollectionFeedItems, err)
		return models.FeedItem{}, err
	}
	if err := s.insert(ctx, models.CollectionFeedItems, item); err != nil {
		return models.FeedItem{}, err
	}
	return item, nil
}

// UpdateFeedStock records a new stock count for an item.
func (s *Service) UpdateFeedStock(ctx context.Context, id string, form ingestion.StockForm) (models.FeedItem, error) {
	stock, err := s.ingest.ParseStock(form)
	if err != nil {
		return models.FeedItem{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.store.UpdateOne(ctx, models.CollectionFeedItems, bson.M{"_id": id}, bson.M{"$set": bson.M{"current_stock": stock}})
	if err != nil {
		return models.FeedItem{}, fmt.Errorf("update feed stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.FeedItem{}, fmt.Errorf("feed item %s: %w", id, repository.ErrNotFound)
	}

	var item models.FeedItem
	if err := s.store.FindOne(ctx, models.CollectionFeedItems, bson.M{"_id": id}, &item); err != nil {
		return models.FeedItem{}, fmt.Errorf("reload feed item %s: %w", id, err)
	}
	s.logger.Info("feed stock updated", zap.String("item", item.Name), zap.Float64("stock", stock))
	return item, nil
}

// TransactionFilter narrows the ledger.
type TransactionFilter struct {
	Type     string
	Category string
}

// Transactions lists ledger entries, most recent date first.
func (s *Service) Transactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}

	var txs []models.Transaction
	order := bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}
	if err := s.findSorted(ctx, models.CollectionTransactions, filter, order, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// AddTransaction validates and appends a ledger entry.
func (s *Service) AddTransaction(ctx context.Context, form ingestion.TransactionForm) (models.Transaction, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	herd, err := s.herd(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	tx, err := s.ingest.BuildTransaction(form, herd)
	if err != nil {
		s.logRejected(models.CollectionTransactions, err)
		return models.Transaction{}, err
	}
	if err := s.insert(ctx, models.CollectionTransactions, tx); err != nil {
		return models.Transaction{}, err
	}
	s.logger.Debug("transaction appended", zap.String("id", tx.ID), zap.String("type", string(tx.Type)))
	return tx, nil
}
