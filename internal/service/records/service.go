// Package records is the per-domain record store: it appends validated records to the
// document store and lists them back with the filters the pages use.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/internal/service/pedigree"
)

// insertion order
var creationOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

// Service owns every record collection.
type Service struct {
	store  repository.DocumentStore
	ingest *ingestion.Ingestor
	logger *zap.Logger

	// serializes validate-then-append so checks against the herd stay true at insert time
	writeMu sync.Mutex
}

// NewService wires a record store over the given document store.
func NewService(store repository.DocumentStore, ingest *ingestion.Ingestor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ingest == nil {
		ingest = ingestion.New()
	}
	return &Service{store: store, ingest: ingest, logger: logger}
}

// AnimalFilter narrows the herd listing. Search matches name or tag number,
// case-insensitively.
type AnimalFilter struct {
	Search string
	Status string
}

// Animals lists the roster in insertion order.
func (s *Service) Animals(ctx context.Context, f AnimalFilter) ([]models.Animal, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	var animals []models.Animal
	if err := s.find(ctx, models.CollectionAnimals, filter, &animals); err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return animals, nil
	}
	out := animals[:0]
	for _, a := range animals {
		if strings.Contains(strings.ToLower(a.Name), term) || strings.Contains(strings.ToLower(a.TagNumber), term) {
			out = append(out, a)
		}
	}
	return out, nil
}

// GetAnimal returns one animal or repository.ErrNotFound.
func (s *Service) GetAnimal(ctx context.Context, id string) (models.Animal, error) {
	var animal models.Animal
	if err := s.store.FindOne(ctx, models.CollectionAnimals, bson.M{"_id": id}, &animal); err != nil {
		return models.Animal{}, fmt.Errorf("get animal %s: %w", id, err)
	}
	return animal, nil
}

// AnimalByTag looks an animal up by its tag number, ignoring case.
func (s *Service) AnimalByTag(ctx context.Context, tag string) (models.Animal, error) {
	herd, err := s.herd(ctx)
	if err != nil {
		return models.Animal{}, err
	}
	for _, a := range herd {
		if strings.EqualFold(a.TagNumber, strings.TrimSpace(tag)) {
			return a, nil
		}
	}
	return models.Animal{}, fmt.Errorf("animal with tag %s: %w", tag, repository.ErrNotFound)
}

// AddAnimal validates and appends a new animal.
func (s *Service) AddAnimal(ctx context.Context, form ingestion.AnimalForm) (models.Animal, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	herd, err := s.herd(ctx)
	if err != nil {
		return models.Animal{}, err
	}
	animal, err := s.ingest.BuildAnimal(form, herd)
	if err != nil {
		s.logRejected(models.CollectionAnimals, err)
		return models.Animal{}, err
	}
	if err := s.insert(ctx, models.CollectionAnimals, animal); err != nil {
		return models.Animal{}, err
	}
	s.logger.Info("animal registered", zap.String("id", animal.ID), zap.String("tag", animal.TagNumber))
	return animal, nil
}

// UpdateAnimalStatus moves an animal through its lifecycle. Sold and deceased animals
// remain in the roster.
func (s *Service) UpdateAnimalStatus(ctx context.Context, id string, form ingestion.StatusForm) (models.Animal, error) {
	status, err := s.ingest.ParseStatus(form)
	if err != nil {
		return models.Animal{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.store.UpdateOne(ctx, models.CollectionAnimals, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return models.Animal{}, fmt.Errorf("update animal status: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Animal{}, fmt.Errorf("update animal %s: %w", id, repository.ErrNotFound)
	}
	s.logger.Info("animal status changed", zap.String("id", id), zap.String("status", string(status)))
	return s.GetAnimal(ctx, id)
}

// Pedigree resolves the family view of one animal against the current herd.
func (s *Service) Pedigree(ctx context.Context, id string) (models.Pedigree, error) {
	animal, err := s.GetAnimal(ctx, id)
	if err != nil {
		return models.Pedigree{}, err
	}
	herd, err := s.herd(ctx)
	if err != nil {
		return models.Pedigree{}, err
	}
	p := pedigree.Resolve(animal, herd)
	if len(p.Warnings) > 0 {
		s.logger.Warn("pedigree integrity warnings", zap.String("id", id), zap.Strings("warnings", p.Warnings))
	}
	return p, nil
}

func (s *Service) herd(ctx context.Context) ([]models.Animal, error) {
	var herd []models.Animal
	if err := s.find(ctx, models.CollectionAnimals, bson.M{}, &herd); err != nil {
		return nil, err
	}
	return herd, nil
}

func (s *Service) find(ctx context.Context, collection string, filter bson.M, results any) error {
	return s.findSorted(ctx, collection, filter, creationOrder, results)
}

func (s *Service) findSorted(ctx context.Context, collection string, filter bson.M, sort bson.D, results any) error {
	if err := s.store.Find(ctx, collection, filter, repository.FindOptions{Sort: sort}, results); err != nil {
		return fmt.Errorf("list %s: %w", collection, err)
	}
	return nil
}

func (s *Service) insert(ctx context.Context, collection string, document any) error {
	if _, err := s.store.InsertOne(ctx, collection, document); err != nil {
		s.logger.Error("append failed", zap.String("collection", collection), zap.Error(err))
		return fmt.Errorf("append to %s: %w", collection, err)
	}
	return nil
}

func (s *Service) logRejected(collection string, err error) {
	var verr *ingestion.ValidationError
	if errors.As(err, &verr) {
		s.logger.Warn("record rejected", zap.String("collection", collection), zap.Any("fields", verr.Fields))
		return
	}
	s.logger.Error("record validation failed", zap.String("collection", collection), zap.Error(err))
}
