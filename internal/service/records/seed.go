package records

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository"
)

// sampleEpoch anchors the creation timestamps of the sample data so listings keep
// their order.
var sampleEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Seed fills an empty store with the sample farm. It returns false without writing
// when the herd already has animals.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var existing []models.Animal
	if err := s.store.Find(ctx, models.CollectionAnimals, bson.M{}, repository.FindOptions{Limit: 1}, &existing); err != nil {
		return false, fmt.Errorf("check existing herd: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	data := sampleFarm(s.ingest.NewID)
	for _, collection := range models.Collections {
		docs := data[collection]
		if len(docs) == 0 {
			continue
		}
		if _, err := s.store.InsertMany(ctx, collection, docs); err != nil {
			return false, fmt.Errorf("seed %s: %w", collection, err)
		}
		s.logger.Debug("seeded collection", zap.String("collection", collection), zap.Int("documents", len(docs)))
	}
	s.logger.Info("sample farm loaded", zap.Int("animals", len(data[models.CollectionAnimals])))
	return true, nil
}

func sampleFarm(newID func() string) map[string][]any {
	seq := 0
	stamp := func() time.Time {
		seq++
		return sampleEpoch.Add(time.Duration(seq) * time.Minute)
	}
	str := func(v string) *string { return &v }
	num := func(v int) *int { return &v }
	pct := func(v float64) *float64 { return &v }

	bella, daisy, rosie, buttercup, max, clover := newID(), newID(), newID(), newID(), newID(), newID()

	animals := []any{
		models.Animal{ID: bella, TagNumber: "HC-001", Name: "Bella", Breed: "Holstein", DateOfBirth: "2020-03-15", Gender: models.GenderFemale, Status: models.StatusActive, Notes: str("High producer, calm temperament"), CreatedAt: stamp()},
		models.Animal{ID: daisy, TagNumber: "HC-002", Name: "Daisy", Breed: "Jersey", DateOfBirth: "2019-07-22", Gender: models.GenderFemale, Status: models.StatusActive, DamID: str(bella), CreatedAt: stamp()},
		models.Animal{ID: rosie, TagNumber: "HC-003", Name: "Rosie", Breed: "Holstein", DateOfBirth: "2021-01-10", Gender: models.GenderFemale, Status: models.StatusPregnant, CreatedAt: stamp()},
		models.Animal{ID: buttercup, TagNumber: "HC-004", Name: "Buttercup", Breed: "Guernsey", DateOfBirth: "2020-11-05", Gender: models.GenderFemale, Status: models.StatusDry, CreatedAt: stamp()},
		models.Animal{ID: max, TagNumber: "HC-005", Name: "Max", Breed: "Holstein", DateOfBirth: "2018-06-20", Gender: models.GenderMale, Status: models.StatusActive, Notes: str("Breeding bull"), CreatedAt: stamp()},
		models.Animal{ID: clover, TagNumber: "HC-006", Name: "Clover", Breed: "Brown Swiss", DateOfBirth: "2022-04-12", Gender: models.GenderFemale, Status: models.StatusActive, SireID: str(max), DamID: str(bella), CreatedAt: stamp()},
	}

	health := []any{
		models.HealthRecord{ID: newID(), AnimalID: bella, Date: "2024-01-15", Type: models.HealthVaccination, Description: "Annual vaccination - BVD", Medication: str("Bovilis BVD"), Dosage: str("2ml"), Veterinarian: str("Dr. Smith"), NextDueDate: str("2025-01-15"), CreatedAt: stamp()},
		models.HealthRecord{ID: newID(), AnimalID: daisy, Date: "2024-01-10", Type: models.HealthTreatment, Description: "Mastitis treatment", Medication: str("Ceftiofur"), Dosage: str("3ml"), WithdrawalPeriod: num(72), Veterinarian: str("Dr. Smith"), CreatedAt: stamp()},
		models.HealthRecord{ID: newID(), AnimalID: rosie, Date: "2024-01-20", Type: models.HealthBreeding, Description: "Artificial insemination", Notes: str("First breeding attempt this cycle"), CreatedAt: stamp()},
		models.HealthRecord{ID: newID(), AnimalID: bella, Date: "2024-02-01", Type: models.HealthCheckup, Description: "Routine health check", Veterinarian: str("Dr. Johnson"), Notes: str("All vitals normal"), CreatedAt: stamp()},
	}

	milk := func(animal, date string, morning, evening float64, scc int, fat, protein float64) models.MilkRecord {
		return models.MilkRecord{
			ID: newID(), AnimalID: animal, Date: date,
			MorningYield: morning, EveningYield: evening, TotalYield: morning + evening,
			SCC: num(scc), FatPercentage: pct(fat), ProteinPercentage: pct(protein), CreatedAt: stamp(),
		}
	}
	milkRecords := []any{
		milk(bella, "2024-01-20", 15.2, 14.8, 120, 3.8, 3.2),
		milk(bella, "2024-01-21", 15.5, 15.0, 115, 3.9, 3.3),
		milk(bella, "2024-01-22", 15.0, 14.5, 125, 3.7, 3.2),
		milk(daisy, "2024-01-20", 12.0, 11.5, 90, 4.8, 3.8),
		milk(daisy, "2024-01-21", 12.3, 12.0, 85, 4.9, 3.9),
		milk(clover, "2024-01-20", 14.0, 13.5, 100, 4.0, 3.4),
	}

	positive, pending := models.ResultPositive, models.ResultPending
	breeding := []any{
		models.BreedingRecord{ID: newID(), AnimalID: rosie, Date: "2023-05-02", Type: models.BreedingInsemination, SireID: str(max), SireName: str("Max"), Technician: str("J. Okafor"), CreatedAt: stamp()},
		models.BreedingRecord{ID: newID(), AnimalID: rosie, Date: "2023-06-20", Type: models.BreedingPregnancyCheck, Result: &positive, ExpectedCalvingDate: str("2024-02-05"), CreatedAt: stamp()},
		models.BreedingRecord{ID: newID(), AnimalID: clover, Date: "2024-01-21", Type: models.BreedingHeatDetection, Notes: str("Standing heat observed"), CreatedAt: stamp()},
		models.BreedingRecord{ID: newID(), AnimalID: clover, Date: "2024-01-22", Type: models.BreedingInsemination, SireID: str(max), SireName: str("Max"), Result: &pending, CreatedAt: stamp()},
	}

	alerts := []any{
		models.Alert{ID: newID(), Type: models.AlertVaccination, Title: "Vaccination Due", Description: "Annual BVD vaccination due for Bella (HC-001)", DueDate: "2024-01-25", AnimalID: str(bella), Priority: models.PriorityHigh, CreatedAt: stamp()},
		models.Alert{ID: newID(), Type: models.AlertCalving, Title: "Expected Calving", Description: "Rosie (HC-003) expected to calve within 2 weeks", DueDate: "2024-02-05", AnimalID: str(rosie), Priority: models.PriorityHigh, CreatedAt: stamp()},
		models.Alert{ID: newID(), Type: models.AlertBreeding, Title: "Heat Detection", Description: "Clover (HC-006) showing signs of heat", DueDate: "2024-01-21", AnimalID: str(clover), IsRead: true, Priority: models.PriorityMedium, CreatedAt: stamp()},
		models.Alert{ID: newID(), Type: models.AlertHealth, Title: "Follow-up Required", Description: "Daisy (HC-002) needs follow-up check after mastitis treatment", DueDate: "2024-01-23", AnimalID: str(daisy), Priority: models.PriorityMedium, CreatedAt: stamp()},
	}

	feed := []any{
		models.FeedItem{ID: newID(), Name: "Alfalfa Hay", Category: models.FeedForage, Unit: "bales", CostPerUnit: 8.5, CurrentStock: 120, MinimumStock: 50, CreatedAt: stamp()},
		models.FeedItem{ID: newID(), Name: "Corn Silage", Category: models.FeedForage, Unit: "tons", CostPerUnit: 45, CurrentStock: 25, MinimumStock: 20, CreatedAt: stamp()},
		models.FeedItem{ID: newID(), Name: "Dairy Concentrate", Category: models.FeedConcentrate, Unit: "bags", CostPerUnit: 22, CurrentStock: 40, MinimumStock: 15, CreatedAt: stamp()},
		models.FeedItem{ID: newID(), Name: "Rolled Barley", Category: models.FeedGrain, Unit: "bags", CostPerUnit: 18, CurrentStock: 12, MinimumStock: 10, CreatedAt: stamp()},
		models.FeedItem{ID: newID(), Name: "Mineral Mix", Category: models.FeedMineral, Unit: "kg", CostPerUnit: 3.2, CurrentStock: 60, MinimumStock: 25, CreatedAt: stamp()},
	}

	transactions := []any{
		models.Transaction{ID: newID(), Date: "2024-01-05", Type: models.TransactionIncome, Category: "Milk Sales", Amount: 4250, Description: "December milk cheque", CreatedAt: stamp()},
		models.Transaction{ID: newID(), Date: "2024-01-08", Type: models.TransactionExpense, Category: "Feed", Amount: 1180, Description: "Concentrate and hay delivery", CreatedAt: stamp()},
		models.Transaction{ID: newID(), Date: "2024-01-10", Type: models.TransactionExpense, Category: "Veterinary", Amount: 220, Description: "Mastitis treatment", AnimalID: str(daisy), CreatedAt: stamp()},
		models.Transaction{ID: newID(), Date: "2024-01-18", Type: models.TransactionIncome, Category: "Livestock Sales", Amount: 1600, Description: "Sold bull calf", CreatedAt: stamp()},
		models.Transaction{ID: newID(), Date: "2024-01-20", Type: models.TransactionExpense, Category: "Labor", Amount: 900, Description: "Relief milker wages", CreatedAt: stamp()},
	}

	return map[string][]any{
		models.CollectionAnimals:         animals,
		models.CollectionHealthRecords:   health,
		models.CollectionMilkRecords:     milkRecords,
		models.CollectionBreedingRecords: breeding,
		models.CollectionAlerts:          alerts,
		models.CollectionFeedItems:       feed,
		models.CollectionTransactions:    transactions,
	}
}
