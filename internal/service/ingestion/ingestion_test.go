package ingestion_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
)

var fixedNow = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func newIngestor(t *testing.T) *ingestion.Ingestor {
	t.Helper()
	seq := 0
	return ingestion.New(
		ingestion.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		ingestion.WithClock(func() time.Time { return fixedNow }),
	)
}

func ptrFloat(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }

func sampleHerd() []models.Animal {
	return []models.Animal{
		{ID: "bull", TagNumber: "DF-100", Name: "Titan", Gender: models.GenderMale, Status: models.StatusActive},
		{ID: "cow", TagNumber: "DF-001", Name: "Bella", Gender: models.GenderFemale, Status: models.StatusActive},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ingestion.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return verr.Fields
}

func TestBuildAnimalRequiredFields(t *testing.T) {
	ing := newIngestor(t)

	_, err := ing.BuildAnimal(ingestion.AnimalForm{Name: "  "}, nil)
	fields := fieldErrors(t, err)
	for _, name := range []string{"tagNumber", "name", "breed", "dateOfBirth", "gender"} {
		if _, ok := fields[name]; !ok {
			t.Fatalf("expected error on %s, got %v", name, fields)
		}
	}
}

func TestBuildAnimalNormalizesOptionalFields(t *testing.T) {
	ing := newIngestor(t)

	animal, err := ing.BuildAnimal(ingestion.AnimalForm{
		TagNumber:   " DF-010 ",
		Name:        "Daisy",
		Breed:       "Holstein",
		DateOfBirth: "2022-05-01T00:00",
		Gender:      "female",
		SireID:      "none",
		DamID:       "cow",
		Notes:       "   ",
	}, sampleHerd())
	if err != nil {
		t.Fatalf("BuildAnimal: %v", err)
	}

	if animal.ID != "id-1" || !animal.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected identity: %q %v", animal.ID, animal.CreatedAt)
	}
	if animal.TagNumber != "DF-010" {
		t.Fatalf("tag not trimmed: %q", animal.TagNumber)
	}
	if animal.DateOfBirth != "2022-05-01" {
		t.Fatalf("date not normalized: %q", animal.DateOfBirth)
	}
	if animal.Status != models.StatusActive {
		t.Fatalf("expected default status active, got %q", animal.Status)
	}
	if animal.SireID != nil {
		t.Fatalf("none sentinel stored as %q", *animal.SireID)
	}
	if animal.DamID == nil || *animal.DamID != "cow" {
		t.Fatalf("dam not kept: %v", animal.DamID)
	}
	if animal.Notes != nil || animal.Photo != nil {
		t.Fatalf("empty optionals must be absent")
	}
}

func TestBuildAnimalRelationshipChecks(t *testing.T) {
	ing := newIngestor(t)
	base := ingestion.AnimalForm{
		TagNumber: "DF-020", Name: "Calf", Breed: "Jersey", DateOfBirth: "2024-01-01", Gender: "male",
	}

	cases := []struct {
		name  string
		edit  func(*ingestion.AnimalForm)
		field string
	}{
		{"duplicate tag", func(f *ingestion.AnimalForm) { f.TagNumber = "df-001" }, "tagNumber"},
		{"unknown sire", func(f *ingestion.AnimalForm) { f.SireID = "ghost" }, "sireId"},
		{"female sire", func(f *ingestion.AnimalForm) { f.SireID = "cow" }, "sireId"},
		{"male dam", func(f *ingestion.AnimalForm) { f.DamID = "bull" }, "damId"},
		{"bad gender", func(f *ingestion.AnimalForm) { f.Gender = "steer" }, "gender"},
		{"bad date", func(f *ingestion.AnimalForm) { f.DateOfBirth = "31/01/2024" }, "dateOfBirth"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := base
			tc.edit(&form)
			_, err := ing.BuildAnimal(form, sampleHerd())
			fields := fieldErrors(t, err)
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("expected error on %s, got %v", tc.field, fields)
			}
		})
	}
}

func TestBuildMilkRecordComputesTotal(t *testing.T) {
	ing := newIngestor(t)

	yields := [][2]float64{{12.5, 10.25}, {0, 0}, {0.1, 0.2}, {18.3, 16.7}}
	for _, y := range yields {
		rec, err := ing.BuildMilkRecord(ingestion.MilkRecordForm{
			AnimalID:     "cow",
			Date:         "2024-03-10",
			MorningYield: ptrFloat(y[0]),
			EveningYield: ptrFloat(y[1]),
		}, sampleHerd())
		if err != nil {
			t.Fatalf("BuildMilkRecord: %v", err)
		}
		if rec.TotalYield != rec.MorningYield+rec.EveningYield {
			t.Fatalf("total %v != %v + %v", rec.TotalYield, rec.MorningYield, rec.EveningYield)
		}
	}
}

func TestBuildMilkRecordRequiresBothYields(t *testing.T) {
	ing := newIngestor(t)

	_, err := ing.BuildMilkRecord(ingestion.MilkRecordForm{
		AnimalID:     "cow",
		Date:         "2024-03-10",
		MorningYield: ptrFloat(10),
	}, sampleHerd())
	fields := fieldErrors(t, err)
	if _, ok := fields["eveningYield"]; !ok {
		t.Fatalf("expected eveningYield error, got %v", fields)
	}

	_, err = ing.BuildMilkRecord(ingestion.MilkRecordForm{
		AnimalID:     "bull",
		Date:         "2024-03-10",
		MorningYield: ptrFloat(10),
		EveningYield: ptrFloat(-1),
	}, sampleHerd())
	fields = fieldErrors(t, err)
	if _, ok := fields["animalId"]; !ok {
		t.Fatalf("expected every failing field to be reported, got %v", fields)
	}
	if !strings.Contains(fields["eveningYield"], "at least 0") {
		t.Fatalf("unexpected message: %v", fields)
	}
}

func TestBuildMilkRecordRejectsMale(t *testing.T) {
	ing := newIngestor(t)

	_, err := ing.BuildMilkRecord(ingestion.MilkRecordForm{
		AnimalID:     "bull",
		Date:         "2024-03-10",
		MorningYield: ptrFloat(1),
		EveningYield: ptrFloat(1),
	}, sampleHerd())
	fields := fieldErrors(t, err)
	if _, ok := fields["animalId"]; !ok {
		t.Fatalf("expected animalId error, got %v", fields)
	}
}

func TestBuildBreedingRecordFreezesSireName(t *testing.T) {
	ing := newIngestor(t)
	herd := sampleHerd()

	rec, err := ing.BuildBreedingRecord(ingestion.BreedingRecordForm{
		AnimalID: "cow",
		Date:     "2024-02-01",
		Type:     "insemination",
		SireID:   "bull",
		Result:   "pending",
	}, herd)
	if err != nil {
		t.Fatalf("BuildBreedingRecord: %v", err)
	}
	if rec.SireName == nil || *rec.SireName != "Titan" {
		t.Fatalf("sire name not copied: %v", rec.SireName)
	}

	herd[0].Name = "Renamed"
	if *rec.SireName != "Titan" {
		t.Fatalf("sire name must not follow later edits")
	}
	if rec.Result == nil || *rec.Result != models.ResultPending {
		t.Fatalf("result not kept: %v", rec.Result)
	}
}

func TestBuildBreedingRecordWithoutSire(t *testing.T) {
	ing := newIngestor(t)

	rec, err := ing.BuildBreedingRecord(ingestion.BreedingRecordForm{
		AnimalID: "cow",
		Date:     "2024-02-01",
		Type:     "heat_detection",
		SireID:   "None",
	}, sampleHerd())
	if err != nil {
		t.Fatalf("BuildBreedingRecord: %v", err)
	}
	if rec.SireID != nil || rec.SireName != nil || rec.Result != nil {
		t.Fatalf("expected absent sire and result, got %+v", rec)
	}
}

func TestBuildHealthRecord(t *testing.T) {
	ing := newIngestor(t)

	rec, err := ing.BuildHealthRecord(ingestion.HealthRecordForm{
		AnimalID:         "cow",
		Date:             "2024-03-01",
		Type:             "treatment",
		Description:      "Mastitis",
		Medication:       "Penicillin",
		WithdrawalPeriod: ptrInt(72),
		NextDueDate:      "2024-03-08T09:00:00Z",
	}, sampleHerd())
	if err != nil {
		t.Fatalf("BuildHealthRecord: %v", err)
	}
	if rec.NextDueDate == nil || *rec.NextDueDate != "2024-03-08" {
		t.Fatalf("next due date not normalized: %v", rec.NextDueDate)
	}
	if rec.Dosage != nil || rec.Veterinarian != nil {
		t.Fatalf("empty optionals must be absent")
	}

	_, err = ing.BuildHealthRecord(ingestion.HealthRecordForm{
		AnimalID: "ghost", Date: "2024-03-01", Type: "checkup", Description: "x",
	}, sampleHerd())
	if _, ok := fieldErrors(t, err)["animalId"]; !ok {
		t.Fatalf("expected animalId error")
	}
}

func TestBuildAlertDefaults(t *testing.T) {
	ing := newIngestor(t)

	alert, err := ing.BuildAlert(ingestion.AlertForm{
		Type: "general", Title: "Fix fence", DueDate: "2024-03-12", AnimalID: "none",
	}, sampleHerd())
	if err != nil {
		t.Fatalf("BuildAlert: %v", err)
	}
	if alert.Priority != models.PriorityMedium || alert.IsRead || alert.AnimalID != nil {
		t.Fatalf("unexpected defaults: %+v", alert)
	}
}

func TestBuildTransactionAndFeed(t *testing.T) {
	ing := newIngestor(t)

	_, err := ing.BuildTransaction(ingestion.TransactionForm{
		Date: "2024-03-01", Type: "income", Category: "Milk Sales", Amount: ptrFloat(0), Description: "x",
	}, nil)
	if _, ok := fieldErrors(t, err)["amount"]; !ok {
		t.Fatalf("expected amount error")
	}

	tx, err := ing.BuildTransaction(ingestion.TransactionForm{
		Date: "2024-03-01", Type: "expense", Category: "Vet", Amount: ptrFloat(120), Description: "visit", AnimalID: "cow",
	}, sampleHerd())
	if err != nil {
		t.Fatalf("BuildTransaction: %v", err)
	}
	if tx.AnimalID == nil || *tx.AnimalID != "cow" {
		t.Fatalf("animal not linked: %v", tx.AnimalID)
	}

	item, err := ing.BuildFeedItem(ingestion.FeedItemForm{
		Name: "Hay", Category: "forage", Unit: "bales",
		CostPerUnit: ptrFloat(4.5), CurrentStock: ptrFloat(0), MinimumStock: ptrFloat(20),
	})
	if err != nil {
		t.Fatalf("BuildFeedItem: %v", err)
	}
	if item.CurrentStock != 0 || item.MinimumStock != 20 {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestIdentifiersAreUnique(t *testing.T) {
	ing := ingestion.New()
	seen := make(map[string]bool)
	for n := 0; n < 1000; n++ {
		id := ing.NewID()
		if seen[id] {
			t.Fatalf("duplicate identifier %s", id)
		}
		seen[id] = true
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2024-03-10":           "2024-03-10",
		" 2024-03-10 ":         "2024-03-10",
		"2024-03-10T23:59:00Z": "2024-03-10",
		"2024-03-10T06:30":     "2024-03-10",
	}
	for in, want := range cases {
		got, err := ingestion.NormalizeDate(in)
		if err != nil || got != want {
			t.Fatalf("NormalizeDate(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ingestion.NormalizeDate("2024-02-30"); err == nil {
		t.Fatalf("expected error for impossible date")
	}
}

func TestParseStatusAndStock(t *testing.T) {
	ing := newIngestor(t)

	status, err := ing.ParseStatus(ingestion.StatusForm{Status: " sold "})
	if err != nil || status != models.StatusSold {
		t.Fatalf("ParseStatus = %q, %v", status, err)
	}
	if _, err := ing.ParseStatus(ingestion.StatusForm{Status: "missing"}); err == nil {
		t.Fatalf("expected error for unknown status")
	}

	if _, err := ing.ParseStock(ingestion.StockForm{}); err == nil {
		t.Fatalf("expected error for missing stock")
	}
	stock, err := ing.ParseStock(ingestion.StockForm{CurrentStock: ptrFloat(12.5)})
	if err != nil || stock != 12.5 {
		t.Fatalf("ParseStock = %v, %v", stock, err)
	}
}
