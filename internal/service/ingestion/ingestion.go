// Package ingestion validates raw form input and maps it onto canonical records.
// A form either yields a complete record with a fresh identifier or a
// *ValidationError; partial records are never produced.
package ingestion

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
)

// Ingestor turns forms into records.
type Ingestor struct {
	validate *validator.Validate
	newID    func() string
	now      func() time.Time
}

// Option customizes an Ingestor.
type Option func(*Ingestor)

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(fn func() string) Option {
	return func(i *Ingestor) { i.newID = fn }
}

// WithClock overrides the creation timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(i *Ingestor) { i.now = fn }
}

// New builds an Ingestor issuing random UUIDs.
func New(opts ...Option) *Ingestor {
	i := &Ingestor{
		validate: newValidator(),
		newID:    uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// NewID issues a fresh record identifier.
func (i *Ingestor) NewID() string {
	return i.newID()
}

// BuildAnimal validates an animal form against the current herd.
func (i *Ingestor) BuildAnimal(form AnimalForm, herd []models.Animal) (models.Animal, error) {
	trimStrings(&form)
	verr, err := i.check(form)
	if err != nil {
		return models.Animal{}, err
	}

	if form.TagNumber != "" {
		for _, a := range herd {
			if strings.EqualFold(a.TagNumber, form.TagNumber) {
				verr.add("tagNumber", "tagNumber is already assigned to "+a.Name)
				break
			}
		}
	}

	sireID := optionalRef(form.SireID)
	damID := optionalRef(form.DamID)
	if sireID != nil {
		requireAnimal(verr, herd, "sireId", *sireID, models.GenderMale)
	}
	if damID != nil {
		requireAnimal(verr, herd, "damId", *damID, models.GenderFemale)
	}
	if sireID != nil && damID != nil && *sireID == *damID {
		verr.add("damId", "damId must differ from sireId")
	}
	if err := verr.orNil(); err != nil {
		return models.Animal{}, err
	}

	dob, _ := NormalizeDate(form.DateOfBirth)
	status := models.StatusActive
	if form.Status != "" {
		status = models.AnimalStatus(form.Status)
	}

	return models.Animal{
		ID:          i.newID(),
		TagNumber:   form.TagNumber,
		Name:        form.Name,
		Breed:       form.Breed,
		DateOfBirth: dob,
		Gender:      models.Gender(form.Gender),
		Status:      status,
		SireID:      sireID,
		DamID:       damID,
		Photo:       optional(form.Photo),
		Notes:       optional(form.Notes),
		CreatedAt:   i.now(),
	}, nil
}

// BuildHealthRecord validates a health form.
func (i *Ingestor) BuildHealthRecord(form HealthRecordForm, herd []models.Animal) (models.HealthRecord, error) {
	trimStrings(&form)
	verr, err := i.check(form)
	if err != nil {
		return models.HealthRecord{}, err
	}
	if form.AnimalID != "" {
		requireAnimal(verr, herd, "animalId", form.AnimalID, "")
	}
	if err := verr.orNil(); err != nil {
		return models.HealthRecord{}, err
	}

	date, _ := NormalizeDate(form.Date)
	return models.HealthRecord{
		ID:               i.newID(),
		AnimalID:         form.AnimalID,
		Date:             date,
		Type:             models.HealthRecordType(form.Type),
		Description:      form.Description,
		Medication:       optional(form.Medication),
		Dosage:           optional(form.Dosage),
		Veterinarian:     optional(form.Veterinarian),
		WithdrawalPeriod: form.WithdrawalPeriod,
		NextDueDate:      optionalDate(form.NextDueDate),
		Notes:            optional(form.Notes),
		CreatedAt:        i.now(),
	}, nil
}

// BuildMilkRecord validates a yield form and computes the daily total.
func (i *Ingestor) BuildMilkRecord(form MilkRecordForm, herd []models.Animal) (models.MilkRecord, error) {
	trimStrings(&form)
	verr, err := i.check(form)
	if err != nil {
		return models.MilkRecord{}, err
	}
	if form.AnimalID != "" {
		requireAnimal(verr, herd, "animalId", form.AnimalID, models.GenderFemale)
	}
	if err := verr.orNil(); err != nil {
		return models.MilkRecord{}, err
	}

	date, _ := NormalizeDate(form.Date)
	morning, evening := *form.MorningYield, *form.EveningYield
	return models.MilkRecord{
		ID:                i.newID(),
		AnimalID:          form.AnimalID,
		Date:              date,
		MorningYield:      morning,
		EveningYield:      evening,
		TotalYield:        morning + evening,
		SCC:               form.SCC,
		FatPercentage:     form.FatPercentage,
		ProteinPercentage: form.ProteinPercentage,
		CreatedAt:         i.now(),
	}, nil
}

// BuildBreedingRecord validates a breeding form. The sire's name is copied onto the
// record as it is at submission time.
func (i *Ingestor) BuildBreedingRecord(form BreedingRecordForm, herd []models.Animal) (models.BreedingRecord, error) {
	trimStrings(&form)
	verr, err := i.check(form)
	if err != nil {
		return models.BreedingRecord{}, err
	}
	if form.AnimalID != "" {
		requireAnimal(verr, herd, "animalId", form.AnimalID, models.GenderFemale)
	}

	sireID := optionalRef(form.SireID)
	var sireName *string
	if sireID != nil {
		if sire, ok := requireAnimal(verr, herd, "sireId", *sireID, models.GenderMale); ok {
			name := sire.Name
			sireName = &name
		}
	}
	if err := verr.orNil(); err != nil {
		return models.BreedingRecord{}, err
	}

	var result *models.BreedingResult
	if form.Result != "" {
		r := models.BreedingResult(form.Result)
		result = &r
	}

	date, _ := NormalizeDate(form.Date)
	return models.BreedingRecord{
		ID:                  i.newID(),
		AnimalID:            form.AnimalID,
		Date:                date,
		Type:                models.BreedingRecordType(form.Type),
		SireID:              sireID,
		SireName:            sireName,
		Technician:          optional(form.Technician),
		Result:              result,
		ExpectedCalvingDate: optionalDate(form.ExpectedCalvingDate),
		Notes:               optional(form.Notes),
		CreatedAt:           i.now(),
	}, nil
}

// BuildAlert validates a reminder form. New alerts start unread.
func (i *Ingestor) BuildAlert(form AlertForm, herd []models.Animal) (models.Alert, error) {
	trimStrings(&form)
	verr, err := i.check(form)
	if err != nil {
		return models.Alert{}, err
	}
	animalID := optionalRef(form.AnimalID)
	if animalID != nil {
		requireAnimal(verr, herd, "animalId", *animalID, "")
	}
	if err := verr.orNil(); err != nil {
		return models.Alert{}, err
	}

	priority := models.PriorityMedium
	if form.Priority != "" {
		priority = models.AlertPriority(form.Priority)
	}
	due, _ := NormalizeDate(form.DueDate)
	return models.Alert{
		ID:          i.newID(),
		Type:        models.AlertType(form.Type),
		Title:       form.Title,
		Description: form.Description,
		DueDate:     due,
		AnimalID:    animalID,
		Priority:    priority,
		CreatedAt:   i.now(),
	}, nil
}

// BuildFeedItem validates an inventory form.
func (i *Ingestor) BuildFeedItem(form FeedItemForm) (models.FeedItem, error) {
	trimStrings(&form)
	verr, err := i.check(form)
	if err != nil {
		return models.FeedItem{}, err
	}
	if err := verr.orNil(); err != nil {
		return models.FeedItem{}, err
	}

	return models.FeedItem{
		ID:           i.newID(),
		Name:         form.Name,
		Category:     models.FeedCategory(form.Category),
		Unit:         form.Unit,
		CostPerUnit:  *form.CostPerUnit,
		CurrentStock: *form.CurrentStock,
		MinimumStock: *form.MinimumStock,
		CreatedAt:    i.now(),
	}, nil
}

// BuildTransaction validates a ledger form.
func (i *Ingestor) BuildTransaction(form TransactionForm, herd []models.Animal) (models.Transaction, error) {
	trimStrings(&form)
	verr, err := i.check(form)
	if err != nil {
		return models.Transaction{}, err
	}
	animalID := optionalRef(form.AnimalID)
	if animalID != nil {
		requireAnimal(verr, herd, "animalId", *animalID, "")
	}
	if err := verr.orNil(); err != nil {
		return models.Transaction{}, err
	}

	date, _ := NormalizeDate(form.Date)
	return models.Transaction{
		ID:          i.newID(),
		Date:        date,
		Type:        models.TransactionType(form.Type),
		Category:    form.Category,
		Amount:      *form.Amount,
		Description: form.Description,
		AnimalID:    animalID,
		CreatedAt:   i.now(),
	}, nil
}

// requireAnimal records a field error unless id names an animal of the wanted gender.
// An empty gender accepts either.
func requireAnimal(verr *ValidationError, herd []models.Animal, field, id string, gender models.Gender) (models.Animal, bool) {
	animal, ok := models.FindAnimal(herd, id)
	if !ok {
		verr.add(field, field+" does not match a registered animal")
		return models.Animal{}, false
	}
	if gender != "" && animal.Gender != gender {
		verr.add(field, field+" must reference a "+string(gender)+" animal")
		return models.Animal{}, false
	}
	return animal, true
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalRef(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NoneSelection) {
		return nil
	}
	return &s
}

func optionalDate(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := NormalizeDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// ParseStatus validates a status change.
func (i *Ingestor) ParseStatus(form StatusForm) (models.AnimalStatus, error) {
	trimStrings(&form)
	verr, err := i.check(form)
	if err != nil {
		return "", err
	}
	if err := verr.orNil(); err != nil {
		return "", err
	}
	return models.AnimalStatus(form.Status), nil
}

// ParseStock validates a stock count.
func (i *Ingestor) ParseStock(form StockForm) (float64, error) {
	verr, err := i.check(form)
	if err != nil {
		return 0, err
	}
	if err := verr.orNil(); err != nil {
		return 0, err
	}
	return *form.CurrentStock, nil
}
