package ingestion

// NoneSelection is the placeholder a form sends for "no parent / unknown sire".
// It is normalized to an absent reference and never stored.
const NoneSelection = "none"

// AnimalForm is the raw input for registering an animal.
type AnimalForm struct {
	TagNumber   string `json:"tagNumber" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Breed       string `json:"breed" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,calendardate"`
	Gender      string `json:"gender" validate:"required,oneof=female male"`
	Status      string `json:"status" validate:"omitempty,oneof=active dry pregnant sold deceased"`
	SireID      string `json:"sireId"`
	DamID       string `json:"damId"`
	Photo       string `json:"photo"`
	Notes       string `json:"notes"`
}

// HealthRecordForm is the raw input for a health event.
type HealthRecordForm struct {
	AnimalID         string `json:"animalId" validate:"required"`
	Date             string `json:"date" validate:"required,calendardate"`
	Type             string `json:"type" validate:"required,oneof=vaccination treatment checkup breeding"`
	Description      string `json:"description" validate:"required"`
	Medication       string `json:"medication"`
	Dosage           string `json:"dosage"`
	Veterinarian     string `json:"veterinarian"`
	WithdrawalPeriod *int   `json:"withdrawalPeriod" validate:"omitempty,gte=0"`
	NextDueDate      string `json:"nextDueDate" validate:"omitempty,calendardate"`
	Notes            string `json:"notes"`
}

// MilkRecordForm is the raw input for a daily yield entry. The total is never accepted
// from the client.
type MilkRecordForm struct {
	AnimalID          string   `json:"animalId" validate:"required"`
	Date              string   `json:"date" validate:"required,calendardate"`
	MorningYield      *float64 `json:"morningYield" validate:"required,gte=0"`
	EveningYield      *float64 `json:"eveningYield" validate:"required,gte=0"`
	SCC               *int     `json:"scc" validate:"omitempty,gte=0"`
	FatPercentage     *float64 `json:"fatPercentage" validate:"omitempty,gte=0,lte=100"`
	ProteinPercentage *float64 `json:"proteinPercentage" validate:"omitempty,gte=0,lte=100"`
}

// BreedingRecordForm is the raw input for a breeding event.
type BreedingRecordForm struct {
	AnimalID            string `json:"animalId" validate:"required"`
	Date                string `json:"date" validate:"required,calendardate"`
	Type                string `json:"type" validate:"required,oneof=heat_detection insemination pregnancy_check calving"`
	SireID              string `json:"sireId"`
	Technician          string `json:"technician"`
	Result              string `json:"result" validate:"omitempty,oneof=positive negative pending"`
	ExpectedCalvingDate string `json:"expectedCalvingDate" validate:"omitempty,calendardate"`
	Notes               string `json:"notes"`
}

// AlertForm is the raw input for a manual reminder.
type AlertForm struct {
	Type        string `json:"type" validate:"required,oneof=vaccination calving breeding health general"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" validate:"required,calendardate"`
	AnimalID    string `json:"animalId"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// FeedItemForm is the raw input for an inventory line.
type FeedItemForm struct {
	Name         string   `json:"name" validate:"required"`
	Category     string   `json:"category" validate:"required,oneof=forage grain concentrate supplement mineral"`
	Unit         string   `json:"unit" validate:"required"`
	CostPerUnit  *float64 `json:"costPerUnit" validate:"required,gte=0"`
	CurrentStock *float64 `json:"currentStock" validate:"required,gte=0"`
	MinimumStock *float64 `json:"minimumStock" validate:"required,gte=0"`
}

// TransactionForm is the raw input for a ledger entry.
type TransactionForm struct {
	Date        string   `json:"date" validate:"required,calendardate"`
	Type        string   `json:"type" validate:"required,oneof=income expense"`
	Category    string   `json:"category" validate:"required"`
	Amount      *float64 `json:"amount" validate:"required,gt=0"`
	Description string   `json:"description" validate:"required"`
	AnimalID    string   `json:"animalId"`
}

// StatusForm changes an animal's lifecycle status.
type StatusForm struct {
	Status string `json:"status" validate:"required,oneof=active dry pregnant sold deceased"`
}

// StockForm records a stock count for a feed item.
type StockForm struct {
	CurrentStock *float64 `json:"currentStock" validate:"required,gte=0"`
}
