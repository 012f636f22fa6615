package models

import "time"

// HealthRecordType classifies a health event.
type HealthRecordType string

const (
	HealthVaccination HealthRecordType = "vaccination"
	HealthTreatment   HealthRecordType = "treatment"
	HealthCheckup     HealthRecordType = "checkup"
	HealthBreeding    HealthRecordType = "breeding"
)

// HealthRecord captures a vaccination, treatment, checkup or breeding-related vet visit.
type HealthRecord struct {
	ID               string           `bson:"_id" json:"id"`
	AnimalID         string           `bson:"animal_id" json:"animalId"`
	Date             string           `bson:"date" json:"date"`
	Type             HealthRecordType `bson:"type" json:"type"`
	Description      string           `bson:"description" json:"description"`
	Medication       *string          `bson:"medication,omitempty" json:"medication,omitempty"`
	Dosage           *string          `bson:"dosage,omitempty" json:"dosage,omitempty"`
	Veterinarian     *string          `bson:"veterinarian,omitempty" json:"veterinarian,omitempty"`
	WithdrawalPeriod *int             `bson:"withdrawal_period,omitempty" json:"withdrawalPeriod,omitempty"` // hours
	NextDueDate      *string          `bson:"next_due_date,omitempty" json:"nextDueDate,omitempty"`
	Notes            *string          `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time        `bson:"created_at" json:"createdAt"`
}
