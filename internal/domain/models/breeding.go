package models

import "time"

// BreedingRecordType classifies a breeding event.
type BreedingRecordType string

const (
	BreedingHeatDetection  BreedingRecordType = "heat_detection"
	BreedingInsemination   BreedingRecordType = "insemination"
	BreedingPregnancyCheck BreedingRecordType = "pregnancy_check"
	BreedingCalving        BreedingRecordType = "calving"
)

// BreedingResult is the outcome of a check or insemination.
type BreedingResult string

const (
	ResultPositive BreedingResult = "positive"
	ResultNegative BreedingResult = "negative"
	ResultPending  BreedingResult = "pending"
)

// BreedingRecord tracks a breeding event on a female. SireName is a copy taken
// when the record is created and is not kept in sync with later sire edits.
type BreedingRecord struct {
	ID                  string             `bson:"_id" json:"id"`
	AnimalID            string             `bson:"animal_id" json:"animalId"`
	Date                string             `bson:"date" json:"date"`
	Type                BreedingRecordType `bson:"type" json:"type"`
	SireID              *string            `bson:"sire_id,omitempty" json:"sireId,omitempty"`
	SireName            *string            `bson:"sire_name,omitempty" json:"sireName,omitempty"`
	Technician          *string            `bson:"technician,omitempty" json:"technician,omitempty"`
	Result              *BreedingResult    `bson:"result,omitempty" json:"result,omitempty"`
	ExpectedCalvingDate *string            `bson:"expected_calving_date,omitempty" json:"expectedCalvingDate,omitempty"`
	Notes               *string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt           time.Time          `bson:"created_at" json:"createdAt"`
}
