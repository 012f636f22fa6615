package models

import "time"

// MilkRecord captures one animal's yield for one day. TotalYield is always
// MorningYield + EveningYield and is computed at ingestion.
type MilkRecord struct {
	ID                string    `bson:"_id" json:"id"`
	AnimalID          string    `bson:"animal_id" json:"animalId"`
	Date              string    `bson:"date" json:"date"`
	MorningYield      float64   `bson:"morning_yield" json:"morningYield"`
	EveningYield      float64   `bson:"evening_yield" json:"eveningYield"`
	TotalYield        float64   `bson:"total_yield" json:"totalYield"`
	SCC               *int      `bson:"scc,omitempty" json:"scc,omitempty"`
	FatPercentage     *float64  `bson:"fat_percentage,omitempty" json:"fatPercentage,omitempty"`
	ProteinPercentage *float64  `bson:"protein_percentage,omitempty" json:"proteinPercentage,omitempty"`
	CreatedAt         time.Time `bson:"created_at" json:"createdAt"`
}
