package models

import "time"

// TransactionType separates income from expenses.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a single financial movement.
type Transaction struct {
	ID          string          `bson:"_id" json:"id"`
	Date        string          `bson:"date" json:"date"`
	Type        TransactionType `bson:"type" json:"type"`
	Category    string          `bson:"category" json:"category"`
	Amount      float64         `bson:"amount" json:"amount"`
	Description string          `bson:"description" json:"description"`
	AnimalID    *string         `bson:"animal_id,omitempty" json:"animalId,omitempty"`
	CreatedAt   time.Time       `bson:"created_at" json:"createdAt"`
}
