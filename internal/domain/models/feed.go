package models

import "time"

// FeedCategory groups feed inventory.
type FeedCategory string

const (
	FeedForage      FeedCategory = "forage"
	FeedGrain       FeedCategory = "grain"
	FeedConcentrate FeedCategory = "concentrate"
	FeedSupplement  FeedCategory = "supplement"
	FeedMineral     FeedCategory = "mineral"
)

// FeedItem is one line of the feed inventory.
type FeedItem struct {
	ID           string       `bson:"_id" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Category     FeedCategory `bson:"category" json:"category"`
	Unit         string       `bson:"unit" json:"unit"`
	CostPerUnit  float64      `bson:"cost_per_unit" json:"costPerUnit"`
	CurrentStock float64      `bson:"current_stock" json:"currentStock"`
	MinimumStock float64      `bson:"minimum_stock" json:"minimumStock"`
	CreatedAt    time.Time    `bson:"created_at" json:"createdAt"`
}
