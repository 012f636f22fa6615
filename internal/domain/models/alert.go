package models

import "time"

// AlertType groups alerts on the dashboard.
type AlertType string

const (
	AlertVaccination AlertType = "vaccination"
	AlertCalving     AlertType = "calving"
	AlertBreeding    AlertType = "breeding"
	AlertHealth      AlertType = "health"
	AlertGeneral     AlertType = "general"
)

// AlertPriority orders alerts by urgency.
type AlertPriority string

const (
	PriorityLow    AlertPriority = "low"
	PriorityMedium AlertPriority = "medium"
	PriorityHigh   AlertPriority = "high"
)

// Alert is a reminder shown to the farm team.
type Alert struct {
	ID          string        `bson:"_id" json:"id"`
	Type        AlertType     `bson:"type" json:"type"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	DueDate     string        `bson:"due_date" json:"dueDate"`
	AnimalID    *string       `bson:"animal_id,omitempty" json:"animalId,omitempty"`
	IsRead      bool          `bson:"is_read" json:"isRead"`
	Priority    AlertPriority `bson:"priority" json:"priority"`
	// SourceKey identifies the record an automatically raised alert was derived from.
	SourceKey *string   `bson:"source_key,omitempty" json:"sourceKey,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// AlertTombstone marks a derived alert that was read and purged, so later sweeps
// do not raise it again.
type AlertTombstone struct {
	SourceKey string    `bson:"_id" json:"sourceKey"`
	PurgedAt  time.Time `bson:"purged_at" json:"purgedAt"`
}
