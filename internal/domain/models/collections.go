package models

// Document-store collection names.
const (
	CollectionAnimals         = "animals"
	CollectionHealthRecords   = "health_records"
	CollectionMilkRecords     = "milk_records"
	CollectionBreedingRecords = "breeding_records"
	CollectionAlerts          = "alerts"
	CollectionFeedItems       = "feed_items"
	CollectionTransactions    = "transactions"
	// CollectionAlertTombstones remembers the source keys of purged derived alerts.
	CollectionAlertTombstones = "alert_tombstones"
)

// Collections lists every record collection in display order.
var Collections = []string{
	CollectionAnimals,
	CollectionHealthRecords,
	CollectionMilkRecords,
	CollectionBreedingRecords,
	CollectionFeedItems,
	CollectionTransactions,
	CollectionAlerts,
}
