package models

// MilkSummary aggregates milk records for one calendar day.
type MilkSummary struct {
	Date                string  `json:"date"`
	TotalYield          float64 `json:"totalYield"`
	Records             int     `json:"records"`
	ContributingAnimals int     `json:"contributingAnimals"`
	AveragePerCow       float64 `json:"averagePerCow"`
	AverageSCC          float64 `json:"averageScc"`
	SCCSamples          int     `json:"sccSamples"`
}

// DailyYield is one point of the milk production series.
type DailyYield struct {
	Date       string  `json:"date"`
	TotalYield float64 `json:"totalYield"`
}

// FinanceSummary aggregates the transaction ledger.
type FinanceSummary struct {
	TotalIncome        float64            `json:"totalIncome"`
	TotalExpenses      float64            `json:"totalExpenses"`
	NetProfit          float64            `json:"netProfit"`
	ProfitMargin       float64            `json:"profitMargin"`
	IncomeByCategory   map[string]float64 `json:"incomeByCategory"`
	ExpensesByCategory map[string]float64 `json:"expensesByCategory"`
}

// FeedItemStatus is the per-item inventory view.
type FeedItemStatus struct {
	Item            FeedItem `json:"item"`
	InventoryValue  float64  `json:"inventoryValue"`
	StockPercentage float64  `json:"stockPercentage"`
	LowStock        bool     `json:"lowStock"`
}

// FeedSummary aggregates the feed inventory.
type FeedSummary struct {
	ItemCount           int              `json:"itemCount"`
	LowStockCount       int              `json:"lowStockCount"`
	TotalInventoryValue float64          `json:"totalInventoryValue"`
	Items               []FeedItemStatus `json:"items"`
}

// BreedingSummary counts breeding records by type and outcome.
type BreedingSummary struct {
	HeatDetections      int `json:"heatDetections"`
	Inseminations       int `json:"inseminations"`
	PregnancyChecks     int `json:"pregnancyChecks"`
	Calvings            int `json:"calvings"`
	PositivePregnancies int `json:"positivePregnancies"`
}

// HerdSummary is the herd composition shown on the dashboard.
type HerdSummary struct {
	TotalHerd int `json:"totalHerd"`
	Lactating int `json:"lactating"`
	Dry       int `json:"dry"`
	Pregnant  int `json:"pregnant"`
	Heifers   int `json:"heifers"`
	Bulls     int `json:"bulls"`
	Sold      int `json:"sold"`
	Deceased  int `json:"deceased"`
}

// AlertSummary counts alerts needing attention.
type AlertSummary struct {
	Total        int `json:"total"`
	Unread       int `json:"unread"`
	HighPriority int `json:"highPriority"`
}

// Dashboard is the farm overview page.
type Dashboard struct {
	Date         string       `json:"date"`
	Herd         HerdSummary  `json:"herd"`
	Milk         MilkSummary  `json:"milk"`
	WeeklyMilk   []DailyYield `json:"weeklyMilk"`
	Alerts       AlertSummary `json:"alerts"`
	RecentAlerts []Alert      `json:"recentAlerts"`
}
