package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
)

const (
	// a feed item is low when current stock is at or below this multiple of its minimum
	lowStockFactor = 1.5
	// the stock gauge is full at this multiple of the minimum
	stockGaugeFactor = 3

	heiferAgeMonths = 24
	weekDays        = 7
)

// SummarizeMilk totals the yield recorded on date and averages it over the distinct
// animals that contributed. The SCC average covers every record carrying a count.
func SummarizeMilk(records []models.MilkRecord, date string) models.MilkSummary {
	summary := models.MilkSummary{Date: date}
	total := decimal.Zero
	animals := make(map[string]struct{})

	for _, r := range records {
		if r.Date != date {
			continue
		}
		total = total.Add(decimal.NewFromFloat(r.TotalYield))
		summary.Records++
		animals[r.AnimalID] = struct{}{}
	}

	summary.TotalYield = total.InexactFloat64()
	summary.ContributingAnimals = len(animals)
	if len(animals) > 0 {
		summary.AveragePerCow = total.Div(decimal.NewFromInt(int64(len(animals)))).Round(2).InexactFloat64()
	}
	summary.AverageSCC, summary.SCCSamples = AverageSCC(records)
	return summary
}

// AverageSCC is the mean somatic cell count over records that carry one. Records
// without a count are left out of both sides of the division.
func AverageSCC(records []models.MilkRecord) (float64, int) {
	var sum int64
	var samples int
	for _, r := range records {
		if r.SCC == nil {
			continue
		}
		sum += int64(*r.SCC)
		samples++
	}
	if samples == 0 {
		return 0, 0
	}
	return float64(sum) / float64(samples), samples
}

// WeeklyYield returns the daily totals of the seven days ending on end, oldest first.
func WeeklyYield(records []models.MilkRecord, end time.Time) []models.DailyYield {
	totals := make(map[string]decimal.Decimal, weekDays)
	for _, r := range records {
		totals[r.Date] = totals[r.Date].Add(decimal.NewFromFloat(r.TotalYield))
	}

	series := make([]models.DailyYield, 0, weekDays)
	for offset := weekDays - 1; offset >= 0; offset-- {
		day := end.AddDate(0, 0, -offset).Format(models.DateLayout)
		series = append(series, models.DailyYield{Date: day, TotalYield: totals[day].InexactFloat64()})
	}
	return series
}

// SummarizeFinance sums the ledger. The margin is 0 when there is no income.
func SummarizeFinance(transactions []models.Transaction) models.FinanceSummary {
	income, expenses := decimal.Zero, decimal.Zero
	byIncome := make(map[string]decimal.Decimal)
	byExpense := make(map[string]decimal.Decimal)

	for _, tx := range transactions {
		amount := decimal.NewFromFloat(tx.Amount)
		switch tx.Type {
		case models.TransactionIncome:
			income = income.Add(amount)
			byIncome[tx.Category] = byIncome[tx.Category].Add(amount)
		case models.TransactionExpense:
			expenses = expenses.Add(amount)
			byExpense[tx.Category] = byExpense[tx.Category].Add(amount)
		}
	}

	net := income.Sub(expenses)
	margin := decimal.Zero
	if !income.IsZero() {
		margin = net.Div(income).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return models.FinanceSummary{
		TotalIncome:        income.InexactFloat64(),
		TotalExpenses:      expenses.InexactFloat64(),
		NetProfit:          net.InexactFloat64(),
		ProfitMargin:       margin.InexactFloat64(),
		IncomeByCategory:   floats(byIncome),
		ExpensesByCategory: floats(byExpense),
	}
}

func floats(in map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v.InexactFloat64()
	}
	return out
}

// LowStock reports whether the item is at or below 1.5x its minimum stock.
func LowStock(item models.FeedItem) bool {
	threshold := decimal.NewFromFloat(item.MinimumStock).Mul(decimal.NewFromFloat(lowStockFactor))
	return decimal.NewFromFloat(item.CurrentStock).LessThanOrEqual(threshold)
}

// StockPercentage is the gauge value current / (minimum x 3), capped at 100.
// An item without a minimum reads full while it has any stock.
func StockPercentage(item models.FeedItem) float64 {
	full := decimal.NewFromFloat(item.MinimumStock).Mul(decimal.NewFromInt(stockGaugeFactor))
	if full.Sign() <= 0 {
		if item.CurrentStock > 0 {
			return 100
		}
		return 0
	}
	pct := decimal.NewFromFloat(item.CurrentStock).Div(full).Mul(decimal.NewFromInt(100))
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	return pct.Round(2).InexactFloat64()
}

// InventoryValue is current stock times cost per unit.
func InventoryValue(item models.FeedItem) decimal.Decimal {
	return decimal.NewFromFloat(item.CurrentStock).Mul(decimal.NewFromFloat(item.CostPerUnit))
}

// SummarizeFeed values the inventory and flags low items.
func SummarizeFeed(items []models.FeedItem) models.FeedSummary {
	summary := models.FeedSummary{ItemCount: len(items), Items: make([]models.FeedItemStatus, 0, len(items))}
	total := decimal.Zero

	for _, item := range items {
		value := InventoryValue(item)
		total = total.Add(value)
		low := LowStock(item)
		if low {
			summary.LowStockCount++
		}
		summary.Items = append(summary.Items, models.FeedItemStatus{
			Item:            item,
			InventoryValue:  value.Round(2).InexactFloat64(),
			StockPercentage: StockPercentage(item),
			LowStock:        low,
		})
	}

	summary.TotalInventoryValue = total.Round(2).InexactFloat64()
	return summary
}

// SummarizeBreeding counts records by type, and positive results across all types.
func SummarizeBreeding(records []models.BreedingRecord) models.BreedingSummary {
	var summary models.BreedingSummary
	for _, r := range records {
		switch r.Type {
		case models.BreedingHeatDetection:
			summary.HeatDetections++
		case models.BreedingInsemination:
			summary.Inseminations++
		case models.BreedingPregnancyCheck:
			summary.PregnancyChecks++
		case models.BreedingCalving:
			summary.Calvings++
		}
		if r.Result != nil && *r.Result == models.ResultPositive {
			summary.PositivePregnancies++
		}
	}
	return summary
}

// SummarizeHerd breaks the roster down by status, sex and age as of ref.
func SummarizeHerd(animals []models.Animal, ref time.Time) models.HerdSummary {
	var summary models.HerdSummary
	for _, a := range animals {
		switch a.Status {
		case models.StatusSold:
			summary.Sold++
			continue
		case models.StatusDeceased:
			summary.Deceased++
			continue
		case models.StatusDry:
			summary.Dry++
		case models.StatusPregnant:
			summary.Pregnant++
		}

		summary.TotalHerd++
		if a.Gender == models.GenderMale {
			summary.Bulls++
			continue
		}

		// negative ages mean a missing or future birth date; such females are left out
		age := a.AgeInMonths(ref)
		switch {
		case age < 0:
		case age < heiferAgeMonths:
			summary.Heifers++
		case a.Status == models.StatusActive:
			summary.Lactating++
		}
	}
	return summary
}

// SummarizeAlerts counts all, unread and high-priority alerts.
func SummarizeAlerts(alerts []models.Alert) models.AlertSummary {
	summary := models.AlertSummary{Total: len(alerts)}
	for _, a := range alerts {
		if !a.IsRead {
			summary.Unread++
		}
		if a.Priority == models.PriorityHigh {
			summary.HighPriority++
		}
	}
	return summary
}
