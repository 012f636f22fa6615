package export

import (
	"github.com/mamadbah2/dairyflow/internal/domain/models"
)

// Table is one collection rendered as a header row plus data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// Values returns the header followed by the rows.
func (t Table) Values(withHeader bool) [][]interface{} {
	out := make([][]interface{}, 0, len(t.Rows)+1)
	if withHeader {
		header := make([]interface{}, len(t.Header))
		for i, h := range t.Header {
			header[i] = h
		}
		out = append(out, header)
	}
	return append(out, t.Rows...)
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func tagOf(herd []models.Animal, id *string) string {
	if id == nil {
		return ""
	}
	if a, ok := models.FindAnimal(herd, *id); ok {
		return a.TagNumber
	}
	return "Unknown"
}

func animalTable(herd []models.Animal) Table {
	t := Table{
		Name:   models.CollectionAnimals,
		Header: []string{"Tag", "Name", "Breed", "Date of birth", "Gender", "Status", "Sire", "Dam", "Notes"},
	}
	for _, a := range herd {
		t.Rows = append(t.Rows, []interface{}{
			a.TagNumber, a.Name, a.Breed, a.DateOfBirth, string(a.Gender), string(a.Status),
			tagOf(herd, a.SireID), tagOf(herd, a.DamID), str(a.Notes),
		})
	}
	return t
}

func healthTable(records []models.HealthRecord, herd []models.Animal) Table {
	t := Table{
		Name:   models.CollectionHealthRecords,
		Header: []string{"Date", "Animal", "Type", "Description", "Medication", "Dosage", "Veterinarian", "Withdrawal (h)", "Next due"},
	}
	for _, r := range records {
		withdrawal := ""
		if r.WithdrawalPeriod != nil {
			withdrawal = itoa(*r.WithdrawalPeriod)
		}
		id := r.AnimalID
		t.Rows = append(t.Rows, []interface{}{
			r.Date, tagOf(herd, &id), string(r.Type), r.Description, str(r.Medication), str(r.Dosage),
			str(r.Veterinarian), withdrawal, str(r.NextDueDate),
		})
	}
	return t
}

func milkTable(records []models.MilkRecord, herd []models.Animal) Table {
	t := Table{
		Name:   models.CollectionMilkRecords,
		Header: []string{"Date", "Animal", "Morning (L)", "Evening (L)", "Total (L)", "SCC", "Fat %", "Protein %"},
	}
	for _, r := range records {
		id := r.AnimalID
		row := []interface{}{r.Date, tagOf(herd, &id), r.MorningYield, r.EveningYield, r.TotalYield, "", "", ""}
		if r.SCC != nil {
			row[5] = *r.SCC
		}
		if r.FatPercentage != nil {
			row[6] = *r.FatPercentage
		}
		if r.ProteinPercentage != nil {
			row[7] = *r.ProteinPercentage
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func breedingTable(records []models.BreedingRecord, herd []models.Animal) Table {
	t := Table{
		Name:   models.CollectionBreedingRecords,
		Header: []string{"Date", "Animal", "Type", "Sire", "Technician", "Result", "Expected calving", "Notes"},
	}
	for _, r := range records {
		id := r.AnimalID
		result := ""
		if r.Result != nil {
			result = string(*r.Result)
		}
		t.Rows = append(t.Rows, []interface{}{
			r.Date, tagOf(herd, &id), string(r.Type), str(r.SireName), str(r.Technician), result,
			str(r.ExpectedCalvingDate), str(r.Notes),
		})
	}
	return t
}

func feedTable(items []models.FeedItem) Table {
	t := Table{
		Name:   models.CollectionFeedItems,
		Header: []string{"Name", "Category", "Unit", "Cost per unit", "Current stock", "Minimum stock"},
	}
	for _, i := range items {
		t.Rows = append(t.Rows, []interface{}{i.Name, string(i.Category), i.Unit, i.CostPerUnit, i.CurrentStock, i.MinimumStock})
	}
	return t
}

func transactionTable(txs []models.Transaction, herd []models.Animal) Table {
	t := Table{
		Name:   models.CollectionTransactions,
		Header: []string{"Date", "Type", "Category", "Amount", "Description", "Animal"},
	}
	for _, tx := range txs {
		t.Rows = append(t.Rows, []interface{}{tx.Date, string(tx.Type), tx.Category, tx.Amount, tx.Description, tagOf(herd, tx.AnimalID)})
	}
	return t
}

func alertTable(alerts []models.Alert, herd []models.Animal) Table {
	t := Table{
		Name:   models.CollectionAlerts,
		Header: []string{"Due", "Type", "Priority", "Title", "Description", "Animal", "Read"},
	}
	for _, a := range alerts {
		t.Rows = append(t.Rows, []interface{}{a.DueDate, string(a.Type), string(a.Priority), a.Title, a.Description, tagOf(herd, a.AnimalID), a.IsRead})
	}
	return t
}
