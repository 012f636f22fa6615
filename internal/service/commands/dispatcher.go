// Package commands turns chat commands from farm workers into records.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/repository"
	"github.com/mamadbah2/dairyflow/internal/service/ingestion"
	"github.com/mamadbah2/dairyflow/internal/service/records"
	"github.com/mamadbah2/dairyflow/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

const alertListLimit = 5

var usage = map[models.CommandType]string{
	models.CommandMilk:    "/milk <tag> <morning L> <evening L> [scc]",
	models.CommandHealth:  "/health <tag> <vaccination|treatment|checkup|breeding> <description>",
	models.CommandIncome:  "/income <amount> <category> [description]",
	models.CommandExpense: "/expense <amount> <category> [description]",
	models.CommandStock:   "/stock <feed name> <quantity>",
	models.CommandSummary: "/summary",
	models.CommandAlerts:  "/alerts",
}

var helpOrder = []models.CommandType{
	models.CommandMilk, models.CommandHealth, models.CommandIncome, models.CommandExpense,
	models.CommandStock, models.CommandSummary, models.CommandAlerts,
}

// RecordKeeper is the part of the record store commands write to.
type RecordKeeper interface {
	AnimalByTag(ctx context.Context, tag string) (models.Animal, error)
	AddMilkRecord(ctx context.Context, form ingestion.MilkRecordForm) (models.MilkRecord, error)
	AddHealthRecord(ctx context.Context, form ingestion.HealthRecordForm) (models.HealthRecord, error)
	AddTransaction(ctx context.Context, form ingestion.TransactionForm) (models.Transaction, error)
	FeedItemByName(ctx context.Context, name string) (models.FeedItem, error)
	UpdateFeedStock(ctx context.Context, id string, form ingestion.StockForm) (models.FeedItem, error)
	Alerts(ctx context.Context, f records.AlertFilter) ([]models.Alert, error)
}

// Digester renders the farm summary text.
type Digester interface {
	DailyDigest(ctx context.Context, date time.Time) (string, error)
}

// Dispatcher executes parsed commands.
type Dispatcher struct {
	records RecordKeeper
	digest  Digester
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// NewDispatcher constructs a command dispatcher. Record dates use loc.
func NewDispatcher(keeper RecordKeeper, digest Digester, loc *time.Location, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{records: keeper, digest: digest, loc: loc, logger: logger, now: time.Now}
}

// HandleCommand executes cmd on behalf of sender and returns the reply text. Errors caused
// by the sender's input can be turned into a reply with Explain.
func (d *Dispatcher) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	today := d.now().In(d.loc)
	date := today.Format(models.DateLayout)

	d.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandMilk:
		return d.milk(ctx, cmd, date)
	case models.CommandHealth:
		return d.health(ctx, cmd, date)
	case models.CommandIncome:
		return d.transaction(ctx, cmd, date, models.TransactionIncome)
	case models.CommandExpense:
		return d.transaction(ctx, cmd, date, models.TransactionExpense)
	case models.CommandStock:
		return d.stock(ctx, cmd)
	case models.CommandSummary:
		if d.digest == nil {
			return "Summary is not available.", nil
		}
		return d.digest.DailyDigest(ctx, today)
	case models.CommandAlerts:
		return d.alerts(ctx)
	default:
		return Help(), nil
	}
}

func (d *Dispatcher) milk(ctx context.Context, cmd models.Command, date string) (string, error) {
	if len(cmd.Args) < 3 {
		return "", invalid(cmd.Type)
	}
	morning, err1 := parseAmount(cmd.Args[1])
	evening, err2 := parseAmount(cmd.Args[2])
	if err1 != nil || err2 != nil {
		return "", invalid(cmd.Type)
	}

	animal, err := d.records.AnimalByTag(ctx, cmd.Args[0])
	if err != nil {
		return "", err
	}

	form := ingestion.MilkRecordForm{AnimalID: animal.ID, Date: date, MorningYield: &morning, EveningYield: &evening}
	if len(cmd.Args) > 3 {
		scc, err := strconv.Atoi(cmd.Args[3])
		if err != nil {
			return "", invalid(cmd.Type)
		}
		form.SCC = &scc
	}

	record, err := d.records.AddMilkRecord(ctx, form)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Milk saved for %s (%s) on %s: %.1f L.", animal.Name, animal.TagNumber, record.Date, record.TotalYield), nil
}

func (d *Dispatcher) health(ctx context.Context, cmd models.Command, date string) (string, error) {
	if len(cmd.Args) < 3 {
		return "", invalid(cmd.Type)
	}
	animal, err := d.records.AnimalByTag(ctx, cmd.Args[0])
	if err != nil {
		return "", err
	}

	record, err := d.records.AddHealthRecord(ctx, ingestion.HealthRecordForm{
		AnimalID:    animal.ID,
		Date:        date,
		Type:        strings.ToLower(cmd.Args[1]),
		Description: strings.Join(cmd.Args[2:], " "),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Health record saved for %s: %s, %s.", animal.Name, record.Type, record.Description), nil
}

func (d *Dispatcher) transaction(ctx context.Context, cmd models.Command, date string, kind models.TransactionType) (string, error) {
	if len(cmd.Args) < 2 {
		return "", invalid(cmd.Type)
	}
	amount, err := parseAmount(cmd.Args[0])
	if err != nil {
		return "", invalid(cmd.Type)
	}

	category := strings.ToLower(cmd.Args[1])
	description := category
	if len(cmd.Args) > 2 {
		description = strings.Join(cmd.Args[2:], " ")
	}

	tx, err := d.records.AddTransaction(ctx, ingestion.TransactionForm{
		Date:        date,
		Type:        string(kind),
		Category:    category,
		Amount:      &amount,
		Description: description,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s logged: %.2f for %s on %s.", titleCase(string(tx.Type)), tx.Amount, tx.Category, tx.Date), nil
}

func (d *Dispatcher) stock(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) < 2 {
		return "", invalid(cmd.Type)
	}
	last := len(cmd.Args) - 1
	qty, err := parseAmount(cmd.Args[last])
	if err != nil {
		return "", invalid(cmd.Type)
	}

	item, err := d.records.FeedItemByName(ctx, strings.Join(cmd.Args[:last], " "))
	if err != nil {
		return "", err
	}
	item, err = d.records.UpdateFeedStock(ctx, item.ID, ingestion.StockForm{CurrentStock: &qty})
	if err != nil {
		return "", err
	}

	reply := fmt.Sprintf("%s stock set to %g %s.", item.Name, item.CurrentStock, item.Unit)
	if reporting.LowStock(item) {
		reply += fmt.Sprintf(" Low stock: minimum is %g.", item.MinimumStock)
	}
	return reply, nil
}

func (d *Dispatcher) alerts(ctx context.Context) (string, error) {
	alerts, err := d.records.Alerts(ctx, records.AlertFilter{UnreadOnly: true})
	if err != nil {
		return "", err
	}
	if len(alerts) == 0 {
		return "No unread alerts.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d unread alerts", len(alerts))
	for i, a := range alerts {
		if i == alertListLimit {
			fmt.Fprintf(&b, "\n...and %d more", len(alerts)-alertListLimit)
			break
		}
		fmt.Fprintf(&b, "\n- [%s] %s (due %s)", a.Priority, a.Title, a.DueDate)
	}
	return b.String(), nil
}

// Help lists the supported commands.
func Help() string {
	lines := make([]string, 0, len(helpOrder)+1)
	lines = append(lines, "Supported commands:")
	for _, t := range helpOrder {
		lines = append(lines, usage[t])
	}
	return strings.Join(lines, "\n")
}

// Explain turns an error caused by the sender's input into a reply. It reports false for
// failures the sender cannot fix.
func Explain(err error) (string, bool) {
	var verr *ingestion.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Not saved: " + strings.TrimPrefix(verr.Error(), "validation failed: ") + ".", true
	case errors.Is(err, repository.ErrNotFound):
		return "Not found: check the tag number or feed name.", true
	case errors.Is(err, ErrInvalidArguments):
		return err.Error(), true
	default:
		return "", false
	}
}

func invalid(t models.CommandType) error {
	return fmt.Errorf("%w, usage: %s", ErrInvalidArguments, usage[t])
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
