// Command seqdemo exercises seqkit end to end: it loads configuration, sets
// up logging and telemetry, and runs a few sequence pipelines against
// generated data and an in-memory SQLite table.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/resilience"
	"github.com/kbukum/seqkit/seq"
	"github.com/kbukum/seqkit/sqlseq"
	"github.com/kbukum/seqkit/version"
)

const serviceName = "seqdemo"

type order struct {
	ID       int
	Customer string
	Amount   float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Error("seqdemo failed", logger.Fields(
			logger.FieldError, err.Error(),
			"code", string(errors.CodeOf(err)),
		))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg config.Config
	if err := config.Load(serviceName, &cfg); err != nil {
		return err
	}
	logger.Init(cfg.Logging, cfg.Name)
	log := logger.Get(serviceName)
	log.Info("starting", version.Get().Fields())

	shutdown, err := observability.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	metrics, err := observability.NewMetrics(observability.Meter(serviceName))
	if err != nil {
		return err
	}
	obs := observability.NewObserver(metrics, observability.Tracer(serviceName), log)

	ctx = cfg.Context(ctx)

	if err := splitProbe(ctx, log, obs); err != nil {
		return err
	}
	if err := ordersReport(ctx, log, obs, cfg.SQL, cfg.Retry); err != nil {
		return err
	}
	return singleLookup(ctx, log)
}

// splitProbe splits the naturals into even, divisible-by-three and the rest,
// reads five of each and reports how far the upstream had to advance.
func splitProbe(ctx context.Context, log *logger.Logger, obs *observability.Observer) error {
	var pulled int
	naturals := seq.Generate(1, func(n int) int { return n + 1 }, func(int) bool { return true }).
		Peek(func(int) { pulled++ })
	parts := naturals.Split(
		func(n int) bool { return n%2 == 0 },
		func(n int) bool { return n%3 == 0 },
	)

	names := []string{"even", "div3", "rest"}
	for i, part := range parts {
		head, err := observability.Instrument(part.Limit(5), "naturals."+names[i], obs).ToSlice(ctx)
		if err != nil {
			return err
		}
		log.Info("split branch", logger.Fields(
			logger.FieldBranch, names[i],
			"head", head,
			logger.FieldPulled, pulled,
		))
	}
	return nil
}

// ordersReport loads sample orders into SQLite and partitions them by size.
func ordersReport(ctx context.Context, log *logger.Logger, obs *observability.Observer, dbCfg sqlseq.Config, retry resilience.RetryConfig) error {
	db, err := sqlseq.Open(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := seedOrders(ctx, db); err != nil {
		return err
	}

	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		log.Warn("retrying orders query", logger.Fields("attempt", attempt, logger.FieldError, err.Error(), "backoff", backoff.String()))
	}
	query := sqlseq.Query(db, "SELECT id, customer, amount FROM orders ORDER BY id", scanOrder)
	orders := observability.Instrument(resilience.RetryOpen(query, retry), "orders", obs).Save()

	parts := orders.Split(
		func(o order) bool { return o.Amount >= 100 },
		func(o order) bool { return o.Amount >= 20 },
	)
	labels := []string{"large", "medium", "small"}
	for i, part := range parts {
		count, err := part.Count(ctx)
		if err != nil {
			return err
		}
		total, _, err := seq.Sum(ctx, part, func(o order) float64 { return o.Amount })
		if err != nil {
			return err
		}
		log.Info("order bucket", logger.Fields(logger.FieldBranch, labels[i], "count", count, "total", total))
	}

	byCustomer, err := seq.GroupBy(ctx, orders, func(o order) string { return o.Customer })
	if err != nil {
		return err
	}
	names := seq.SaveDistinct(seq.Map(orders, func(o order) string { return o.Customer }))
	customers, err := seq.Collect(ctx, seq.OrderByKey(names, strings.ToLower), seq.JoiningCollector(", "))
	if err != nil {
		return err
	}
	log.Info("customers", logger.Fields("names", customers, "groups", len(byCustomer)))

	biggest, ok, err := seq.Max(ctx, orders, func(o order) float64 { return o.Amount })
	if err != nil {
		return err
	}
	if ok {
		log.Info("largest order", logger.Fields("id", biggest.ID, "customer", biggest.Customer, "amount", biggest.Amount))
	}
	return nil
}

// singleLookup shows both outcomes of FindSingle.
func singleLookup(ctx context.Context, log *logger.Logger) error {
	words := seq.Of("alpha", "beta", "gamma", "delta")

	only, ok, err := words.Filter(func(w string) bool { return strings.HasPrefix(w, "g") }).FindSingle(ctx)
	if err != nil {
		return err
	}
	log.Info("single match", logger.Fields("word", only, "found", ok))

	_, _, err = words.Filter(func(w string) bool { return strings.HasSuffix(w, "a") }).FindSingle(ctx)
	if !errors.Is(err, errors.ErrTooManyElements) {
		return fmt.Errorf("expected too many elements, got %w", err)
	}
	log.Info("ambiguous match rejected", logger.Fields("code", string(errors.CodeOf(err))))
	return nil
}

func seedOrders(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer TEXT NOT NULL,
			amount REAL NOT NULL
		)`,
		`DELETE FROM orders`,
		`INSERT INTO orders (customer, amount) VALUES
			('ada', 250.0), ('bo', 12.5), ('ada', 48.0),
			('cy', 99.9), ('bo', 130.0), ('dee', 5.0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.SourceFailed("sqlite", err)
		}
	}
	return nil
}

func scanOrder(rows *sql.Rows) (order, error) {
	var o order
	err := rows.Scan(&o.ID, &o.Customer, &o.Amount)
	return o, err
}
