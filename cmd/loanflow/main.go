package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"loanflow/internal/agent"
	"loanflow/internal/audit"
	"loanflow/internal/backend"
	"loanflow/internal/common/config"
	"loanflow/internal/common/database"
	"loanflow/internal/common/logger"
	"loanflow/internal/common/observability"
	"loanflow/internal/intake"
	"loanflow/internal/ledger"
	"loanflow/internal/loan"
	"loanflow/internal/notify"
	"loanflow/internal/session"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting loanflow client...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Optional Redis snapshot cache ---
	var cache *ledger.SnapshotCache
	if cfg.Database.Redis.Enabled {
		var rc *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis initialization")

		if err != nil {
			zapLog.Warn("redis unavailable, snapshot cache disabled", zap.Error(err))
		} else {
			defer rc.Close()
			cache = ledger.NewSnapshotCache(rc.GetClient(), log)
		}
	}

	// --- Optional Postgres audit sink ---
	var auditSink *audit.Sink
	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL initialization")

		if err != nil {
			zapLog.Warn("postgres unavailable, audit trail disabled", zap.Error(err))
		} else {
			defer pg.Close()
			auditSink = audit.NewSink(pg.GetDB(), log)
		}
	}

	// --- Optional SES/SNS notifier ---
	var notifier *notify.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		notifier, err = notify.New(ctx, cfg.Notifications, log)
		if err != nil {
			zapLog.Warn("notification setup failed, confirmations disabled", zap.Error(err))
			notifier = nil
		}
	}

	// --- Core wiring ---
	store := ledger.New()
	factory := loan.NewFactory(cfg.Loan)
	classifier := agent.NewClassifier(factory, store, auditSink, log)
	intakeSvc := intake.NewService(factory, store, auditSink, notifier, log)
	client := backend.NewClient(cfg.Backend, log)
	mgr := session.NewManager(store, classifier, intakeSvc, client, cache, obs, log)

	// --- Metrics endpoint ---
	if cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		zapLog.Info("metrics endpoint started", zap.String("address", cfg.Metrics.Address))
	}

	zapLog.Info("session started", zap.String("sessionId", mgr.ID()))

	// --- Interactive chat loop ---
	done := make(chan struct{})
	go func() {
		defer close(done)
		runChatLoop(ctx, mgr)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		zapLog.Info("signal received, shutting down")
	case <-done:
	}

	mgr.Close(ctx)
	zapLog.Info("loanflow client stopped")
}

// runChatLoop reads chat messages from stdin until EOF. "/apps" prints the
// tracked applications, "/emi" computes installments locally, "/quit" exits.
func runChatLoop(ctx context.Context, mgr *session.Manager) {
	for _, msg := range mgr.Transcript() {
		fmt.Printf("[%s] %s\n\n", msg.Agent, msg.Text)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case line == "/apps":
			printApplications(ctx, mgr)
		case strings.HasPrefix(line, "/emi"):
			printQuote(line)
		case strings.HasPrefix(line, "/apply"):
			submitApplication(ctx, mgr, line)
		default:
			reply, err := mgr.Send(ctx, line)
			if err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			fmt.Printf("[%s] %s\n\n", reply.Agent, reply.Text)
		}
	}
}

// submitApplication handles "/apply <name> <type> <amount> [email]".
func submitApplication(ctx context.Context, mgr *session.Manager, line string) {
	parts := strings.Fields(line)
	if len(parts) < 4 {
		fmt.Println("usage: /apply <name> <type> <amount> [email]")
		return
	}

	in := loan.FormInput{
		FullName: parts[1],
		LoanType: parts[2],
		Amount:   parts[3],
	}
	if len(parts) > 4 {
		in.Email = parts[4]
	}

	app, err := mgr.SubmitForm(ctx, in)
	if err != nil {
		fmt.Printf("! %v\n", err)
		return
	}
	fmt.Printf("Submitted %s: %s for %s (%s)\n",
		app.ID, app.Type, loan.DisplayAmount(app.AmountMinor, app.Currency), app.Status)
}

// printQuote handles "/emi <type> <amount> <months>", e.g. "/emi home 2500000 240".
func printQuote(line string) {
	parts := strings.Fields(line)
	if len(parts) != 4 {
		fmt.Println("usage: /emi <type> <amount> <months>")
		return
	}

	amount, err := loan.ParseINR(parts[2])
	if err != nil {
		fmt.Printf("! invalid amount %q\n", parts[2])
		return
	}
	months, err := strconv.Atoi(parts[3])
	if err != nil {
		fmt.Printf("! invalid tenure %q\n", parts[3])
		return
	}

	quote, err := loan.QuoteForType(parts[1], amount, months)
	if err != nil {
		fmt.Printf("! %v\n", err)
		return
	}

	fmt.Printf("%s at %.2f%% over %d months\n", quote.LoanType, quote.RatePercent, quote.TenureMonths)
	fmt.Printf("  EMI:            %s/month\n", loan.DisplayAmount(quote.EMI, "INR"))
	fmt.Printf("  Total interest: %s\n", loan.DisplayAmount(quote.TotalInterest, "INR"))
	fmt.Printf("  Total payable:  %s\n", loan.DisplayAmount(quote.TotalPayable, "INR"))
}

func printApplications(ctx context.Context, mgr *session.Manager) {
	apps := mgr.Applications(ctx)
	if len(apps) == 0 {
		fmt.Println("No applications found")
		return
	}
	for _, app := range apps {
		band, _ := loan.BandForStatus(app.Status)
		fmt.Printf("%s  %-20s %-15s %12s  %s (%d%%)\n",
			app.ID, app.Name, app.Type,
			loan.DisplayAmount(app.AmountMinor, app.Currency),
			band.Label, app.Progress)
	}
}
