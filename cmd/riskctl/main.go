// Command riskctl generates synthetic tables, trains and persists models,
// scores CSV batches and prints compliance insights from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/bootstrap"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/config"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/synthetic"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "riskctl: %v\n", err)
		os.Exit(1)
	}
}

// command is one riskctl subcommand.
type command struct {
	summary string
	run     func(ctx context.Context, app *app, args []string) error
}

var commands = map[string]command{
	"generate":     {"write synthetic transactions.csv and loans.csv", runGenerate},
	"train-fraud":  {"fit and save the fraud anomaly model from a transaction CSV", runTrainFraud},
	"train-loan":   {"fit, evaluate and save the loan default model from a labeled CSV", runTrainLoan},
	"score-fraud":  {"score a transaction CSV and write it with fraud_risk appended", runScoreFraud},
	"score-loans":  {"score a loan CSV and write it with default_risk appended", runScoreLoans},
	"summarize":    {"extract action items from regulation text", runSummarize},
	"overview":     {"print the executive KPI overview as JSON", runOverview},
	"alerts":       {"consume flagged transaction events from kafka", runAlerts},
	"remote-score": {"score one transaction against a running riskd over gRPC", runRemoteScore},
	"dev-certs":    {"write a throwaway CA and server certificate for local TLS", runDevCerts},
	"dev-keys":     {"write an RSA key pair for signing bearer tokens", runDevKeys},
	"token":        {"issue a bearer token with the configured AUTH_* key", runToken},
}

// app carries the process-wide dependencies every subcommand shares.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		return flag.ErrHelp
	}

	cmd, ok := commands[args[0]]
	if !ok {
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Output: stderr,
		Level:  cfg.LogLevel,
		Format: "text",
	})

	a := &app{cfg: cfg, logger: logger, stdin: stdin, stdout: stdout, stderr: stderr}
	return cmd.run(ctx, a, args[1:])
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: riskctl <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-13s %s\n", name, commands[name].summary)
	}
}

// flags returns a flag set for a subcommand that reports errors instead of exiting.
func (a *app) flags(name, argsUsage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "usage: riskctl %s [flags] %s\n", name, argsUsage)
		fs.PrintDefaults()
	}
	return fs
}

// open wires the configured artifact store and publisher. The CLI records no
// metrics. The returned function releases the adapters.
func (a *app) open(ctx context.Context, opts ...synthetic.Option) (bootstrap.UseCases, func(), error) {
	res, err := bootstrap.Open(ctx, a.cfg, a.logger, nil)
	if err != nil {
		return bootstrap.UseCases{}, nil, err
	}
	release := func() {
		if err := res.Close(); err != nil {
			a.logger.Error("failed to release infrastructure", "error", err)
		}
	}
	return res.UseCases(synthetic.NewGenerator(opts...), a.logger), release, nil
}
