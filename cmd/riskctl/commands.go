package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/usecase"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/event"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/bootstrap"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/messaging"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/synthetic"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/tabular"
	grpcpresentation "github.com/jenishsoftx6/ai-compliance-risk-insights/internal/presentation/grpc"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/auth"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/kafka"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/tlsutil"
)

const (
	transactionsFile = "transactions.csv"
	loansFile        = "loans.csv"
	alertsFile       = "flagged_alerts.csv"
)

func runGenerate(ctx context.Context, a *app, args []string) error {
	fs := a.flags("generate", "")
	rows := fs.Int("rows", usecase.DefaultRows, "rows per table")
	txSeed := fs.Uint64("tx-seed", usecase.DefaultTransactionSeed, "transaction seed")
	loanSeed := fs.Uint64("loan-seed", usecase.DefaultLoanSeed, "loan seed")
	intercept := fs.Float64("loan-intercept", synthetic.DefaultLoanProfile().Intercept, "intercept of the default-label logit")
	out := fs.String("out", "data", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rows <= 0 {
		return fmt.Errorf("-rows must be positive, got %d", *rows)
	}

	uc, release, err := a.open(ctx, synthetic.WithLoanProfile(synthetic.LoanProfile{Intercept: *intercept}))
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.GenerateDatasets.Execute(ctx, dto.GenerateDatasetsRequest{
		Rows:            *rows,
		TransactionSeed: *txSeed,
		LoanSeed:        *loanSeed,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	txPath := filepath.Join(*out, transactionsFile)
	if err := writeFile(txPath, func(w io.Writer) error { return tabular.WriteTransactions(w, resp.Transactions) }); err != nil {
		return err
	}
	loanPath := filepath.Join(*out, loansFile)
	if err := writeFile(loanPath, func(w io.Writer) error { return tabular.WriteLoans(w, resp.Loans) }); err != nil {
		return err
	}

	var defaults int
	for _, l := range resp.Loans.Applicants {
		if l.Default {
			defaults++
		}
	}
	fmt.Fprintf(a.stdout, "Wrote %d transactions (%d planted anomalies) to %s\n", len(resp.Transactions), len(resp.Planted), txPath)
	fmt.Fprintf(a.stdout, "Wrote %d loans (%d defaults) to %s\n", resp.Loans.Len(), defaults, loanPath)
	return nil
}

func runTrainFraud(ctx context.Context, a *app, args []string) error {
	fs := a.flags("train-fraud", "<transactions.csv>")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singleArg(fs.Args(), filepath.Join("data", transactionsFile))
	if err != nil {
		return err
	}

	txns, err := readWith(a, path, tabular.ReadTransactions)
	if err != nil {
		return err
	}

	uc, release, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.TrainFraudModel.Execute(ctx, dto.TrainFraudModelRequest{Transactions: txns})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Outliers: %.0f/%d | Saved: %s artifact %s\n",
		resp.Metrics[usecase.MetricOutliers], resp.Rows, resp.Kind, resp.ArtifactID)
	return nil
}

func runTrainLoan(ctx context.Context, a *app, args []string) error {
	fs := a.flags("train-loan", "<loans.csv>")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singleArg(fs.Args(), filepath.Join("data", loansFile))
	if err != nil {
		return err
	}

	book, err := readWith(a, path, tabular.ReadLoans)
	if err != nil {
		return err
	}

	uc, release, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.TrainLoanModel.Execute(ctx, dto.TrainLoanModelRequest{Book: book})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "AUC: %.3f | Saved: %s artifact %s\n", resp.Metrics[usecase.MetricAUC], resp.Kind, resp.ArtifactID)
	printInfluence(a.stdout, resp.Influence)
	return nil
}

func runScoreFraud(ctx context.Context, a *app, args []string) error {
	fs := a.flags("score-fraud", "<transactions.csv | ->")
	method := fs.String("method", string(service.MethodAnomaly), "scoring method: anomaly or heuristic")
	stored := fs.Bool("stored", false, "score with the saved anomaly model instead of fitting on the batch")
	out := fs.String("out", "scored_transactions.csv", "output CSV, - for stdout")
	alerts := fs.String("alerts", "", "also write the top alerts to this CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := service.ParseScoringMethod(*method)
	if err != nil {
		return err
	}
	path, err := singleArg(fs.Args(), filepath.Join("data", transactionsFile))
	if err != nil {
		return err
	}

	txns, err := readWith(a, path, tabular.ReadTransactions)
	if err != nil {
		return err
	}

	uc, release, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.ScoreFraudBatch.Execute(ctx, dto.ScoreFraudBatchRequest{
		Method:         m,
		Transactions:   txns,
		UseStoredModel: *stored,
	})
	if err != nil {
		return err
	}

	if err := a.writeOutput(*out, func(w io.Writer) error { return tabular.WriteScoredTransactions(w, resp.Scored) }); err != nil {
		return err
	}
	if *alerts != "" {
		top := service.BuildOverview(resp.Scored, nil, nil).TopAlerts
		if err := writeFile(*alerts, func(w io.Writer) error { return tabular.WriteScoredTransactions(w, top) }); err != nil {
			return err
		}
	}

	if *out != "-" {
		fmt.Fprintf(a.stdout, "Scored %d transactions with %s | flagged: %d | batch: %s | wrote %s\n",
			len(resp.Scored), resp.Method, resp.Flagged, resp.BatchID, *out)
	}
	return nil
}

func runScoreLoans(ctx context.Context, a *app, args []string) error {
	fs := a.flags("score-loans", "<loans.csv | ->")
	stored := fs.Bool("stored", false, "score a labeled book with the saved model instead of evaluating a fresh fit")
	out := fs.String("out", "scored_loans.csv", "output CSV, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := singleArg(fs.Args(), filepath.Join("data", loansFile))
	if err != nil {
		return err
	}

	book, err := readWith(a, path, tabular.ReadLoans)
	if err != nil {
		return err
	}

	uc, release, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer release()

	resp, err := uc.ScoreLoanBook.Execute(ctx, dto.ScoreLoanBookRequest{Book: book, UseStoredModel: *stored})
	if err != nil {
		return err
	}

	if err := a.writeOutput(*out, func(w io.Writer) error { return tabular.WriteScoredLoans(w, resp.Scored, resp.Labeled) }); err != nil {
		return err
	}
	if *out == "-" {
		return nil
	}

	fmt.Fprintf(a.stdout, "Scored %d loans | high risk: %d | batch: %s | wrote %s\n",
		len(resp.Scored), resp.HighRisk, resp.BatchID, *out)
	if resp.AUC != nil {
		fmt.Fprintf(a.stdout, "AUC: %.3f\n", *resp.AUC)
	}
	printInfluence(a.stdout, resp.Influence)
	return nil
}

func runSummarize(ctx context.Context, a *app, args []string) error {
	fs := a.flags("summarize", "[file | -]")
	maxItems := fs.Int("max", service.DefaultSummaryItems, "maximum number of action items")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var text string
	if fs.NArg() > 0 {
		raw, err := readWith(a, fs.Arg(0), io.ReadAll)
		if err != nil {
			return err
		}
		text = string(raw)
	}

	resp, err := usecase.NewSummarizeRegulation().Execute(ctx, dto.SummarizeRegulationRequest{Text: text, MaxItems: *maxItems})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, strings.Join(resp.Bullets, "\n"))
	return nil
}

func runOverview(ctx context.Context, a *app, args []string) error {
	fs := a.flags("overview", "")
	rows := fs.Int("rows", usecase.DefaultRows, "rows to generate for missing tables")
	txPath := fs.String("transactions", "", "transaction CSV, generated when empty")
	loanPath := fs.String("loans", "", "loan CSV, generated when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := dto.BuildOverviewRequest{Rows: *rows}
	if *txPath != "" {
		txns, err := readWith(a, *txPath, tabular.ReadTransactions)
		if err != nil {
			return err
		}
		req.Transactions = txns
	}
	if *loanPath != "" {
		book, err := readWith(a, *loanPath, tabular.ReadLoans)
		if err != nil {
			return err
		}
		req.Loans = &book
	}

	uc, release, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer release()

	ov, err := uc.BuildOverview.Execute(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(ov)
}

func runAlerts(ctx context.Context, a *app, args []string) error {
	fs := a.flags("alerts", "")
	maxAlerts := fs.Int("max", 0, "stop after this many alerts, 0 to run until interrupted")
	all := fs.Bool("all", false, "print every event type, not only flagged transactions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	types := []string{event.EventTypeTransactionFlagged}
	if *all {
		types = nil
	}

	var (
		mu   sync.Mutex
		seen int
	)
	done := func() {
		mu.Lock()
		defer mu.Unlock()
		seen++
		if *maxAlerts > 0 && seen >= *maxAlerts {
			cancel()
		}
	}

	consumer, err := kafka.NewConsumer(a.cfg.Kafka(), a.cfg.AlertTopic, messaging.NewAlertPrinter(a.stdout, types, done), a.logger)
	if err != nil {
		return fmt.Errorf("failed to create alert consumer: %w", err)
	}
	defer consumer.Close()

	return consumer.Start(ctx)
}

func runRemoteScore(ctx context.Context, a *app, args []string) error {
	fs := a.flags("remote-score", "")
	addr := fs.String("addr", "localhost:"+a.cfg.GRPCPort, "riskd gRPC address")
	caFile := fs.String("ca", "", "CA certificate; plaintext when empty")
	serverName := fs.String("server-name", "", "TLS server name override")
	token := fs.String("token", os.Getenv("RISK_TOKEN"), "bearer token, defaults to $RISK_TOKEN")
	timeout := fs.Duration("timeout", 5*time.Second, "request timeout")
	amount := fs.Float64("amount", 0, "transaction amount")
	merchant := fs.Int("merchant", 0, "merchant id")
	device := fs.Float64("device", 0, "device score in [0, 1]")
	distance := fs.Float64("distance", 0, "distance from last transaction in km")
	foreign := fs.Bool("foreign", false, "foreign transaction")
	hour := fs.Int("hour", 12, "hour of day")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var creds credentials.TransportCredentials
	if *caFile != "" {
		c, err := tlsutil.ClientTLSConfig(*caFile, *serverName)
		if err != nil {
			return err
		}
		creds = c
	}
	var opts []grpclib.DialOption
	if *token != "" {
		opts = append(opts, grpcpresentation.WithBearerToken(*token, creds != nil))
	}

	client, err := grpcpresentation.NewClient(*addr, creds, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	req := &grpcpresentation.ScoreFraudRequest{
		Amount:             *amount,
		MerchantID:         int32(*merchant),
		DeviceScore:        *device,
		DistanceFromLastKm: *distance,
		Hour:               int32(*hour),
	}
	if *foreign {
		req.IsForeign = 1
	}

	resp, err := client.ScoreFraud(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to score remotely: %w", err)
	}
	return json.NewEncoder(a.stdout).Encode(resp)
}

func runDevCerts(_ context.Context, a *app, args []string) error {
	fs := a.flags("dev-certs", "")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma-separated server hosts")
	out := fs.String("out", "certs", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := tlsutil.DevCertificates(strings.Split(*hosts, ","), *out); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Wrote development certificates to %s\n", *out)
	return nil
}

func runDevKeys(_ context.Context, a *app, args []string) error {
	fs := a.flags("dev-keys", "")
	out := fs.String("out", "certs", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	priv, pub, err := auth.GenerateKeyPair()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	privPath := filepath.Join(*out, "jwt_private.pem")
	if err := os.WriteFile(privPath, priv, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	pubPath := filepath.Join(*out, "jwt_public.pem")
	if err := os.WriteFile(pubPath, pub, 0o644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}

	fmt.Fprintf(a.stdout, "Wrote %s and %s\n", privPath, pubPath)
	fmt.Fprintf(a.stdout, "Set AUTH_JWT_PRIVATE_KEY_FILE for riskctl token and AUTH_JWT_PUBLIC_KEY_FILE for riskd.\n")
	return nil
}

func runToken(_ context.Context, a *app, args []string) error {
	fs := a.flags("token", "")
	subject := fs.String("subject", "riskctl", "token subject")
	roles := fs.String("roles", auth.RoleAnalyst, "comma-separated roles")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tokens, err := bootstrap.Tokens(a.cfg)
	if err != nil {
		return err
	}
	if tokens == nil {
		return errors.New("authentication is not configured: set AUTH_JWT_SECRET or AUTH_JWT_PRIVATE_KEY_FILE")
	}

	token, err := tokens.Issue(*subject, strings.Split(*roles, ","))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, token)
	return nil
}

func singleArg(args []string, fallback string) (string, error) {
	switch len(args) {
	case 0:
		return fallback, nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected one input file, got %d", len(args))
	}
}

// readWith opens path, or stdin for "-", and decodes it with read.
func readWith[T any](a *app, path string, read func(io.Reader) (T, error)) (T, error) {
	if path == "-" {
		return read(a.stdin)
	}

	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return v, nil
}

func (a *app) writeOutput(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(a.stdout)
	}
	return writeFile(path, write)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func printInfluence(w io.Writer, influence []model.FeatureInfluence) {
	if len(influence) == 0 {
		return
	}
	fmt.Fprintln(w, "Feature influence:")
	for _, fi := range influence {
		fmt.Fprintf(w, "  %-22s coef=%+.5f influence=%.4f\n", fi.Feature, fi.Coefficient, fi.Influence)
	}
}
