package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rumor-ml/commons.systems/cardparse/internal/config"
	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
	"github.com/rumor-ml/commons.systems/cardparse/internal/extract"
	"github.com/rumor-ml/commons.systems/cardparse/internal/logger"
	"github.com/rumor-ml/commons.systems/cardparse/internal/output"
	"github.com/rumor-ml/commons.systems/cardparse/internal/parse"
	"github.com/rumor-ml/commons.systems/cardparse/internal/pdftext"
	"github.com/rumor-ml/commons.systems/cardparse/internal/rules"
	"github.com/rumor-ml/commons.systems/cardparse/internal/scanner"
	"github.com/rumor-ml/commons.systems/cardparse/internal/server"
	"github.com/rumor-ml/commons.systems/cardparse/internal/store"
	"github.com/rumor-ml/commons.systems/cardparse/internal/ui"
)

const version = "0.1.0"

// Exit codes: 0 success, 1 document failure, 2 usage error.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var (
	versionFlag = flag.Bool("version", false, "Show version")

	inputDir = flag.String("input", "", "Directory of statements to parse in batch")
	verbose  = flag.Bool("verbose", false, "Show detailed parsing logs")

	outputFile = flag.String("output", "", "Output JSON file (default: stdout)")
	rulesFile  = flag.String("rules", "", "Category taxonomy YAML overriding the embedded one")

	minConfidence   = flag.Int("min-confidence", config.DefaultMinConfidence, "Dialect score required to use a bank-specific extractor")
	maxTransactions = flag.Int("max-transactions", config.DefaultMaxTransactions, "Maximum transactions extracted per document")
	ledgerWindow    = flag.Int("ledger-window", config.DefaultLedgerWindow, "Bytes scanned after a transaction ledger marker")

	serve  = flag.Bool("serve", false, "Run the API server instead of parsing")
	listen = flag.String("listen", "", "API server bind address (default from config)")
	dbPath = flag.String("db", "", "Sqlite database path for the API server (default from config)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `cardparse - Credit card statement parser

Usage:
  cardparse [flags] <statement.pdf|statement.txt>
  cardparse [flags] -input <dir>
  cardparse [flags] -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, `
Examples:
  # Parse one statement to stdout
  cardparse statement.pdf

  # Parse a directory of statements to a file
  cardparse -input ~/statements -output records.json

  # Run the API server
  cardparse -serve -listen :8080

`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("cardparse version %s\n", version)
		os.Exit(exitOK)
	}

	logger.Init(*verbose)

	if !*serve && *inputDir == "" && flag.NArg() != 1 {
		usageError("expected one statement file, -input, or -serve")
	}
	if *minConfidence <= 0 || *maxTransactions <= 0 || *ledgerWindow <= 0 {
		usageError("-min-confidence, -max-transactions, and -ledger-window must be positive")
	}

	if err := run(); err != nil {
		printError(err.Error())
		os.Exit(exitError)
	}
}

// printError emits the JSON error envelope on stdout, mirroring the API's
// error shape so scripted callers parse one format everywhere.
func printError(msg string) {
	_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"error": msg})
}

func usageError(msg string) {
	printError(msg)
	flag.Usage()
	os.Exit(exitUsage)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)

	dispatcher, err := newDispatcher(cfg)
	if err != nil {
		return err
	}

	switch {
	case *serve:
		return runServer(dispatcher, cfg)
	case *inputDir != "":
		return runBatch(dispatcher, cfg)
	default:
		return runFile(dispatcher, flag.Arg(0))
	}
}

// applyFlagOverrides lets explicitly passed flags win over environment
// configuration; unset flags leave the loaded values alone.
func applyFlagOverrides(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-confidence":
			cfg.MinConfidence = *minConfidence
		case "max-transactions":
			cfg.MaxTransactions = *maxTransactions
		case "ledger-window":
			cfg.LedgerWindow = *ledgerWindow
		case "rules":
			cfg.RulesPath = *rulesFile
		case "listen":
			cfg.Listen = *listen
		case "db":
			cfg.DBPath = *dbPath
		}
	})
}

func newDispatcher(cfg *config.Config) (*parse.Dispatcher, error) {
	var engine *rules.Engine
	if cfg.RulesPath != "" {
		loaded, err := rules.LoadFromFile(cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules file: %w", err)
		}
		engine = loaded
	}

	return parse.NewDispatcher(parse.Options{
		MinConfidence: cfg.MinConfidence,
		Extract: extract.Options{
			MaxTransactions: cfg.MaxTransactions,
			LedgerWindow:    cfg.LedgerWindow,
		},
		Rules:  engine,
		Logger: logger.Default(),
	})
}

// documentText loads one statement document as text. PDFs go through the
// native text-layer extractor; anything else is read verbatim.
func documentText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdftext.Extract(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func runFile(dispatcher *parse.Dispatcher, path string) error {
	text, err := documentText(path)
	if err != nil {
		return err
	}

	rec, err := dispatcher.Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Parsed %s: bank=%s confidence=%d transactions=%d\n",
			path, rec.BankDetected, rec.Confidence, len(rec.Transactions))
	}

	return output.WriteRecordToFile(rec, *outputFile)
}

func runBatch(dispatcher *parse.Dispatcher, cfg *config.Config) error {
	if !*verbose {
		ui.Header("Parsing Credit Card Statements")
		if cfg.RulesPath != "" {
			ui.Info(fmt.Sprintf("Using category taxonomy from %s", cfg.RulesPath))
		}
		ui.Step(1, 2, "Scanning directory")
	}

	files, err := scanner.New(*inputDir).Scan()
	if err != nil {
		return fmt.Errorf("failed to scan directory %s: %w", *inputDir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no statement files found in %s (supported extensions: .pdf, .txt)", *inputDir)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Found %d statement files\n", len(files))
	} else {
		ui.Success(fmt.Sprintf("Found %d statement files", len(files)))
		ui.Step(2, 2, "Parsing statements")
	}

	records := make([]*domain.StatementRecord, 0, len(files))
	failures := 0
	for i, path := range files {
		if *verbose {
			fmt.Fprintf(os.Stderr, "  Parsing %s\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "\r  Progress: %d/%d files...", i+1, len(files))
		}

		text, err := documentText(path)
		if err != nil {
			failures++
			ui.Warning(fmt.Sprintf("skipping %s: %v", path, err))
			continue
		}
		rec, err := dispatcher.Parse(text)
		if err != nil {
			failures++
			ui.Warning(fmt.Sprintf("skipping %s: %v", path, err))
			continue
		}
		records = append(records, rec)
	}
	if !*verbose {
		fmt.Fprintf(os.Stderr, "\r  Progress: %d/%d files - Complete!\n", len(files), len(files))
	}

	if err := writeBatch(records); err != nil {
		return err
	}
	if !*verbose && *outputFile != "" {
		ui.BlueText(fmt.Sprintf("Records written to %s", *outputFile))
	}

	if failures > 0 {
		if !*verbose {
			ui.Error(fmt.Sprintf("%d of %d documents failed to parse", failures, len(files)))
			ui.YellowText("Run with -verbose to see per-file parsing logs")
		}
		return fmt.Errorf("%d of %d documents failed to parse", failures, len(files))
	}
	if !*verbose {
		ui.Success(fmt.Sprintf("Parsed %d statements", len(records)))
	}
	return nil
}

func writeBatch(records []*domain.StatementRecord) (err error) {
	if *outputFile == "" {
		return output.WriteRecords(records, os.Stdout)
	}

	f, err := os.Create(*outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", *outputFile, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %s: %w", *outputFile, closeErr)
		}
	}()

	return output.WriteRecords(records, f)
}

func runServer(dispatcher *parse.Dispatcher, cfg *config.Config) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	srv := server.New(dispatcher, st, logger.Default())

	logger.Default().Info("starting API server", "listen", cfg.Listen, "db", cfg.DBPath)
	if err := http.ListenAndServe(cfg.Listen, srv.Handler()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
