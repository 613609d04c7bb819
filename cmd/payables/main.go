package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgoncalves/payables/internal/archive"
	"github.com/mgoncalves/payables/internal/bq"
	"github.com/mgoncalves/payables/internal/csvio"
	"github.com/mgoncalves/payables/internal/diag"
	"github.com/mgoncalves/payables/internal/ledger"
	"github.com/mgoncalves/payables/internal/logger"
	"github.com/mgoncalves/payables/internal/pipeline"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runReconcile(log)
	case "archive":
		runArchive(log)
	case "sync":
		runSync(log)
	case "runs":
		runListRuns(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Payables CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  payables <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  run       Reconcile an ERP export against the paid ledger")
	fmt.Println("  archive   Upload a report or export to GCS")
	fmt.Println("  sync      Push a paid ledger CSV to MongoDB")
	fmt.Println("  runs      List recent reconciliation runs")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'payables <command> -h' for more information on a command.")
}

func runReconcile(log zerolog.Logger) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	openPath := fs.String("open", "", "Path or gs:// URI of the open items export")
	paidPath := fs.String("paid", "", "Path or gs:// URI of the paid ledger CSV")
	cutoff := fs.String("cutoff", "", "Due date cutoff, day-first (e.g. 30/07/2025)")
	account := fs.String("account", pipeline.DefaultAccountCode, "Payables account code")
	duePath := fs.String("due", "", "Output path for the due invoices report")
	ledgerPath := fs.String("ledger", "", "Output path for the updated ledger CSV")
	useBQ := fs.Bool("bq", false, "Record the run in BigQuery and push due invoices")
	fs.Parse(os.Args[2:])

	if *openPath == "" || *paidPath == "" || *cutoff == "" {
		log.Fatal().Msg("Usage: payables run -open PATH -paid PATH -cutoff DD/MM/YYYY")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("open", *openPath).
		Str("paid", *paidPath).
		Str("cutoff", *cutoff).
		Str("account", *account).
		Msg("Starting reconciliation run")

	loader := &pipeline.FileLoader{OpenPath: *openPath, PaidPath: *paidPath}
	writer := &pipeline.FileReportWriter{DuePath: *duePath, LedgerPath: *ledgerPath}
	params := pipeline.Params{AccountCode: *account, CutoffDate: *cutoff}

	var runlog pipeline.RunLog = pipeline.NopRunLog{}
	if *useBQ {
		runlog = pipeline.BigQueryRunLog{}
	}

	state, err := pipeline.Run(ctx, loader, writer, runlog, params, diag.NewLogSink(log))
	if err != nil {
		log.Fatal().Err(err).Msg("Reconciliation failed")
	}

	if *useBQ {
		cols := bq.InvoiceColumns{
			DocumentType:   pipeline.DefaultTypeColumn,
			DocumentNumber: pipeline.DefaultDocumentColumn,
			AccountCode:    pipeline.DefaultAccountColumn,
			DueDate:        pipeline.DefaultDueDateColumn,
			PostingDate:    "Dt Lançamento",
			Balance:        pipeline.DefaultBalanceColumn,
		}
		rows, err := bq.RowsFromDataset(state.Due, cols, state.RunID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to map due invoices")
		}
		if err := bq.InsertInvoices(ctx, rows); err != nil {
			log.Fatal().Err(err).Msg("Failed to push due invoices to BigQuery")
		}
	}

	fmt.Printf("Run %s: %d open, %d paid, %d due for payment.\n",
		state.RunID, state.Open.NumRows(), state.Paid.NumRows(), state.Due.NumRows())
}

func runArchive(log zerolog.Logger) {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local report or export")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: payables archive -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading file to GCS")

	if err := archive.UploadFile(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucketName, *objectName)
}

func runSync(log zerolog.Logger) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	ledgerPath := fs.String("ledger", "", "Path or gs:// URI of the paid ledger CSV")
	mongoURI := fs.String("mongo-uri", os.Getenv("PAYABLES_MONGO_URI"), "MongoDB connection URI")
	fs.Parse(os.Args[2:])

	if *ledgerPath == "" {
		log.Fatal().Msg("Error: --ledger is required")
	}
	if *mongoURI == "" {
		log.Fatal().Msg("Error: --mongo-uri or PAYABLES_MONGO_URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	ds, err := csvio.ReadFile(ctx, *ledgerPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read ledger CSV")
	}

	docs, err := ledger.DocsFromDataset(ds, ledger.Columns{
		DocumentType:   pipeline.DefaultTypeColumn,
		DocumentNumber: pipeline.DefaultDocumentColumn,
		AccountCode:    pipeline.DefaultAccountColumn,
		DueDate:        pipeline.DefaultDueDateColumn,
		PostingDate:    "Dt Lançamento",
		Balance:        pipeline.DefaultBalanceColumn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to map ledger rows")
	}

	client, err := ledger.Connect(ctx, *mongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()

	repo := ledger.NewMongoRepository(ledger.NewMongoProvider(client))
	if err := repo.BulkUpsertInvoices(ctx, docs); err != nil {
		log.Fatal().Err(err).Msg("Ledger sync failed")
	}

	fmt.Printf("Synced %d ledger rows from %s.\n", len(docs), *ledgerPath)
}

func runListRuns(log zerolog.Logger) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	runs, err := bq.ListRuns(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list runs")
	}

	if len(runs) == 0 {
		fmt.Println("No reconciliation runs found.")
		return
	}

	fmt.Printf("\n=== Reconciliation Runs (%d) ===\n", len(runs))
	for i, run := range runs {
		fmt.Printf("\n%d. %s\n", i+1, run.RunID)
		fmt.Printf("   Started: %s\n", run.StartedAt.Format(time.RFC3339))
		fmt.Printf("   Status:  %s\n", run.Status)
		fmt.Printf("   Cutoff:  %s (account %s)\n", run.CutoffDate, run.AccountCode)
		if run.Status == "FAILED" && run.ErrorMessage != "" {
			fmt.Printf("   Error:   %s\n", run.ErrorMessage)
		}
		if run.DueRows.Valid {
			fmt.Printf("   Rows:    %d open, %d paid, %d due\n",
				run.OpenRows.Int64, run.PaidRows.Int64, run.DueRows.Int64)
		}
	}
	fmt.Println()
}
