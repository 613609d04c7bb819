// Package pipeline orchestrates one payables run: load the open and paid
// datasets, filter to open invoices on the target account, drop the already
// paid ones, normalize dates and balances, select what is due by the cutoff
// and hand the results to the report writer.
package pipeline

import (
	"context"
	"fmt"

	"github.com/mgoncalves/payables/internal/dataset"
	"github.com/mgoncalves/payables/internal/diag"
	"github.com/mgoncalves/payables/internal/logger"
)

// Params is the plain-value invocation surface of a run.
type Params struct {
	TypeColumn     string
	ExcludeValue   string
	AccountColumn  string
	AccountCode    string
	DocumentColumn string
	DateColumns    []string
	BalanceColumn  string
	DueDateColumn  string

	// CutoffDate is locale text, day-first, e.g. "30/07/2025".
	CutoffDate string
}

// WithDefaults fills empty fields from the package defaults. CutoffDate has
// no default; the caller must always choose it.
func (p Params) WithDefaults() Params {
	if p.TypeColumn == "" {
		p.TypeColumn = DefaultTypeColumn
	}
	if p.ExcludeValue == "" {
		p.ExcludeValue = DefaultExcludeValue
	}
	if p.AccountColumn == "" {
		p.AccountColumn = DefaultAccountColumn
	}
	if p.AccountCode == "" {
		p.AccountCode = DefaultAccountCode
	}
	if p.DocumentColumn == "" {
		p.DocumentColumn = DefaultDocumentColumn
	}
	if len(p.DateColumns) == 0 {
		p.DateColumns = DefaultDateColumns()
	}
	if p.BalanceColumn == "" {
		p.BalanceColumn = DefaultBalanceColumn
	}
	if p.DueDateColumn == "" {
		p.DueDateColumn = DefaultDueDateColumn
	}
	return p
}

// State holds the shared state across all pipeline steps.
type State struct {
	RunID string

	Open     *dataset.Dataset
	Paid     *dataset.Dataset
	Filtered *dataset.Dataset
	Unpaid   *dataset.Dataset
	Due      *dataset.Dataset
	Ledger   *dataset.Dataset
}

// Step represents a single step in the reconciliation pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially. The first failure
// stops the run; its cause is wrapped with the step position and surfaced
// unmodified to the caller.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewReconciliationPipeline creates the standard 8-step payables pipeline.
func NewReconciliationPipeline(loader Loader, writer ReportWriter, params Params, sink diag.Sink) *Pipeline {
	params = params.WithDefaults()
	return NewPipeline(
		&LoadStep{Loader: loader},
		&FilterStep{Params: params, Sink: sink},
		&ReconcileStep{Params: params, Sink: sink},
		&CoerceDatesStep{Params: params, Sink: sink},
		&CoerceBalanceStep{Params: params, Sink: sink},
		&SelectDueStep{Params: params, Sink: sink},
		&MergeLedgerStep{},
		&WriteReportsStep{Writer: writer},
	)
}

// Run executes a full payables run with run-log bookkeeping: the run is
// registered before the first step, marked failed if any step fails, and
// marked succeeded with row counts otherwise.
func Run(ctx context.Context, loader Loader, writer ReportWriter, runlog RunLog, params Params, sink diag.Sink) (*State, error) {
	log := logger.FromContext(ctx)
	params = params.WithDefaults()

	runID, err := runlog.StartRun(ctx, params.CutoffDate, params.AccountCode)
	if err != nil {
		return nil, fmt.Errorf("pipeline: starting run: %w", err)
	}
	log.Info().
		Str("run_id", runID).
		Str("cutoff", params.CutoffDate).
		Str("account", params.AccountCode).
		Msg("starting payables run")

	state := &State{RunID: runID}
	if err := NewReconciliationPipeline(loader, writer, params, sink).Execute(ctx, state); err != nil {
		runlog.MarkRunFailed(ctx, runID, err)
		return nil, err
	}

	if err := runlog.MarkRunSucceeded(ctx, runID, state.Open.NumRows(), state.Paid.NumRows(), state.Due.NumRows()); err != nil {
		return nil, err
	}

	log.Info().
		Str("run_id", runID).
		Int("due_invoices", state.Due.NumRows()).
		Msg("payables run completed")
	return state, nil
}
