package pipeline

import (
	"context"

	"github.com/mgoncalves/payables/internal/diag"
	"github.com/mgoncalves/payables/internal/recon"
)

// Step 1: LoadStep loads the open and paid datasets from the loader.
type LoadStep struct {
	Loader Loader
}

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	open, err := s.Loader.LoadOpen(ctx)
	if err != nil {
		return err
	}
	paid, err := s.Loader.LoadPaid(ctx)
	if err != nil {
		return err
	}
	state.Open = open
	state.Paid = paid
	return nil
}

// Step 2: FilterStep narrows the open dataset to invoices open for payment
// on the target account.
type FilterStep struct {
	Params Params
	Sink   diag.Sink
}

func (s *FilterStep) Execute(ctx context.Context, state *State) error {
	filtered, err := recon.FilterOpen(
		state.Open,
		s.Params.TypeColumn, s.Params.ExcludeValue,
		s.Params.AccountColumn, s.Params.AccountCode,
		s.Sink,
	)
	if err != nil {
		return err
	}
	state.Filtered = filtered
	return nil
}

// Step 3: ReconcileStep removes invoices already present in the paid set.
type ReconcileStep struct {
	Params Params
	Sink   diag.Sink
}

func (s *ReconcileStep) Execute(ctx context.Context, state *State) error {
	unpaid, err := recon.Reconcile(state.Filtered, state.Paid, s.Params.DocumentColumn, s.Sink)
	if err != nil {
		return err
	}
	state.Unpaid = unpaid
	return nil
}

// Step 4: CoerceDatesStep parses the locale date columns.
type CoerceDatesStep struct {
	Params Params
	Sink   diag.Sink
}

func (s *CoerceDatesStep) Execute(ctx context.Context, state *State) error {
	coerced, err := recon.CoerceDates(state.Unpaid, s.Params.DateColumns, s.Sink)
	if err != nil {
		return err
	}
	state.Unpaid = coerced
	return nil
}

// Step 5: CoerceBalanceStep parses the locale balance column.
type CoerceBalanceStep struct {
	Params Params
	Sink   diag.Sink
}

func (s *CoerceBalanceStep) Execute(ctx context.Context, state *State) error {
	coerced, err := recon.CoerceNumber(state.Unpaid, s.Params.BalanceColumn, s.Sink)
	if err != nil {
		return err
	}
	state.Unpaid = coerced
	return nil
}

// Step 6: SelectDueStep keeps invoices due on or before the cutoff, ordered
// by due date.
type SelectDueStep struct {
	Params Params
	Sink   diag.Sink
}

func (s *SelectDueStep) Execute(ctx context.Context, state *State) error {
	due, err := recon.SelectDue(state.Unpaid, s.Params.DueDateColumn, s.Params.CutoffDate, s.Sink)
	if err != nil {
		return err
	}
	state.Due = due
	return nil
}

// Step 7: MergeLedgerStep combines the paid set with the newly due set into
// the updated ledger.
type MergeLedgerStep struct{}

func (s *MergeLedgerStep) Execute(ctx context.Context, state *State) error {
	state.Ledger = recon.Merge(state.Paid, state.Due)
	return nil
}

// Step 8: WriteReportsStep hands the outputs to the report writer.
type WriteReportsStep struct {
	Writer ReportWriter
}

func (s *WriteReportsStep) Execute(ctx context.Context, state *State) error {
	if err := s.Writer.WriteDue(ctx, state.Due); err != nil {
		return err
	}
	return s.Writer.WriteLedger(ctx, state.Ledger)
}
