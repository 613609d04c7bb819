package pipeline

// Default column names and filter values for the ERP export this pipeline
// was built against. These can be overridden per run via Params.
const (
	// DefaultTypeColumn is the document type column in the export.
	DefaultTypeColumn = "Tipo Doc"

	// DefaultExcludeValue is the document type excluded from payment runs.
	DefaultExcludeValue = "Contas a Pagar"

	// DefaultAccountColumn is the chart-of-accounts column.
	DefaultAccountColumn = "Conta"

	// DefaultAccountCode is the payables account processed by default.
	DefaultAccountCode = "2.1.01.01.001"

	// DefaultDocumentColumn is the document number column used for
	// reconciliation matching.
	DefaultDocumentColumn = "No Doc SAP"

	// DefaultDueDateColumn is the invoice due date column.
	DefaultDueDateColumn = "Dt Vencimento"

	// DefaultBalanceColumn is the open balance column.
	DefaultBalanceColumn = "Saldo"
)

// DefaultDateColumns lists the locale-text date columns coerced by default.
func DefaultDateColumns() []string {
	return []string{"Dt Vencimento", "Dt Lançamento", "Dt Documento"}
}
