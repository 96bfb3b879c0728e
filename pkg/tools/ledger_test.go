package tools

import (
	"context"
	"testing"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedgerTool(t *testing.T, records []ledger.Transaction) *LedgerAnalysisTool {
	t.Helper()
	return NewLedgerAnalysisTool(ledger.NewTable(records))
}

func execLedger(t *testing.T, tool *LedgerAnalysisTool, query string) string {
	t.Helper()
	result, err := tool.Execute(context.Background(), query)
	require.NoError(t, err)
	require.True(t, result.Success)
	return result.Content
}

func TestLedgerTool_ThresholdFilter(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Employee: "Michael Scott", Amount: 100, Description: "Lunch"},
		{ID: "TX-002", Employee: "Dwight Schrute", Amount: 600, Description: "Beet seeds"},
		{ID: "TX-003", Employee: "Kevin Malone", Amount: 750, Description: "Chili supplies"},
	})

	out := execLedger(t, tool, "transações acima de $500")

	assert.Contains(t, out, "Found 2 transactions above $500")
	assert.Contains(t, out, "TX-002")
	assert.Contains(t, out, "TX-003")
	assert.NotContains(t, out, "TX-001")
}

func TestLedgerTool_ThresholdFilter_StrictlyGreater(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Employee: "Jim Halpert", Amount: 500, Description: "Pranks"},
	})

	out := execLedger(t, tool, "gastos acima de $500")
	assert.Contains(t, out, "No transactions found above $500")
}

func TestLedgerTool_ThresholdFilter_TruncatesAtTwenty(t *testing.T) {
	var records []ledger.Transaction
	for i := 0; i < 25; i++ {
		records = append(records, ledger.Transaction{
			ID: "TX", Employee: "Creed Bratton", Amount: 1000, Description: "Misc",
		})
	}
	tool := newTestLedgerTool(t, records)

	out := execLedger(t, tool, "transações acima de $500")
	assert.Contains(t, out, "Found 25 transactions")
	assert.Contains(t, out, "... and 5 more transactions.")
}

func TestLedgerTool_ThresholdFilter_NoAmount(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Amount: 100},
	})

	out := execLedger(t, tool, "transações acima do limite")
	assert.Contains(t, out, "Error analyzing transactions")
	assert.Contains(t, out, "Query received: transações acima do limite")
}

func TestLedgerTool_EmployeeAggregation(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Date: "2024-01-02", Employee: "Michael Scott", Amount: 50, Description: "Lunch"},
		{ID: "TX-002", Date: "2024-01-05", Employee: "Michael Scott", Amount: 60, Description: "Magic kit"},
		{ID: "TX-003", Date: "2024-01-09", Employee: "Michael Scott", Amount: 900, Description: "Party planning"},
		{ID: "TX-004", Date: "2024-01-10", Employee: "Dwight Schrute", Amount: 75, Description: "Beets"},
	})

	out := execLedger(t, tool, "quais foram os gastos do Michael?")

	assert.Contains(t, out, "Transaction analysis for Michael Scott")
	assert.Contains(t, out, "Total transactions: 3")
	assert.Contains(t, out, "Total amount: $1010.00")
	assert.Contains(t, out, "Average amount: $336.67")
	assert.Contains(t, out, "Largest transaction: $900.00 - Party planning")
	assert.NotContains(t, out, "Beets")
}

func TestLedgerTool_EmployeeAggregation_NoRows(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Employee: "Dwight Schrute", Amount: 75},
	})

	out := execLedger(t, tool, "gastos da Pam")
	assert.Contains(t, out, "No transactions found for Pam Beesly.")
}

func TestLedgerTool_CategoryBreakdown(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Employee: "Angela Martin", Amount: 100, Category: "Viagem"},
		{ID: "TX-002", Employee: "Angela Martin", Amount: 200, Category: "Viagem"},
		{ID: "TX-003", Employee: "Oscar Martinez", Amount: 40, Category: "Alimentação"},
	})

	out := execLedger(t, tool, "resumo por categoria")

	assert.Contains(t, out, "Summary by category:")
	assert.Contains(t, out, "- Alimentação:")
	assert.Contains(t, out, "- Viagem:")
	assert.Contains(t, out, "Total: $300.00")
	assert.Contains(t, out, "Count: 2 transactions")
	assert.Contains(t, out, "Average: $150.00")
}

func TestLedgerTool_ExactValueLookup(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Date: "2024-02-01", Employee: "Stanley Hudson", Amount: 499, Description: "Crossword books", Category: "Escritório"},
		{ID: "TX-002", Date: "2024-02-02", Employee: "Phyllis Vance", Amount: 500, Description: "Client dinner", Category: "Alimentação"},
		{ID: "TX-003", Date: "2024-02-03", Employee: "Andy Bernard", Amount: 501, Description: "Banjo strings", Category: "Outros"},
	})

	out := execLedger(t, tool, "transação de valor de exatamente $500")
	assert.Contains(t, out, "TX-002")
	assert.NotContains(t, out, "TX-001")
	assert.NotContains(t, out, "TX-003")
}

func TestLedgerTool_ExactValueLookup_ToleranceFallback(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Amount: 499, Employee: "Stanley Hudson"},
		{ID: "TX-002", Amount: 500, Employee: "Phyllis Vance"},
		{ID: "TX-003", Amount: 501, Employee: "Andy Bernard"},
	})

	// 502 has no exact row; 501 is the only amount within ±1.
	out := execLedger(t, tool, "transação de valor de exatamente $502")
	assert.Contains(t, out, "TX-003")
	assert.NotContains(t, out, "TX-001")
	assert.NotContains(t, out, "TX-002")
}

func TestLedgerTool_ExactValueLookup_NothingInBand(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Amount: 100, Employee: "Kelly Kapoor"},
	})

	out := execLedger(t, tool, "valor de exatamente $900")
	assert.Contains(t, out, "No transaction found with amount $900.")
}

func TestLedgerTool_DefaultSummary(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Employee: "Meredith Palmer", Amount: 120, Description: "Supplier outing"},
		{ID: "TX-002", Employee: "Darryl Philbin", Amount: 80, Description: "Warehouse gloves"},
	})

	out := execLedger(t, tool, "me dê uma visão geral dos dados")

	assert.Contains(t, out, "Overall transaction summary:")
	assert.Contains(t, out, "Total transactions: 2")
	assert.Contains(t, out, "Total amount: $200.00")
	assert.Contains(t, out, "Average per transaction: $100.00")
	assert.Contains(t, out, "Largest expense: $120.00 by Meredith Palmer")
	assert.Contains(t, out, "id_transacao, data, funcionario")
}

func TestLedgerTool_StrategyOrder_ThresholdBeatsEmployee(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Employee: "Michael Scott", Amount: 900, Description: "Party"},
		{ID: "TX-002", Employee: "Michael Scott", Amount: 50, Description: "Lunch"},
	})

	// Mentions an employee but the threshold keyword classifies first.
	out := execLedger(t, tool, "transações do Michael acima de $500")
	assert.Contains(t, out, "Found 1 transactions above $500")
	assert.NotContains(t, out, "Transaction analysis for")
}

func TestLedgerTool_FirstAmountWins(t *testing.T) {
	tool := newTestLedgerTool(t, []ledger.Transaction{
		{ID: "TX-001", Amount: 300},
		{ID: "TX-002", Amount: 800},
	})

	// Two amounts in the query; the first literal is the threshold.
	out := execLedger(t, tool, "acima de $500 ou talvez $200")
	assert.Contains(t, out, "above $500")
	assert.Contains(t, out, "Found 1 transactions")
}
