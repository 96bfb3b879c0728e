package tools

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/ledger"
)

const ledgerToolName = "ledger_analysis"

const ledgerToolDescription = "Analyzes the corporate TRANSACTION LEDGER of employee spending. " +
	"Use this tool to SEARCH EXPENSES, CHECK AMOUNTS, SUM SPENDING, " +
	"FILTER by employee, category or amount, and SPOT FRAUD. " +
	"You can ask: 'transações acima de $500', 'gastos do Michael', " +
	"'resumo por categoria', 'transação de valor exatamente $X'. " +
	"The tool has access to: id_transacao, data, funcionario, cargo, " +
	"descricao, valor, categoria, departamento."

// employeeRoster maps first names to canonical full names. Lookup order is
// fixed so ambiguous queries resolve deterministically.
var employeeRoster = []string{
	"michael scott",
	"dwight schrute",
	"jim halpert",
	"pam beesly",
	"toby flenderson",
	"angela martin",
	"kevin malone",
	"oscar martinez",
	"stanley hudson",
	"phyllis vance",
	"andy bernard",
	"meredith palmer",
	"creed bratton",
	"darryl philbin",
	"ryan howard",
	"kelly kapoor",
}

// amountPattern captures the first decimal literal in a query, with or
// without a leading dollar sign. Only the first occurrence is used, so a
// query naming two amounts resolves to the first one.
var amountPattern = regexp.MustCompile(`\$?\s*(\d+(?:\.\d+)?)`)

// LedgerAnalysisTool classifies a natural-language query into one of five
// aggregation strategies and renders a textual report. Strategies are
// evaluated in a fixed order and the first match wins; the last one is an
// unconditional summary, so every query produces a report.
type LedgerAnalysisTool struct {
	table      *ledger.Table
	strategies []ledgerStrategy
}

type ledgerStrategy struct {
	name    string
	matches func(queryLower string) bool
	run     func(query, queryLower string) (string, error)
}

func NewLedgerAnalysisTool(table *ledger.Table) *LedgerAnalysisTool {
	t := &LedgerAnalysisTool{table: table}
	t.strategies = []ledgerStrategy{
		{
			name:    "threshold",
			matches: containsAny("acima", "maior", "mais de", "above", "more than", "over"),
			run:     t.runThreshold,
		},
		{
			name:    "employee",
			matches: matchesEmployee,
			run:     t.runEmployee,
		},
		{
			name:    "category",
			matches: containsAny("categoria", "tipo", "category", "type"),
			run:     t.runCategory,
		},
		{
			name:    "exact",
			matches: containsAny("exatamente", "valor de", "exactly", "value of"),
			run:     t.runExact,
		},
		{
			name:    "summary",
			matches: func(string) bool { return true },
			run:     t.runSummary,
		},
	}
	return t
}

func (t *LedgerAnalysisTool) GetInfo() ToolInfo {
	return ToolInfo{Name: ledgerToolName, Description: ledgerToolDescription}
}

func (t *LedgerAnalysisTool) GetName() string { return ledgerToolName }

func (t *LedgerAnalysisTool) GetDescription() string { return ledgerToolDescription }

// Execute never fails: any internal error becomes diagnostic text echoing
// the query, so the reasoning loop always receives an observation.
func (t *LedgerAnalysisTool) Execute(ctx context.Context, input string) (ToolResult, error) {
	query := strings.TrimSpace(input)
	queryLower := strings.ToLower(query)

	for _, strategy := range t.strategies {
		if !strategy.matches(queryLower) {
			continue
		}
		report, err := strategy.run(query, queryLower)
		if err != nil {
			return ToolResult{
				Success:  true,
				Content:  fmt.Sprintf("Error analyzing transactions: %v\nQuery received: %s", err, query),
				ToolName: ledgerToolName,
			}, nil
		}
		return ToolResult{
			Success:  true,
			Content:  report,
			ToolName: ledgerToolName,
		}, nil
	}

	// Unreachable: the summary strategy matches everything.
	report, _ := t.runSummary(query, queryLower)
	return ToolResult{Success: true, Content: report, ToolName: ledgerToolName}, nil
}

func containsAny(keywords ...string) func(string) bool {
	return func(queryLower string) bool {
		for _, kw := range keywords {
			if strings.Contains(queryLower, kw) {
				return true
			}
		}
		return false
	}
}

func matchesEmployee(queryLower string) bool {
	if strings.Contains(queryLower, "funcionario") || strings.Contains(queryLower, "funcionário") ||
		strings.Contains(queryLower, "employee") {
		return true
	}
	for _, fullName := range employeeRoster {
		if strings.Contains(queryLower, firstName(fullName)) {
			return true
		}
	}
	return false
}

func firstName(fullName string) string {
	if i := strings.IndexByte(fullName, ' '); i >= 0 {
		return fullName[:i]
	}
	return fullName
}

// extractAmount pulls the first numeric literal from the query.
func extractAmount(query string) (float64, bool) {
	m := amountPattern.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func (t *LedgerAnalysisTool) runThreshold(query, _ string) (string, error) {
	threshold, ok := extractAmount(query)
	if !ok {
		return "", fmt.Errorf("no numeric threshold found in query")
	}

	rows := t.table.FilterAmountAbove(threshold)
	if len(rows) == 0 {
		return fmt.Sprintf("No transactions found above $%v.", threshold), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d transactions above $%v:\n\n", len(rows), threshold)
	limit := len(rows)
	if limit > 20 {
		limit = 20
	}
	for _, r := range rows[:limit] {
		fmt.Fprintf(&sb, "- %s: %s - $%.2f - %s\n", r.ID, r.Employee, r.Amount, r.Description)
	}
	if len(rows) > 20 {
		fmt.Fprintf(&sb, "\n... and %d more transactions.", len(rows)-20)
	}
	return sb.String(), nil
}

func (t *LedgerAnalysisTool) runEmployee(_, queryLower string) (string, error) {
	for _, fullName := range employeeRoster {
		first := firstName(fullName)
		if !strings.Contains(queryLower, first) {
			continue
		}

		rows := t.table.FilterEmployeeContains(first)
		if len(rows) == 0 {
			return fmt.Sprintf("No transactions found for %s.", titleCase(fullName)), nil
		}

		stats, _ := ledger.Summarize(rows)

		var sb strings.Builder
		fmt.Fprintf(&sb, "Transaction analysis for %s:\n\n", rows[0].Employee)
		fmt.Fprintf(&sb, "Total transactions: %d\n", stats.Count)
		fmt.Fprintf(&sb, "Total amount: $%.2f\n", stats.Sum)
		fmt.Fprintf(&sb, "Average amount: $%.2f\n", stats.Mean)
		fmt.Fprintf(&sb, "Largest transaction: $%.2f - %s\n\n", stats.Max.Amount, stats.Max.Description)
		sb.WriteString("Last 10 transactions:\n")

		start := 0
		if len(rows) > 10 {
			start = len(rows) - 10
		}
		for _, r := range rows[start:] {
			fmt.Fprintf(&sb, "- %s: $%.2f - %s\n", r.Date, r.Amount, r.Description)
		}
		return sb.String(), nil
	}
	return "", fmt.Errorf("no known employee name found in query")
}

func (t *LedgerAnalysisTool) runCategory(_, _ string) (string, error) {
	groups := t.table.GroupByCategory()
	if len(groups) == 0 {
		return "", fmt.Errorf("ledger contains no transactions")
	}

	var sb strings.Builder
	sb.WriteString("Summary by category:\n\n")
	for _, g := range groups {
		fmt.Fprintf(&sb, "- %s:\n", g.Category)
		fmt.Fprintf(&sb, "  Total: $%.2f\n", g.Sum)
		fmt.Fprintf(&sb, "  Count: %d transactions\n", g.Count)
		fmt.Fprintf(&sb, "  Average: $%.2f\n\n", g.Mean)
	}
	return sb.String(), nil
}

func (t *LedgerAnalysisTool) runExact(query, _ string) (string, error) {
	target, ok := extractAmount(query)
	if !ok {
		return "", fmt.Errorf("no numeric value found in query")
	}

	rows := t.table.FilterAmountEquals(target)
	if len(rows) == 0 {
		// Fall back to a ±1 tolerance band around the requested value.
		rows = t.table.FilterAmountBetween(target-1, target+1)
	}
	if len(rows) == 0 {
		return fmt.Sprintf("No transaction found with amount $%v.", target), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transactions found with amount $%v:\n\n", target)
	for _, r := range rows {
		fmt.Fprintf(&sb, "- %s (%s): %s - $%.2f\n", r.ID, r.Date, r.Employee, r.Amount)
		fmt.Fprintf(&sb, "  Description: %s\n", r.Description)
		fmt.Fprintf(&sb, "  Category: %s\n\n", r.Category)
	}
	return sb.String(), nil
}

func (t *LedgerAnalysisTool) runSummary(_, _ string) (string, error) {
	stats, ok := ledger.Summarize(t.table.Records())
	if !ok {
		return "", fmt.Errorf("ledger contains no transactions")
	}

	var sb strings.Builder
	sb.WriteString("Overall transaction summary:\n\n")
	fmt.Fprintf(&sb, "Total transactions: %d\n", stats.Count)
	fmt.Fprintf(&sb, "Total amount: $%.2f\n", stats.Sum)
	fmt.Fprintf(&sb, "Average per transaction: $%.2f\n", stats.Mean)
	fmt.Fprintf(&sb, "Largest expense: $%.2f by %s\n", stats.Max.Amount, stats.Max.Employee)
	fmt.Fprintf(&sb, "  (%s)\n\n", stats.Max.Description)
	fmt.Fprintf(&sb, "Available fields: %s\n", strings.Join(t.table.Fields(), ", "))
	return sb.String(), nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
