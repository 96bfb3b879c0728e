package ledger

import (
	"fmt"
	"sort"
	"strings"
)

// Transaction is one row of the corporate transaction ledger.
type Transaction struct {
	ID          string
	Date        string
	Employee    string
	Role        string
	Description string
	Amount      float64
	Category    string
	Department  string
}

// Columns required in the ledger file, in canonical order.
var RequiredColumns = []string{
	"id_transacao",
	"data",
	"funcionario",
	"cargo",
	"descricao",
	"valor",
	"categoria",
	"departamento",
}

// Table is the in-memory transaction ledger. It is loaded once at startup
// and treated as immutable for the process lifetime, so it is safe to share
// read-only across concurrent agent runs.
type Table struct {
	records []Transaction
}

func NewTable(records []Transaction) *Table {
	return &Table{records: records}
}

func (t *Table) Len() int {
	return len(t.records)
}

// Records returns the rows in file order. Callers must not mutate them.
func (t *Table) Records() []Transaction {
	return t.records
}

// Fields lists the column names available to queries.
func (t *Table) Fields() []string {
	return RequiredColumns
}

// FilterAmountAbove returns rows with Amount strictly greater than threshold,
// in table order.
func (t *Table) FilterAmountAbove(threshold float64) []Transaction {
	var out []Transaction
	for _, r := range t.records {
		if r.Amount > threshold {
			out = append(out, r)
		}
	}
	return out
}

// FilterAmountEquals returns rows with Amount exactly equal to value.
func (t *Table) FilterAmountEquals(value float64) []Transaction {
	var out []Transaction
	for _, r := range t.records {
		if r.Amount == value {
			out = append(out, r)
		}
	}
	return out
}

// FilterAmountBetween returns rows with low <= Amount <= high.
func (t *Table) FilterAmountBetween(low, high float64) []Transaction {
	var out []Transaction
	for _, r := range t.records {
		if r.Amount >= low && r.Amount <= high {
			out = append(out, r)
		}
	}
	return out
}

// FilterEmployeeContains returns rows whose employee field contains the
// given fragment, case-insensitively, in table order.
func (t *Table) FilterEmployeeContains(fragment string) []Transaction {
	fragment = strings.ToLower(fragment)
	var out []Transaction
	for _, r := range t.records {
		if strings.Contains(strings.ToLower(r.Employee), fragment) {
			out = append(out, r)
		}
	}
	return out
}

// Stats summarizes a set of rows.
type Stats struct {
	Count int
	Sum   float64
	Mean  float64
	Max   Transaction
}

// Summarize computes count, sum, mean and the single maximum row. The
// boolean is false for an empty input.
func Summarize(rows []Transaction) (Stats, bool) {
	if len(rows) == 0 {
		return Stats{}, false
	}

	stats := Stats{Count: len(rows), Max: rows[0]}
	for _, r := range rows {
		stats.Sum += r.Amount
		if r.Amount > stats.Max.Amount {
			stats.Max = r
		}
	}
	stats.Mean = stats.Sum / float64(len(rows))
	return stats, true
}

// CategoryStats is the aggregate for one ledger category.
type CategoryStats struct {
	Category string
	Sum      float64
	Count    int
	Mean     float64
}

// GroupByCategory aggregates all rows per category, sorted by category name.
func (t *Table) GroupByCategory() []CategoryStats {
	groups := make(map[string]*CategoryStats)
	for _, r := range t.records {
		g, ok := groups[r.Category]
		if !ok {
			g = &CategoryStats{Category: r.Category}
			groups[r.Category] = g
		}
		g.Sum += r.Amount
		g.Count++
	}

	out := make([]CategoryStats, 0, len(groups))
	for _, g := range groups {
		g.Mean = g.Sum / float64(g.Count)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

// Validate performs basic sanity checks after load.
func (t *Table) Validate() error {
	if len(t.records) == 0 {
		return fmt.Errorf("ledger contains no transactions")
	}
	return nil
}
