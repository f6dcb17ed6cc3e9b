package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Column layout of the shared workbook.
const (
	NumColumns = 12
	companyCol = 1
	labelCol   = 10
	scoreCol   = 11
)

// TotalScoreLabel marks the per-company summary row.
const TotalScoreLabel = "Total Score"

// Header is the fixed 12-column header row of the shared workbook.
var Header = Row{
	"Name", "Company", "Date", "Sector", "Stage",
	"Alignment", "Team", "Market", "Product",
	"Potential Return", "Bold Excitement", "Score",
}

// Row is one 12-column spreadsheet row. Data rows carry a company name in
// column 1 and a numeric score in column 11. Summary rows carry the
// "Total Score" label and the group average; separator rows are fully blank.
type Row []string

func NewDataRow(name, company, date, sector, stage string, alignment, team, market, product, potentialReturn, boldExcitement int, score float64) Row {
	return Row{
		name,
		company,
		date,
		sector,
		stage,
		fmt.Sprint(alignment),
		fmt.Sprint(team),
		fmt.Sprint(market),
		fmt.Sprint(product),
		fmt.Sprint(potentialReturn),
		fmt.Sprint(boldExcitement),
		decimal.NewFromFloat(score).StringFixed(2),
	}
}

func blankRow() Row {
	return make(Row, NumColumns)
}

func (r Row) IsBlank() bool {
	for _, cell := range r {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func (r Row) IsSummary() bool {
	return len(r) > labelCol && strings.TrimSpace(r[labelCol]) == TotalScoreLabel
}

func (r Row) Company() string {
	if len(r) <= companyCol {
		return ""
	}
	return strings.TrimSpace(r[companyCol])
}

// pad returns r extended with empty cells up to the fixed column count.
// The xlsx reader trims trailing empty cells, so short rows are routine.
func pad(r Row) Row {
	if len(r) >= NumColumns {
		return r[:NumColumns]
	}
	out := make(Row, NumColumns)
	copy(out, r)
	return out
}

// Aggregate re-derives the grouped spreadsheet body from the flat history plus
// one new row: companies in first-seen order, each group's rows in original
// relative order followed by a "Total Score" summary row (arithmetic mean of
// the group's scores, 2 decimal places) and one blank separator, with trailing
// blank rows stripped.
//
// Rows without a company name never reach the output. That rule also filters
// leftover summary and separator rows from a prior sync, which is what makes
// re-aggregation idempotent. The returned count covers only dropped DATA rows
// (neither blank nor summary) so callers can surface the data loss.
func Aggregate(existing []Row, newRow Row) ([]Row, int, error) {
	working := make([]Row, 0, len(existing)+1)
	working = append(working, existing...)
	working = append(working, newRow)

	var order []string
	groups := map[string][]Row{}
	dropped := 0
	for _, row := range working {
		row = pad(row)
		company := row.Company()
		if company == "" {
			if !row.IsBlank() && !row.IsSummary() {
				dropped++
			}
			continue
		}
		if _, seen := groups[company]; !seen {
			order = append(order, company)
		}
		groups[company] = append(groups[company], row)
	}

	out := make([]Row, 0, len(working)+2*len(order))
	for _, company := range order {
		rows := groups[company]
		sum := decimal.Zero
		for _, row := range rows {
			score, err := decimal.NewFromString(strings.TrimSpace(row[scoreCol]))
			if err != nil {
				return nil, dropped, fmt.Errorf("company %q: score %q is not numeric", company, row[scoreCol])
			}
			sum = sum.Add(score)
			out = append(out, row)
		}

		avg := sum.Div(decimal.NewFromInt(int64(len(rows)))).Round(2)
		summary := blankRow()
		summary[labelCol] = TotalScoreLabel
		summary[scoreCol] = avg.StringFixed(2)
		out = append(out, summary, blankRow())
	}

	// A spreadsheet editor may leave dangling blank rows at the end.
	for len(out) > 0 && out[len(out)-1].IsBlank() {
		out = out[:len(out)-1]
	}
	return out, dropped, nil
}
