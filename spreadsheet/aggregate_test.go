package spreadsheet

import (
	"reflect"
	"testing"
)

func dataRow(name, company, date string, score string) Row {
	r := Row{name, company, date, "Fintech", "Seed", "5", "5", "5", "5", "5", "5", score}
	return r
}

func TestAggregateGroupsByFirstSeenOrder(t *testing.T) {
	existing := []Row{
		dataRow("Ada Lovelace", "Acme", "2024-01-01", "5.00"),
		dataRow("Ada Lovelace", "Beta", "2024-01-02", "6.00"),
		dataRow("Grace Hopper", "Acme", "2024-01-03", "7.00"),
	}
	newRow := dataRow("Grace Hopper", "Beta", "2024-01-04", "8.00")

	out, dropped, err := Aggregate(existing, newRow)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}

	// Acme group (2 rows + summary), blank, Beta group (2 rows + summary).
	// The trailing blank after the last group is stripped.
	if len(out) != 7 {
		t.Fatalf("len(out) = %d, want 7\n%v", len(out), out)
	}
	if out[0].Company() != "Acme" || out[1].Company() != "Acme" {
		t.Fatalf("Acme rows not grouped first: %v %v", out[0], out[1])
	}
	if !out[2].IsSummary() || out[2][scoreCol] != "6.00" {
		t.Fatalf("Acme summary = %v, want avg 6.00", out[2])
	}
	if !out[3].IsBlank() {
		t.Fatalf("separator missing: %v", out[3])
	}
	if out[4].Company() != "Beta" || out[5].Company() != "Beta" {
		t.Fatalf("Beta rows not grouped: %v %v", out[4], out[5])
	}
	if !out[6].IsSummary() || out[6][scoreCol] != "7.00" {
		t.Fatalf("Beta summary = %v, want avg 7.00", out[6])
	}
}

func TestAggregateNewCompanyAppendsLast(t *testing.T) {
	existing := []Row{dataRow("Ada Lovelace", "Acme", "2024-01-01", "5.00")}
	newRow := dataRow("Ada Lovelace", "Zenith", "2024-01-02", "3.00")

	out, _, err := Aggregate(existing, newRow)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	last := out[len(out)-1]
	if !last.IsSummary() || last[scoreCol] != "3.00" {
		t.Fatalf("last row = %v, want Zenith summary", last)
	}
	if out[len(out)-2].Company() != "Zenith" {
		t.Fatalf("new company not last: %v", out)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	existing := []Row{
		dataRow("Ada Lovelace", "Acme", "2024-01-01", "5.00"),
		dataRow("Grace Hopper", "Beta", "2024-01-02", "6.00"),
	}
	first, _, err := Aggregate(existing, dataRow("Ada Lovelace", "Acme", "2024-01-03", "7.00"))
	if err != nil {
		t.Fatalf("first Aggregate: %v", err)
	}

	// Feed the grouped output (summaries and separators included) back in with
	// one more row: stale summary and blank rows must be discarded, not counted
	// as data.
	second, dropped, err := Aggregate(first, dataRow("Grace Hopper", "Beta", "2024-01-04", "8.00"))
	if err != nil {
		t.Fatalf("second Aggregate: %v", err)
	}
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0 (summaries are not data rows)", dropped)
	}

	want, _, err := Aggregate([]Row{
		dataRow("Ada Lovelace", "Acme", "2024-01-01", "5.00"),
		dataRow("Ada Lovelace", "Acme", "2024-01-03", "7.00"),
		dataRow("Grace Hopper", "Beta", "2024-01-02", "6.00"),
	}, dataRow("Grace Hopper", "Beta", "2024-01-04", "8.00"))
	if err != nil {
		t.Fatalf("flat Aggregate: %v", err)
	}
	if !reflect.DeepEqual(second, want) {
		t.Fatalf("re-aggregation diverged:\n got %v\nwant %v", second, want)
	}
}

func TestAggregateDropsRowsWithoutCompany(t *testing.T) {
	orphan := dataRow("Ada Lovelace", "", "2024-01-01", "5.00")
	out, dropped, err := Aggregate([]Row{orphan}, dataRow("Ada Lovelace", "Acme", "2024-01-02", "6.00"))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	for _, r := range out {
		if r.Company() == "" && !r.IsBlank() && !r.IsSummary() {
			t.Fatalf("orphan row survived: %v", r)
		}
	}
}

func TestAggregateAverageRounding(t *testing.T) {
	// (5.00 + 5.05) / 2 = 5.025, rounds half away from zero to 5.03.
	existing := []Row{dataRow("Ada Lovelace", "Acme", "2024-01-01", "5.00")}
	out, _, err := Aggregate(existing, dataRow("Ada Lovelace", "Acme", "2024-01-02", "5.05"))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !out[2].IsSummary() || out[2][scoreCol] != "5.03" {
		t.Fatalf("summary = %v, want 5.03", out[2])
	}
}

func TestAggregateNonNumericScore(t *testing.T) {
	existing := []Row{dataRow("Ada Lovelace", "Acme", "2024-01-01", "n/a")}
	_, _, err := Aggregate(existing, dataRow("Ada Lovelace", "Acme", "2024-01-02", "5.00"))
	if err == nil {
		t.Fatal("expected error for non-numeric score")
	}
}

func TestAggregateShortRowsArePadded(t *testing.T) {
	// The xlsx reader trims trailing empty cells; short rows must not panic.
	// A truncated row keeping its company but losing its score cell fails the
	// numeric check instead of crashing.
	truncated := Row{"Ada Lovelace", "Acme"}
	_, _, err := Aggregate([]Row{truncated}, dataRow("Ada Lovelace", "Acme", "2024-01-02", "6.00"))
	if err == nil {
		t.Fatal("expected error: padded truncated row has empty score")
	}
}

func TestRowPredicates(t *testing.T) {
	if !blankRow().IsBlank() {
		t.Fatal("blankRow not blank")
	}
	summary := blankRow()
	summary[labelCol] = TotalScoreLabel
	summary[scoreCol] = "5.00"
	if !summary.IsSummary() || summary.IsBlank() {
		t.Fatal("summary row misclassified")
	}
	if dataRow("a", "b", "c", "5.00").IsSummary() {
		t.Fatal("data row classified as summary")
	}
	if got := (Row{"x", "  Acme  "}).Company(); got != "Acme" {
		t.Fatalf("Company() = %q", got)
	}
}

func TestNewDataRowScoreFormat(t *testing.T) {
	r := NewDataRow("Ada Lovelace", "Acme", "2024-01-01", "Fintech", "Seed", 7, 8, 6, 7, 9, 8, 5.95)
	if len(r) != NumColumns {
		t.Fatalf("len = %d", len(r))
	}
	if r[scoreCol] != "5.95" {
		t.Fatalf("score cell = %q, want 5.95", r[scoreCol])
	}
	r2 := NewDataRow("Ada Lovelace", "Acme", "2024-01-01", "Fintech", "Seed", 0, 0, 0, 0, 0, 0, 0)
	if r2[scoreCol] != "0.00" {
		t.Fatalf("score cell = %q, want 0.00", r2[scoreCol])
	}
}
