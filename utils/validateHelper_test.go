package utils

import "testing"

func intp(v int) *int { return &v }

func TestValidateScorecardFieldsPriorityOrder(t *testing.T) {
	full := func() (string, string, string, string, *int, *int, *int, *int, *int, *int) {
		return "2024-01-15", "Acme", "Fintech", "Seed",
			intp(5), intp(5), intp(5), intp(5), intp(5), intp(5)
	}

	date, company, sector, stage, a, te, m, p, pr, b := full()
	if msg := ValidateScorecardFields(date, company, sector, stage, a, te, m, p, pr, b); msg != "" {
		t.Fatalf("complete payload rejected: %q", msg)
	}

	cases := []struct {
		name   string
		mutate func(*string, *string, *string, *string, **int, **int, **int, **int, **int, **int)
		want   string
	}{
		{"date", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *d = "" }, "Date is required."},
		{"company", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *c = "  " }, "Company Name is required."},
		{"sector", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *s = "" }, "Sector is required."},
		{"stage", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *st = "" }, "Investment Stage is required."},
		{"alignment", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *a = nil }, "Alignment is required."},
		{"team", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *te = nil }, "Team is required."},
		{"market", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *m = nil }, "Market is required."},
		{"product", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *p = nil }, "Product is required."},
		{"potential return", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *pr = nil }, "Potential Return is required."},
		{"bold excitement", func(d, c, s, st *string, a, te, m, p, pr, b **int) { *b = nil }, "Bold Excitement is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			date, company, sector, stage, a, te, m, p, pr, b := full()
			tc.mutate(&date, &company, &sector, &stage, &a, &te, &m, &p, &pr, &b)
			got := ValidateScorecardFields(date, company, sector, stage, a, te, m, p, pr, b)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateScorecardFieldsDatePrecedence(t *testing.T) {
	// Date wins over every other missing field.
	got := ValidateScorecardFields("", "", "", "", nil, nil, nil, nil, nil, nil)
	if got != "Date is required." {
		t.Fatalf("got %q, want %q", got, "Date is required.")
	}
}

func TestValidateScorecardFieldsZeroIsPresent(t *testing.T) {
	got := ValidateScorecardFields("2024-01-15", "Acme", "Fintech", "Seed",
		intp(0), intp(0), intp(0), intp(0), intp(0), intp(0))
	if got != "" {
		t.Fatalf("zero sub-scores rejected: %q", got)
	}
}

func TestValidateRegistrationFields(t *testing.T) {
	if msg := ValidateRegistrationFields("bob", "pw", "pw", "Bob", "Smith"); msg != "" {
		t.Fatalf("complete payload rejected: %q", msg)
	}
	cases := []struct {
		username, password, retype, first, last string
		want                                    string
	}{
		{"", "pw", "pw", "Bob", "Smith", "Username is required."},
		{"bob", "", "pw", "Bob", "Smith", "Password is required."},
		{"bob", "pw", "", "Bob", "Smith", "Retype password is required."},
		{"bob", "pw", "pw", "", "Smith", "First name is required."},
		{"bob", "pw", "pw", "Bob", "", "Last name is required."},
	}
	for _, tc := range cases {
		got := ValidateRegistrationFields(tc.username, tc.password, tc.retype, tc.first, tc.last)
		if got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

type rangeProbe struct {
	Alignment       *int `validate:"omitempty,min=0,max=10"`
	PotentialReturn *int `validate:"omitempty,min=0,max=10"`
}

func TestValidateStructRanges(t *testing.T) {
	if msg := ValidateStructRanges(&rangeProbe{Alignment: intp(10)}); msg != "" {
		t.Fatalf("in-range value rejected: %q", msg)
	}
	if msg := ValidateStructRanges(&rangeProbe{Alignment: intp(11)}); msg != "Alignment must be between 0 and 10." {
		t.Fatalf("got %q", msg)
	}
	if msg := ValidateStructRanges(&rangeProbe{PotentialReturn: intp(-1)}); msg != "Potential Return must be between 0 and 10." {
		t.Fatalf("got %q", msg)
	}
}

func TestHumanizeField(t *testing.T) {
	cases := map[string]string{
		"Alignment":       "Alignment",
		"PotentialReturn": "Potential Return",
		"BoldExcitement":  "Bold Excitement",
	}
	for in, want := range cases {
		if got := humanizeField(in); got != want {
			t.Errorf("humanizeField(%q) = %q, want %q", in, got, want)
		}
	}
}
