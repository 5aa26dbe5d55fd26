package search

import (
	"strings"
	"testing"
)

func TestDigest_SalaryPresentAndAbsent(t *testing.T) {
	t.Parallel()

	records := []Internship{
		{Title: "Paid Intern", Organization: "Acme", Location: "Berlin", SalaryMin: 1500, SalaryUnit: "MONTH", Description: "desc", URL: "https://a.test"},
		{Title: "Unpaid Intern", Organization: "Beta", Location: "Paris", Description: "desc", URL: "https://b.test"},
	}

	out := Digest("design", "Europe", records)

	if !strings.Contains(out, "**Salary:** €1500/month") {
		t.Errorf("digest missing formatted salary:\n%s", out)
	}
	if !strings.Contains(out, "**Salary:** N/A") {
		t.Errorf("digest missing N/A salary:\n%s", out)
	}
}

func TestDigest_HeaderWithAndWithoutLocation(t *testing.T) {
	t.Parallel()

	rec := []Internship{{Title: "X"}}

	with := Digest("fashion design", "Milan", rec)
	if !strings.HasPrefix(with, "## Here are some internships in fashion design in Milan:") {
		t.Errorf("header with location wrong:\n%s", with)
	}

	without := Digest("fashion design", "", rec)
	if !strings.HasPrefix(without, "## Here are some internships in fashion design:") {
		t.Errorf("header without location wrong:\n%s", without)
	}
}

func TestDigest_DescriptionTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 500)
	out := Digest("f", "", []Internship{{Title: "T", Description: long}})

	want := "**Description:** " + strings.Repeat("x", 200) + "...  "
	if !strings.Contains(out, want) {
		t.Errorf("description not truncated to 200 chars:\n%s", out)
	}
}

func TestDigest_LinkDefaultsToHash(t *testing.T) {
	t.Parallel()

	out := Digest("f", "", []Internship{{Title: "T"}})
	if !strings.Contains(out, "[Link](#)") {
		t.Errorf("missing default link:\n%s", out)
	}
}

func TestDigest_MissingFieldsShowNA(t *testing.T) {
	t.Parallel()

	out := Digest("f", "", []Internship{{}})
	for _, want := range []string{"### N/A", "**Organization:** N/A", "**Location:** N/A"} {
		if !strings.Contains(out, want) {
			t.Errorf("digest missing %q:\n%s", want, out)
		}
	}
}

func TestSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  Internship
		want string
	}{
		{"absent", Internship{}, "N/A"},
		{"zero is absent", Internship{SalaryMin: 0, SalaryUnit: "month"}, "N/A"},
		{"unit lowercased", Internship{SalaryMin: 2000, SalaryUnit: "YEAR"}, "€2000/year"},
		{"unit defaults to month", Internship{SalaryMin: 800}, "€800/month"},
		{"fractional value", Internship{SalaryMin: 12.5, SalaryUnit: "hour"}, "€12.5/hour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.rec.Salary(); got != tt.want {
				t.Errorf("Salary() = %q, want %q", got, tt.want)
			}
		})
	}
}
