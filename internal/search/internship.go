// Package search implements the internship search adapter: it queries the
// external internships API for a (field, location) pair and formats the
// results as a markdown digest for the assistant to display.
//
// Failures never escape this package as errors. An upstream error or an empty
// result set is absorbed into a fixed, user-visible display string so the
// conversation can continue (the assistant must never fabricate results to
// fill the gap).
package search

import (
	"fmt"
	"strconv"
	"strings"
)

// maxResults caps how many internships a single search returns.
const maxResults = 3

// ToolName is the tool identifier registered with the model.
const ToolName = "fetchInternships"

// ToolDescription is shown to the model when deciding whether to call the tool.
const ToolDescription = "Fetch and format a list of internships for a given field and location."

// Fixed user-visible strings for absorbed failures.
const (
	// NoResultsDisplay is returned verbatim when the provider finds nothing.
	NoResultsDisplay = "Sorry, I couldn't find any internships for your search right now."

	// FetchErrorDisplay is returned verbatim when the provider call fails.
	FetchErrorDisplay = "There was an error fetching internships. Please try again later."
)

// Query is the input schema for the fetchInternships tool.
type Query struct {
	Field    string `json:"field" jsonschema_description:"The field/industry to search internships for."`
	Location string `json:"location" jsonschema_description:"Preferred city, country, or region."`
}

// Internship is a normalized internship record. Immutable after creation.
// SalaryMin of zero means the provider reported no minimum salary.
type Internship struct {
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Location     string  `json:"location"`
	SalaryMin    float64 `json:"salaryMin,omitempty"`
	SalaryUnit   string  `json:"salaryUnit,omitempty"`
	Description  string  `json:"description"`
	URL          string  `json:"url"`
}

// Result is what a search produces: the normalized records (empty on failure
// or no matches) and the display text shown to the user.
type Result struct {
	Internships []Internship
	Display     string
}

// descriptionPreviewLen is how many characters of the description the digest shows.
const descriptionPreviewLen = 200

// Digest renders the records as a markdown block, one section per record.
func Digest(field, location string, records []Internship) string {
	var b strings.Builder

	b.WriteString("## Here are some internships in " + field)
	if location != "" {
		b.WriteString(" in " + location)
	}
	b.WriteString(":\n\n")

	for _, rec := range records {
		fmt.Fprintf(&b, "### %s\n", orNA(rec.Title))
		fmt.Fprintf(&b, "**Organization:** %s  \n", orNA(rec.Organization))
		fmt.Fprintf(&b, "**Location:** %s  \n", orNA(rec.Location))
		fmt.Fprintf(&b, "**Salary:** %s  \n", rec.Salary())
		fmt.Fprintf(&b, "**Description:** %s...  \n", truncateRunes(rec.Description, descriptionPreviewLen))
		link := rec.URL
		if link == "" {
			link = "#"
		}
		fmt.Fprintf(&b, "[Link](%s)\n\n---\n\n", link)
	}

	return strings.TrimSpace(b.String())
}

// Salary renders the salary as "€<min>/<unit>", defaulting the unit to
// "month", or "N/A" when the provider reported no minimum value.
func (i Internship) Salary() string {
	if i.SalaryMin <= 0 {
		return "N/A"
	}
	unit := strings.ToLower(i.SalaryUnit)
	if unit == "" {
		unit = "month"
	}
	return "€" + strconv.FormatFloat(i.SalaryMin, 'f', -1, 64) + "/" + unit
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
