package kdn

import (
	"time"

	"github.com/Lllllllleong/sanctionlistflow/internal/pdfpage"
	"github.com/Lllllllleong/sanctionlistflow/internal/tabular"
)

// GroupsHeading marks the start of the list's section B. The individuals
// pass stops at the first page carrying it.
const GroupsHeading = "B. GROUP"

// Each section's table numbers its columns in the header row; those
// numbers identify the right table among everything else ruled on a page.
var (
	individualMarkers = []string{"(1)", "(3)", "(13)"}
	groupMarkers      = []string{"(1)", "(4)", "(7)"}
)

const (
	individualColumns = 13
	groupColumns      = 7
)

// dash is the placeholder for blank source cells.
func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// IndividualsSchema describes section A's table. now anchors two-digit
// year disambiguation in the date columns.
func IndividualsSchema(now time.Time) tabular.Schema {
	date := func(s string) string { return ParseDate(s, now) }
	return tabular.Schema{
		Name:    "kdn-individuals",
		Markers: individualMarkers,
		Columns: individualColumns,
		Transforms: []tabular.Transform{
			nil,  // ID
			dash, // reference number
			dash, // name
			dash, // salutation
			dash, // occupation
			date, // date of birth
			dash, // birth place
			dash, // other name
			dash, // nationality
			dash, // passport number
			dash, // identity number
			dash, // address
			date, // listed date
		},
	}
}

// GroupsSchema describes section B's table.
func GroupsSchema(now time.Time) tabular.Schema {
	date := func(s string) string { return ParseDate(s, now) }
	return tabular.Schema{
		Name:    "kdn-groups",
		Markers: groupMarkers,
		Columns: groupColumns,
		Transforms: []tabular.Transform{
			nil,  // ID
			dash, // reference number
			dash, // name
			dash, // alias
			dash, // other name
			dash, // address
			date, // listed date
		},
	}
}

// ExtractIndividuals harvests section A from the whole document, stopping
// at the page where section B begins. The result is never nil.
func ExtractIndividuals(pages []pdfpage.Page, now time.Time) []Individual {
	rows := tabular.Extract(pages, IndividualsSchema(now), tabular.Options{
		Settings:    tabular.DefaultSettings(),
		StopHeading: GroupsHeading,
		LastPage:    -1,
	})
	out := make([]Individual, 0, len(rows))
	for _, r := range rows {
		out = append(out, Individual{
			ID:              r.ID,
			ReferenceNumber: r.Cells[1],
			Name:            r.Cells[2],
			Salutation:      r.Cells[3],
			Occupation:      r.Cells[4],
			DateOfBirth:     r.Cells[5],
			BirthPlace:      r.Cells[6],
			OtherName:       r.Cells[7],
			Nationality:     r.Cells[8],
			PassportNumber:  r.Cells[9],
			IDNumber:        r.Cells[10],
			Address:         r.Cells[11],
			ListedDate:      r.Cells[12],
		})
	}
	return out
}

// ExtractGroups harvests section B from its configured page range,
// 0-indexed inclusive. The document carries no machine-readable end marker
// for the section, so the range comes from configuration. The result is
// never nil.
func ExtractGroups(pages []pdfpage.Page, firstPage, lastPage int, now time.Time) []Group {
	rows := tabular.Extract(pages, GroupsSchema(now), tabular.Options{
		Settings:  tabular.DefaultSettings(),
		FirstPage: firstPage,
		LastPage:  lastPage,
	})
	out := make([]Group, 0, len(rows))
	for _, r := range rows {
		out = append(out, Group{
			ID:              r.ID,
			ReferenceNumber: r.Cells[1],
			Name:            r.Cells[2],
			Alias:           r.Cells[3],
			OtherName:       r.Cells[4],
			Address:         r.Cells[5],
			ListedDate:      r.Cells[6],
		})
	}
	return out
}
