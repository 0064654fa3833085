// Package export renders already-queried record sets into external artifacts
// (CSV, JSON, XLSX) and computes the summary statistics that accompany an
// export for quality control.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
)

// canonicalColumns orders the well-known fields first in tabular output; any
// extra fields follow alphabetically.
var canonicalColumns = []string{
	model.FieldAnimalID,
	model.FieldName,
	model.FieldAnimalType,
	model.FieldBreed,
	model.FieldAgeWeeks,
	model.FieldSex,
	model.FieldOutcomeType,
	model.FieldDatetime,
}

// Columns returns the header for a tabular export of records.
func Columns(records []model.Record) []string {
	seen := make(map[string]bool, len(canonicalColumns))
	var cols []string
	for _, c := range canonicalColumns {
		for _, rec := range records {
			if _, ok := rec[c]; ok {
				cols = append(cols, c)
				seen[c] = true
				break
			}
		}
	}

	var extras []string
	extraSeen := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			if !seen[k] && !extraSeen[k] {
				extraSeen[k] = true
				extras = append(extras, k)
			}
		}
	}
	sort.Strings(extras)
	return append(cols, extras...)
}

// WriteCSV renders records as CSV with a header row.
func WriteCSV(w io.Writer, records []model.Record) error {
	cols := Columns(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	row := make([]string, len(cols))
	for _, rec := range records {
		for i, c := range cols {
			row[i] = rec.Str(c)
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteJSON renders records as an indented JSON array.
func WriteJSON(w io.Writer, records []model.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(records), "export: write json")
}

// WriteXLSX renders records to a spreadsheet file at path.
func WriteXLSX(path string, records []model.Record) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("animals")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	cols := Columns(records)
	header := sheet.AddRow()
	for _, c := range cols {
		header.AddCell().SetString(c)
	}
	for _, rec := range records {
		row := sheet.AddRow()
		for _, c := range cols {
			row.AddCell().SetString(rec.Str(c))
		}
	}
	return eris.Wrapf(file.Save(path), "export: save %s", path)
}

// Stats summarizes a record set for export quality control.
type Stats struct {
	TotalRecords int            `json:"total_records"`
	AnimalTypes  map[string]int `json:"animal_types"`
	OutcomeTypes map[string]int `json:"outcome_types"`
	TopBreeds    map[string]int `json:"breeds_top"`
}

// topBreedCount caps the breed leaderboard in Stats.
const topBreedCount = 5

// BuildStats computes summary statistics over records. Absent fields count
// under "Unknown".
func BuildStats(records []model.Record) Stats {
	stats := Stats{
		TotalRecords: len(records),
		AnimalTypes:  map[string]int{},
		OutcomeTypes: map[string]int{},
		TopBreeds:    map[string]int{},
	}
	breeds := map[string]int{}
	for _, rec := range records {
		stats.AnimalTypes[orUnknown(rec.Str(model.FieldAnimalType))]++
		stats.OutcomeTypes[orUnknown(rec.Str(model.FieldOutcomeType))]++
		breeds[orUnknown(rec.Str(model.FieldBreed))]++
	}

	type breedCount struct {
		breed string
		count int
	}
	ranked := make([]breedCount, 0, len(breeds))
	for b, n := range breeds {
		ranked = append(ranked, breedCount{b, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].breed < ranked[j].breed
	})
	if len(ranked) > topBreedCount {
		ranked = ranked[:topBreedCount]
	}
	for _, bc := range ranked {
		stats.TopBreeds[bc.breed] = bc.count
	}
	return stats
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
