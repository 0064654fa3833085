// Package loader hydrates the record store from the local AAC shelter
// outcomes CSV, the flat-file substitute for a document database.
package loader

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
)

// outcomeRow mirrors the columns of the AAC outcomes export. Unknown columns
// are ignored, which also drops the unnamed index columns pandas exports
// leave behind.
type outcomeRow struct {
	AnimalID       string `csv:"animal_id"`
	AnimalType     string `csv:"animal_type"`
	Breed          string `csv:"breed"`
	Color          string `csv:"color"`
	DateOfBirth    string `csv:"date_of_birth"`
	Datetime       string `csv:"datetime"`
	MonthYear      string `csv:"monthyear"`
	Name           string `csv:"name"`
	OutcomeSubtype string `csv:"outcome_subtype"`
	OutcomeType    string `csv:"outcome_type"`
	SexUponOutcome string `csv:"sex_upon_outcome"`
	AgeUponOutcome string `csv:"age_upon_outcome"`
	AgeWeeks       string `csv:"age_upon_outcome_in_weeks"`
	LocationLat    string `csv:"location_lat"`
	LocationLong   string `csv:"location_long"`
}

// LoadFile reads the outcomes CSV at path into records.
func LoadFile(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open %s", path)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes outcome rows from r. Empty cells are omitted from the record
// so that absent-field query semantics hold; numeric cells are coerced.
func Load(r io.Reader) ([]model.Record, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(csvReader)
	if err != nil {
		return nil, eris.Wrap(err, "loader: read header")
	}

	var records []model.Record
	for {
		var row outcomeRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "loader: decode row")
		}
		records = append(records, rowToRecord(row))
	}
	return records, nil
}

func rowToRecord(row outcomeRow) model.Record {
	rec := model.Record{}
	put := func(field, value string) {
		if value != "" {
			rec[field] = value
		}
	}
	putNum := func(field, value string) {
		if value == "" {
			return
		}
		if n, ok := model.ToNumber(value); ok {
			rec[field] = n
		} else {
			rec[field] = value
		}
	}

	put(model.FieldAnimalID, row.AnimalID)
	put(model.FieldAnimalType, row.AnimalType)
	put(model.FieldBreed, row.Breed)
	put("color", row.Color)
	put("date_of_birth", row.DateOfBirth)
	put(model.FieldDatetime, row.Datetime)
	put("monthyear", row.MonthYear)
	put(model.FieldName, row.Name)
	put("outcome_subtype", row.OutcomeSubtype)
	put(model.FieldOutcomeType, row.OutcomeType)
	put(model.FieldSex, row.SexUponOutcome)
	put("age_upon_outcome", row.AgeUponOutcome)
	putNum(model.FieldAgeWeeks, row.AgeWeeks)
	putNum("location_lat", row.LocationLat)
	putNum("location_long", row.LocationLong)
	return rec
}
