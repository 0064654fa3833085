package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `,animal_id,animal_type,breed,color,datetime,name,outcome_type,sex_upon_outcome,age_upon_outcome_in_weeks,location_lat,location_long
0,A001,Dog,Labrador Retriever Mix,Brown,2024-01-15 10:30:00,Buddy,Adoption,Neutered Male,52.5,30.75,-97.48
1,A002,Cat,Domestic Shorthair,,2024-02-20 14:00:00,,Transfer,Spayed Female,26,30.5,-97.6
2,A003,Dog,German Shepherd,Black/Tan,2024-03-01 09:00:00,Max,Adoption,Intact Male,not recorded,,
`

func TestLoad(t *testing.T) {
	t.Parallel()

	records, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "A001", first["animal_id"])
	assert.Equal(t, "Dog", first["animal_type"])
	assert.Equal(t, "Buddy", first["name"])
	assert.Equal(t, 52.5, first["age_upon_outcome_in_weeks"])
	assert.Equal(t, 30.75, first["location_lat"])

	// Empty cells are omitted, not stored as "".
	second := records[1]
	assert.Equal(t, "A002", second["animal_id"])
	_, hasName := second["name"]
	assert.False(t, hasName)
	_, hasColor := second["color"]
	assert.False(t, hasColor)
	assert.Equal(t, 26.0, second["age_upon_outcome_in_weeks"])

	// Non-numeric age cells are kept verbatim.
	third := records[2]
	assert.Equal(t, "not recorded", third["age_upon_outcome_in_weeks"])
	_, hasLat := third["location_lat"]
	assert.False(t, hasLat)
}

func TestLoadPreservesRowOrder(t *testing.T) {
	t.Parallel()

	records, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, "A001", records[0]["animal_id"])
	assert.Equal(t, "A002", records[1]["animal_id"])
	assert.Equal(t, "A003", records[2]["animal_id"])
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "outcomes.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	records, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadEmptyBody(t *testing.T) {
	t.Parallel()

	records, err := Load(strings.NewReader("animal_id,animal_type\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}
