package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grazioso-salvare/shelter-cli/internal/model"
)

func TestMatchesEquality(t *testing.T) {
	t.Parallel()

	rec := model.Record{
		"animal_type": "Dog",
		"breed":       "Beagle",
		"age_upon_outcome_in_weeks": "52",
	}

	tests := []struct {
		name string
		spec map[string]any
		want bool
	}{
		{"exact match", map[string]any{"animal_type": "Dog"}, true},
		{"mismatch", map[string]any{"animal_type": "Cat"}, false},
		{"two fields AND", map[string]any{"animal_type": "Dog", "breed": "Beagle"}, true},
		{"one of two mismatched", map[string]any{"animal_type": "Dog", "breed": "Husky"}, false},
		{"absent field never matches", map[string]any{"color": "Brown"}, false},
		{"numeric vs string-encoded", map[string]any{"age_upon_outcome_in_weeks": 52}, true},
		{"empty query matches all", map[string]any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.spec).Matches(rec))
		})
	}
}

func TestMatchesIn(t *testing.T) {
	t.Parallel()

	rec := model.Record{"outcome_type": "Adoption", "age_upon_outcome_in_weeks": 52.0}

	tests := []struct {
		name string
		spec map[string]any
		want bool
	}{
		{"member", map[string]any{"outcome_type": map[string]any{"$in": []any{"Adoption", "Transfer"}}}, true},
		{"non-member", map[string]any{"outcome_type": map[string]any{"$in": []any{"Euthanasia"}}}, false},
		{"typed string slice", map[string]any{"outcome_type": map[string]any{"$in": []string{"Adoption"}}}, true},
		{"numeric cross-type member", map[string]any{"age_upon_outcome_in_weeks": map[string]any{"$in": []any{52}}}, true},
		{"empty set", map[string]any{"outcome_type": map[string]any{"$in": []any{}}}, false},
		{"absent field", map[string]any{"color": map[string]any{"$in": []any{"Brown"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.spec).Matches(rec))
		})
	}
}

func TestMatchesBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  model.Record
		spec map[string]any
		want bool
	}{
		{"gte satisfied", model.Record{"age": 30.0}, map[string]any{"age": map[string]any{"$gte": 26}}, true},
		{"gte boundary", model.Record{"age": 26.0}, map[string]any{"age": map[string]any{"$gte": 26}}, true},
		{"gte below", model.Record{"age": 20.0}, map[string]any{"age": map[string]any{"$gte": 26}}, false},
		{"lte satisfied", model.Record{"age": 100.0}, map[string]any{"age": map[string]any{"$lte": 156}}, true},
		{"lte above", model.Record{"age": 200.0}, map[string]any{"age": map[string]any{"$lte": 156}}, false},
		{"string-encoded record value", model.Record{"age": "52"}, map[string]any{"age": map[string]any{"$gte": 26}}, true},
		{"string-encoded bound", model.Record{"age": 52.0}, map[string]any{"age": map[string]any{"$lte": "156"}}, true},
		// Unparseable record values coerce to zero, not an error.
		{"garbage value vs gte", model.Record{"age": "unknown"}, map[string]any{"age": map[string]any{"$gte": 26}}, false},
		{"garbage value vs lte", model.Record{"age": "unknown"}, map[string]any{"age": map[string]any{"$lte": 156}}, true},
		// An unparseable bound never matches.
		{"garbage bound", model.Record{"age": 52.0}, map[string]any{"age": map[string]any{"$gte": "old"}}, false},
		// Both recognized operators in one clause apply conjunctively.
		{"window inside", model.Record{"age": 52.0}, map[string]any{"age": map[string]any{"$gte": 26, "$lte": 156}}, true},
		{"window outside", model.Record{"age": 200.0}, map[string]any{"age": map[string]any{"$gte": 26, "$lte": 156}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parse(tt.spec).Matches(tt.rec))
		})
	}
}

func TestMatchesUnrecognizedOperator(t *testing.T) {
	t.Parallel()

	rec := model.Record{"breed": "Beagle"}

	// Unknown operators degrade to string equality against their value.
	assert.True(t, Parse(map[string]any{"breed": map[string]any{"$regex": "Beagle"}}).Matches(rec))
	assert.False(t, Parse(map[string]any{"breed": map[string]any{"$regex": "Husky"}}).Matches(rec))
}

func TestMatchesEmptyOperatorMap(t *testing.T) {
	t.Parallel()

	q := Parse(map[string]any{"breed": map[string]any{}})
	assert.True(t, q.Matches(model.Record{"breed": "Beagle"}))
	assert.False(t, q.Matches(model.Record{"color": "Brown"}))
}

func TestFilterPreservesOrder(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		{"animal_id": "A1", "animal_type": "Dog"},
		{"animal_id": "A2", "animal_type": "Cat"},
		{"animal_id": "A3", "animal_type": "Dog"},
		{"animal_id": "A4", "animal_type": "Bird"},
	}

	got := Parse(map[string]any{"animal_type": "Dog"}).Filter(records)
	assert.Len(t, got, 2)
	assert.Equal(t, "A1", got[0]["animal_id"])
	assert.Equal(t, "A3", got[1]["animal_id"])

	all := Parse(map[string]any{}).Filter(records)
	assert.Len(t, all, 4)
}
