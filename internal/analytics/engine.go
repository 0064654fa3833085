// Package analytics computes the reporting aggregations over the record
// store: breed outcome performance, rescue-training eligibility, monthly
// adoption trends, and population demographics. Each aggregation pulls a
// snapshot through the store, groups and reduces it in memory, and on any
// internal failure substitutes the demo payload for that aggregation instead
// of propagating the failure to the caller.
package analytics

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/grazioso-salvare/shelter-cli/internal/demo"
	"github.com/grazioso-salvare/shelter-cli/internal/model"
	"github.com/grazioso-salvare/shelter-cli/internal/shelter"
)

const (
	// defaultTrendMonths caps the monthly trend window when the caller
	// passes no explicit size.
	defaultTrendMonths = 12
	// minBreedGroupSize drops breed groups too small to report a
	// meaningful rate.
	minBreedGroupSize = 5
	// maxBreedGroups caps the breed performance result.
	maxBreedGroups = 15
)

// rescueProfile is one eligibility class: breed allow-list, required sex, and
// an age window in weeks. Records missing the age field count as eligible;
// records with an unparseable age do not.
type rescueProfile struct {
	breeds   map[string]bool
	sex      string
	minWeeks float64
	maxWeeks float64
}

var rescueProfiles = map[model.RescueClass]rescueProfile{
	model.RescueWater: {
		breeds:   breedSet("Labrador Retriever Mix", "Chesapeake Bay Retriever", "Newfoundland"),
		sex:      "Intact Female",
		minWeeks: 26, maxWeeks: 156,
	},
	model.RescueWilderness: {
		breeds:   breedSet("German Shepherd", "Alaskan Malamute", "Old English Sheepdog", "Siberian Husky", "Rottweiler"),
		sex:      "Intact Male",
		minWeeks: 26, maxWeeks: 156,
	},
	model.RescueDisaster: {
		breeds:   breedSet("Doberman Pinscher", "German Shepherd", "Golden Retriever", "Bloodhound", "Rottweiler"),
		sex:      "Intact Male",
		minWeeks: 20, maxWeeks: 300,
	},
}

func breedSet(breeds ...string) map[string]bool {
	s := make(map[string]bool, len(breeds))
	for _, b := range breeds {
		s[b] = true
	}
	return s
}

// Engine runs the aggregations against a DataStore.
type Engine struct {
	store *shelter.DataStore
}

// NewEngine creates an aggregation engine over the given store.
func NewEngine(ds *shelter.DataStore) *Engine {
	return &Engine{store: ds}
}

// BreedPerformance groups dog outcomes by breed and reports adoption and
// overall success rates. Groups smaller than five animals are dropped; the
// result is sorted by success rate then group size, descending, and capped
// at fifteen breeds.
func (e *Engine) BreedPerformance(ctx context.Context) []model.BreedPerformance {
	if !e.store.Available() {
		return demo.BreedPerformance()
	}

	records, err := e.store.Read(ctx, map[string]any{
		model.FieldAnimalType: "Dog",
		model.FieldOutcomeType: map[string]any{
			"$in": []any{model.OutcomeAdoption, model.OutcomeReturnToOwner, model.OutcomeTransfer},
		},
	}, "system")
	if err != nil {
		zap.L().Warn("breed performance aggregation failed, substituting demo payload", zap.Error(err))
		return demo.BreedPerformance()
	}

	type bucket struct {
		total     int
		adoptions int
		returns   int
		transfers int
	}
	buckets := make(map[string]*bucket)
	for _, rec := range records {
		breed := rec.Str(model.FieldBreed)
		b := buckets[breed]
		if b == nil {
			b = &bucket{}
			buckets[breed] = b
		}
		b.total++
		switch rec.Str(model.FieldOutcomeType) {
		case model.OutcomeAdoption:
			b.adoptions++
		case model.OutcomeReturnToOwner:
			b.returns++
		case model.OutcomeTransfer:
			b.transfers++
		}
	}

	out := make([]model.BreedPerformance, 0, len(buckets))
	for breed, b := range buckets {
		if b.total < minBreedGroupSize {
			continue
		}
		out = append(out, model.BreedPerformance{
			Breed:         breed,
			TotalAnimals:  b.total,
			AdoptionCount: b.adoptions,
			AdoptionRate:  100 * float64(b.adoptions) / float64(b.total),
			SuccessRate:   100 * float64(b.adoptions+b.returns+b.transfers) / float64(b.total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SuccessRate != out[j].SuccessRate {
			return out[i].SuccessRate > out[j].SuccessRate
		}
		if out[i].TotalAnimals != out[j].TotalAnimals {
			return out[i].TotalAnimals > out[j].TotalAnimals
		}
		return out[i].Breed < out[j].Breed
	})
	if len(out) > maxBreedGroups {
		out = out[:maxBreedGroups]
	}
	return out
}

// RescueTypes reports, for each rescue-training class, the total eligible
// dogs and a per-breed breakdown with average age.
func (e *Engine) RescueTypes(ctx context.Context) model.RescueReport {
	if !e.store.Available() {
		return demo.RescueReport()
	}

	records, err := e.store.Read(ctx, map[string]any{model.FieldAnimalType: "Dog"}, "system")
	if err != nil {
		zap.L().Warn("rescue analytics failed, substituting demo payload", zap.Error(err))
		return demo.RescueReport()
	}

	return model.RescueReport{
		Water:      summarizeRescue(records, rescueProfiles[model.RescueWater]),
		Wilderness: summarizeRescue(records, rescueProfiles[model.RescueWilderness]),
		Disaster:   summarizeRescue(records, rescueProfiles[model.RescueDisaster]),
	}
}

func summarizeRescue(records []model.Record, p rescueProfile) model.RescueSummary {
	type bucket struct {
		count  int
		ageSum float64
		ageN   int
	}
	buckets := make(map[string]*bucket)

	for _, rec := range records {
		breed := rec.Str(model.FieldBreed)
		if !p.breeds[breed] || rec.Str(model.FieldSex) != p.sex {
			continue
		}
		age, hasAge, parseable := recordAge(rec)
		if hasAge && !parseable {
			continue
		}
		if hasAge && (age < p.minWeeks || age > p.maxWeeks) {
			continue
		}
		b := buckets[breed]
		if b == nil {
			b = &bucket{}
			buckets[breed] = b
		}
		b.count++
		if hasAge {
			b.ageSum += age
			b.ageN++
		}
	}

	var sum model.RescueSummary
	breeds := make([]string, 0, len(buckets))
	for breed := range buckets {
		breeds = append(breeds, breed)
	}
	sort.Strings(breeds)
	for _, breed := range breeds {
		b := buckets[breed]
		avg := 0.0
		if b.ageN > 0 {
			avg = b.ageSum / float64(b.ageN)
		}
		sum.Total += b.count
		sum.Breakdown = append(sum.Breakdown, model.RescueBreakdown{
			Breed: breed, Count: b.count, AvgAgeWeeks: avg,
		})
	}
	return sum
}

func recordAge(rec model.Record) (age float64, present, parseable bool) {
	raw, ok := rec[model.FieldAgeWeeks]
	if !ok || raw == nil || model.Stringify(raw) == "" {
		return 0, false, false
	}
	n, ok := model.ToNumber(raw)
	return n, true, ok
}

// MonthlyTrends groups adoptions by calendar month, newest first, capped at
// the given window (default 12 when months <= 0). Records without a
// parseable timestamp are skipped.
func (e *Engine) MonthlyTrends(ctx context.Context, months int) []model.MonthlyTrend {
	if months <= 0 {
		months = defaultTrendMonths
	}
	if !e.store.Available() {
		return demo.MonthlyTrends()
	}

	records, err := e.store.Read(ctx, map[string]any{model.FieldOutcomeType: model.OutcomeAdoption}, "system")
	if err != nil {
		zap.L().Warn("adoption trend aggregation failed, substituting demo payload", zap.Error(err))
		return demo.MonthlyTrends()
	}

	type ym struct{ year, month int }
	buckets := make(map[ym]*model.MonthlyTrend)
	for _, rec := range records {
		ts, ok := rec.Timestamp()
		if !ok {
			continue
		}
		key := ym{ts.Year(), int(ts.Month())}
		t := buckets[key]
		if t == nil {
			t = &model.MonthlyTrend{Year: key.year, Month: key.month}
			buckets[key] = t
		}
		t.AdoptionCount++
		switch rec.Str(model.FieldAnimalType) {
		case "Dog":
			t.DogAdoptions++
		case "Cat":
			t.CatAdoptions++
		}
	}

	out := make([]model.MonthlyTrend, 0, len(buckets))
	for _, t := range buckets {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	if len(out) > months {
		out = out[:months]
	}
	return out
}

// Demographics groups all records by animal type with count and average age,
// sorted by count descending.
func (e *Engine) Demographics(ctx context.Context) []model.Demographic {
	if !e.store.Available() {
		return demo.Demographics()
	}

	records, err := e.store.Read(ctx, map[string]any{}, "system")
	if err != nil {
		zap.L().Warn("demographics aggregation failed, substituting demo payload", zap.Error(err))
		return demo.Demographics()
	}

	type bucket struct {
		count  int
		ageSum float64
		ageN   int
	}
	buckets := make(map[string]*bucket)
	for _, rec := range records {
		animalType := rec.Str(model.FieldAnimalType)
		if animalType == "" {
			animalType = "Unknown"
		}
		b := buckets[animalType]
		if b == nil {
			b = &bucket{}
			buckets[animalType] = b
		}
		b.count++
		if age, ok := rec.Number(model.FieldAgeWeeks); ok {
			b.ageSum += age
			b.ageN++
		}
	}

	out := make([]model.Demographic, 0, len(buckets))
	for animalType, b := range buckets {
		avg := 0.0
		if b.ageN > 0 {
			avg = b.ageSum / float64(b.ageN)
		}
		out = append(out, model.Demographic{
			AnimalType: animalType, TotalCount: b.count, AvgAgeWeeks: avg,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCount != out[j].TotalCount {
			return out[i].TotalCount > out[j].TotalCount
		}
		return out[i].AnimalType < out[j].AnimalType
	})
	return out
}
