// Package demo supplies canned substitute payloads for every read and
// aggregation the data layer exposes. When the backing store is unreachable,
// or a live aggregation fails mid-pass, the consuming application renders
// these instead of surfacing the failure. Payloads are deterministic: the
// same call always yields the same values, as fresh copies callers may
// mutate freely.
package demo

import "github.com/grazioso-salvare/shelter-cli/internal/model"

var records = []model.Record{
	{
		"animal_id": "A001", "animal_type": "Dog", "breed": "Labrador Retriever Mix",
		"age_upon_outcome_in_weeks": 52.0, "outcome_type": "Adoption",
		"sex_upon_outcome": "Intact Female", "name": "Buddy",
		"location_lat": 30.75, "location_long": -97.48,
	},
	{
		"animal_id": "A002", "animal_type": "Dog", "breed": "Chesapeake Bay Retriever",
		"age_upon_outcome_in_weeks": 60.0, "outcome_type": "Adoption",
		"sex_upon_outcome": "Intact Female", "name": "Sadie",
		"location_lat": 30.76, "location_long": -97.49,
	},
	{
		"animal_id": "A003", "animal_type": "Dog", "breed": "Newfoundland",
		"age_upon_outcome_in_weeks": 80.0, "outcome_type": "Transfer",
		"sex_upon_outcome": "Intact Female", "name": "Molly",
		"location_lat": 30.74, "location_long": -97.47,
	},
	{
		"animal_id": "A004", "animal_type": "Dog", "breed": "German Shepherd",
		"age_upon_outcome_in_weeks": 48.0, "outcome_type": "Adoption",
		"sex_upon_outcome": "Intact Male", "name": "Max",
		"location_lat": 30.77, "location_long": -97.50,
	},
	{
		"animal_id": "A005", "animal_type": "Dog", "breed": "Alaskan Malamute",
		"age_upon_outcome_in_weeks": 55.0, "outcome_type": "Adoption",
		"sex_upon_outcome": "Intact Male", "name": "Duke",
		"location_lat": 30.73, "location_long": -97.46,
	},
	{
		"animal_id": "A006", "animal_type": "Cat", "breed": "Siamese",
		"age_upon_outcome_in_weeks": 26.0, "outcome_type": "Transfer",
		"sex_upon_outcome": "Spayed Female", "name": "Whiskers",
		"location_lat": 30.78, "location_long": -97.51,
	},
	{
		"animal_id": "A007", "animal_type": "Dog", "breed": "Golden Retriever",
		"age_upon_outcome_in_weeks": 45.0, "outcome_type": "Return to Owner",
		"sex_upon_outcome": "Neutered Male", "name": "Charlie",
		"location_lat": 30.72, "location_long": -97.45,
	},
}

// Records returns the sample record set used for reads in demo mode.
func Records() []model.Record {
	out := make([]model.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// BreedPerformance returns the substitute breed performance payload.
func BreedPerformance() []model.BreedPerformance {
	return []model.BreedPerformance{
		{Breed: "Labrador Retriever Mix", TotalAnimals: 45, AdoptionCount: 38, AdoptionRate: 84.4, SuccessRate: 91.1},
		{Breed: "German Shepherd", TotalAnimals: 32, AdoptionCount: 25, AdoptionRate: 78.1, SuccessRate: 87.5},
		{Breed: "Golden Retriever", TotalAnimals: 28, AdoptionCount: 24, AdoptionRate: 85.7, SuccessRate: 92.8},
		{Breed: "Bulldog", TotalAnimals: 22, AdoptionCount: 16, AdoptionRate: 72.7, SuccessRate: 81.8},
		{Breed: "Beagle", TotalAnimals: 35, AdoptionCount: 28, AdoptionRate: 80.0, SuccessRate: 88.6},
	}
}

// RescueReport returns the substitute rescue-type analytics payload.
func RescueReport() model.RescueReport {
	return model.RescueReport{
		Water: model.RescueSummary{
			Total: 25,
			Breakdown: []model.RescueBreakdown{
				{Breed: "Labrador Retriever Mix", Count: 12, AvgAgeWeeks: 45.2},
				{Breed: "Chesapeake Bay Retriever", Count: 8, AvgAgeWeeks: 52.7},
				{Breed: "Newfoundland", Count: 5, AvgAgeWeeks: 61.3},
			},
		},
		Wilderness: model.RescueSummary{
			Total: 18,
			Breakdown: []model.RescueBreakdown{
				{Breed: "German Shepherd", Count: 6, AvgAgeWeeks: 48.5},
				{Breed: "Alaskan Malamute", Count: 5, AvgAgeWeeks: 55.2},
				{Breed: "Siberian Husky", Count: 4, AvgAgeWeeks: 42.8},
				{Breed: "Rottweiler", Count: 3, AvgAgeWeeks: 50.1},
			},
		},
		Disaster: model.RescueSummary{
			Total: 32,
			Breakdown: []model.RescueBreakdown{
				{Breed: "Doberman Pinscher", Count: 8, AvgAgeWeeks: 47.3},
				{Breed: "German Shepherd", Count: 7, AvgAgeWeeks: 49.2},
				{Breed: "Golden Retriever", Count: 9, AvgAgeWeeks: 43.7},
				{Breed: "Bloodhound", Count: 5, AvgAgeWeeks: 58.4},
				{Breed: "Rottweiler", Count: 3, AvgAgeWeeks: 51.6},
			},
		},
	}
}

// MonthlyTrends returns the substitute adoption trend payload.
func MonthlyTrends() []model.MonthlyTrend {
	return []model.MonthlyTrend{
		{Year: 2024, Month: 10, AdoptionCount: 62, DogAdoptions: 38, CatAdoptions: 22},
		{Year: 2024, Month: 9, AdoptionCount: 58, DogAdoptions: 36, CatAdoptions: 20},
		{Year: 2024, Month: 8, AdoptionCount: 65, DogAdoptions: 40, CatAdoptions: 23},
		{Year: 2024, Month: 7, AdoptionCount: 60, DogAdoptions: 38, CatAdoptions: 20},
		{Year: 2024, Month: 6, AdoptionCount: 58, DogAdoptions: 36, CatAdoptions: 20},
		{Year: 2024, Month: 5, AdoptionCount: 60, DogAdoptions: 38, CatAdoptions: 20},
	}
}

// Demographics returns the substitute demographics payload.
func Demographics() []model.Demographic {
	return []model.Demographic{
		{AnimalType: "Dog", TotalCount: 65, AvgAgeWeeks: 45.2},
		{AnimalType: "Cat", TotalCount: 35, AvgAgeWeeks: 32.7},
		{AnimalType: "Bird", TotalCount: 12, AvgAgeWeeks: 28.3},
		{AnimalType: "Other", TotalCount: 8, AvgAgeWeeks: 36.5},
	}
}
