package model

// BreedPerformance summarizes outcome success for one dog breed.
type BreedPerformance struct {
	Breed         string  `json:"breed"`
	TotalAnimals  int     `json:"total_animals"`
	AdoptionCount int     `json:"adoption_count"`
	AdoptionRate  float64 `json:"adoption_rate"`
	SuccessRate   float64 `json:"success_rate"`
}

// RescueClass identifies one of the rescue-training eligibility profiles.
type RescueClass string

const (
	RescueWater      RescueClass = "water_rescue"
	RescueWilderness RescueClass = "wilderness_rescue"
	RescueDisaster   RescueClass = "disaster_rescue"
)

// RescueBreakdown is the per-breed slice of a rescue eligibility class.
type RescueBreakdown struct {
	Breed       string  `json:"breed"`
	Count       int     `json:"count"`
	AvgAgeWeeks float64 `json:"avg_age_weeks"`
}

// RescueSummary holds the eligible total and per-breed breakdown for one class.
type RescueSummary struct {
	Total     int               `json:"total"`
	Breakdown []RescueBreakdown `json:"breakdown"`
}

// RescueReport covers all three rescue eligibility classes.
type RescueReport struct {
	Water      RescueSummary `json:"water_rescue"`
	Wilderness RescueSummary `json:"wilderness_rescue"`
	Disaster   RescueSummary `json:"disaster_rescue"`
}

// MonthlyTrend is one month's adoption counts.
type MonthlyTrend struct {
	Year          int `json:"year"`
	Month         int `json:"month"`
	AdoptionCount int `json:"adoption_count"`
	DogAdoptions  int `json:"dog_adoptions"`
	CatAdoptions  int `json:"cat_adoptions"`
}

// Demographic is the population summary for one animal type.
type Demographic struct {
	AnimalType  string  `json:"animal_type"`
	TotalCount  int     `json:"total_count"`
	AvgAgeWeeks float64 `json:"avg_age_weeks"`
}
