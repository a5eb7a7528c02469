package suggest

// Rating is the tier a score falls into.
type Rating struct {
	Level   string `json:"level"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

var ratingTiers = []struct {
	min    float64
	rating Rating
}{
	{90, Rating{Level: "Excellent", Color: "green", Message: "Very high chance of passing ATS!"}},
	{75, Rating{Level: "Good", Color: "blue", Message: "Good chance with minor improvements"}},
	{60, Rating{Level: "Fair", Color: "yellow", Message: "Needs improvements to pass ATS"}},
	{45, Rating{Level: "Poor", Color: "orange", Message: "Significant changes required"}},
}

var veryPoor = Rating{Level: "Very Poor", Color: "red", Message: "Major overhaul needed"}

// Rate maps a 0-100 score onto its rating tier.
func Rate(score float64) Rating {
	for _, tier := range ratingTiers {
		if score >= tier.min {
			return tier.rating
		}
	}
	return veryPoor
}
