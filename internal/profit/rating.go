package profit

import "github.com/shopspring/decimal"

// Rating buckets a profit margin for dashboards.
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingAverage   Rating = "average"
	RatingLow       Rating = "low"
	RatingLoss      Rating = "loss"
)

var ratingFloors = []struct {
	min    decimal.Decimal
	rating Rating
}{
	{decimal.NewFromInt(50), RatingExcellent},
	{decimal.NewFromInt(30), RatingGood},
	{decimal.NewFromInt(15), RatingAverage},
	{decimal.NewFromInt(5), RatingLow},
}

// Classify rates a margin percentage.
func Classify(marginPercentage decimal.Decimal) Rating {
	for _, floor := range ratingFloors {
		if marginPercentage.GreaterThanOrEqual(floor.min) {
			return floor.rating
		}
	}
	return RatingLoss
}
