package catalog

import (
	"strconv"

	"gadgetshelf/internal/domain"
)

// AverageRating is the mean of the product's ratings, 0 when it has none.
func AverageRating(p domain.Product) float64 {
	if len(p.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Ratings {
		sum += r
	}
	return float64(sum) / float64(len(p.Ratings))
}

func VoteCount(p domain.Product) int { return len(p.Ratings) }

// CurrentRatingStars is the number of checked stars in the 1-5 widget.
func CurrentRatingStars(p domain.Product) int {
	return int(AverageRating(p))
}

func VoteLabel(p domain.Product) string {
	switch n := VoteCount(p); n {
	case 0:
		return "Be the first to vote!"
	case 1:
		return "1 Vote"
	default:
		return strconv.Itoa(n) + " Votes"
	}
}
