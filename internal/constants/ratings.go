package constants

const (
	// Rating scale shared by habit snapshots and mood ratings.
	MinRating = 0
	MaxRating = 5

	// QualifyingRating is the lowest habit rating that counts towards a
	// rating streak and the rating-based completion rate.
	QualifyingRating = 3

	// GreatRating marks a habit average worth celebrating.
	GreatRating = 4

	// RecentRatingsCount is the length of the sparkline history.
	RecentRatingsCount = 7

	// CompletionWindowDays is the fixed denominator of the completion-record rate.
	CompletionWindowDays = 30

	// Day rating windows selectable by the caller.
	WindowWeek      = 7
	WindowFortnight = 14
	WindowMonth     = 30
)

func init() {
	if QualifyingRating > MaxRating || GreatRating > MaxRating {
		panic("rating thresholds must not exceed MaxRating")
	}
}
