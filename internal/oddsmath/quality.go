package oddsmath

// Quality is the confidence tier of a pick.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityRisky     Quality = "risky"
)

// Tier boundaries are inclusive lower bounds.
const (
	ExcellentThreshold = 65.0
	GoodThreshold      = 55.0
)

// BetQuality maps a confidence percentage to its tier.
func BetQuality(confidence float64) Quality {
	switch {
	case confidence >= ExcellentThreshold:
		return QualityExcellent
	case confidence >= GoodThreshold:
		return QualityGood
	default:
		return QualityRisky
	}
}
