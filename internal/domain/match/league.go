package match

// League thresholds on the 0-4.0 CGPA scale, 0.5-wide bands from 2.0 up.
const (
	leagueSilverMin   = 2.0
	leagueGoldMin     = 2.5
	leaguePlatinumMin = 3.0
	leagueDiamondMin  = 3.5
)

// League buckets a CGPA into one of five labeled tiers. The label is used
// for display grouping only and never feeds back into scoring.
func League(cgpa float64) string {
	switch {
	case cgpa >= leagueDiamondMin:
		return "diamond"
	case cgpa >= leaguePlatinumMin:
		return "platinum"
	case cgpa >= leagueGoldMin:
		return "gold"
	case cgpa >= leagueSilverMin:
		return "silver"
	default:
		return "bronze"
	}
}
