package schema

// Score band labels shared by ReadyScore output and tiered protocols.
const (
	PeakBand     = "Peak"
	ReadyBand    = "Ready"
	ModerateBand = "Moderate"
	RecoverBand  = "Recover"
)

// GetPlainLabel returns the band label for a 0-100 score.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return PeakBand
	case score >= 60:
		return ReadyBand
	case score >= 40:
		return ModerateBand
	default:
		return RecoverBand
	}
}

// EnrichedTest adds presentation data to a HormoneTest.
type EnrichedTest struct {
	Index  int        `json:"index"`
	Status TestStatus `json:"status"`
	Unit   string     `json:"unit"`
	HormoneTest
}
