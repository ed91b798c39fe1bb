package kupon

// ScoringModel is the cheap deterministic prediction strategy: a closed-form
// weighted combination of points-per-match, recent form and goal power, with
// heuristic draw and over/under adjustments.
type ScoringModel struct{}

// NewScoringModel returns the closed-form strategy
func NewScoringModel() *ScoringModel {
	return &ScoringModel{}
}

// Predict computes the outcome distribution for one match.
// Returns an explicitly flagged insufficient-data result when either side has
// no standing record.
func (s *ScoringModel) Predict(input *MatchInput) *PredictionResult {
	homeStanding := input.HomeStanding
	awayStanding := input.AwayStanding
	if homeStanding == nil || awayStanding == nil {
		return insufficientDataResult()
	}

	// Base strength: points per match blended with recent form
	homePPM := homeStanding.PointsPerMatch()
	awayPPM := awayStanding.PointsPerMatch()

	homeForm := PointsFormScore(input.HomeFixtures, input.HomeName)
	awayForm := PointsFormScore(input.AwayFixtures, input.AwayName)

	homeBase := homePPM*Config.PPMWeight + homeForm*Config.FormWeight
	awayBase := awayPPM*Config.PPMWeight + awayForm*Config.FormWeight

	// Home advantage applies to the home side only
	homeScore := homeBase * Config.HomeAdvantage
	awayScore := awayBase

	// Goal power
	expHome := (homeStanding.AttackRate() + awayStanding.DefenseRate()) / 2
	expAway := (awayStanding.AttackRate() + homeStanding.DefenseRate()) / 2

	// Raw win probabilities from relative strength
	homeProb, awayProb := 0.0, 0.0
	if total := homeScore + awayScore; total > 0 {
		homeProb = homeScore / total * 100
		awayProb = awayScore / total * 100
	}

	// Draw weight grows when the sides are close
	drawProb := Config.BaseDrawWeight
	if diff := absFloat(homeProb - awayProb); diff < Config.CloseDrawGap {
		drawProb += Config.CloseDrawBonus
	}

	// Normalize the three outcomes to 100
	norm := homeProb + drawProb + awayProb
	homeProb = homeProb / norm * 100
	drawProb = drawProb / norm * 100
	awayProb = awayProb / norm * 100

	// Over/under 2.5 heuristic centered on the combined expected goals
	totalExpGoals := expHome + expAway
	overProb := Config.OverBaseline + (totalExpGoals-2.5)*Config.OverGoalsScale
	overProb = clamp(overProb, Config.OverFloor, Config.OverCeiling)
	underProb := 100.0 - overProb

	// Decision label; the banker suffix marks high-confidence result picks
	label := "X"
	if homeProb > Config.ResultThreshold {
		label = "1"
	}
	if awayProb > Config.ResultThreshold {
		label = "2"
	}
	if homeProb > Config.BankerThreshold {
		label = "1" + BankerSuffix
	}
	if awayProb > Config.BankerThreshold {
		label = "2" + BankerSuffix
	}

	return &PredictionResult{
		HomeWinProb:       homeProb,
		DrawProb:          drawProb,
		AwayWinProb:       awayProb,
		OverProb:          overProb,
		UnderProb:         underProb,
		ExpectedGoalsHome: expHome,
		ExpectedGoalsAway: expAway,
		PredictedLabel:    label,
		ConfidenceTier:    confidenceTier(maxFloat(homeProb, maxFloat(drawProb, awayProb))),
	}
}

// confidenceTier maps the strongest outcome probability onto a tier
func confidenceTier(maxProb float64) string {
	switch {
	case maxProb > Config.HighConfidenceOver:
		return ConfidenceHigh
	case maxProb > Config.MediumConfidenceOver:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func absFloat(value float64) float64 {
	if value < 0 {
		return -value
	}
	return value
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
