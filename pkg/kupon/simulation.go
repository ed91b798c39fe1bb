package kupon

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// SimulationModel is the heavyweight stochastic prediction strategy. It
// estimates per-side expected-goal rates from attack/defense ratios, weighted
// form and squad firepower, then runs a Monte Carlo Poisson simulation to
// derive the outcome distribution and the most likely scorelines.
//
// The random source is threaded explicitly so runs are reproducible for a
// fixed seed and safe to parallelize across matches.
type SimulationModel struct {
	Trials int
	rng    *rand.Rand
}

// NewSimulationModel returns a simulation strategy drawing from the given
// source with the configured trial count
func NewSimulationModel(rng *rand.Rand) *SimulationModel {
	return &SimulationModel{
		Trials: GetSimulationTrials(),
		rng:    rng,
	}
}

// Predict runs the full pipeline for one match: xG estimation followed by
// the Monte Carlo simulation
func (s *SimulationModel) Predict(input *MatchInput) *PredictionResult {
	if input.HomeStanding == nil || input.AwayStanding == nil {
		return insufficientDataResult()
	}

	xgHome, xgAway := s.expectedGoals(input)
	result := s.simulate(xgHome, xgAway)

	result.HomeKeyPlayers = keyPlayers(input.HomePlayers, Config.KeyPlayers)
	result.AwayKeyPlayers = keyPlayers(input.AwayPlayers, Config.KeyPlayers)
	return result
}

/////////////////////////////////////////////////////////////////////////
////// Expected Goals
/////////////////////////////////////////////////////////////////////////

// expectedGoals combines base attack/defense rates, weighted form and the
// squad power ratio into the Poisson rates for each side.
// Home xG = (HomeAtk + AwayDef)/2 * FormFactor * sqrt(PowerRatio) * HomeAdv
func (s *SimulationModel) expectedGoals(input *MatchInput) (float64, float64) {
	homeStanding := input.HomeStanding
	awayStanding := input.AwayStanding

	homeAtk := homeStanding.AttackRate()
	homeDef := homeStanding.DefenseRate()
	awayAtk := awayStanding.AttackRate()
	awayDef := awayStanding.DefenseRate()

	homeForm := WeightedFormScore(input.HomeFixtures, input.HomeName)
	awayForm := WeightedFormScore(input.AwayFixtures, input.AwayName)

	// Squad firepower: total goals of the most active players per side.
	// The denominator floors at 1 so a goalless away squad never divides by
	// zero, and the clamp keeps thin data from producing blowout predictions.
	homeGoals, awayGoals := squadGoals(input.HomePlayers), squadGoals(input.AwayPlayers)
	powerRatio := clamp(float64(homeGoals)/math.Max(1, float64(awayGoals)), Config.PowerRatioFloor, Config.PowerRatioCeiling)

	xgHome := ((homeAtk + awayDef) / 2) *
		(1 + homeForm*Config.FormImpactScale) *
		math.Sqrt(powerRatio) *
		Config.SimHomeAdvantage
	xgAway := ((awayAtk + homeDef) / 2) *
		(1 + awayForm*Config.FormImpactScale) *
		(1 / math.Sqrt(powerRatio))

	return maxFloat(Config.MinExpectedGoals, xgHome), maxFloat(Config.MinExpectedGoals, xgAway)
}

// squadGoals sums the goals scored by the given players
func squadGoals(players []*Player) int {
	total := 0
	for _, player := range players {
		total += player.Goals
	}
	return total
}

/////////////////////////////////////////////////////////////////////////
////// Monte Carlo Simulation
/////////////////////////////////////////////////////////////////////////

// simulate draws Poisson goal counts for both sides over the configured
// number of trials and tallies the outcomes. The first ScorelineSampleCap
// scorelines are recorded verbatim for the most-common-scoreline report.
func (s *SimulationModel) simulate(xgHome, xgAway float64) *PredictionResult {
	trials := s.Trials
	if trials <= 0 {
		trials = GetSimulationTrials()
	}

	homeWins, draws, awayWins := 0, 0, 0
	overCount := 0
	scoreTally := make(map[string]int)
	scoreSamples := 0

	for i := 0; i < trials; i++ {
		homeGoals := poissonRandom(xgHome, s.rng)
		awayGoals := poissonRandom(xgAway, s.rng)

		switch {
		case homeGoals > awayGoals:
			homeWins++
		case homeGoals == awayGoals:
			draws++
		default:
			awayWins++
		}

		if homeGoals+awayGoals > 2 {
			overCount++
		}

		if scoreSamples < Config.ScorelineSampleCap {
			scoreTally[fmt.Sprintf("%d-%d", homeGoals, awayGoals)]++
			scoreSamples++
		}
	}

	total := float64(trials)
	homeProb := float64(homeWins) / total * 100
	drawProb := float64(draws) / total * 100
	awayProb := float64(awayWins) / total * 100
	overProb := float64(overCount) / total * 100

	label := "X"
	if homeProb > awayProb && homeProb > drawProb {
		label = "1"
	} else if awayProb > homeProb && awayProb > drawProb {
		label = "2"
	}

	return &PredictionResult{
		HomeWinProb:       homeProb,
		DrawProb:          drawProb,
		AwayWinProb:       awayProb,
		OverProb:          overProb,
		UnderProb:         100 - overProb,
		ExpectedGoalsHome: xgHome,
		ExpectedGoalsAway: xgAway,
		PredictedLabel:    label,
		ConfidenceTier:    confidenceTier(maxFloat(homeProb, maxFloat(drawProb, awayProb))),
		LikelyScores:      mostCommonScores(scoreTally, Config.TopScorelines),
	}
}

// poissonRandom generates a single Poisson-distributed goal count.
// Uses Knuth's inverse-uniform-product algorithm: multiply uniform draws
// until the running product falls below e^-lambda.
func poissonRandom(lambda float64, rng *rand.Rand) int {
	if lambda < 30 {
		limit := math.Exp(-lambda)
		k := 0
		p := 1.0
		for p > limit {
			k++
			p *= rng.Float64()
		}
		return k - 1
	}

	// Normal approximation for large lambda
	normal := rng.NormFloat64()
	goals := int(math.Round(lambda + math.Sqrt(lambda)*normal))
	if goals < 0 {
		goals = 0
	}
	return goals
}

// mostCommonScores returns the top scorelines by simulated frequency.
// Ties break lexically so the report is stable for a fixed seed.
func mostCommonScores(tally map[string]int, limit int) []string {
	type scoreCount struct {
		score string
		count int
	}

	counts := make([]scoreCount, 0, len(tally))
	for score, count := range tally {
		counts = append(counts, scoreCount{score, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].score < counts[j].score
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}
	scores := make([]string, len(counts))
	for i, sc := range counts {
		scores[i] = sc.score
	}
	return scores
}
