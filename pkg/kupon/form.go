package kupon

// Form scoring summarizes a team's recent results into a single number.
// Fixtures are expected most-recent-first; anything without a parseable
// score is skipped and contributes to neither the numerator nor the
// weight sum.

// WeightedFormScore computes the recency-weighted performance score over up
// to the configured window of fixtures. The i-th fixture (i=0 newest)
// receives weight 1.0 + 0.1*(window-i), so the most recent match weighs the
// most. Each fixture contributes its goal difference plus a result bonus
// relative to the queried team.
func WeightedFormScore(fixtures []*Fixture, teamName string) float64 {
	window := Config.WeightedFormWindow
	if len(fixtures) > window {
		fixtures = fixtures[:window]
	}

	score := 0.0
	totalWeight := 0.0

	for i, fixture := range fixtures {
		homeGoals, awayGoals, ok := ParseScore(fixture.Score)
		if !ok {
			continue
		}

		weight := 1.0 + 0.1*float64(window-i)

		goalsFor, goalsAgainst := homeGoals, awayGoals
		if !fixture.IsHomeFor(teamName) {
			goalsFor, goalsAgainst = awayGoals, homeGoals
		}

		gd := float64(goalsFor - goalsAgainst)
		perf := gd
		if gd > 0 {
			perf += Config.WinBonus
		} else if gd == 0 {
			perf += Config.DrawBonus
		}

		score += perf * weight
		totalWeight += weight
	}

	if totalWeight < 1.0 {
		totalWeight = 1.0
	}
	return score / totalWeight
}

// PointsFormScore accumulates league points (3/1/0) over up to the configured
// window of completed fixtures and normalizes against the maximum attainable,
// yielding a value in [0,1]. This is the cheap variant used by the scoring
// model.
func PointsFormScore(fixtures []*Fixture, teamName string) float64 {
	window := Config.PointsFormWindow
	maxPoints := float64(window * 3)

	points := 0
	seen := 0
	for _, fixture := range fixtures {
		if seen >= window {
			break
		}
		homeGoals, awayGoals, ok := ParseScore(fixture.Score)
		if !ok {
			continue
		}
		seen++

		goalsFor, goalsAgainst := homeGoals, awayGoals
		if !fixture.IsHomeFor(teamName) {
			goalsFor, goalsAgainst = awayGoals, homeGoals
		}

		if goalsFor > goalsAgainst {
			points += 3
		} else if goalsFor == goalsAgainst {
			points++
		}
	}

	return float64(points) / maxPoints
}
