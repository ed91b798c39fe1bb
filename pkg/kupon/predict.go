package kupon

import (
	"sort"
	"strings"
)

// MatchInput carries everything a prediction strategy needs for one match.
// All data is assumed already materialized; strategies never touch storage.
type MatchInput struct {
	Bulletin *BulletinMatch

	HomeStanding *Standing
	AwayStanding *Standing

	// Canonical names produced by the resolver, used for fixture/player joins
	HomeName string
	AwayName string

	// Recent completed fixtures involving each side, most-recent-first
	HomeFixtures []*Fixture
	AwayFixtures []*Fixture

	// Most active squad members per side, by starts
	HomePlayers []*Player
	AwayPlayers []*Player
}

// PredictionResult is the outcome-probability distribution for one match.
// Probabilities are percentages; the three result probabilities sum to 100
// unless InsufficientData is set, in which case every numeric field is zero
// and the result must not be mistaken for a valid flat split.
type PredictionResult struct {
	InsufficientData bool

	HomeWinProb float64
	DrawProb    float64
	AwayWinProb float64

	OverProb  float64
	UnderProb float64

	ExpectedGoalsHome float64
	ExpectedGoalsAway float64

	PredictedLabel string
	ConfidenceTier string

	// Simulation extras, empty for the scoring model
	LikelyScores   []string
	HomeKeyPlayers []*Player
	AwayKeyPlayers []*Player
}

// PredictionStrategy is one interchangeable prediction model.
// Both models are pure over their input and safe to invoke concurrently for
// different matches.
type PredictionStrategy interface {
	Predict(input *MatchInput) *PredictionResult
}

// insufficientDataResult is returned when one or both standings are missing.
// Explicitly flagged so callers never confuse it with a computed 0/0/0 split.
func insufficientDataResult() *PredictionResult {
	return &PredictionResult{
		InsufficientData: true,
		PredictedLabel:   "",
		ConfidenceTier:   ConfidenceLow,
	}
}

/////////////////////////////////////////////////////////////////////////
////// Input Assembly
/////////////////////////////////////////////////////////////////////////

// DataSet holds the materialized league records for one country, keyed the
// way the prediction pipeline consumes them
type DataSet struct {
	Standings []*Standing
	Fixtures  []*Fixture
	Players   []*Player
}

// GatherMatchInput resolves both bulletin team names against the data set and
// assembles the per-team fixture and player slices the strategies consume.
// A missing standing on either side is carried through as nil, which the
// strategies report as insufficient data.
func GatherMatchInput(bulletin *BulletinMatch, data *DataSet) *MatchInput {
	homeRes := ResolveTeam(bulletin.HomeTeam, data.Standings)
	awayRes := ResolveTeam(bulletin.AwayTeam, data.Standings)

	input := &MatchInput{
		Bulletin:     bulletin,
		HomeStanding: homeRes.Standing,
		AwayStanding: awayRes.Standing,
		HomeName:     homeRes.CleanName,
		AwayName:     awayRes.CleanName,
	}

	window := Config.WeightedFormWindow
	input.HomeFixtures = recentFixturesFor(data.Fixtures, homeRes.CleanName, window)
	input.AwayFixtures = recentFixturesFor(data.Fixtures, awayRes.CleanName, window)

	topN := Config.TopSquadPlayers
	input.HomePlayers = topPlayersFor(data.Players, homeRes.CleanName, topN)
	input.AwayPlayers = topPlayersFor(data.Players, awayRes.CleanName, topN)

	return input
}

// recentFixturesFor filters the fixture list, assumed most-recent-first, down
// to the first limit completed fixtures involving the team. Unplayed rows are
// skipped up front so upcoming matches never consume form-window slots.
func recentFixturesFor(fixtures []*Fixture, teamName string, limit int) []*Fixture {
	var recent []*Fixture
	for _, fixture := range fixtures {
		if !fixture.HasBeenPlayed() || !fixture.InvolvesTeam(teamName) {
			continue
		}
		recent = append(recent, fixture)
		if len(recent) >= limit {
			break
		}
	}
	return recent
}

// topPlayersFor returns the team's most active players by start count
func topPlayersFor(players []*Player, teamName string, limit int) []*Player {
	name := strings.ToLower(strings.TrimSpace(teamName))
	var squad []*Player
	for _, player := range players {
		if name == "" || !strings.Contains(strings.ToLower(player.TeamName), name) {
			continue
		}
		squad = append(squad, player)
	}

	sort.SliceStable(squad, func(i, j int) bool {
		return squad[i].Starts > squad[j].Starts
	})
	if len(squad) > limit {
		squad = squad[:limit]
	}
	return squad
}

// keyPlayers returns the top players by goal involvement for the report
func keyPlayers(players []*Player, limit int) []*Player {
	sorted := make([]*Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GoalInvolvement() > sorted[j].GoalInvolvement()
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
