package kupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherMatchInputResolvesAndFilters(t *testing.T) {
	data := &DataSet{
		Standings: []*Standing{
			{Country: "turkey", Team: "Galatasaray", Played: 10, Points: 26},
			{Country: "turkey", Team: "Fenerbahçe", Played: 10, Points: 24},
		},
		Fixtures: []*Fixture{
			{Country: "turkey", Week: "22", HomeTeam: "Galatasaray", AwayTeam: "Konyaspor", Score: "3-0"},
			{Country: "turkey", Week: "21", HomeTeam: "Rizespor", AwayTeam: "Galatasaray", Score: "0-2"},
			{Country: "turkey", Week: "22", HomeTeam: "Fenerbahçe", AwayTeam: "Sivasspor", Score: "1-1"},
		},
		Players: []*Player{
			{Country: "turkey", TeamName: "Galatasaray", PlayerName: "Icardi", Starts: 10, Goals: 12},
			{Country: "turkey", TeamName: "Galatasaray", PlayerName: "Mertens", Starts: 8, Goals: 4},
			{Country: "turkey", TeamName: "Fenerbahçe", PlayerName: "Dzeko", Starts: 9, Goals: 10},
		},
	}

	bulletin := &BulletinMatch{
		Country:  "turkey",
		HomeTeam: "Türkiye Süper Lig Paz 3 Galatasaray",
		AwayTeam: "Fenerbahçe",
	}

	input := GatherMatchInput(bulletin, data)

	require.NotNil(t, input.HomeStanding, "Decorated home name must resolve")
	assert.Equal(t, "Galatasaray", input.HomeName)
	assert.Equal(t, "Fenerbahçe", input.AwayName)

	assert.Len(t, input.HomeFixtures, 2, "Home fixtures include home and away appearances")
	assert.Len(t, input.AwayFixtures, 1)

	require.Len(t, input.HomePlayers, 2)
	assert.Equal(t, "Icardi", input.HomePlayers[0].PlayerName, "Players ordered by starts")
	require.Len(t, input.AwayPlayers, 1)
	assert.Equal(t, "Dzeko", input.AwayPlayers[0].PlayerName)
}

func TestGatherMatchInputSkipsUnplayedFixtures(t *testing.T) {
	// Upcoming matches sit at the head of the fixture list; they must not
	// consume form-window slots, otherwise a busy schedule starves the
	// points-form window of completed games
	data := &DataSet{
		Standings: []*Standing{{Country: "turkey", Team: "Galatasaray", Played: 10, Points: 26}},
	}
	for week := 30; week > 20; week-- {
		score := ""
		if week <= 27 {
			score = "2-0"
		}
		data.Fixtures = append(data.Fixtures, &Fixture{
			Country: "turkey", Week: "W", HomeTeam: "Galatasaray", AwayTeam: "Rakip", Score: score,
		})
	}

	bulletin := &BulletinMatch{Country: "turkey", HomeTeam: "Galatasaray", AwayTeam: "Rakip"}
	input := GatherMatchInput(bulletin, data)

	require.Len(t, input.HomeFixtures, Config.WeightedFormWindow)
	for _, fixture := range input.HomeFixtures {
		assert.True(t, fixture.HasBeenPlayed(), "Only completed fixtures may fill the window")
	}
	assert.InDelta(t, 1.0, PointsFormScore(input.HomeFixtures, "Galatasaray"), 1e-9,
		"A full window of wins scores perfect points form")
}

func TestGatherMatchInputUnknownSide(t *testing.T) {
	data := &DataSet{
		Standings: []*Standing{{Country: "turkey", Team: "Galatasaray", Played: 10, Points: 26}},
	}
	bulletin := &BulletinMatch{Country: "turkey", HomeTeam: "Galatasaray", AwayTeam: "Atlantis United"}

	input := GatherMatchInput(bulletin, data)

	assert.NotNil(t, input.HomeStanding)
	assert.Nil(t, input.AwayStanding)
	assert.Equal(t, "Atlantis United", input.AwayName)

	pred := NewScoringModel().Predict(input)
	assert.True(t, pred.InsufficientData)
}

func TestKeyPlayers(t *testing.T) {
	players := []*Player{
		{PlayerName: "Playmaker", Goals: 3, Assists: 9},
		{PlayerName: "Striker", Goals: 14, Assists: 1},
		{PlayerName: "Fullback", Goals: 1, Assists: 2},
		{PlayerName: "Keeper", Goals: 0, Assists: 0},
	}

	top := keyPlayers(players, 3)

	require.Len(t, top, 3)
	assert.Equal(t, "Striker", top[0].PlayerName)
	assert.Equal(t, "Playmaker", top[1].PlayerName)
	assert.Equal(t, "Fullback", top[2].PlayerName)
}
