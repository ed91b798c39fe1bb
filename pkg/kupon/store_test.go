package kupon

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB points the package connection at a throwaway database file
// and creates the schema
func setupTestDB(t *testing.T) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kupon_test.db")
	require.NoError(t, OpenDatabase(path), "Failed to open test database")
	require.NoError(t, CreateTables(), "Failed to create tables")

	t.Cleanup(func() {
		CloseDatabase()
	})
}

func TestStandingRoundTrip(t *testing.T) {
	setupTestDB(t)

	in := &Standing{
		Country: "turkey", Team: "Galatasaray",
		Rank: 1, Played: 10, Won: 8, Drawn: 2, Lost: 0,
		GoalsFor: 24, GoalsAgainst: 8, Average: 16, Points: 26,
	}
	require.NoError(t, Save(in))

	out := &Standing{}
	require.NoError(t, FindByPrimaryKey(out, map[string]any{"country": "turkey", "team": "Galatasaray"}))

	assert.Equal(t, in.Rank, out.Rank)
	assert.Equal(t, in.Points, out.Points)
	assert.Equal(t, in.GoalsFor, out.GoalsFor)
}

func TestStandingUpdateOnResave(t *testing.T) {
	setupTestDB(t)

	s := &Standing{Country: "turkey", Team: "Galatasaray", Played: 10, Points: 26}
	require.NoError(t, Save(s))

	s.Played = 11
	s.Points = 29
	require.NoError(t, Save(s))

	loaded, err := LoadStandings("turkey")
	require.NoError(t, err)
	require.Len(t, loaded, 1, "Resaving the same primary key must update, not insert")
	assert.Equal(t, 29, loaded[0].Points)
}

func TestCouponRoundTrip(t *testing.T) {
	setupTestDB(t)

	in := NewCoupon(decimal.RequireFromString("100.00"), 72.5)
	in.IsPlayed = true
	in.AddItem(&CouponItem{
		HomeTeam: "Arsenal", AwayTeam: "Chelsea", MatchDate: "01.02.2026",
		MatchTime: "20:00", League: "Premier League",
		Prediction: PickHome, Odds: decimal.RequireFromString("1.48"),
	})
	in.AddItem(&CouponItem{
		HomeTeam: "Liverpool", AwayTeam: "Everton", MatchDate: "01.02.2026",
		MatchTime: "17:30", League: "Premier League",
		Prediction: PickOver, Odds: decimal.RequireFromString("1.85"),
	})

	require.NoError(t, SaveCoupon(in))

	out, err := LoadCoupon(in.ID)
	require.NoError(t, err)

	assert.True(t, in.Amount.Equal(out.Amount), "Stake must survive the round trip exactly")
	assert.True(t, in.TotalOdds.Equal(out.TotalOdds))
	assert.True(t, in.PotentialReturn.Equal(out.PotentialReturn))
	assert.Equal(t, in.Confidence, out.Confidence)
	assert.True(t, out.IsPlayed)

	require.Len(t, out.Items, 2)
	assert.Equal(t, "Arsenal", out.Items[0].HomeTeam)
	assert.Equal(t, PickHome, out.Items[0].Prediction)
	assert.True(t, decimal.RequireFromString("1.48").Equal(out.Items[0].Odds))
	assert.Equal(t, in.ID, out.Items[0].CouponID)
}

func TestLoadPendingCoupons(t *testing.T) {
	setupTestDB(t)

	pending := couponWithLeg(PickHome, "Arsenal", "Chelsea")
	pending.IsPlayed = true
	require.NoError(t, SaveCoupon(pending))

	draft := couponWithLeg(PickHome, "Liverpool", "Everton")
	require.NoError(t, SaveCoupon(draft))

	settled := couponWithLeg(PickHome, "Spurs", "Palace")
	settled.IsPlayed = true
	settled.Status = StatusWon
	require.NoError(t, SaveCoupon(settled))

	loaded, err := LoadPendingCoupons()
	require.NoError(t, err)

	require.Len(t, loaded, 1, "Only played pending coupons qualify for settlement")
	assert.Equal(t, pending.ID, loaded[0].ID)
	assert.Len(t, loaded[0].Items, 1)
}

func TestPlayedSignatures(t *testing.T) {
	setupTestDB(t)

	played := couponWithLeg(PickHome, "Arsenal", "Chelsea")
	played.IsPlayed = true
	require.NoError(t, SaveCoupon(played))

	draft := couponWithLeg(PickHome, "Liverpool", "Everton")
	require.NoError(t, SaveCoupon(draft))

	signatures, err := PlayedSignatures()
	require.NoError(t, err)

	assert.True(t, signatures.Has(MatchSignature("Arsenal", "Chelsea", "01.02.2026")))
	assert.False(t, signatures.Has(MatchSignature("Liverpool", "Everton", "01.02.2026")),
		"Draft coupons must not block future stakes")
}

func TestDeleteCoupon(t *testing.T) {
	setupTestDB(t)

	c := couponWithLeg(PickHome, "Arsenal", "Chelsea")
	require.NoError(t, SaveCoupon(c))

	require.NoError(t, DeleteCoupon(c))

	_, err := LoadCoupon(c.ID)
	assert.Error(t, err, "A deleted coupon must not load")
}

func TestBulletinRoundTrip(t *testing.T) {
	setupTestDB(t)

	in := &BulletinMatch{
		Country: "england", League: "Premier League",
		HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		MatchDate: "01.02.2026", MatchTime: "20:00",
		MS1: "1.48", MSX: "4.40", MS2: "6.25",
		Under2p5: "2.10", Over2p5: "1.72",
	}
	in.UniqueKey = in.Signature()
	require.NoError(t, Save(in))

	loaded, err := LoadBulletin()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "1.48", loaded[0].MS1)
	assert.True(t, loaded[0].HasResultOdds())
}
