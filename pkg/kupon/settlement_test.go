package kupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func couponWithLeg(prediction, home, away string) *Coupon {
	c := NewCoupon(decimal.NewFromInt(10), 60)
	c.AddItem(&CouponItem{
		HomeTeam:   home,
		AwayTeam:   away,
		MatchDate:  "01.02.2026",
		Prediction: prediction,
		Odds:       decimal.RequireFromString("1.50"),
	})
	return c
}

func playedFixture(home, away, score string) *Fixture {
	return &Fixture{
		Country:  "england",
		Week:     "22",
		HomeTeam: home,
		AwayTeam: away,
		Score:    score,
	}
}

func TestSettleCouponHomeWin(t *testing.T) {
	c := couponWithLeg(PickHome, "Arsenal", "Chelsea")
	fixtures := []*Fixture{playedFixture("Arsenal", "Chelsea", "2-1")}

	stats := SettleCoupon(c, fixtures)

	assert.Equal(t, 1, stats.ItemsWon)
	assert.Equal(t, StatusWon, c.Items[0].Status)
	assert.Equal(t, StatusWon, c.Status)
}

func TestSettleCouponHomeLoss(t *testing.T) {
	c := couponWithLeg(PickHome, "Arsenal", "Chelsea")
	fixtures := []*Fixture{playedFixture("Arsenal", "Chelsea", "1-2")}

	stats := SettleCoupon(c, fixtures)

	assert.Equal(t, 1, stats.ItemsLost)
	assert.Equal(t, StatusLost, c.Items[0].Status)
	assert.Equal(t, StatusLost, c.Status)
}

func TestSettleCouponBankerPrediction(t *testing.T) {
	c := couponWithLeg(PickHome+BankerSuffix, "Arsenal", "Chelsea")
	fixtures := []*Fixture{playedFixture("Arsenal", "Chelsea", "3-0")}

	SettleCoupon(c, fixtures)

	assert.Equal(t, StatusWon, c.Status, "Banker suffix must not affect grading")
}

func TestSettleCouponDraw(t *testing.T) {
	c := couponWithLeg(PickDraw, "Arsenal", "Chelsea")
	fixtures := []*Fixture{playedFixture("Arsenal", "Chelsea", "1-1")}

	SettleCoupon(c, fixtures)
	assert.Equal(t, StatusWon, c.Status)
}

func TestSettleCouponNoFixture(t *testing.T) {
	c := couponWithLeg(PickHome, "Arsenal", "Chelsea")

	stats := SettleCoupon(c, nil)

	assert.Equal(t, 1, stats.ItemsOpen)
	assert.Equal(t, StatusPending, c.Items[0].Status)
	assert.Equal(t, StatusPending, c.Status)
}

func TestSettleCouponUnplayedFixture(t *testing.T) {
	c := couponWithLeg(PickHome, "Arsenal", "Chelsea")
	fixtures := []*Fixture{playedFixture("Arsenal", "Chelsea", "")}

	stats := SettleCoupon(c, fixtures)

	assert.Equal(t, 1, stats.ItemsOpen)
	assert.Equal(t, StatusPending, c.Status)
}

func TestSettleCouponReversedPairingIgnored(t *testing.T) {
	// The away-leg fixture of the same pairing must not grade a home leg
	c := couponWithLeg(PickHome, "Arsenal", "Chelsea")
	fixtures := []*Fixture{playedFixture("Chelsea", "Arsenal", "2-0")}

	stats := SettleCoupon(c, fixtures)

	assert.Equal(t, 1, stats.ItemsOpen)
	assert.Equal(t, StatusPending, c.Status)
}

func TestSettleCouponOverUnderLegGradedLost(t *testing.T) {
	// Result grading knows only the 1/X/2 symbols. An over/under label never
	// matches one, so the leg grades lost as soon as its fixture completes
	c := couponWithLeg(PickOver, "Arsenal", "Chelsea")
	fixtures := []*Fixture{playedFixture("Arsenal", "Chelsea", "3-1")}

	stats := SettleCoupon(c, fixtures)

	assert.Equal(t, 1, stats.ItemsLost)
	assert.Equal(t, StatusLost, c.Items[0].Status)
}

func TestSettleCouponRollup(t *testing.T) {
	c := NewCoupon(decimal.NewFromInt(10), 60)
	c.AddItem(&CouponItem{HomeTeam: "Arsenal", AwayTeam: "Chelsea", MatchDate: "01.02.2026",
		Prediction: PickHome, Odds: decimal.RequireFromString("1.50")})
	c.AddItem(&CouponItem{HomeTeam: "Liverpool", AwayTeam: "Everton", MatchDate: "01.02.2026",
		Prediction: PickAway, Odds: decimal.RequireFromString("4.80")})

	fixtures := []*Fixture{
		playedFixture("Arsenal", "Chelsea", "2-0"),
		playedFixture("Liverpool", "Everton", "3-1"),
	}

	SettleCoupon(c, fixtures)

	// One winning and one losing leg: the coupon is lost
	assert.Equal(t, StatusWon, c.Items[0].Status)
	assert.Equal(t, StatusLost, c.Items[1].Status)
	assert.Equal(t, StatusLost, c.Status)
}

func TestSettleCouponMixedPendingStaysPending(t *testing.T) {
	c := NewCoupon(decimal.NewFromInt(10), 60)
	c.AddItem(&CouponItem{HomeTeam: "Arsenal", AwayTeam: "Chelsea", MatchDate: "01.02.2026",
		Prediction: PickHome, Odds: decimal.RequireFromString("1.50")})
	c.AddItem(&CouponItem{HomeTeam: "Liverpool", AwayTeam: "Everton", MatchDate: "01.02.2026",
		Prediction: PickHome, Odds: decimal.RequireFromString("1.60")})

	// Only the first match has been played, and it won
	fixtures := []*Fixture{playedFixture("Arsenal", "Chelsea", "1-0")}

	SettleCoupon(c, fixtures)

	assert.Equal(t, StatusWon, c.Items[0].Status)
	assert.Equal(t, StatusPending, c.Items[1].Status)
	assert.Equal(t, StatusPending, c.Status, "A coupon with open legs stays pending")
}

func TestSettleCouponSkipsAlreadyGraded(t *testing.T) {
	c := couponWithLeg(PickHome, "Arsenal", "Chelsea")
	c.Items[0].Status = StatusWon

	stats := SettleCoupon(c, []*Fixture{playedFixture("Arsenal", "Chelsea", "0-5")})

	assert.Zero(t, stats.ItemsChecked, "Graded legs are never re-examined")
	assert.Equal(t, StatusWon, c.Items[0].Status)
}

func TestSettleCoupons(t *testing.T) {
	won := couponWithLeg(PickHome, "Arsenal", "Chelsea")
	lost := couponWithLeg(PickAway, "Liverpool", "Everton")

	fixtures := []*Fixture{
		playedFixture("Arsenal", "Chelsea", "2-0"),
		playedFixture("Liverpool", "Everton", "2-0"),
	}

	stats := SettleCoupons([]*Coupon{won, lost}, fixtures)

	require.Equal(t, 2, stats.ItemsChecked)
	assert.Equal(t, 1, stats.ItemsWon)
	assert.Equal(t, 1, stats.ItemsLost)
	assert.Equal(t, StatusWon, won.Status)
	assert.Equal(t, StatusLost, lost.Status)
}

func TestNormalizePrediction(t *testing.T) {
	assert.Equal(t, "1", normalizePrediction(PickHome))
	assert.Equal(t, "2", normalizePrediction(PickAway))
	assert.Equal(t, "X", normalizePrediction(PickDraw))
	assert.Equal(t, "1", normalizePrediction(PickHome+BankerSuffix))
	assert.Equal(t, "2,5 Üst", normalizePrediction(PickOver), "Over/under picks keep their label, which no result symbol ever equals")
}
