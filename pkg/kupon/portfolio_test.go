package kupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(home, away string, pick string, prob, odds float64) *Candidate {
	b := &BulletinMatch{
		Country:   "england",
		HomeTeam:  home,
		AwayTeam:  away,
		MatchDate: "01.02.2026",
		MatchTime: "20:00",
	}
	b.UniqueKey = b.Signature()
	return &Candidate{
		Bulletin:    b,
		Pick:        pick,
		Probability: prob,
		Odds:        odds,
		Type:        PickTypeResult,
	}
}

func candidatePool() []*Candidate {
	return []*Candidate{
		candidate("Arsenal", "Everton", PickHome, 0.72, 1.48),
		candidate("Liverpool", "Fulham", PickHome, 0.68, 1.55),
		candidate("Brighton", "Wolves", PickHome, 0.61, 1.72),
		candidate("Newcastle", "Burnley", PickHome, 0.58, 1.90),
		candidate("Villa", "Brentford", PickHome, 0.55, 2.05),
		candidate("Spurs", "Palace", PickHome, 0.52, 2.30),
	}
}

func TestBuildTopSingles(t *testing.T) {
	stake := decimal.NewFromInt(50)

	coupons, err := BuildTopSingles(candidatePool(), stake)

	require.NoError(t, err)
	require.Len(t, coupons, 6, "Fewer candidates than the cap yields one coupon each")

	for _, c := range coupons {
		assert.Len(t, c.Items, 1)
		assert.True(t, stake.Equal(c.Amount))
		assert.Equal(t, StatusPending, c.Status)
		assert.NotEmpty(t, c.ID)
	}

	// Highest probability first
	assert.Equal(t, "Arsenal", coupons[0].Items[0].HomeTeam)
	assert.InDelta(t, 72.0, coupons[0].Confidence, 1e-9)
}

func TestBuildTopSinglesHonoursCap(t *testing.T) {
	var pool []*Candidate
	for _, c := range candidatePool() {
		pool = append(pool, c)
	}
	for _, c := range candidatePool() {
		clone := *c
		clone.Bulletin = &BulletinMatch{
			Country: "england", HomeTeam: c.Bulletin.HomeTeam + " B", AwayTeam: c.Bulletin.AwayTeam,
			MatchDate: "02.02.2026",
		}
		pool = append(pool, &clone)
	}

	coupons, err := BuildTopSingles(pool, decimal.NewFromInt(10))

	require.NoError(t, err)
	assert.Len(t, coupons, Config.TopSinglesCount)
}

func TestBuildTopSinglesEmptyPool(t *testing.T) {
	_, err := BuildTopSingles(nil, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrNoViableCandidates)
}

func TestBuildTargetCoupon(t *testing.T) {
	investment := decimal.NewFromInt(100)
	target := decimal.NewFromInt(500)

	coupon, err := BuildTargetCoupon(candidatePool(), investment, target)

	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.True(t, investment.Equal(coupon.Amount))

	totalOdds, _ := coupon.TotalOdds.Float64()
	assert.GreaterOrEqual(t, totalOdds, 5.0, "Cumulative odds must reach target/investment")

	// No match may appear twice
	seen := make(map[string]bool)
	for _, item := range coupon.Items {
		sig := item.Signature()
		assert.False(t, seen[sig], "Match %s repeated on the coupon", sig)
		seen[sig] = true
	}
}

func TestBuildTargetCouponZeroInvestment(t *testing.T) {
	_, err := BuildTargetCoupon(candidatePool(), decimal.Zero, decimal.NewFromInt(500))
	assert.Error(t, err)
}

func TestBuildLegendaryCoupon(t *testing.T) {
	coupon, err := BuildLegendaryCoupon(candidatePool(), decimal.NewFromInt(20), 8.0)

	require.NoError(t, err)
	require.NotNil(t, coupon)

	// Only value picks qualify: odds >= 1.45 and probability >= 0.50
	for _, item := range coupon.Items {
		odds, _ := item.Odds.Float64()
		assert.GreaterOrEqual(t, odds, Config.LegendaryMinOdds)
	}

	totalOdds, _ := coupon.TotalOdds.Float64()
	assert.GreaterOrEqual(t, totalOdds, 8.0)
}

func TestBuildLegendaryCouponEmptyPool(t *testing.T) {
	// Nothing clears both the odds and probability filters
	pool := []*Candidate{
		candidate("Arsenal", "Everton", PickHome, 0.80, 1.20),
		candidate("Liverpool", "Fulham", PickHome, 0.30, 3.50),
	}

	_, err := BuildLegendaryCoupon(pool, decimal.NewFromInt(20), 100.0)
	assert.ErrorIs(t, err, ErrNoViableCandidates)
}

func TestBuildLegendaryCouponUnderTarget(t *testing.T) {
	// The pool cannot reach odds 1000; the accumulated coupon is still returned
	coupon, err := BuildLegendaryCoupon(candidatePool(), decimal.NewFromInt(20), 1000.0)

	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.NotEmpty(t, coupon.Items)
}

func TestBuildTrioHedgeStakesSumToBudget(t *testing.T) {
	budget := decimal.NewFromInt(100)

	coupons, err := BuildTrioHedge(candidatePool(), budget)

	require.NoError(t, err)
	require.Len(t, coupons, 4, "Three singles plus one combo")

	total := decimal.Zero
	for _, c := range coupons {
		total = total.Add(c.Amount)
		assert.True(t, c.IsArchived, "Hedge coupons are archived on creation")
	}
	assert.True(t, budget.Equal(total), "Stakes must sum exactly to the budget, got %s", total)

	// The combo repeats the three single legs
	combo := coupons[3]
	assert.Len(t, combo.Items, 3)
	assert.InDelta(t, Config.HedgeComboFallback, combo.Confidence, 1e-9)
	for i := 0; i < 3; i++ {
		assert.Len(t, coupons[i].Items, 1)
		assert.Equal(t, coupons[i].Items[0].Signature(), combo.Items[i].Signature())
	}
}

func TestBuildTrioHedgeOddBudget(t *testing.T) {
	// An awkward budget must still split without losing a cent
	budget := decimal.RequireFromString("99.97")

	coupons, err := BuildTrioHedge(candidatePool(), budget)

	require.NoError(t, err)
	total := decimal.Zero
	for _, c := range coupons {
		total = total.Add(c.Amount)
	}
	assert.True(t, budget.Equal(total), "got %s", total)
}

func TestBuildTrioHedgeFallsBackOutsideBand(t *testing.T) {
	// All odds outside [1.45, 2.10]: the overall top three still qualify
	pool := []*Candidate{
		candidate("Arsenal", "Everton", PickHome, 0.80, 1.20),
		candidate("Liverpool", "Fulham", PickHome, 0.75, 1.25),
		candidate("Brighton", "Wolves", PickHome, 0.70, 1.30),
	}

	coupons, err := BuildTrioHedge(pool, decimal.NewFromInt(100))

	require.NoError(t, err)
	assert.Len(t, coupons, 4)
	assert.Equal(t, "Arsenal", coupons[0].Items[0].HomeTeam)
}

func TestBuildTrioHedgeTooFewCandidates(t *testing.T) {
	pool := candidatePool()[:2]

	_, err := BuildTrioHedge(pool, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrNoViableCandidates)
}

func TestBuildPortfolioDispatch(t *testing.T) {
	budget := BudgetParams{
		Amount: decimal.NewFromInt(100),
		Target: decimal.NewFromInt(300),
	}

	singles, err := BuildPortfolio(StrategyTopSingles, candidatePool(), budget)
	require.NoError(t, err)
	assert.Len(t, singles, 6)

	accumulator, err := BuildPortfolio(StrategyTargetMultiplier, candidatePool(), budget)
	require.NoError(t, err)
	require.Len(t, accumulator, 1)
	assert.Greater(t, len(accumulator[0].Items), 1)

	hedge, err := BuildPortfolio(StrategyHedge, candidatePool(), budget)
	require.NoError(t, err)
	assert.Len(t, hedge, 4)

	_, err = BuildPortfolio(Strategy("MARTINGALE"), candidatePool(), budget)
	assert.Error(t, err)
}

func TestPromoteCoupon(t *testing.T) {
	played := NewSignatureSet()

	first := NewCoupon(decimal.NewFromInt(10), 60)
	first.AddItem(itemFromCandidate(candidate("Arsenal", "Everton", PickHome, 0.72, 1.48)))

	require.NoError(t, PromoteCoupon(first, played))
	assert.True(t, first.IsPlayed)

	// A second coupon on the same match must be refused
	second := NewCoupon(decimal.NewFromInt(10), 60)
	second.AddItem(itemFromCandidate(candidate("ARSENAL", "everton", PickAway, 0.20, 6.0)))

	err := PromoteCoupon(second, played)
	assert.Error(t, err)
	assert.False(t, second.IsPlayed)
}
