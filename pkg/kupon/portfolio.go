package kupon

import (
	"errors"
	"fmt"
	"sort"

	"github.com/argunvaran/wizard-scrap/internal/logger"
	"github.com/shopspring/decimal"
)

// Strategy names one portfolio construction scheme
type Strategy string

const (
	StrategyTopSingles       Strategy = "TOP_N"
	StrategyTargetMultiplier Strategy = "TARGET_MULTIPLIER"
	StrategyLegendary        Strategy = "LEGENDARY"
	StrategyHedge            Strategy = "HEDGE_3_PLUS_1"
)

// BudgetParams carries the money inputs of a portfolio build
type BudgetParams struct {
	// Amount is the stake of each emitted coupon, or the total budget for
	// the hedge strategy
	Amount decimal.Decimal
	// Target is the desired return of the target-multiplier strategy
	Target decimal.Decimal
	// TargetOdds overrides the legendary cumulative odds target when > 0
	TargetOdds float64
}

// ErrNoViableCandidates is returned when a strategy finds nothing eligible
var ErrNoViableCandidates = errors.New("no viable candidates for this strategy")

// BuildPortfolio constructs a coupon set from ranked candidates under the
// named strategy. Emitted coupons are drafts: not yet promoted, not yet
// persisted, so a failed build has no side effects.
func BuildPortfolio(strategy Strategy, candidates []*Candidate, budget BudgetParams) ([]*Coupon, error) {
	switch strategy {
	case StrategyTopSingles:
		return BuildTopSingles(candidates, budget.Amount)
	case StrategyTargetMultiplier:
		coupon, err := BuildTargetCoupon(candidates, budget.Amount, budget.Target)
		if err != nil {
			return nil, err
		}
		return []*Coupon{coupon}, nil
	case StrategyLegendary:
		targetOdds := budget.TargetOdds
		if targetOdds <= 0 {
			targetOdds = Config.LegendaryTarget
		}
		coupon, err := BuildLegendaryCoupon(candidates, budget.Amount, targetOdds)
		if err != nil {
			return nil, err
		}
		return []*Coupon{coupon}, nil
	case StrategyHedge:
		return BuildTrioHedge(candidates, budget.Amount)
	default:
		return nil, fmt.Errorf("unknown portfolio strategy: %s", strategy)
	}
}

/////////////////////////////////////////////////////////////////////////
////// Top-N Singles
/////////////////////////////////////////////////////////////////////////

// BuildTopSingles creates one single-leg coupon per candidate for the top
// candidates by probability, each at the given stake
func BuildTopSingles(candidates []*Candidate, amount decimal.Decimal) ([]*Coupon, error) {
	picks := sortedByProbability(candidates)
	if len(picks) > Config.TopSinglesCount {
		picks = picks[:Config.TopSinglesCount]
	}
	if len(picks) == 0 {
		return nil, ErrNoViableCandidates
	}

	coupons := make([]*Coupon, 0, len(picks))
	for _, pick := range picks {
		coupon := NewCoupon(amount, pick.Probability*100)
		coupon.AddItem(itemFromCandidate(pick))
		coupons = append(coupons, coupon)
	}

	logger.Info("Built top singles portfolio", len(coupons))
	return coupons, nil
}

/////////////////////////////////////////////////////////////////////////
////// Target-Multiplier Accumulator
/////////////////////////////////////////////////////////////////////////

// BuildTargetCoupon greedily accumulates the highest-probability candidates
// until the cumulative odds reach target/investment, and emits one multi-leg
// coupon for the investment
func BuildTargetCoupon(candidates []*Candidate, investment, target decimal.Decimal) (*Coupon, error) {
	if investment.IsZero() {
		return nil, fmt.Errorf("investment must be positive")
	}
	targetMultiplier, _ := target.Div(investment).Float64()

	picks := sortedByProbability(candidates)
	legs, combinedProb := accumulate(picks, targetMultiplier)
	if len(legs) == 0 {
		return nil, ErrNoViableCandidates
	}

	coupon := NewCoupon(investment, combinedProb*100)
	for _, leg := range legs {
		coupon.AddItem(itemFromCandidate(leg))
	}

	logger.Info("Built target coupon", len(legs), coupon.TotalOdds.String())
	return coupon, nil
}

/////////////////////////////////////////////////////////////////////////
////// Legendary Accumulator
/////////////////////////////////////////////////////////////////////////

// BuildLegendaryCoupon builds the high-odds accumulator: candidates are
// filtered to value bets, sorted by expected value and accumulated towards
// the target odds. If the pool runs dry before the target the accumulated
// coupon is returned as-is.
func BuildLegendaryCoupon(candidates []*Candidate, investment decimal.Decimal, targetOdds float64) (*Coupon, error) {
	var valuePicks []*Candidate
	for _, candidate := range candidates {
		if candidate.Odds >= Config.LegendaryMinOdds && candidate.Probability >= Config.LegendaryMinProb {
			valuePicks = append(valuePicks, candidate)
		}
	}
	if len(valuePicks) == 0 {
		return nil, ErrNoViableCandidates
	}

	sort.SliceStable(valuePicks, func(i, j int) bool {
		return valuePicks[i].ExpectedValue() > valuePicks[j].ExpectedValue()
	})

	legs, combinedProb := accumulate(valuePicks, targetOdds)
	if len(legs) == 0 {
		return nil, ErrNoViableCandidates
	}

	coupon := NewCoupon(investment, combinedProb*100)
	for _, leg := range legs {
		coupon.AddItem(itemFromCandidate(leg))
	}

	totalOdds, _ := coupon.TotalOdds.Float64()
	if totalOdds < targetOdds {
		logger.Warn("Legendary coupon landed under target odds", totalOdds, targetOdds)
	}
	return coupon, nil
}

/////////////////////////////////////////////////////////////////////////
////// 3+1 Hedge
/////////////////////////////////////////////////////////////////////////

// BuildTrioHedge picks three solid legs and splits the budget across four
// coupons: three singles and one combo of the same legs. The single/combo
// ratios sum to exactly 1, so the four stakes always add up to the budget.
func BuildTrioHedge(candidates []*Candidate, totalBudget decimal.Decimal) ([]*Coupon, error) {
	// "Solid" legs sit in the configured odds band
	var solidPicks []*Candidate
	for _, candidate := range candidates {
		if candidate.Odds >= Config.HedgeMinOdds && candidate.Odds <= Config.HedgeMaxOdds {
			solidPicks = append(solidPicks, candidate)
		}
	}
	solidPicks = sortedByProbability(solidPicks)

	// Fall back to the overall pool when the strict filter comes up short
	if len(solidPicks) < 3 {
		solidPicks = sortedByProbability(candidates)
	}
	if len(solidPicks) < 3 {
		return nil, ErrNoViableCandidates
	}
	finalPicks := solidPicks[:3]

	singleRatio, err := decimal.NewFromString(Config.HedgeSingleRatio)
	if err != nil {
		return nil, fmt.Errorf("invalid hedge single ratio %q: %w", Config.HedgeSingleRatio, err)
	}
	comboRatio, err := decimal.NewFromString(Config.HedgeComboRatio)
	if err != nil {
		return nil, fmt.Errorf("invalid hedge combo ratio %q: %w", Config.HedgeComboRatio, err)
	}

	stakePerSingle := totalBudget.Mul(singleRatio)
	stakeCombo := totalBudget.Mul(comboRatio)

	coupons := make([]*Coupon, 0, 4)
	for _, pick := range finalPicks {
		coupon := NewCoupon(stakePerSingle, pick.Probability*100)
		coupon.IsArchived = true
		coupon.AddItem(itemFromCandidate(pick))
		coupons = append(coupons, coupon)
	}

	combo := NewCoupon(stakeCombo, Config.HedgeComboFallback)
	combo.IsArchived = true
	for _, pick := range finalPicks {
		combo.AddItem(itemFromCandidate(pick))
	}
	coupons = append(coupons, combo)

	logger.Info("Built 3+1 hedge portfolio", stakePerSingle.String(), stakeCombo.String())
	return coupons, nil
}

/////////////////////////////////////////////////////////////////////////
////// Promotion
/////////////////////////////////////////////////////////////////////////

// PromoteCoupon marks a draft coupon as a live stake, refusing any coupon
// whose legs collide with an already promoted fixture. On success the
// coupon's signatures join the set, so later promotions in the same batch
// see them.
func PromoteCoupon(c *Coupon, played SignatureSet) error {
	for _, item := range c.Items {
		if played.Has(item.Signature()) {
			return fmt.Errorf("duplicate stake on %s vs %s (%s)", item.HomeTeam, item.AwayTeam, item.MatchDate)
		}
	}
	c.IsPlayed = true
	played.AddCoupon(c)
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Helpers
/////////////////////////////////////////////////////////////////////////

// accumulate greedily multiplies candidate odds, one leg per match, until
// the cumulative odds reach the target multiplier
func accumulate(picks []*Candidate, targetMultiplier float64) ([]*Candidate, float64) {
	var legs []*Candidate
	currentOdds := 1.0
	combinedProb := 1.0
	usedMatches := make(map[string]struct{})

	for _, pick := range picks {
		if currentOdds >= targetMultiplier {
			break
		}
		key := pick.Bulletin.UniqueKey
		if _, used := usedMatches[key]; used {
			continue
		}
		legs = append(legs, pick)
		currentOdds *= pick.Odds
		combinedProb *= pick.Probability
		usedMatches[key] = struct{}{}
	}

	return legs, combinedProb
}

// sortedByProbability returns a copy sorted by probability descending
func sortedByProbability(candidates []*Candidate) []*Candidate {
	sorted := make([]*Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Probability > sorted[j].Probability
	})
	return sorted
}

// itemFromCandidate snapshots a candidate into a coupon leg
func itemFromCandidate(c *Candidate) *CouponItem {
	return &CouponItem{
		HomeTeam:   c.Bulletin.HomeTeam,
		AwayTeam:   c.Bulletin.AwayTeam,
		MatchDate:  c.Bulletin.MatchDate,
		MatchTime:  c.Bulletin.MatchTime,
		League:     c.Bulletin.League,
		Prediction: c.Pick,
		Odds:       decimal.NewFromFloat(c.Odds),
		Status:     StatusPending,
	}
}
