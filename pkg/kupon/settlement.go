package kupon

import (
	"strings"

	"github.com/argunvaran/wizard-scrap/internal/logger"
)

/////////////////////////////////////////////////////////////////////////
////// Settlement
/////////////////////////////////////////////////////////////////////////

// SettlementStats summarises one settlement pass
type SettlementStats struct {
	ItemsChecked int
	ItemsWon     int
	ItemsLost    int
	ItemsOpen    int
}

// SettleCoupon grades every pending leg of a coupon against completed
// fixtures and rolls the leg outcomes up into the coupon status. Legs whose
// fixture has not been played, or cannot be found at all, stay PENDING.
func SettleCoupon(c *Coupon, fixtures []*Fixture) SettlementStats {
	var stats SettlementStats

	for _, item := range c.Items {
		if item.Status != StatusPending {
			continue
		}
		stats.ItemsChecked++

		fixture := findFixtureFor(item, fixtures)
		if fixture == nil {
			stats.ItemsOpen++
			continue
		}

		actual, ok := fixture.Result()
		if !ok {
			stats.ItemsOpen++
			continue
		}

		if normalizePrediction(item.Prediction) == actual {
			item.Status = StatusWon
			stats.ItemsWon++
		} else {
			item.Status = StatusLost
			stats.ItemsLost++
		}
	}

	previous := c.Status
	c.UpdateStatus()
	if c.Status != previous {
		logger.Info("Coupon status changed", c.ID, previous, c.Status)
	}
	return stats
}

// SettleCoupons grades a batch of pending coupons against the given
// fixtures and returns the combined stats
func SettleCoupons(coupons []*Coupon, fixtures []*Fixture) SettlementStats {
	var total SettlementStats
	for _, c := range coupons {
		stats := SettleCoupon(c, fixtures)
		total.ItemsChecked += stats.ItemsChecked
		total.ItemsWon += stats.ItemsWon
		total.ItemsLost += stats.ItemsLost
		total.ItemsOpen += stats.ItemsOpen
	}
	return total
}

// findFixtureFor locates the completed fixture matching a coupon leg by
// containment of both team names. Unplayed fixtures are skipped so a later
// replay of the same pairing cannot shadow the real result.
func findFixtureFor(item *CouponItem, fixtures []*Fixture) *Fixture {
	for _, f := range fixtures {
		if !f.HasBeenPlayed() {
			continue
		}
		if f.InvolvesTeam(item.HomeTeam) && f.InvolvesTeam(item.AwayTeam) && f.IsHomeFor(item.HomeTeam) {
			return f
		}
	}
	return nil
}

// normalizePrediction reduces a stored pick label to the bare outcome
// symbol, so "MS 1 (Banko)" compares as "1". Over/under labels carry no
// outcome symbol, so once the fixture completes those legs grade as lost.
func normalizePrediction(prediction string) string {
	p := strings.TrimSuffix(prediction, BankerSuffix)
	p = strings.TrimPrefix(p, "MS ")
	return strings.TrimSpace(p)
}
