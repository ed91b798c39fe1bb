package kupon

import (
	"fmt"

	"github.com/argunvaran/wizard-scrap/internal/logger"
)

/////////////////////////////////////////////////////////////////////////
////// Coupon Storage
/////////////////////////////////////////////////////////////////////////

// SaveCoupon writes a coupon and all of its legs in a single transaction,
// so a failed write never leaves a coupon without its items
func SaveCoupon(c *Coupon) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveWith(tx, c); err != nil {
		return fmt.Errorf("failed to save coupon %s: %w", c.ID, err)
	}
	for _, item := range c.Items {
		item.CouponID = c.ID
		if err := saveWith(tx, item); err != nil {
			return fmt.Errorf("failed to save coupon item for %s: %w", c.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit coupon %s: %w", c.ID, err)
	}
	return nil
}

// SaveCoupons persists a batch of coupons, each in its own transaction.
// The first failure aborts the batch.
func SaveCoupons(coupons []*Coupon) error {
	for _, c := range coupons {
		if err := SaveCoupon(c); err != nil {
			return err
		}
	}
	return nil
}

// LoadCoupon reads a coupon and its legs by id
func LoadCoupon(id string) (*Coupon, error) {
	coupon := &Coupon{}
	if err := FindByPrimaryKey(coupon, map[string]any{"id": id}); err != nil {
		return nil, err
	}
	if err := loadItems(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// LoadCouponsWhere reads all coupons matching the WHERE clause, legs included
func LoadCouponsWhere(whereClause string, args ...any) ([]*Coupon, error) {
	results, err := FindWhere(&Coupon{}, whereClause, args...)
	if err != nil {
		return nil, err
	}

	coupons := make([]*Coupon, 0, len(results))
	for _, result := range results {
		coupon, ok := result.(*Coupon)
		if !ok {
			return nil, fmt.Errorf("unexpected type in coupon results")
		}
		if err := loadItems(coupon); err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	return coupons, nil
}

// LoadPendingCoupons reads every promoted coupon still awaiting settlement
func LoadPendingCoupons() ([]*Coupon, error) {
	return LoadCouponsWhere("status = ? AND is_played = 1", StatusPending)
}

// DeleteCoupon removes a coupon together with its legs
func DeleteCoupon(c *Coupon) error {
	if err := loadItems(c); err != nil {
		logger.Warn("Could not load items before coupon delete", c.ID, err)
	}
	for _, item := range c.Items {
		if err := Delete(item); err != nil {
			return fmt.Errorf("failed to delete coupon item %s: %w", item.ID, err)
		}
	}
	return Delete(c)
}

// loadItems populates the coupon's legs from the coupon_items table
func loadItems(c *Coupon) error {
	results, err := FindWhere(&CouponItem{}, "coupon_id = ? ORDER BY created_at, rowid", c.ID)
	if err != nil {
		return err
	}

	c.Items = c.Items[:0]
	for _, result := range results {
		item, ok := result.(*CouponItem)
		if !ok {
			return fmt.Errorf("unexpected type in coupon item results")
		}
		c.Items = append(c.Items, item)
	}
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Duplicate-Stake Signatures
/////////////////////////////////////////////////////////////////////////

// PlayedSignatures returns the normalized match signature of every leg of
// every promoted coupon. This set seeds the duplicate-stake guard in the
// candidate ranker.
func PlayedSignatures() (SignatureSet, error) {
	played, err := LoadCouponsWhere("is_played = 1")
	if err != nil {
		return nil, err
	}

	signatures := NewSignatureSet()
	for _, coupon := range played {
		signatures.AddCoupon(coupon)
	}
	logger.Debug("Loaded played signatures", len(signatures))
	return signatures, nil
}

/////////////////////////////////////////////////////////////////////////
////// Record Loading
/////////////////////////////////////////////////////////////////////////

// LoadStandings reads all standings for a country
func LoadStandings(country string) ([]*Standing, error) {
	results, err := FindWhere(&Standing{}, "country = ? ORDER BY rank", country)
	if err != nil {
		return nil, err
	}
	standings := make([]*Standing, 0, len(results))
	for _, result := range results {
		standing, ok := result.(*Standing)
		if !ok {
			return nil, fmt.Errorf("unexpected type in standing results")
		}
		standings = append(standings, standing)
	}
	return standings, nil
}

// LoadFixtures reads all fixtures for a country, newest first
func LoadFixtures(country string) ([]*Fixture, error) {
	results, err := FindWhere(&Fixture{}, "country = ? ORDER BY rowid DESC", country)
	if err != nil {
		return nil, err
	}
	fixtures := make([]*Fixture, 0, len(results))
	for _, result := range results {
		fixture, ok := result.(*Fixture)
		if !ok {
			return nil, fmt.Errorf("unexpected type in fixture results")
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, nil
}

// LoadAllFixtures reads every stored fixture across countries, newest first
func LoadAllFixtures() ([]*Fixture, error) {
	results, err := FindWhere(&Fixture{}, "1 = 1 ORDER BY rowid DESC")
	if err != nil {
		return nil, err
	}
	fixtures := make([]*Fixture, 0, len(results))
	for _, result := range results {
		fixture, ok := result.(*Fixture)
		if !ok {
			return nil, fmt.Errorf("unexpected type in fixture results")
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, nil
}

// LoadPlayers reads all players for a country
func LoadPlayers(country string) ([]*Player, error) {
	results, err := FindWhere(&Player{}, "country = ? ORDER BY starts DESC", country)
	if err != nil {
		return nil, err
	}
	players := make([]*Player, 0, len(results))
	for _, result := range results {
		player, ok := result.(*Player)
		if !ok {
			return nil, fmt.Errorf("unexpected type in player results")
		}
		players = append(players, player)
	}
	return players, nil
}

// LoadBulletin reads every open bulletin match
func LoadBulletin() ([]*BulletinMatch, error) {
	results, err := FindAll(&BulletinMatch{})
	if err != nil {
		return nil, err
	}
	bulletins := make([]*BulletinMatch, 0, len(results))
	for _, result := range results {
		bulletin, ok := result.(*BulletinMatch)
		if !ok {
			return nil, fmt.Errorf("unexpected type in bulletin results")
		}
		bulletins = append(bulletins, bulletin)
	}
	return bulletins, nil
}
