package kupon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compile-time checks to ensure coupon types implement Persistable interface
var _ Persistable = (*Coupon)(nil)
var _ Persistable = (*CouponItem)(nil)

// Coupon is one wager consisting of one or more legs. It starts life as a
// draft (IsPlayed=false) and becomes a live stake once promoted; settlement
// rolls the leg statuses up into Status.
type Coupon struct {
	// Primary key
	ID string `json:"id" column:"id" dbtype:"TEXT" primary:"true"`

	Amount          decimal.Decimal `json:"amount" column:"amount" dbtype:"TEXT NOT NULL"`
	TotalOdds       decimal.Decimal `json:"totalOdds" column:"total_odds" dbtype:"TEXT NOT NULL"`
	PotentialReturn decimal.Decimal `json:"potentialReturn" column:"potential_return" dbtype:"TEXT NOT NULL"`
	Status          string          `json:"status" column:"status" dbtype:"TEXT DEFAULT 'PENDING'" index:"true"`
	Confidence      float64         `json:"confidence" column:"confidence" dbtype:"REAL DEFAULT 0.0"`
	IsPlayed        bool            `json:"isPlayed" column:"is_played" dbtype:"INTEGER DEFAULT 0" index:"true"`
	IsArchived      bool            `json:"isArchived" column:"is_archived" dbtype:"INTEGER DEFAULT 0"`
	ExecutionStatus string          `json:"executionStatus" column:"execution_status" dbtype:"TEXT DEFAULT ''"`

	// Legs, persisted separately in the coupon_items table
	Items []*CouponItem `json:"items" persist:"false"`

	// Metadata
	CreatedAt time.Time `json:"createdAt" column:"created_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updatedAt" column:"updated_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
}

// CouponItem is one leg of a coupon. It snapshots the match fields so the
// coupon survives the bulletin row being replaced on the next scrape.
type CouponItem struct {
	// Primary key
	ID string `json:"id" column:"id" dbtype:"TEXT" primary:"true"`

	CouponID  string `json:"couponId" column:"coupon_id" dbtype:"TEXT NOT NULL" index:"true" fk:"coupons.id" fk_delete:"CASCADE"`
	HomeTeam  string `json:"homeTeam" column:"home_team" dbtype:"TEXT NOT NULL"`
	AwayTeam  string `json:"awayTeam" column:"away_team" dbtype:"TEXT NOT NULL"`
	MatchDate string `json:"matchDate" column:"match_date" dbtype:"TEXT"`
	MatchTime string `json:"matchTime" column:"match_time" dbtype:"TEXT"`
	League    string `json:"league" column:"league" dbtype:"TEXT"`

	Prediction string          `json:"prediction" column:"prediction" dbtype:"TEXT NOT NULL"`
	Odds       decimal.Decimal `json:"odds" column:"odds" dbtype:"TEXT NOT NULL"`
	Status     string          `json:"status" column:"status" dbtype:"TEXT DEFAULT 'PENDING'"`

	// Metadata
	CreatedAt time.Time `json:"createdAt" column:"created_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updatedAt" column:"updated_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
}

/////////////////////////////////////////////////////////////////////////
////// Persistable Interface Implementation
/////////////////////////////////////////////////////////////////////////

// GetPrimaryKey returns the primary key as a map
func (c *Coupon) GetPrimaryKey() map[string]any {
	return map[string]any{"id": c.ID}
}

// SetPrimaryKey sets the primary key from a map
func (c *Coupon) SetPrimaryKey(pk map[string]any) error {
	id, ok := pk["id"].(string)
	if !ok {
		return fmt.Errorf("primary key 'id' must be a string")
	}
	c.ID = id
	return nil
}

// GetTableName returns the table name for coupons
func (c *Coupon) GetTableName() string {
	return "coupons"
}

// BeforeSave is called before saving the coupon
func (c *Coupon) BeforeSave() error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return nil
}

// AfterSave is called after saving the coupon
func (c *Coupon) AfterSave() error {
	return nil
}

// BeforeDelete is called before deleting the coupon
func (c *Coupon) BeforeDelete() error {
	return nil
}

// AfterDelete is called after deleting the coupon
func (c *Coupon) AfterDelete() error {
	return nil
}

// GetPrimaryKey returns the primary key as a map
func (ci *CouponItem) GetPrimaryKey() map[string]any {
	return map[string]any{"id": ci.ID}
}

// SetPrimaryKey sets the primary key from a map
func (ci *CouponItem) SetPrimaryKey(pk map[string]any) error {
	id, ok := pk["id"].(string)
	if !ok {
		return fmt.Errorf("primary key 'id' must be a string")
	}
	ci.ID = id
	return nil
}

// GetTableName returns the table name for coupon items
func (ci *CouponItem) GetTableName() string {
	return "coupon_items"
}

// BeforeSave is called before saving the coupon item
func (ci *CouponItem) BeforeSave() error {
	if ci.ID == "" {
		ci.ID = uuid.NewString()
	}
	now := time.Now()
	if ci.CreatedAt.IsZero() {
		ci.CreatedAt = now
	}
	ci.UpdatedAt = now
	return nil
}

// AfterSave is called after saving the coupon item
func (ci *CouponItem) AfterSave() error {
	return nil
}

// BeforeDelete is called before deleting the coupon item
func (ci *CouponItem) BeforeDelete() error {
	return nil
}

// AfterDelete is called after deleting the coupon item
func (ci *CouponItem) AfterDelete() error {
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Coupon Lifecycle
/////////////////////////////////////////////////////////////////////////

// Signature returns the normalized duplicate-stake key for this leg
func (ci *CouponItem) Signature() string {
	return MatchSignature(ci.HomeTeam, ci.AwayTeam, ci.MatchDate)
}

// NewCoupon creates a pending draft coupon for the given stake
func NewCoupon(amount decimal.Decimal, confidence float64) *Coupon {
	return &Coupon{
		ID:         uuid.NewString(),
		Amount:     amount,
		TotalOdds:  decimal.NewFromInt(1),
		Status:     StatusPending,
		Confidence: confidence,
	}
}

// AddItem appends a leg, keeping the coupon's cumulative odds and potential
// return in step
func (c *Coupon) AddItem(item *CouponItem) {
	item.CouponID = c.ID
	if item.Status == "" {
		item.Status = StatusPending
	}
	c.Items = append(c.Items, item)
	c.TotalOdds = c.TotalOdds.Mul(item.Odds)
	c.PotentialReturn = c.Amount.Mul(c.TotalOdds)
}

// UpdateStatus rolls leg statuses up into the coupon status:
// LOST if any leg is LOST, WON only when every leg is WON, PENDING otherwise
func (c *Coupon) UpdateStatus() {
	if len(c.Items) == 0 {
		return
	}

	anyLost := false
	allWon := true
	for _, item := range c.Items {
		if item.Status == StatusLost {
			anyLost = true
		}
		if item.Status != StatusWon {
			allWon = false
		}
	}

	switch {
	case anyLost:
		c.Status = StatusLost
	case allWon:
		c.Status = StatusWon
	default:
		c.Status = StatusPending
	}
}

/////////////////////////////////////////////////////////////////////////
////// Duplicate-Stake Signatures
/////////////////////////////////////////////////////////////////////////

// SignatureSet is the set of normalized match signatures already staked by
// promoted coupons. It is passed explicitly into ranking and portfolio calls
// so the same engine can serve concurrent batches and tests without shared
// process state.
type SignatureSet map[string]struct{}

// NewSignatureSet builds a set from pre-normalized signature strings
func NewSignatureSet(signatures ...string) SignatureSet {
	set := make(SignatureSet, len(signatures))
	for _, sig := range signatures {
		set[sig] = struct{}{}
	}
	return set
}

// Add records a signature in the set
func (s SignatureSet) Add(signature string) {
	s[signature] = struct{}{}
}

// Has reports whether the signature is already present
func (s SignatureSet) Has(signature string) bool {
	_, ok := s[signature]
	return ok
}

// AddCoupon records the signatures of every leg of the given coupon, so a
// batch never stakes two candidates on the same fixture
func (s SignatureSet) AddCoupon(c *Coupon) {
	for _, item := range c.Items {
		s.Add(item.Signature())
	}
}
