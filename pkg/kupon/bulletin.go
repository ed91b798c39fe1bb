package kupon

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Compile-time check to ensure BulletinMatch implements Persistable interface
var _ Persistable = (*BulletinMatch)(nil)

// BulletinMatch represents one open match on the betting bulletin, carrying
// the offered odds for the 1/X/2 and over/under 2.5 markets.
// Odds are kept as the raw scraped strings; the bulletin uses "-" when a
// market is not offered, and either "." or "," as the decimal separator.
type BulletinMatch struct {
	// Primary key
	UniqueKey string `json:"uniqueKey" column:"unique_key" dbtype:"TEXT NOT NULL" primary:"true"`

	Country   string `json:"country" column:"country" dbtype:"TEXT NOT NULL" index:"true"`
	League    string `json:"league" column:"league" dbtype:"TEXT"`
	HomeTeam  string `json:"homeTeam" column:"home_team" dbtype:"TEXT NOT NULL" index:"true"`
	AwayTeam  string `json:"awayTeam" column:"away_team" dbtype:"TEXT NOT NULL" index:"true"`
	MatchDate string `json:"matchDate" column:"match_date" dbtype:"TEXT"`
	MatchTime string `json:"matchTime" column:"match_time" dbtype:"TEXT"`

	// Odds
	MS1      string `json:"ms1" column:"ms_1" dbtype:"TEXT DEFAULT '-'"`
	MSX      string `json:"msx" column:"ms_x" dbtype:"TEXT DEFAULT '-'"`
	MS2      string `json:"ms2" column:"ms_2" dbtype:"TEXT DEFAULT '-'"`
	Under2p5 string `json:"under2p5" column:"under_2_5" dbtype:"TEXT DEFAULT '-'"`
	Over2p5  string `json:"over2p5" column:"over_2_5" dbtype:"TEXT DEFAULT '-'"`

	// Metadata
	CreatedAt time.Time `json:"createdAt" column:"created_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updatedAt" column:"updated_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
}

/////////////////////////////////////////////////////////////////////////
////// Persistable Interface Implementation
/////////////////////////////////////////////////////////////////////////

// GetPrimaryKey returns the primary key as a map
func (b *BulletinMatch) GetPrimaryKey() map[string]any {
	return map[string]any{
		"unique_key": b.UniqueKey,
	}
}

// SetPrimaryKey sets the primary key from a map
func (b *BulletinMatch) SetPrimaryKey(pk map[string]any) error {
	key, ok := pk["unique_key"].(string)
	if !ok {
		return fmt.Errorf("primary key 'unique_key' must be a string")
	}
	b.UniqueKey = key
	return nil
}

// GetTableName returns the table name for bulletin matches
func (b *BulletinMatch) GetTableName() string {
	return "bulletin"
}

// BeforeSave is called before saving the bulletin match
func (b *BulletinMatch) BeforeSave() error {
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return nil
}

// AfterSave is called after saving the bulletin match
func (b *BulletinMatch) AfterSave() error {
	return nil
}

// BeforeDelete is called before deleting the bulletin match
func (b *BulletinMatch) BeforeDelete() error {
	return nil
}

// AfterDelete is called after deleting the bulletin match
func (b *BulletinMatch) AfterDelete() error {
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Odds Parsing
/////////////////////////////////////////////////////////////////////////

// ParseOdds normalizes a scraped odds string into a float. The bulletin uses
// "," as well as "." for the decimal separator and "-" when no market is
// offered; the sentinel and anything unparsable return ok=false and must be
// treated as "market excluded", never as zero.
func ParseOdds(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == NoOdds {
		return 0, false
	}

	normalized := strings.ReplaceAll(raw, ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	if value < 1.0 {
		// Decimal odds below 1.0 are not a priceable market
		return 0, false
	}
	return value, true
}

// HasResultOdds reports whether both the home and away win markets are priced
func (b *BulletinMatch) HasResultOdds() bool {
	_, ok1 := ParseOdds(b.MS1)
	_, ok2 := ParseOdds(b.MS2)
	return ok1 && ok2
}

// Signature returns the normalized duplicate-stake key for this match
func (b *BulletinMatch) Signature() string {
	return MatchSignature(b.HomeTeam, b.AwayTeam, b.MatchDate)
}

// MatchSignature builds the normalized "home|away|date" key used to detect
// repeat stakes on the same fixture
func MatchSignature(homeTeam, awayTeam, matchDate string) string {
	h := strings.ToLower(strings.TrimSpace(homeTeam))
	a := strings.ToLower(strings.TrimSpace(awayTeam))
	d := strings.TrimSpace(matchDate)
	return fmt.Sprintf("%s|%s|%s", h, a, d)
}
