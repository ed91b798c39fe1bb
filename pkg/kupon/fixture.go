package kupon

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Compile-time check to ensure Fixture implements Persistable interface
var _ Persistable = (*Fixture)(nil)

// Fixture represents one scheduled or completed league match.
// The score is kept as the raw scraped string; anything that does not parse
// as two integers is treated as "not yet played".
type Fixture struct {
	// Compound primary key fields
	Country  string `json:"country" column:"country" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	Week     string `json:"week" column:"week" dbtype:"TEXT NOT NULL" primary:"true"`
	HomeTeam string `json:"homeTeam" column:"home_team" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	AwayTeam string `json:"awayTeam" column:"away_team" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`

	Date  string `json:"date" column:"date" dbtype:"TEXT"`
	Time  string `json:"time" column:"time" dbtype:"TEXT"`
	Score string `json:"score" column:"score" dbtype:"TEXT"`

	// Metadata
	CreatedAt time.Time `json:"createdAt" column:"created_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updatedAt" column:"updated_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
}

/////////////////////////////////////////////////////////////////////////
////// Persistable Interface Implementation
/////////////////////////////////////////////////////////////////////////

// GetPrimaryKey returns the compound primary key as a map
func (f *Fixture) GetPrimaryKey() map[string]any {
	return map[string]any{
		"country":   f.Country,
		"week":      f.Week,
		"home_team": f.HomeTeam,
		"away_team": f.AwayTeam,
	}
}

// SetPrimaryKey sets the compound primary key from a map
func (f *Fixture) SetPrimaryKey(pk map[string]any) error {
	for column, dest := range map[string]*string{
		"country":   &f.Country,
		"week":      &f.Week,
		"home_team": &f.HomeTeam,
		"away_team": &f.AwayTeam,
	} {
		value, ok := pk[column].(string)
		if !ok {
			return fmt.Errorf("primary key '%s' must be a string", column)
		}
		*dest = value
	}
	return nil
}

// GetTableName returns the table name for fixtures
func (f *Fixture) GetTableName() string {
	return "fixtures"
}

// BeforeSave is called before saving the fixture
func (f *Fixture) BeforeSave() error {
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	return nil
}

// AfterSave is called after saving the fixture
func (f *Fixture) AfterSave() error {
	return nil
}

// BeforeDelete is called before deleting the fixture
func (f *Fixture) BeforeDelete() error {
	return nil
}

// AfterDelete is called after deleting the fixture
func (f *Fixture) AfterDelete() error {
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Score Parsing
/////////////////////////////////////////////////////////////////////////

// scoreSeparators covers the separators seen in scraped score strings.
// Turkish sources mostly emit "2-1" but ":" shows up on some league pages.
var scoreSeparators = []string{"-", ":"}

// ParseScore parses a raw score string of the form "<int>-<int>" into home
// and away goals. The second return is false for anything that does not
// conform, which callers must treat as a match that has not been played.
func ParseScore(raw string) (homeGoals, awayGoals int, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, false
	}

	for _, sep := range scoreSeparators {
		parts := strings.Split(raw, sep)
		if len(parts) != 2 {
			continue
		}
		h, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
		a, errA := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errH != nil || errA != nil {
			continue
		}
		if h < 0 || a < 0 {
			continue
		}
		return h, a, true
	}

	return 0, 0, false
}

// HasBeenPlayed reports whether the fixture carries a parseable final score
func (f *Fixture) HasBeenPlayed() bool {
	_, _, ok := ParseScore(f.Score)
	return ok
}

// Result returns the match result ("1", "X" or "2") for a completed fixture
func (f *Fixture) Result() (string, bool) {
	h, a, ok := ParseScore(f.Score)
	if !ok {
		return "", false
	}
	switch {
	case h > a:
		return "1", true
	case a > h:
		return "2", true
	default:
		return "X", true
	}
}

// InvolvesTeam reports whether the given canonical team name appears in either
// side of the fixture. Matching is by case-insensitive containment because
// fixture rows may carry decorated names ("Galatasaray A.Ş.")
func (f *Fixture) InvolvesTeam(teamName string) bool {
	name := strings.ToLower(strings.TrimSpace(teamName))
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(f.HomeTeam), name) ||
		strings.Contains(strings.ToLower(f.AwayTeam), name)
}

// IsHomeFor reports whether the given team, identified by containment, is the
// home side of this fixture
func (f *Fixture) IsHomeFor(teamName string) bool {
	name := strings.ToLower(strings.TrimSpace(teamName))
	return name != "" && strings.Contains(strings.ToLower(f.HomeTeam), name)
}
