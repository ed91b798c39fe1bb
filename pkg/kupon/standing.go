package kupon

import (
	"fmt"
	"time"
)

// Compile-time check to ensure Standing implements Persistable interface
var _ Persistable = (*Standing)(nil)

// Standing represents one row of a league table with database persistence annotations
type Standing struct {
	// Compound primary key fields
	Country string `json:"country" column:"country" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	Team    string `json:"team" column:"team" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`

	Rank         int `json:"rank" column:"rank" dbtype:"INTEGER DEFAULT 0"`
	Played       int `json:"played" column:"played" dbtype:"INTEGER DEFAULT 0"`
	Won          int `json:"won" column:"won" dbtype:"INTEGER DEFAULT 0"`
	Drawn        int `json:"drawn" column:"drawn" dbtype:"INTEGER DEFAULT 0"`
	Lost         int `json:"lost" column:"lost" dbtype:"INTEGER DEFAULT 0"`
	GoalsFor     int `json:"goalsFor" column:"goals_for" dbtype:"INTEGER DEFAULT 0"`
	GoalsAgainst int `json:"goalsAgainst" column:"goals_against" dbtype:"INTEGER DEFAULT 0"`
	Average      int `json:"average" column:"average" dbtype:"INTEGER DEFAULT 0"`
	Points       int `json:"points" column:"points" dbtype:"INTEGER DEFAULT 0"`

	// Metadata
	CreatedAt time.Time `json:"createdAt" column:"created_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updatedAt" column:"updated_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
}

/////////////////////////////////////////////////////////////////////////
////// Persistable Interface Implementation
/////////////////////////////////////////////////////////////////////////

// GetPrimaryKey returns the compound primary key as a map
func (s *Standing) GetPrimaryKey() map[string]any {
	return map[string]any{
		"country": s.Country,
		"team":    s.Team,
	}
}

// SetPrimaryKey sets the compound primary key from a map
func (s *Standing) SetPrimaryKey(pk map[string]any) error {
	country, ok := pk["country"].(string)
	if !ok {
		return fmt.Errorf("primary key 'country' must be a string")
	}
	team, ok := pk["team"].(string)
	if !ok {
		return fmt.Errorf("primary key 'team' must be a string")
	}
	s.Country = country
	s.Team = team
	return nil
}

// GetTableName returns the table name for standings
func (s *Standing) GetTableName() string {
	return "standings"
}

// BeforeSave is called before saving the standing
func (s *Standing) BeforeSave() error {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	return nil
}

// AfterSave is called after saving the standing
func (s *Standing) AfterSave() error {
	return nil
}

// BeforeDelete is called before deleting the standing
func (s *Standing) BeforeDelete() error {
	return nil
}

// AfterDelete is called after deleting the standing
func (s *Standing) AfterDelete() error {
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Derived Rates
/////////////////////////////////////////////////////////////////////////

// All per-match rates divide by max(1, played) so that a side with an
// empty record yields finite values rather than a division by zero

// PointsPerMatch returns league points divided by the number of matches played
func (s *Standing) PointsPerMatch() float64 {
	return float64(s.Points) / float64(maxInt(1, s.Played))
}

// AttackRate returns goals scored per match played
func (s *Standing) AttackRate() float64 {
	return float64(s.GoalsFor) / float64(maxInt(1, s.Played))
}

// DefenseRate returns goals conceded per match played
func (s *Standing) DefenseRate() float64 {
	return float64(s.GoalsAgainst) / float64(maxInt(1, s.Played))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
