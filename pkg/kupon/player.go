package kupon

import (
	"fmt"
	"time"
)

// Compile-time check to ensure Player implements Persistable interface
var _ Persistable = (*Player)(nil)

// Player represents one squad member's season statistics
type Player struct {
	// Compound primary key fields
	Country    string `json:"country" column:"country" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	TeamName   string `json:"teamName" column:"team_name" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	PlayerName string `json:"playerName" column:"player_name" dbtype:"TEXT NOT NULL" primary:"true"`

	Position      string `json:"position" column:"position" dbtype:"TEXT"`
	Starts        int    `json:"starts" column:"starts" dbtype:"INTEGER DEFAULT 0"`
	Goals         int    `json:"goals" column:"goals" dbtype:"INTEGER DEFAULT 0"`
	Assists       int    `json:"assists" column:"assists" dbtype:"INTEGER DEFAULT 0"`
	MatchesPlayed int    `json:"matchesPlayed" column:"matches_played" dbtype:"INTEGER DEFAULT 0"`

	// Metadata
	CreatedAt time.Time `json:"createdAt" column:"created_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updatedAt" column:"updated_at" dbtype:"DATETIME DEFAULT CURRENT_TIMESTAMP"`
}

/////////////////////////////////////////////////////////////////////////
////// Persistable Interface Implementation
/////////////////////////////////////////////////////////////////////////

// GetPrimaryKey returns the compound primary key as a map
func (p *Player) GetPrimaryKey() map[string]any {
	return map[string]any{
		"country":     p.Country,
		"team_name":   p.TeamName,
		"player_name": p.PlayerName,
	}
}

// SetPrimaryKey sets the compound primary key from a map
func (p *Player) SetPrimaryKey(pk map[string]any) error {
	for column, dest := range map[string]*string{
		"country":     &p.Country,
		"team_name":   &p.TeamName,
		"player_name": &p.PlayerName,
	} {
		value, ok := pk[column].(string)
		if !ok {
			return fmt.Errorf("primary key '%s' must be a string", column)
		}
		*dest = value
	}
	return nil
}

// GetTableName returns the table name for players
func (p *Player) GetTableName() string {
	return "players"
}

// BeforeSave is called before saving the player
func (p *Player) BeforeSave() error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}

// AfterSave is called after saving the player
func (p *Player) AfterSave() error {
	return nil
}

// BeforeDelete is called before deleting the player
func (p *Player) BeforeDelete() error {
	return nil
}

// AfterDelete is called after deleting the player
func (p *Player) AfterDelete() error {
	return nil
}

// GoalInvolvement returns goals plus assists, used when picking key players
func (p *Player) GoalInvolvement() int {
	return p.Goals + p.Assists
}
