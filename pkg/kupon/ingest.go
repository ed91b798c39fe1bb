package kupon

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/argunvaran/wizard-scrap/internal/logger"
)

/////////////////////////////////////////////////////////////////////////
////// HTML Ingestion
/////////////////////////////////////////////////////////////////////////

// ImportStandings parses a league standings HTML table and persists one
// Standing per well-formed row. Rows with too few cells or an unparseable
// rank are skipped. Returns the number of rows saved.
func ImportStandings(r io.Reader, country string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse standings HTML: %w", err)
	}

	var standings []Persistable
	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) < 10 {
			return
		}
		rank, err := strconv.Atoi(cells[0])
		if err != nil {
			logger.Debug("Skipping standings row with bad rank", cells[0])
			return
		}
		standings = append(standings, &Standing{
			Country:      country,
			Team:         cells[1],
			Rank:         rank,
			Played:       atoiOrZero(cells[2]),
			Won:          atoiOrZero(cells[3]),
			Drawn:        atoiOrZero(cells[4]),
			Lost:         atoiOrZero(cells[5]),
			GoalsFor:     atoiOrZero(cells[6]),
			GoalsAgainst: atoiOrZero(cells[7]),
			Average:      atoiOrZero(cells[8]),
			Points:       atoiOrZero(cells[9]),
		})
	})

	if err := BulkSave(standings); err != nil {
		return 0, fmt.Errorf("failed to save standings: %w", err)
	}
	logger.Info("Imported standings", country, len(standings))
	return len(standings), nil
}

// ImportFixtures parses a fixtures HTML table. Each row carries a week,
// the pairing, kick-off info and an optional score. Returns the number of
// rows saved.
func ImportFixtures(r io.Reader, country string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse fixtures HTML: %w", err)
	}

	var fixtures []Persistable
	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) < 4 {
			return
		}
		fixture := &Fixture{
			Country:  country,
			Week:     cells[0],
			HomeTeam: cells[1],
			AwayTeam: cells[2],
			Date:     cells[3],
		}
		if len(cells) > 4 {
			fixture.Time = cells[4]
		}
		if len(cells) > 5 {
			fixture.Score = cells[5]
		}
		if fixture.HomeTeam == "" || fixture.AwayTeam == "" {
			return
		}
		fixtures = append(fixtures, fixture)
	})

	if err := BulkSave(fixtures); err != nil {
		return 0, fmt.Errorf("failed to save fixtures: %w", err)
	}
	logger.Info("Imported fixtures", country, len(fixtures))
	return len(fixtures), nil
}

// ImportPlayers parses a squad statistics HTML table. Returns the number
// of rows saved.
func ImportPlayers(r io.Reader, country string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse players HTML: %w", err)
	}

	var players []Persistable
	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) < 7 {
			return
		}
		if cells[0] == "" || cells[1] == "" {
			return
		}
		players = append(players, &Player{
			Country:       country,
			TeamName:      cells[0],
			PlayerName:    cells[1],
			Position:      cells[2],
			Starts:        atoiOrZero(cells[3]),
			Goals:         atoiOrZero(cells[4]),
			Assists:       atoiOrZero(cells[5]),
			MatchesPlayed: atoiOrZero(cells[6]),
		})
	})

	if err := BulkSave(players); err != nil {
		return 0, fmt.Errorf("failed to save players: %w", err)
	}
	logger.Info("Imported players", country, len(players))
	return len(players), nil
}

// ImportBulletin parses an odds bulletin HTML table into BulletinMatch
// rows. Missing odds cells keep the "-" sentinel so downstream parsing
// treats them as absent. Returns the number of rows saved.
func ImportBulletin(r io.Reader, country string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse bulletin HTML: %w", err)
	}

	var matches []Persistable
	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) < 5 {
			return
		}
		match := &BulletinMatch{
			Country:   country,
			League:    cells[0],
			HomeTeam:  cells[1],
			AwayTeam:  cells[2],
			MatchDate: cells[3],
			MatchTime: cells[4],
			MS1:       NoOdds,
			MSX:       NoOdds,
			MS2:       NoOdds,
			Under2p5:  NoOdds,
			Over2p5:   NoOdds,
		}
		if match.HomeTeam == "" || match.AwayTeam == "" {
			return
		}
		if len(cells) > 5 {
			match.MS1 = oddsOrSentinel(cells[5])
		}
		if len(cells) > 6 {
			match.MSX = oddsOrSentinel(cells[6])
		}
		if len(cells) > 7 {
			match.MS2 = oddsOrSentinel(cells[7])
		}
		if len(cells) > 8 {
			match.Under2p5 = oddsOrSentinel(cells[8])
		}
		if len(cells) > 9 {
			match.Over2p5 = oddsOrSentinel(cells[9])
		}
		match.UniqueKey = MatchSignature(match.HomeTeam, match.AwayTeam, match.MatchDate)
		matches = append(matches, match)
	})

	if err := BulkSave(matches); err != nil {
		return 0, fmt.Errorf("failed to save bulletin: %w", err)
	}
	logger.Info("Imported bulletin", country, len(matches))
	return len(matches), nil
}

// cellTexts extracts the trimmed text of every td in a row
func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("td").Each(func(i int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func oddsOrSentinel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoOdds
	}
	return s
}
