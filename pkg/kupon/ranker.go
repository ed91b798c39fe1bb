package kupon

import (
	"context"
	"errors"
	"sort"

	"github.com/argunvaran/wizard-scrap/internal/logger"
	"golang.org/x/sync/errgroup"
)

// PickType distinguishes result picks from the over/under market
type PickType string

const (
	PickTypeResult    PickType = "RESULT"
	PickTypeOverUnder PickType = "OVER_UNDER"
)

// Candidate is one proposed bet on one match: a pick label with the model
// probability and the bulletin odds behind it
type Candidate struct {
	Bulletin    *BulletinMatch
	Pick        string
	Probability float64 // in [0,1]
	Odds        float64 // decimal odds, >= 1.0
	Type        PickType
}

// ExpectedValue returns odds times probability, the sort key of the
// legendary strategy
func (c *Candidate) ExpectedValue() float64 {
	return c.Odds * c.Probability
}

// RankStats counts the per-record skips of one ranking pass, for diagnostics
type RankStats struct {
	Analyzed         int
	Duplicates       int
	MissingOdds      int
	InsufficientData int
}

// ErrNoOpenMatches is returned when the bulletin holds nothing to analyze
var ErrNoOpenMatches = errors.New("no open bulletin matches to analyze")

// LeagueData maps a country code onto its materialized records
type LeagueData map[string]*DataSet

// For returns the data set for a country, never nil
func (ld LeagueData) For(country string) *DataSet {
	if data, ok := ld[country]; ok {
		return data
	}
	return &DataSet{}
}

// RankCandidates scans every open bulletin match, runs the scoring model and
// emits the list of betting candidates ordered by probability descending.
//
// The played signature set is consulted once per match: any match whose
// normalized signature already appears among the legs of a promoted coupon is
// discarded entirely. Predictions for different matches run concurrently; the
// signature filtering and ordering are applied sequentially afterwards so the
// output is deterministic.
func RankCandidates(ctx context.Context, bulletins []*BulletinMatch, data LeagueData, played SignatureSet) ([]*Candidate, *RankStats, error) {
	stats := &RankStats{}
	if len(bulletins) == 0 {
		return nil, stats, ErrNoOpenMatches
	}

	model := NewScoringModel()
	predictions := make([]*PredictionResult, len(bulletins))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(Config.RankerWorkers)
	for i, bulletin := range bulletins {
		if !bulletin.HasResultOdds() {
			continue // leave the slot nil, counted below
		}
		i, bulletin := i, bulletin
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			predictions[i] = model.Predict(GatherMatchInput(bulletin, data.For(bulletin.Country)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var candidates []*Candidate
	for i, bulletin := range bulletins {
		pred := predictions[i]
		if pred == nil {
			stats.MissingOdds++
			logger.Debug("Skipping match without result odds", bulletin.HomeTeam, bulletin.AwayTeam)
			continue
		}
		if pred.InsufficientData {
			stats.InsufficientData++
			logger.Debug("Skipping match with no standings", bulletin.HomeTeam, bulletin.AwayTeam)
			continue
		}
		if played.Has(bulletin.Signature()) {
			stats.Duplicates++
			logger.Debug("Skipping already staked match", bulletin.HomeTeam, bulletin.AwayTeam)
			continue
		}
		stats.Analyzed++
		candidates = append(candidates, matchCandidates(bulletin, pred)...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Probability > candidates[j].Probability
	})
	return candidates, stats, nil
}

// matchCandidates derives up to three candidates from one prediction: the
// stronger result pick, an over pick and an under pick, each gated by the
// configured probability and odds thresholds
func matchCandidates(bulletin *BulletinMatch, pred *PredictionResult) []*Candidate {
	var candidates []*Candidate

	// Best result pick
	oddsHome, _ := ParseOdds(bulletin.MS1)
	oddsAway, _ := ParseOdds(bulletin.MS2)

	pick, prob, odds := PickAway, pred.AwayWinProb, oddsAway
	if pred.HomeWinProb > pred.AwayWinProb {
		pick, prob, odds = PickHome, pred.HomeWinProb, oddsHome
	}
	if prob > Config.ResultPickThreshold {
		candidates = append(candidates, &Candidate{
			Bulletin:    bulletin,
			Pick:        pick,
			Probability: prob / 100.0,
			Odds:        odds,
			Type:        PickTypeResult,
		})
	}

	// Over pick: the market must both look likely and pay enough
	if oddsOver, ok := ParseOdds(bulletin.Over2p5); ok &&
		pred.OverProb > Config.OverUnderThreshold && oddsOver > Config.OverUnderMinOdds {
		candidates = append(candidates, &Candidate{
			Bulletin:    bulletin,
			Pick:        PickOver,
			Probability: pred.OverProb / 100.0,
			Odds:        oddsOver,
			Type:        PickTypeOverUnder,
		})
	}

	// Under pick, symmetric
	if oddsUnder, ok := ParseOdds(bulletin.Under2p5); ok &&
		pred.UnderProb > Config.OverUnderThreshold && oddsUnder > Config.OverUnderMinOdds {
		candidates = append(candidates, &Candidate{
			Bulletin:    bulletin,
			Pick:        PickUnder,
			Probability: pred.UnderProb / 100.0,
			Odds:        oddsUnder,
			Type:        PickTypeOverUnder,
		})
	}

	return candidates
}
