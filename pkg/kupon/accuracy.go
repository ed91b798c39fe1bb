package kupon

import (
	"fmt"
	"strings"

	"github.com/argunvaran/wizard-scrap/internal/logger"
)

/////////////////////////////////////////////////////////////////////////
////// Accuracy Evaluation
/////////////////////////////////////////////////////////////////////////

// AccuracyReport summarises how a model performed against played fixtures
type AccuracyReport struct {
	Evaluated     int
	Skipped       int
	ResultHits    int
	OverUnderHits int

	// Exact-score hits, counted only for models that report likely
	// scorelines
	ExactScoreHits int
}

// ResultHitRate is the fraction of evaluated fixtures whose 1/X/2 outcome
// the model called correctly
func (r *AccuracyReport) ResultHitRate() float64 {
	if r.Evaluated == 0 {
		return 0
	}
	return float64(r.ResultHits) / float64(r.Evaluated)
}

// OverUnderHitRate is the fraction of evaluated fixtures whose total-goals
// side the model called correctly
func (r *AccuracyReport) OverUnderHitRate() float64 {
	if r.Evaluated == 0 {
		return 0
	}
	return float64(r.OverUnderHits) / float64(r.Evaluated)
}

// EvaluateModel replays every completed fixture through the model and
// scores its calls against the real outcomes. Fixtures the model cannot
// predict, because a side has no standing, count as skipped.
func EvaluateModel(model PredictionStrategy, fixtures []*Fixture, data *DataSet) *AccuracyReport {
	report := &AccuracyReport{}

	for _, fixture := range fixtures {
		actual, ok := fixture.Result()
		if !ok {
			continue
		}

		probe := &BulletinMatch{
			Country:   fixture.Country,
			HomeTeam:  fixture.HomeTeam,
			AwayTeam:  fixture.AwayTeam,
			MatchDate: fixture.Date,
			MatchTime: fixture.Time,
		}
		pred := model.Predict(GatherMatchInput(probe, data))
		if pred.InsufficientData || pred.PredictedLabel == "" {
			report.Skipped++
			continue
		}
		report.Evaluated++

		if strings.TrimSuffix(pred.PredictedLabel, BankerSuffix) == actual {
			report.ResultHits++
		}

		home, away, _ := ParseScore(fixture.Score)
		wentOver := home+away > 2
		calledOver := pred.OverProb > 50
		if wentOver == calledOver {
			report.OverUnderHits++
		}

		if len(pred.LikelyScores) > 0 && pred.LikelyScores[0] == fmt.Sprintf("%d-%d", home, away) {
			report.ExactScoreHits++
		}
	}

	logger.Info("Model evaluation finished", report.Evaluated, report.ResultHits, report.OverUnderHits)
	return report
}
