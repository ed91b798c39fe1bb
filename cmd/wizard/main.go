package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/argunvaran/wizard-scrap/internal/logger"
	"github.com/argunvaran/wizard-scrap/pkg/kupon"
	"github.com/shopspring/decimal"
)

func main() {
	// Configure logging
	logger.SetShowDateTime(true)
	logger.SetLogOutput('c')

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	if path := os.Getenv("WIZARD_CONFIG"); path != "" {
		if _, err := kupon.LoadConfig(path); err != nil {
			logger.Fatal("Failed to load config:", err)
		}
	}

	if err := kupon.OpenDatabase(kupon.Config.DbPath); err != nil {
		logger.Fatal("Failed to open database:", err)
	}
	defer kupon.CloseDatabase()

	if err := kupon.CreateTables(); err != nil {
		logger.Fatal("Failed to create tables:", err)
	}

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(os.Args[2:])
	case "predict":
		err = runPredict(os.Args[2:])
	case "build":
		err = runBuild(os.Args[2:])
	case "settle":
		err = runSettle()
	case "evaluate":
		err = runEvaluate(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("Command failed:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: wizard <command> [args]

Commands:
  import <standings|fixtures|players|bulletin> <country> <file>
  predict <country> [home away]
  build <TOP_N|TARGET_MULTIPLIER|LEGENDARY|HEDGE_3_PLUS_1> <amount> [target]
  settle
  evaluate <country>`)
}

// runImport loads one HTML data file into the named table for a country
func runImport(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("import requires: <kind> <country> <file>")
	}
	kind, country, path := args[0], args[1], args[2]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var count int
	switch kind {
	case "standings":
		count, err = kupon.ImportStandings(f, country)
	case "fixtures":
		count, err = kupon.ImportFixtures(f, country)
	case "players":
		count, err = kupon.ImportPlayers(f, country)
	case "bulletin":
		count, err = kupon.ImportBulletin(f, country)
	default:
		return fmt.Errorf("unknown import kind: %s", kind)
	}
	if err != nil {
		return err
	}
	logger.Info("Import complete", kind, country, count)
	return nil
}

// runPredict ranks the open bulletin for a country, or runs the full
// simulation report for one pairing when home and away names are given
func runPredict(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("predict requires: <country> [home away]")
	}
	country := args[0]

	if len(args) >= 3 {
		return predictSingle(country, args[1], args[2])
	}

	bulletins, data, played, err := loadRankingInputs(country)
	if err != nil {
		return err
	}

	candidates, stats, err := kupon.RankCandidates(context.Background(), bulletins, data, played)
	if err != nil {
		return err
	}
	logger.Info("Ranking finished", stats.Analyzed, stats.Duplicates, stats.MissingOdds, stats.InsufficientData)

	for i, c := range candidates {
		fmt.Printf("%2d. %-25s vs %-25s %-10s p=%.1f%% odds=%.2f ev=%.3f\n",
			i+1, c.Bulletin.HomeTeam, c.Bulletin.AwayTeam, c.Pick,
			c.Probability*100, c.Odds, c.ExpectedValue())
	}
	return nil
}

// predictSingle runs the Monte Carlo model for one pairing and prints the
// full report: outcome distribution, likely scorelines and key players
func predictSingle(country, home, away string) error {
	data, err := loadCountryData(country)
	if err != nil {
		return err
	}

	probe := &kupon.BulletinMatch{Country: country, HomeTeam: home, AwayTeam: away}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pred := kupon.NewSimulationModel(rng).Predict(kupon.GatherMatchInput(probe, data))

	if pred.InsufficientData {
		return fmt.Errorf("no standings found for %s vs %s in %s", home, away, country)
	}

	fmt.Printf("%s vs %s (%s)\n", home, away, country)
	fmt.Printf("  1: %.1f%%  X: %.1f%%  2: %.1f%%  [%s, %s confidence]\n",
		pred.HomeWinProb, pred.DrawProb, pred.AwayWinProb, pred.PredictedLabel, pred.ConfidenceTier)
	fmt.Printf("  xG %.2f - %.2f, over 2.5: %.1f%%\n",
		pred.ExpectedGoalsHome, pred.ExpectedGoalsAway, pred.OverProb)
	fmt.Printf("  likely scores: %v\n", pred.LikelyScores)
	for _, p := range pred.HomeKeyPlayers {
		fmt.Printf("  key (home): %s (%d+%d)\n", p.PlayerName, p.Goals, p.Assists)
	}
	for _, p := range pred.AwayKeyPlayers {
		fmt.Printf("  key (away): %s (%d+%d)\n", p.PlayerName, p.Goals, p.Assists)
	}
	return nil
}

// runBuild ranks the bulletin, builds a portfolio under the named strategy
// and persists the promoted coupons
func runBuild(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("build requires: <strategy> <amount> [target]")
	}
	strategy := kupon.Strategy(args[0])

	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	budget := kupon.BudgetParams{Amount: amount, Target: amount.Mul(decimal.NewFromInt(10))}
	if len(args) > 2 {
		target, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("invalid target %q: %w", args[2], err)
		}
		budget.Target = target
	}

	bulletins, err := kupon.LoadBulletin()
	if err != nil {
		return err
	}
	data, err := loadLeagueData(bulletins)
	if err != nil {
		return err
	}
	played, err := kupon.PlayedSignatures()
	if err != nil {
		return err
	}

	candidates, _, err := kupon.RankCandidates(context.Background(), bulletins, data, played)
	if err != nil {
		return err
	}

	coupons, err := kupon.BuildPortfolio(strategy, candidates, budget)
	if err != nil {
		return err
	}

	for _, c := range coupons {
		if err := kupon.PromoteCoupon(c, played); err != nil {
			logger.Warn("Skipping coupon:", err)
			continue
		}
		if err := kupon.SaveCoupon(c); err != nil {
			return err
		}
		fmt.Printf("Coupon %s: %d legs, odds %s, stake %s, returns %s\n",
			c.ID, len(c.Items), c.TotalOdds.StringFixed(2),
			c.Amount.StringFixed(2), c.PotentialReturn.StringFixed(2))
	}
	return nil
}

// runSettle grades every pending played coupon against stored fixtures
func runSettle() error {
	coupons, err := kupon.LoadPendingCoupons()
	if err != nil {
		return err
	}
	if len(coupons) == 0 {
		logger.Info("No pending coupons to settle")
		return nil
	}

	fixtures, err := kupon.LoadAllFixtures()
	if err != nil {
		return err
	}

	stats := kupon.SettleCoupons(coupons, fixtures)
	for _, c := range coupons {
		if err := kupon.SaveCoupon(c); err != nil {
			return err
		}
	}
	logger.Info("Settlement finished", stats.ItemsChecked, stats.ItemsWon, stats.ItemsLost, stats.ItemsOpen)
	return nil
}

// runEvaluate replays played fixtures through both models and reports hit rates
func runEvaluate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("evaluate requires: <country>")
	}
	country := args[0]

	data, err := loadCountryData(country)
	if err != nil {
		return err
	}

	scoring := kupon.EvaluateModel(kupon.NewScoringModel(), data.Fixtures, data)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	simulation := kupon.EvaluateModel(kupon.NewSimulationModel(rng), data.Fixtures, data)

	fmt.Printf("scoring:    %d evaluated, result %.1f%%, over/under %.1f%%\n",
		scoring.Evaluated, scoring.ResultHitRate()*100, scoring.OverUnderHitRate()*100)
	fmt.Printf("simulation: %d evaluated, result %.1f%%, over/under %.1f%%, exact score %d\n",
		simulation.Evaluated, simulation.ResultHitRate()*100, simulation.OverUnderHitRate()*100,
		simulation.ExactScoreHits)
	return nil
}

func loadCountryData(country string) (*kupon.DataSet, error) {
	standings, err := kupon.LoadStandings(country)
	if err != nil {
		return nil, err
	}
	fixtures, err := kupon.LoadFixtures(country)
	if err != nil {
		return nil, err
	}
	players, err := kupon.LoadPlayers(country)
	if err != nil {
		return nil, err
	}
	return &kupon.DataSet{Standings: standings, Fixtures: fixtures, Players: players}, nil
}

// loadLeagueData materializes per-country data sets for every country that
// appears on the bulletin
func loadLeagueData(bulletins []*kupon.BulletinMatch) (kupon.LeagueData, error) {
	data := make(kupon.LeagueData)
	for _, b := range bulletins {
		if _, loaded := data[b.Country]; loaded {
			continue
		}
		set, err := loadCountryData(b.Country)
		if err != nil {
			return nil, err
		}
		data[b.Country] = set
	}
	return data, nil
}

func loadRankingInputs(country string) ([]*kupon.BulletinMatch, kupon.LeagueData, kupon.SignatureSet, error) {
	bulletins, err := kupon.LoadBulletin()
	if err != nil {
		return nil, nil, nil, err
	}
	if country != "" {
		filtered := bulletins[:0]
		for _, b := range bulletins {
			if b.Country == country {
				filtered = append(filtered, b)
			}
		}
		bulletins = filtered
	}

	data, err := loadLeagueData(bulletins)
	if err != nil {
		return nil, nil, nil, err
	}
	played, err := kupon.PlayedSignatures()
	if err != nil {
		return nil, nil, nil, err
	}
	return bulletins, data, played, nil
}
