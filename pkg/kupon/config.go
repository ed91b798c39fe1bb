package kupon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KuponConfig contains all configurable parameters that influence prediction
// and coupon construction outcomes. This centralizes all magic numbers and
// constants for easy adjustment, and can be overridden from a YAML file.
type KuponConfig struct {
	// Database parameters
	DbPath string `yaml:"dbPath"` // Location of the sqlite database

	// === SCORING MODEL PARAMETERS ===

	PPMWeight      float64 `yaml:"ppmWeight"`      // Weight of points-per-match in base strength (default: 0.7)
	FormWeight     float64 `yaml:"formWeight"`     // Weight of recent form in base strength (default: 0.3)
	HomeAdvantage  float64 `yaml:"homeAdvantage"`  // Multiplier applied to the home base strength (default: 1.15)
	BaseDrawWeight float64 `yaml:"baseDrawWeight"` // Baseline draw weight before normalization (default: 25.0)
	CloseDrawBonus float64 `yaml:"closeDrawBonus"` // Added to the draw weight when sides are close (default: 5.0)
	CloseDrawGap   float64 `yaml:"closeDrawGap"`   // Probability gap below which sides count as close (default: 10.0)

	// Over/under 2.5 heuristic
	OverBaseline   float64 `yaml:"overBaseline"`   // Starting over probability (default: 50.0)
	OverGoalsScale float64 `yaml:"overGoalsScale"` // Percent added per expected goal above 2.5 (default: 30.0)
	OverFloor      float64 `yaml:"overFloor"`      // Lower clamp for over probability (default: 10.0)
	OverCeiling    float64 `yaml:"overCeiling"`    // Upper clamp for over probability (default: 90.0)

	// Decision thresholds (percentages)
	ResultThreshold float64 `yaml:"resultThreshold"` // Probability needed to call 1 or 2 over X (default: 45.0)
	BankerThreshold float64 `yaml:"bankerThreshold"` // Probability needed to append the banker suffix (default: 60.0)

	// === SIMULATION MODEL PARAMETERS ===

	SimulationTrials   int     `yaml:"simulationTrials"`   // Monte Carlo trial count (default: 10000)
	ScorelineSampleCap int     `yaml:"scorelineSampleCap"` // Trials whose scorelines are recorded verbatim (default: 1000)
	TopScorelines      int     `yaml:"topScorelines"`      // Most common scorelines reported (default: 3)
	TopSquadPlayers    int     `yaml:"topSquadPlayers"`    // Players per side in the squad power sum (default: 15)
	KeyPlayers         int     `yaml:"keyPlayers"`         // Key players per side in the report (default: 3)
	SimHomeAdvantage   float64 `yaml:"simHomeAdvantage"`   // xG multiplier for the home side (default: 1.20)
	FormImpactScale    float64 `yaml:"formImpactScale"`    // Weighted form contribution to the xG multiplier (default: 0.1)
	PowerRatioFloor    float64 `yaml:"powerRatioFloor"`    // Lower clamp for squad power ratio (default: 0.7)
	PowerRatioCeiling  float64 `yaml:"powerRatioCeiling"`  // Upper clamp for squad power ratio (default: 1.3)
	MinExpectedGoals   float64 `yaml:"minExpectedGoals"`   // Floor for either side's xG (default: 0.1)

	// Confidence tier boundaries on the maximum outcome probability
	MediumConfidenceOver float64 `yaml:"mediumConfidenceOver"` // Above this the tier is Medium (default: 55.0)
	HighConfidenceOver   float64 `yaml:"highConfidenceOver"`   // Above this the tier is High (default: 70.0)

	// === FORM CALCULATION PARAMETERS ===

	WeightedFormWindow int     `yaml:"weightedFormWindow"` // Fixtures in the weighted form window (default: 6)
	PointsFormWindow   int     `yaml:"pointsFormWindow"`   // Fixtures in the points form window (default: 5)
	WinBonus           float64 `yaml:"winBonus"`           // Performance bonus for a win (default: 2.0)
	DrawBonus          float64 `yaml:"drawBonus"`          // Performance bonus for a draw (default: 0.5)

	// === NAME RESOLUTION ===

	FuzzyMatchCutoff float64 `yaml:"fuzzyMatchCutoff"` // Minimum similarity ratio for the fuzzy fallback (default: 0.6)

	// === CANDIDATE RANKING THRESHOLDS ===

	ResultPickThreshold float64 `yaml:"resultPickThreshold"` // Minimum win probability for a result candidate (default: 40.0)
	OverUnderThreshold  float64 `yaml:"overUnderThreshold"`  // Minimum probability for an over/under candidate (default: 55.0)
	OverUnderMinOdds    float64 `yaml:"overUnderMinOdds"`    // Minimum odds for an over/under candidate (default: 1.30)

	// === PORTFOLIO STRATEGIES ===

	TopSinglesCount    int     `yaml:"topSinglesCount"`    // Coupons emitted by the top singles strategy (default: 10)
	LegendaryMinOdds   float64 `yaml:"legendaryMinOdds"`   // Odds filter for legendary legs (default: 1.45)
	LegendaryMinProb   float64 `yaml:"legendaryMinProb"`   // Probability filter for legendary legs (default: 0.50)
	LegendaryTarget    float64 `yaml:"legendaryTarget"`    // Cumulative odds target for the legendary coupon (default: 100.0)
	HedgeMinOdds       float64 `yaml:"hedgeMinOdds"`       // Lower odds bound for hedge legs (default: 1.45)
	HedgeMaxOdds       float64 `yaml:"hedgeMaxOdds"`       // Upper odds bound for hedge legs (default: 2.10)
	HedgeSingleRatio   string  `yaml:"hedgeSingleRatio"`   // Budget share per single hedge coupon (default: "0.28")
	HedgeComboRatio    string  `yaml:"hedgeComboRatio"`    // Budget share of the combo hedge coupon (default: "0.16")
	HedgeComboFallback float64 `yaml:"hedgeComboFallback"` // Confidence assigned to the combo coupon (default: 65.0)

	// === RANKER CONCURRENCY ===

	RankerWorkers int `yaml:"rankerWorkers"` // Concurrent predictions during ranking (default: 4)
}

// DefaultKuponConfig returns the default configuration with all standard values
func DefaultKuponConfig() *KuponConfig {
	return &KuponConfig{
		DbPath: ".wizard/kupon.db",

		// === SCORING MODEL PARAMETERS ===
		PPMWeight:      0.7,
		FormWeight:     0.3,
		HomeAdvantage:  1.15,
		BaseDrawWeight: 25.0,
		CloseDrawBonus: 5.0,
		CloseDrawGap:   10.0,

		OverBaseline:   50.0,
		OverGoalsScale: 30.0,
		OverFloor:      10.0,
		OverCeiling:    90.0,

		ResultThreshold: 45.0,
		BankerThreshold: 60.0,

		// === SIMULATION MODEL PARAMETERS ===
		SimulationTrials:   10000,
		ScorelineSampleCap: 1000,
		TopScorelines:      3,
		TopSquadPlayers:    15,
		KeyPlayers:         3,
		SimHomeAdvantage:   1.20,
		FormImpactScale:    0.1,
		PowerRatioFloor:    0.7,
		PowerRatioCeiling:  1.3,
		MinExpectedGoals:   0.1,

		MediumConfidenceOver: 55.0,
		HighConfidenceOver:   70.0,

		// === FORM CALCULATION PARAMETERS ===
		WeightedFormWindow: 6,
		PointsFormWindow:   5,
		WinBonus:           2.0,
		DrawBonus:          0.5,

		// === NAME RESOLUTION ===
		FuzzyMatchCutoff: 0.6,

		// === CANDIDATE RANKING THRESHOLDS ===
		ResultPickThreshold: 40.0,
		OverUnderThreshold:  55.0,
		OverUnderMinOdds:    1.30,

		// === PORTFOLIO STRATEGIES ===
		TopSinglesCount:    10,
		LegendaryMinOdds:   1.45,
		LegendaryMinProb:   0.50,
		LegendaryTarget:    100.0,
		HedgeMinOdds:       1.45,
		HedgeMaxOdds:       2.10,
		HedgeSingleRatio:   "0.28",
		HedgeComboRatio:    "0.16",
		HedgeComboFallback: 65.0,

		// === RANKER CONCURRENCY ===
		RankerWorkers: 4,
	}
}

// Global configuration instance
var Config *KuponConfig

func init() {
	Config = DefaultKuponConfig()
}

// UpdateConfig allows updating the global configuration
func UpdateConfig(newConfig *KuponConfig) {
	Config = newConfig
}

// LoadConfig reads a YAML configuration file over the defaults and installs
// it as the global configuration
func LoadConfig(path string) (*KuponConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := DefaultKuponConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	Config = config
	return config, nil
}

// === CONFIGURATION VALIDATION ===

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(config *KuponConfig) error {
	if config.PPMWeight < 0.0 || config.PPMWeight > 1.0 {
		return fmt.Errorf("PPMWeight must be between 0.0 and 1.0, got: %f", config.PPMWeight)
	}

	if config.FormWeight < 0.0 || config.FormWeight > 1.0 {
		return fmt.Errorf("FormWeight must be between 0.0 and 1.0, got: %f", config.FormWeight)
	}

	if config.SimulationTrials < 1000 {
		return fmt.Errorf("SimulationTrials should be at least 1000 for accuracy, got: %d", config.SimulationTrials)
	}

	if config.HomeAdvantage < 1.0 || config.HomeAdvantage > 1.5 {
		return fmt.Errorf("HomeAdvantage should be between 1.0 and 1.5, got: %f", config.HomeAdvantage)
	}

	if config.FuzzyMatchCutoff < 0.0 || config.FuzzyMatchCutoff > 1.0 {
		return fmt.Errorf("FuzzyMatchCutoff must be between 0.0 and 1.0, got: %f", config.FuzzyMatchCutoff)
	}

	if config.HedgeMinOdds >= config.HedgeMaxOdds {
		return fmt.Errorf("HedgeMinOdds must be below HedgeMaxOdds, got: %f >= %f", config.HedgeMinOdds, config.HedgeMaxOdds)
	}

	if config.RankerWorkers < 1 {
		return fmt.Errorf("RankerWorkers must be at least 1, got: %d", config.RankerWorkers)
	}

	return nil
}

// === HELPER FUNCTIONS FOR EASY ACCESS ===

// GetSimulationTrials returns the Monte Carlo trial count
func GetSimulationTrials() int {
	return Config.SimulationTrials
}

// GetFuzzyMatchCutoff returns the minimum similarity for fuzzy name resolution
func GetFuzzyMatchCutoff() float64 {
	return Config.FuzzyMatchCutoff
}
