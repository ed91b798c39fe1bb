package kupon

/**
* Kupon is a golang library for estimating the outcomes of football matches
* on the Bilyoner bulletin and assembling betting coupons from those estimates
 */
const (
	// Prediction labels as they appear on coupon items
	PickHome  = "MS 1"
	PickDraw  = "MS X"
	PickAway  = "MS 2"
	PickOver  = "2,5 Üst"
	PickUnder = "2,5 Alt"

	// Suffix appended to a result label when the probability clears the banker threshold
	BankerSuffix = " (Banko)"

	// Sentinel used by the bulletin when a market is not offered
	NoOdds = "-"
)

// Coupon and coupon item statuses
const (
	StatusPending = "PENDING"
	StatusWon     = "WON"
	StatusLost    = "LOST"
)

// Confidence tiers reported by the simulation engine
const (
	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
	ConfidenceHigh   = "High"
)
