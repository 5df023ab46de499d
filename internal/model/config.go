package model

// Config holds the tunable parameters of the pipeline. Zero values are
// never used directly; call DefaultConfig and override.
type Config struct {
	// WPMin/WPMax bound the win-probability band for efficiency snaps.
	WPMin float64 `mapstructure:"wp_min" json:"wp_min"`
	WPMax float64 `mapstructure:"wp_max" json:"wp_max"`

	// ShrinkagePrior is the empirical-Bayes prior weight N0 in plays.
	ShrinkagePrior float64 `mapstructure:"shrinkage_prior" json:"shrinkage_prior"`

	// TrainYearsBack is how many prior seasons feed weight learning.
	TrainYearsBack int `mapstructure:"train_years_back" json:"train_years_back"`

	// FallbackPlaysPerGame substitutes for a team with no pace observations.
	FallbackPlaysPerGame float64 `mapstructure:"fallback_plays_per_game" json:"fallback_plays_per_game"`

	// FallbackDriveQuality substitutes when a window has no qualifying drives.
	FallbackDriveQuality float64 `mapstructure:"fallback_drive_quality" json:"fallback_drive_quality"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		WPMin:                0.07,
		WPMax:                0.93,
		ShrinkagePrior:       175,
		TrainYearsBack:       3,
		FallbackPlaysPerGame: 60,
		FallbackDriveQuality: 0.35,
	}
}

// Training thresholds and clamps. These track the reference model and are
// not configuration: changing them changes the model's meaning.
const (
	minTrainingRows = 100

	sigmaMin      = 10.0
	sigmaMax      = 17.0
	drivesPGMin   = 9.0
	drivesPGMax   = 13.5
	drivesPGStart = 11.5 // used when no pre-week drives exist

	paceFloor       = 50.0
	paceMinSpread   = 2.0
	paceMinSamples  = 20
	paceFallbackLo  = 55.0
	paceFallbackHi  = 72.0
	clipScaleMin    = 0.08
	clipScaleMax    = 0.20
	clipScaleStart  = 0.15 // used when fewer than clipMinGames matchups exist
	clipMinGames    = 8
	eckelScoreYards = 40.0 // first down inside this line marks a quality drive
)
