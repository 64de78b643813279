package config

const (
	defaultDataDir             = "~/biopipe/data"
	defaultOutputDir           = "~/biopipe/output"
	defaultLogDir              = "~/.local/share/biopipe/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultMatchTolerance      = 1.0
	defaultAnalysisMethod      = "raw"
	defaultMovingAverageWindow = 30
	defaultMotionLower         = -2.0
	defaultMotionUpper         = 2.0
	defaultMotionMargin        = 4
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Sync: Sync{
			MatchTolerance: defaultMatchTolerance,
		},
		Analysis: Analysis{
			Method:              defaultAnalysisMethod,
			MovingAverageWindow: defaultMovingAverageWindow,
		},
		Motion: Motion{
			Enabled:       false,
			Lower:         defaultMotionLower,
			Upper:         defaultMotionUpper,
			MarginSamples: defaultMotionMargin,
		},
	}
}
