package config

const (
	defaultConfigPath       = "~/.config/cleanmedia/config.toml"
	projectConfigName       = "cleanmedia.toml"
	defaultLogDir           = "~/.local/share/cleanmedia/logs"
	defaultHistoryDB        = "~/.local/share/cleanmedia/history.db"
	defaultKind             = "tv"
	defaultTouchParentDepth = 2
	defaultTMDBLanguage     = "en-US"
	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	sampleTMDBAPIKey        = "your_tmdb_api_key_here"
	defaultTMDBMinInterval  = 250
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogMaxSizeMB     = 10
	defaultLogMaxBackups    = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Organizer: Organizer{
			Kind:             defaultKind,
			TouchParentDepth: defaultTouchParentDepth,
		},
		TMDB: TMDB{
			Enabled:       true,
			BaseURL:       defaultTMDBBaseURL,
			Language:      defaultTMDBLanguage,
			MinIntervalMS: defaultTMDBMinInterval,
		},
		Drapto: Drapto{
			Enabled: true,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
