package config

import "path/filepath"

const (
	defaultConfigPath        = "~/.config/marquee/config.toml"
	defaultTMDBLanguage      = "en-US"
	defaultTMDBBaseURL       = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL  = "https://image.tmdb.org/t/p"
	defaultTMDBRequestsPerS  = 20
	defaultTMDBTimeout       = 10
	defaultPopularPages      = 16
	defaultMinVoteCount      = 700
	defaultDebounceMS        = 500
	defaultServerBind        = "127.0.0.1:7488"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultRatingsFileName   = "ratings.json"
	defaultRatingsSQLiteName = "ratings.db"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	dataDir := defaultDataDir()
	return Config{
		Paths: Paths{
			LogDir: filepath.Join(dataDir, "logs"),
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			ImageBaseURL:      defaultTMDBImageBaseURL,
			Language:          defaultTMDBLanguage,
			RequestsPerSecond: defaultTMDBRequestsPerS,
			TimeoutSeconds:    defaultTMDBTimeout,
		},
		Browse: Browse{
			PopularPages: defaultPopularPages,
			MinVoteCount: defaultMinVoteCount,
			DebounceMS:   defaultDebounceMS,
		},
		Storage: Storage{
			Backend: StorageFile,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
