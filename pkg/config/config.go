package config

// this holds the resolved configuration values from CLI
var (
	DB                 string // connection string for the database
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules, empty means no filtering
	MigrationSourceURL string // location of migration files (empty: embedded)

	CarNumber     int     // car number used by replay/stats commands
	Lap           int     // optional lap filter for replay (0: all laps)
	PlaybackSpeed float64 // playback speed factor for replay
	PageSize      int     // rows per page when reading the time series
)
