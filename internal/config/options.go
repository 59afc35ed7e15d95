package config

const (
	defaultLogFile               = "e-shelf.log"
	defaultLogLevel              = "info"
	defaultLogFileMaxSize        = 20
	defaultLogFileMaxBackups     = 3
	defaultLogFileMaxAge         = 28
	defaultLogCompress           = false
	defaultData                  = ".e-shelf"
	defaultDSNName               = "e-shelf.db"
	defaultSnapshotBackend       = BackendSQLite
	defaultSnapshotKey           = "books"
	defaultSeedOnCorruptSnapshot = false
	defaultPort                  = 8080
	defaultHost                  = "127.0.0.1"
	defaultLocale                = "en"
	defaultWorkerPoolSize        = 4
	defaultSupportedTypes        = "epub"
	defaultCoverQuality          = 75
	defaultRateLimit             = 20
	defaultRateBurst             = 40
)

// Snapshot backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Why use mapstructure instead of json, if use json as field tags, it can't recgnize the field, since the viper use mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to, relative paths live in Data
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// Data is the directory holding the snapshot, covers and logs
	Data string `mapstructure:"data"`
	// DSN is the sqlite database used by the sqlite snapshot backend
	DSN string `mapstructure:"dsn_uri"`
	// SnapshotBackend is one of "sqlite" or "file"
	SnapshotBackend string `mapstructure:"snapshot_backend"`
	// SnapshotKey is the fixed storage name of the catalog snapshot
	SnapshotKey string `mapstructure:"snapshot_key"`
	// SeedOnCorruptSnapshot falls back to the sample books when the snapshot can't be decoded
	SeedOnCorruptSnapshot bool `mapstructure:"seed_on_corrupt_snapshot"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Locale drives title/author collation
	Locale         string `mapstructure:"locale"`
	WorkerPoolSize int    `mapstructure:"worker_pool_size"`
	// SupportedTypes is the supported import file extensions
	SupportedTypes []string `mapstructure:"supported_types"`
	// CoverQuality is the webp quality of imported covers
	CoverQuality int `mapstructure:"cover_quality"`
	// RateLimit is the allowed API requests per second per client
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

func GetDefaultOptions() *Options {
	return &Options{
		LogFile:               defaultLogFile,
		LogLevel:              defaultLogLevel,
		LogFileMaxSize:        defaultLogFileMaxSize,
		LogFileMaxBackups:     defaultLogFileMaxBackups,
		LogFileMaxAge:         defaultLogFileMaxAge,
		LogCompress:           defaultLogCompress,
		Data:                  defaultData,
		DSN:                   "",
		SnapshotBackend:       defaultSnapshotBackend,
		SnapshotKey:           defaultSnapshotKey,
		SeedOnCorruptSnapshot: defaultSeedOnCorruptSnapshot,
		Port:                  defaultPort,
		Host:                  defaultHost,
		Locale:                defaultLocale,
		WorkerPoolSize:        defaultWorkerPoolSize,
		SupportedTypes:        []string{defaultSupportedTypes},
		CoverQuality:          defaultCoverQuality,
		RateLimit:             defaultRateLimit,
		RateBurst:             defaultRateBurst,
	}
}

