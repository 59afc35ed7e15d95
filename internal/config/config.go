package config // import "github.com/Xunop/e-shelf/internal/config"

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ESHELF"

var Opts *Options

// flagKeys maps command line flags onto option keys.
var flagKeys = map[string]string{
	"data":      "data",
	"log-level": "log_level",
	"host":      "host",
	"port":      "port",
}

// Load builds Opts. Precedence, lowest first: defaults, config file,
// environment (a .env file in the working directory included), flags.
func Load(file string, flags *pflag.FlagSet) (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "unable to load .env file")
	}

	v := viper.New()
	setDefaults(v, GetDefaultOptions())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", file)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "unable to bind flag %s", name)
				}
			}
		}
	}

	opts := &Options{}
	if err := v.Unmarshal(opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode options")
	}

	if err := resolve(opts); err != nil {
		return nil, err
	}

	Opts = opts
	return Opts, nil
}

func setDefaults(v *viper.Viper, d *Options) {
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file_max_size", d.LogFileMaxSize)
	v.SetDefault("log_file_max_backups", d.LogFileMaxBackups)
	v.SetDefault("log_file_max_age", d.LogFileMaxAge)
	v.SetDefault("log_compress", d.LogCompress)
	v.SetDefault("data", d.Data)
	v.SetDefault("dsn_uri", d.DSN)
	v.SetDefault("snapshot_backend", d.SnapshotBackend)
	v.SetDefault("snapshot_key", d.SnapshotKey)
	v.SetDefault("seed_on_corrupt_snapshot", d.SeedOnCorruptSnapshot)
	v.SetDefault("port", d.Port)
	v.SetDefault("host", d.Host)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("worker_pool_size", d.WorkerPoolSize)
	v.SetDefault("supported_types", d.SupportedTypes)
	v.SetDefault("cover_quality", d.CoverQuality)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("rate_burst", d.RateBurst)
}

// resolve fills the paths derived from the data directory.
func resolve(opts *Options) error {
	dataDir, err := checkDataDir(opts.Data)
	if err != nil {
		return err
	}
	opts.Data = dataDir

	if opts.DSN == "" {
		opts.DSN = filepath.Join(opts.Data, defaultDSNName)
	}
	if opts.LogFile != "" && !filepath.IsAbs(opts.LogFile) {
		opts.LogFile = filepath.Join(opts.Data, opts.LogFile)
	}

	switch opts.SnapshotBackend {
	case BackendSQLite, BackendFile:
	default:
		return errors.Errorf("unsupported snapshot backend %q", opts.SnapshotBackend)
	}
	if strings.TrimSpace(opts.SnapshotKey) == "" {
		return errors.New("snapshot key is empty")
	}
	return nil
}

func checkDataDir(dataDir string) (string, error) {
	if dataDir == defaultData {
		// The default lives in the user's home directory.
		homeDir, err := os.UserHomeDir()
		if err != nil || homeDir == "" {
			currentUser, uerr := user.Current()
			if uerr != nil {
				return "", errors.Wrap(uerr, "unable to get current user")
			}
			homeDir = currentUser.HomeDir
		}
		if homeDir == "" {
			return "", errors.New("unable to get home directory")
		}
		dataDir = filepath.Join(homeDir, defaultData)
	}

	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
		}
	}
	return dataDir, nil
}

// CoverDir is where imported covers are written.
func (o *Options) CoverDir() string {
	return filepath.Join(o.Data, "covers")
}

// CheckSupportedTypes checks if the file type is supported
func CheckSupportedTypes(fileType string) bool {
	if Opts == nil || len(Opts.SupportedTypes) == 0 {
		return false
	}

	fileType = strings.TrimPrefix(strings.ToLower(fileType), ".")
	for _, t := range Opts.SupportedTypes {
		if t == fileType {
			return true
		}
	}

	return false
}
