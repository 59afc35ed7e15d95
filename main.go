package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/Xunop/e-shelf/internal/config"
	"github.com/Xunop/e-shelf/internal/log"
	"github.com/Xunop/e-shelf/internal/storage"
	"github.com/Xunop/e-shelf/internal/store"
)

const (
	greetingBanner = `
███████       ███████ ██   ██ ███████ ██      ███████
██            ██      ██   ██ ██      ██      ██
█████   █████ ███████ ███████ █████   ██      █████
██                 ██ ██   ██ ██      ██      ██
███████       ███████ ██   ██ ███████ ███████ ██
`
)

var (
	configFile string
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:           "e-shelf",
		Short:         "E-Shelf is a personal library catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			log.Logger = log.NewLogger(opts)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (yaml, toml or json)")
	flags.String("data", "", "data directory holding the catalog")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&jsonOutput, "json", false, "print JSON even on a terminal")

	rootCmd.AddCommand(
		listCmd, showCmd, addCmd, updateCmd, deleteCmd,
		statusCmd, progressCmd,
		loanCmd, returnCmd, loansCmd,
		genresCmd, tagsCmd, statsCmd,
		importCmd, serveCmd,
	)
}

// openStore opens the configured backend and loads the catalog. The caller
// closes the store.
func openStore() (*store.Store, error) {
	opts := config.Opts
	lang, err := language.Parse(opts.Locale)
	if err != nil {
		log.Warn("Unknown locale, using English collation", zap.String("locale", opts.Locale), zap.Error(err))
		lang = language.English
	}

	backend, err := storage.New(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open snapshot backend")
	}
	s, err := store.Open(backend, opts.SnapshotKey, opts.SeedOnCorruptSnapshot,
		store.WithLocale(lang), store.WithClock(nowFunc))
	if err != nil {
		backend.Close()
		return nil, err
	}
	return s, nil
}

// withStore runs fn against a freshly opened store.
func withStore(fn func(s *store.Store) error) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn("Failed to close store", zap.Error(err))
		}
	}()
	return fn(s)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
