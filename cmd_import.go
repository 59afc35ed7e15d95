package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Xunop/e-shelf/internal/config"
	"github.com/Xunop/e-shelf/internal/log"
	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/store"
	"github.com/Xunop/e-shelf/internal/validator"
	"github.com/Xunop/e-shelf/internal/worker"
)

var importCmd = &cobra.Command{
	Use:   "import <file.epub>...",
	Short: "Add books from EPUB files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		defaultCover, _ := flags.GetString("default-cover")
		genres, _ := flags.GetStringSlice("genre")
		year, _ := flags.GetInt("year")
		dryRun, _ := flags.GetBool("dry-run")

		opts := worker.ImportOptions{
			CoverQuality: config.Opts.CoverQuality,
			DefaultCover: defaultCover,
		}
		if !dryRun {
			opts.CoverDir = config.Opts.CoverDir()
		}
		pool := worker.NewImportPool(opts, config.Opts.WorkerPoolSize)
		results := pool.ImportAll(args)

		drafts := make([]*model.BookDraft, 0, len(results))
		failed := 0
		for _, res := range results {
			if res.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Job.Path, res.Err)
				failed++
				continue
			}
			draft := res.Draft
			if len(draft.Genre) == 0 {
				draft.Genre = genres
			}
			if draft.Year == 0 {
				draft.Year = year
			}
			if err := validator.ValidateBookDraft(draft, nowFunc()); err != nil {
				var fields validator.Errors
				if errors.As(err, &fields) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: not imported\n", res.Job.Path)
					newPrinter(cmd.ErrOrStderr()).invalid(fields)
				}
				failed++
				continue
			}
			drafts = append(drafts, draft)
		}

		if dryRun {
			return newPrinter(cmd.OutOrStdout()).printJSON(drafts)
		}

		err := withStore(func(s *store.Store) error {
			added := make([]*model.Book, 0, len(drafts))
			for _, draft := range drafts {
				book, err := s.AddBook(draft)
				if err != nil {
					return err
				}
				log.Info("Imported book", zap.String("id", book.ID), zap.String("title", book.Title))
				added = append(added, book)
			}
			return newPrinter(cmd.OutOrStdout()).books(added)
		})
		if err != nil {
			return err
		}
		if failed > 0 {
			return errors.Errorf("%d of %d files were not imported", failed, len(args))
		}
		return nil
	},
}

func init() {
	flags := importCmd.Flags()
	flags.String("default-cover", "", "cover image URL for files without a cover")
	flags.StringSlice("genre", nil, "genres for files without subjects")
	flags.Int("year", 0, "publication year for files without a date")
	flags.Bool("dry-run", false, "print the parsed books without adding them")
}
