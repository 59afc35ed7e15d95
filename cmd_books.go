package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Xunop/e-shelf/internal/config"
	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/store"
	"github.com/Xunop/e-shelf/internal/util"
	"github.com/Xunop/e-shelf/internal/validator"
)

// nowFunc bounds the publication year and defaults loan dates.
var nowFunc = time.Now

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List books, filtered and sorted",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		find, err := findFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		return withStore(func(s *store.Store) error {
			return newPrinter(cmd.OutOrStdout()).books(s.ListBooks(find))
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			book, err := s.GetBook(args[0])
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).book(book)
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := draftFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		if err := checkValid(cmd, validator.ValidateBookDraft(draft, nowFunc())); err != nil {
			return err
		}
		if draft.CoverImage, err = importCover(draft.CoverImage); err != nil {
			return err
		}
		return withStore(func(s *store.Store) error {
			book, err := s.AddBook(draft)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).book(book)
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the given fields of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		if err := checkValid(cmd, validator.ValidateBookPatch(patch, nowFunc())); err != nil {
			return err
		}
		if patch.CoverImage != nil {
			cover, err := importCover(*patch.CoverImage)
			if err != nil {
				return err
			}
			patch.CoverImage = &cover
		}
		return withStore(func(s *store.Store) error {
			book, err := s.UpdateBook(args[0], patch)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).book(book)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a book",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			if err := s.DeleteBook(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:       "status <id> <reading|completed|to-read|on-hold>",
	Short:     "Set the reading status of a book",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"reading", "completed", "to-read", "on-hold"},
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := model.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return withStore(func(s *store.Store) error {
			book, err := s.SetStatus(args[0], status)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).book(book)
		})
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <id> <percent>",
	Short: "Set the reading progress of a book, clamped to 0-100",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		percent, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Errorf("invalid progress %q", args[1])
		}
		return withStore(func(s *store.Store) error {
			book, err := s.SetProgress(args[0], percent)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).book(book)
		})
	},
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genres in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			return newPrinter(cmd.OutOrStdout()).labels(s.Genres())
		})
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			return newPrinter(cmd.OutOrStdout()).labels(s.Tags())
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count books per status and on loan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			return newPrinter(cmd.OutOrStdout()).stats(s.Stats())
		})
	},
}

func init() {
	flags := listCmd.Flags()
	flags.StringP("query", "q", "", "match title, author or description")
	flags.StringSlice("genre", nil, "keep books with any of these genres")
	flags.StringSlice("status", nil, "keep books with any of these statuses")
	flags.Float64("rating", 0, "minimum rating")
	flags.String("sort", string(model.DefaultSortKey), "title, author, rating or dateAdded")
	flags.String("order", string(model.DefaultSortOrder), "asc or desc")

	registerBookFlags(addCmd.Flags())
	registerBookFlags(updateCmd.Flags())
}

func findFromFlags(flags *pflag.FlagSet) (*model.FindBook, error) {
	find := &model.FindBook{}
	find.Filters.Query, _ = flags.GetString("query")
	find.Filters.Genre, _ = flags.GetStringSlice("genre")
	statuses, _ := flags.GetStringSlice("status")
	for _, s := range statuses {
		status, err := model.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		find.Filters.Status = append(find.Filters.Status, status)
	}
	if flags.Changed("rating") {
		rating, _ := flags.GetFloat64("rating")
		if math.IsNaN(rating) || math.IsInf(rating, 0) {
			return nil, errors.Errorf("invalid rating %v", rating)
		}
		find.Filters.Rating = &rating
	}

	var err error
	sortBy, _ := flags.GetString("sort")
	if find.SortBy, err = model.ParseSortKey(sortBy); err != nil {
		return nil, err
	}
	order, _ := flags.GetString("order")
	if find.Order, err = model.ParseSortOrder(order); err != nil {
		return nil, err
	}
	return find, nil
}

func registerBookFlags(flags *pflag.FlagSet) {
	flags.String("title", "", "title")
	flags.String("author", "", "author")
	flags.String("cover", "", "cover image URL or local image file")
	flags.String("description", "", "description")
	flags.StringSlice("genre", nil, "genres")
	flags.Int("pages", 0, "page count")
	flags.Int("year", 0, "publication year")
	flags.String("isbn", "", "ISBN")
	flags.Float64("rating", 0, "rating from 0 to 5 in steps of 0.5")
	flags.StringSlice("tags", nil, "tags")
	flags.String("status", "", "reading, completed, to-read or on-hold")
	flags.Int("progress", 0, "reading progress in percent")
	flags.String("notes", "", "personal notes")
}

func draftFromFlags(flags *pflag.FlagSet) (*model.BookDraft, error) {
	d := &model.BookDraft{}
	d.Title, _ = flags.GetString("title")
	d.Author, _ = flags.GetString("author")
	d.CoverImage, _ = flags.GetString("cover")
	d.Description, _ = flags.GetString("description")
	d.Genre, _ = flags.GetStringSlice("genre")
	d.Pages, _ = flags.GetInt("pages")
	d.Year, _ = flags.GetInt("year")
	d.ISBN, _ = flags.GetString("isbn")
	d.Rating, _ = flags.GetFloat64("rating")
	d.Tags, _ = flags.GetStringSlice("tags")
	d.Progress, _ = flags.GetInt("progress")
	d.Notes, _ = flags.GetString("notes")
	if status, _ := flags.GetString("status"); status != "" {
		d.Status = model.Status(status)
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d, nil
}

// patchFromFlags keeps only the flags given on the command line.
func patchFromFlags(flags *pflag.FlagSet) (*model.BookPatch, error) {
	p := &model.BookPatch{}
	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	num := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}
	list := func(name string) *[]string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetStringSlice(name)
		return &v
	}

	p.Title = str("title")
	p.Author = str("author")
	p.CoverImage = str("cover")
	p.Description = str("description")
	p.Genre = list("genre")
	p.Pages = num("pages")
	p.Year = num("year")
	p.ISBN = str("isbn")
	p.Tags = list("tags")
	p.Progress = num("progress")
	p.Notes = str("notes")
	if flags.Changed("rating") {
		v, _ := flags.GetFloat64("rating")
		p.Rating = &v
	}
	if s := str("status"); s != nil {
		status := model.Status(*s)
		p.Status = &status
	}
	return p, nil
}

// checkValid prints the rejected fields and returns a short error.
func checkValid(cmd *cobra.Command, err error) error {
	var fields validator.Errors
	if errors.As(err, &fields) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Invalid book:")
		newPrinter(cmd.ErrOrStderr()).invalid(fields)
		return errors.New("validation failed")
	}
	return err
}

// importCover converts a local image file into the cover directory. URLs
// and other values are kept as they are.
func importCover(cover string) (string, error) {
	info, err := os.Stat(cover)
	if err != nil || info.IsDir() {
		return cover, nil
	}
	return util.ImageToWebp(cover, config.Opts.CoverDir(), config.Opts.CoverQuality)
}
