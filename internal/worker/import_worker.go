package worker

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-shelf/internal/config"
	"github.com/Xunop/e-shelf/internal/log"
	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/util"
	"github.com/Xunop/e-shelf/internal/util/parsers/epub"
)

var ErrUnsupportedType = errors.New("unsupported file type")

type ImportJob struct {
	ID   int
	Path string
}

type ImportResult struct {
	Job   ImportJob
	Draft *model.BookDraft
	Err   error
}

type ImportOptions struct {
	// CoverDir receives the extracted covers, empty skips extraction.
	CoverDir     string
	CoverQuality int
	// DefaultCover is used when the file has no usable cover.
	DefaultCover string
}

var _ Worker = (*ImportWorker)(nil)

type ImportWorker struct {
	id   int
	opts ImportOptions
}

// Run implements Worker.
func (w *ImportWorker) Run(c <-chan ImportJob, results chan<- ImportResult) {
	log.Debug("ImportWorker is running", zap.Int("worker_id", w.id))

	for job := range c {
		log.Debug("Job received by worker",
			zap.Int("worker_id", w.id),
			zap.String("path", job.Path))

		startTime := time.Now()
		draft, err := w.parse(job.Path)
		if err != nil {
			log.Warn("Failed to import file", zap.String("path", job.Path), zap.Error(err))
		} else {
			log.Debug("Parsed file",
				zap.String("path", job.Path),
				zap.String("title", draft.Title),
				zap.Duration("elapsed", time.Since(startTime)))
		}
		results <- ImportResult{Job: job, Draft: draft, Err: err}
	}
}

func (w *ImportWorker) parse(path string) (*model.BookDraft, error) {
	ext := filepath.Ext(path)
	if !config.CheckSupportedTypes(ext) {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s", path)
	}

	book, err := epub.Open(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	draft := &model.BookDraft{
		Title:       book.GetTitle(),
		Author:      book.GetAuthor(),
		Description: book.GetDescription(),
		Genre:       book.GetSubjects(),
		Pages:       book.EstimatePages(),
		Year:        book.GetYear(),
		ISBN:        book.GetISBN(),
		Tags:        []string{},
		Status:      model.StatusToRead,
		CoverImage:  w.opts.DefaultCover,
	}
	if w.opts.CoverDir != "" {
		cover, err := w.extractCover(book)
		switch {
		case errors.Is(err, epub.ErrNoCover):
			log.Debug("No cover in file", zap.String("path", path))
		case err != nil:
			log.Warn("Failed to extract cover", zap.String("path", path), zap.Error(err))
		default:
			draft.CoverImage = cover
		}
	}
	return draft, nil
}

// extractCover writes the cover as <CoverDir>/<uuid>.webp.
func (w *ImportWorker) extractCover(book *epub.Book) (string, error) {
	rc, _, err := book.Cover()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	dst := filepath.Join(w.opts.CoverDir, util.GenUUID()+".webp")
	if err := util.EncodeWebp(rc, dst, w.opts.CoverQuality); err != nil {
		return "", err
	}
	return dst, nil
}
