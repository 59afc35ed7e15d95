// Package seed holds the sample collection a new catalog starts with.
package seed // import "github.com/Xunop/e-shelf/internal/seed"

import (
	_ "embed"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/Xunop/e-shelf/internal/model"
)

//go:embed sample_books.json
var sampleBooks []byte

// Books decodes a fresh copy of the sample collection.
func Books() ([]*model.Book, error) {
	var books []*model.Book
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(sampleBooks, &books); err != nil {
		return nil, errors.Wrap(err, "failed to decode sample books")
	}
	for _, b := range books {
		b.Normalize()
	}
	return books, nil
}
