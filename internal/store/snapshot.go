package store

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encodeSnapshot(books []*model.Book) ([]byte, error) {
	data, err := json.Marshal(&model.Snapshot{
		Version: version.GetCurrentVersion(),
		Books:   books,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}
	return data, nil
}

// decodeSnapshot accepts the versioned document and the bare array of books
// written by the browser version of the catalog. Ids must be unique.
func decodeSnapshot(data []byte) ([]*model.Book, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty snapshot")
	}

	var books []*model.Book
	if data[0] == '[' {
		if err := json.Unmarshal(data, &books); err != nil {
			return nil, err
		}
	} else {
		var snapshot model.Snapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, err
		}
		books = snapshot.Books
	}

	out := make([]*model.Book, 0, len(books))
	seen := make(map[string]struct{}, len(books))
	for _, b := range books {
		if b == nil {
			continue
		}
		if b.ID == "" {
			return nil, errors.Errorf("book %q has no id", b.Title)
		}
		if _, ok := seen[b.ID]; ok {
			return nil, errors.Errorf("duplicate book id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
		b.Normalize()
		out = append(out, b)
	}
	return out, nil
}
