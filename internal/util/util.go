package util // import "github.com/Xunop/e-shelf/internal/util"

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func GenUUID() string {
	return uuid.New().String()
}

// EncodeWebp decodes a jpeg, png or gif image from r and writes it to dst as
// a lossy webp of the given quality (0-100).
func EncodeWebp(r io.Reader, dst string, quality int) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return errors.Wrap(err, "failed to decode image")
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, "failed to create image directory")
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", dst)
	}
	defer out.Close()

	opts := &webp.Options{Lossless: false, Quality: float32(min(max(quality, 0), 100))}
	if err := webp.Encode(out, img, opts); err != nil {
		os.Remove(dst)
		return errors.Wrap(err, "failed to encode webp")
	}
	return out.Close()
}

// ImageToWebp converts the image at path to <dir>/<uuid>.webp and returns
// the new path.
func ImageToWebp(path, dir string, quality int) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", path)
	}
	defer in.Close()

	dst := filepath.Join(dir, GenUUID()+".webp")
	if err := EncodeWebp(in, dst, quality); err != nil {
		return "", err
	}
	return dst, nil
}
