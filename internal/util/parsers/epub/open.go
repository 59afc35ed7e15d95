package epub

import (
	"archive/zip"

	"github.com/pkg/errors"
)

const mimetype = "application/epub+zip"

// Open reads the container and package document of the epub at f. Close the
// returned book when done.
func Open(f string) (*Book, error) {
	fd, err := zip.OpenReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "epub: failed to open %s", f)
	}

	b := &Book{fd: fd}
	if err := b.load(); err != nil {
		fd.Close()
		return nil, err
	}
	return b, nil
}

func (b *Book) load() error {
	m, err := b.readBytes("mimetype")
	if err != nil {
		return err
	}
	b.Mimetype = string(m)
	if b.Mimetype != mimetype {
		return errors.Errorf("epub: invalid mimetype: %s", b.Mimetype)
	}

	if err := b.readXML("META-INF/container.xml", &b.Container); err != nil {
		return errors.Wrap(err, "epub: invalid container")
	}
	if err := b.readXML(b.Container.Rootfile.Fullpath, &b.Opf); err != nil {
		return errors.Wrap(err, "epub: invalid package document")
	}
	return nil
}
