package epub // import "github.com/Xunop/e-shelf/internal/util/parsers/epub"

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoCover is returned by Cover when the epub declares no cover image.
var ErrNoCover = errors.New("epub: no cover image")

// Book is the main struct that holds all the information about the epub file
type Book struct {
	Opf       Opf       `json:"opf"`
	Container Container `json:"container"`
	Mimetype  string    `json:"mimetype"`

	fd *zip.ReadCloser
}

// Files returns a list of all the files in the epub
func (p *Book) Files() []string {
	var files []string
	for _, f := range p.fd.File {
		files = append(files, f.Name)
	}
	return files
}

// Close closes the epub file
func (p *Book) Close() error {
	return p.fd.Close()
}

// readXML reads the xml file with the given name and unmarshals it into the given interface
func (p *Book) readXML(n string, v any) error {
	rc, err := p.open(n)
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

// readBytes reads the file with the given name and returns its content as a byte slice
func (p *Book) readBytes(n string) ([]byte, error) {
	rc, err := p.open(n)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// filename resolves a manifest href against the package document.
func (p *Book) filename(n string) string {
	return path.Join(path.Dir(p.Container.Rootfile.Fullpath), n)
}

func (p *Book) open(n string) (io.ReadCloser, error) {
	for _, f := range p.fd.File {
		if f.Name == n {
			return f.Open()
		}
	}
	return nil, errors.Errorf("epub: file not found: %s", n)
}

func first(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (p *Book) GetTitle() string {
	return first(p.Opf.Metadata.Title)
}

// GetAuthor returns the first creator with the author role or no role.
func (p *Book) GetAuthor() string {
	for _, author := range p.Opf.Metadata.Creator {
		if author.Role == "aut" || author.Role == "" {
			return strings.TrimSpace(author.Data)
		}
	}
	return ""
}

func (p *Book) GetLanguage() string {
	return first(p.Opf.Metadata.Language)
}

func (p *Book) GetDescription() string {
	return first(p.Opf.Metadata.Description)
}

// GetSubjects returns the subjects, which the catalog uses as genres.
func (p *Book) GetSubjects() []string {
	subjects := make([]string, 0, len(p.Opf.Metadata.Subject))
	for _, s := range p.Opf.Metadata.Subject {
		if s = strings.TrimSpace(s); s != "" {
			subjects = append(subjects, s)
		}
	}
	return subjects
}

var isbnMatcher = regexp.MustCompile(`^(97[89])?\d{9}[\dX]$`)

// GetISBN returns the first identifier that is an ISBN, either by its
// scheme, a urn:isbn: prefix or its shape. Hyphens are removed.
func (p *Book) GetISBN() string {
	for _, identifier := range p.Opf.Metadata.Identifier {
		value := strings.TrimSpace(identifier.Data)
		lower := strings.ToLower(value)
		switch {
		case strings.EqualFold(identifier.Scheme, "ISBN"):
		case strings.HasPrefix(lower, "urn:isbn:"):
			value = value[len("urn:isbn:"):]
		case strings.HasPrefix(lower, "isbn:"):
			value = value[len("isbn:"):]
		}
		value = strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(value))
		if isbnMatcher.MatchString(value) {
			return value
		}
	}
	return ""
}

func (p *Book) GetDate() string {
	for _, date := range p.Opf.Metadata.Date {
		if date.Event == "" || date.Event == "publication" {
			return strings.TrimSpace(date.Data)
		}
	}
	return ""
}

// GetYear returns the year of the publication date, 0 when unknown.
func (p *Book) GetYear() int {
	date := p.GetDate()
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// coverHref finds the cover in the manifest: the epub 3 cover-image
// property first, then the epub 2 cover meta.
func (p *Book) coverHref() string {
	for _, m := range p.Opf.Manifest {
		if strings.Contains(m.Properties, "cover-image") {
			return m.Href
		}
	}
	var id string
	for _, meta := range p.Opf.Metadata.Meta {
		if meta.Name == "cover" {
			id = meta.Content
		}
	}
	if id == "" {
		return ""
	}
	for _, m := range p.Opf.Manifest {
		if m.ID == id && strings.HasPrefix(m.MediaType, "image/") {
			return m.Href
		}
	}
	// Some writers put the href itself in the meta.
	if path.Ext(id) != "" {
		return id
	}
	return ""
}

// Cover opens the cover image and reports its extension.
func (p *Book) Cover() (io.ReadCloser, string, error) {
	href := p.coverHref()
	if href == "" {
		return nil, "", ErrNoCover
	}
	rc, err := p.open(p.filename(href))
	if err != nil {
		return nil, "", err
	}
	return rc, path.Ext(href), nil
}

// charsPerPage approximates a printed page of xhtml content, markup included.
const charsPerPage = 2048

// EstimatePages guesses a page count from the size of the text documents.
// Epubs have no fixed pagination, the result is at least 1.
func (p *Book) EstimatePages() int {
	var size uint64
	for _, m := range p.Opf.Manifest {
		if m.MediaType != "application/xhtml+xml" || strings.Contains(m.Properties, "nav") {
			continue
		}
		name := p.filename(m.Href)
		for _, f := range p.fd.File {
			if f.Name == name {
				size += f.UncompressedSize64
			}
		}
	}
	return max(1, int(size/charsPerPage))
}
