package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/wordforms/pkg/wordforms/internalerr"
)

// Page is one crawled document after decoding.
type Page struct {
	Path string
	Body string
}

// ListPages returns the files in dir whose names end in suffix, sorted by
// path. Hidden files and subdirectories are ignored.
//
// A missing dir (or a path that is not a directory) yields ErrMissingInput;
// a directory without matching files yields ErrNoInputFiles.
func ListPages(dir, suffix string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("pages directory %s: %w", dir, internalerr.ErrMissingInput)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, internalerr.ErrMissingInput)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *%s files in %s: %w", suffix, dir, internalerr.ErrNoInputFiles)
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadPage reads a whole file and decodes it as UTF-8. Every invalid byte is
// replaced with U+FFFD; bad encoding never fails the read.
func ReadPage(path string) (Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return Page{}, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Page{}, fmt.Errorf("read page %s: %w", path, err)
	}
	return Page{Path: path, Body: decodeUTF8(data)}, nil
}

func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b bytes.Buffer
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(data[:size])
		}
		data = data[size:]
	}
	return b.String()
}
