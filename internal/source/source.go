// Package source reads score pages from disk or over HTTP and hands them
// to the pipeline as UTF-8 HTML.
package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jhillyerd/enmime"
	"golang.org/x/net/html/charset"

	"stdscore/internal/pipeline"
)

var htmlExts = map[string]bool{".html": true, ".htm": true}

// archiveExts are single-file page archives (MIME multipart) as saved by
// browsers.
var archiveExts = map[string]bool{".mht": true, ".mhtml": true, ".eml": true}

func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return htmlExts[ext] || archiveExts[ext]
}

// LoadFile reads path and labels the document with the file's base name.
func LoadFile(path string) (pipeline.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Document{}, err
	}
	content, err := Decode(path, raw)
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return pipeline.Document{Source: filepath.Base(path), Content: content}, nil
}

// LoadFiles loads every path. Unreadable files are returned as errors next
// to the documents that did load.
func LoadFiles(paths []string) ([]pipeline.Document, []error) {
	docs := make([]pipeline.Document, 0, len(paths))
	var errs []error
	for _, p := range paths {
		doc, err := LoadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}

// ListDir returns the supported files directly inside dir, sorted by name.
// Hidden files are skipped.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !Supported(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Decode returns the HTML of a page as UTF-8. Archives are unpacked to
// their HTML part; other content that is not valid UTF-8 is converted
// from the charset the page declares.
func Decode(name string, raw []byte) ([]byte, error) {
	return decode(name, raw, "text/html")
}

// decode is Decode with a Content-Type header to consult before the
// page's own meta tags.
func decode(name string, raw []byte, contentType string) ([]byte, error) {
	if archiveExts[strings.ToLower(filepath.Ext(name))] {
		return fromArchive(raw)
	}
	if utf8.Valid(raw) {
		return raw, nil
	}
	if contentType == "" {
		contentType = "text/html"
	}
	enc, encName, _ := charset.DetermineEncoding(raw, contentType)
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", encName, err)
	}
	return out, nil
}

func fromArchive(raw []byte) ([]byte, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	if strings.TrimSpace(env.HTML) == "" {
		return nil, fmt.Errorf("archive has no html part")
	}
	return []byte(env.HTML), nil
}
