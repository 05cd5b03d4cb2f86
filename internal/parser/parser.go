package parser

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-cricket-puzzles/internal/model"
	"github.com/pable/go-cricket-puzzles/internal/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Match file suffixes accepted by ListMatchFiles and LoadMatch.
var matchSuffixes = []string{".json", ".json.gz", ".json.zst"}

// IsMatchFile reports whether name looks like a cricsheet match file.
func IsMatchFile(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range matchSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// ListMatchFiles returns the match files directly under dir, sorted by name.
// Other files (cricsheet archives ship a README) are ignored.
func ListMatchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read match dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsMatchFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadMatch reads, decompresses, schema-checks and decodes one match file.
// Schema violations come back as *model.StructuralError; anything else is a
// load failure.
func LoadMatch(path string) (*model.MatchRecord, error) {
	data, err := readMatchBytes(path)
	if err != nil {
		return nil, err
	}
	return DecodeMatch(path, data)
}

// DecodeMatch validates and decodes already decompressed match JSON.
func DecodeMatch(path string, data []byte) (*model.MatchRecord, error) {
	if err := schemas.ValidateMatch(data); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			return nil, &model.StructuralError{Field: "document", Cause: verr}
		}
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	var m model.MatchRecord
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	m.SourcePath = path
	m.SourceHash = fmt.Sprintf("%x", sha256.Sum256(data))
	return &m, nil
}

func readMatchBytes(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open match: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	case strings.HasSuffix(lower, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return nil, fmt.Errorf("read match: %w", err)
	}
	return buf.Bytes(), nil
}
