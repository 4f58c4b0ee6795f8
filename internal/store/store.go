// Package store persists a model as a text file with one encoded entity per
// line, targets before the entities that reference them.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/supermodel/pkg/codec"
	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// Load reads the model file at path and decodes its entities into m. A
// missing file is an empty model.
func Load(path string, m *types.Manager) ([]*types.Entity, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path, m)
}

// Read decodes one entity per line of r into m. Blank lines are skipped.
// Decoding is all-or-nothing: on error m is unchanged, and model errors are
// wrapped with name and the offending line number so errors.Is still matches
// their kind.
func Read(r io.Reader, name string, m *types.Manager) ([]*types.Entity, error) {
	texts, lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", name, err)
	}

	entities, err := codec.DecodeAll(m, texts)
	if err != nil {
		var be *codec.BatchError
		if errors.As(err, &be) {
			return nil, fmt.Errorf("%s:%d: %w", name, lines[be.Index], be.Err)
		}
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return entities, nil
}

// Save writes every entity of m to path, replacing any previous content
// atomically.
func Save(path string, m *types.Manager) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	return writeLines(path, codec.EncodeAll(m))
}

// readLines returns the non-blank lines of r with their 1-based line numbers.
func readLines(r io.Reader) ([]string, []int, error) {
	var (
		texts []string
		lines []int
		n     int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
		lines = append(lines, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return texts, lines, nil
}

// writeLines atomically writes one line per entry using the temp-file, fsync,
// rename pattern.
func writeLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return fail("writing entity", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
