/*
Package feed supplies the records an index is built from.

FileSource reads a dataset file exported from the film locations table.
Cached wraps any source with an expiring cache so repeated fetches within
the TTL are served from memory. Every source satisfies suggest.Source.
*/
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/reelserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// FileSource loads records from a JSON or MessagePack file.
type FileSource struct {
	Path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Key identifies the source for caching.
func (s *FileSource) Key() string {
	if abs, err := filepath.Abs(s.Path); err == nil {
		return "file:" + abs
	}
	return "file:" + s.Path
}

// Fetch reads and decodes the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]suggest.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := DetectFileFormat(s.Path)
	if err != nil {
		return nil, err
	}
	if err := ValidateFile(s.Path, format); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", s.Path, err)
	}
	records, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", s.Path, err)
	}
	log.Debugf("Loaded %d records from %s (%s)", len(records), s.Path, format)
	return records, nil
}

// Decode parses a dataset encoded in format.
func Decode(data []byte, format FileFormat) ([]suggest.Record, error) {
	var records []suggest.Record
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
	return records, nil
}

// Encode serializes records in format.
func Encode(records []suggest.Record, format FileFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(records, "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(records)
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// WriteFile writes records to path, picking the encoding from its extension.
func WriteFile(path string, records []suggest.Record) error {
	format, err := DetectFileFormat(path)
	if err != nil {
		return err
	}
	data, err := Encode(records, format)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset %s: %w", path, err)
	}
	return nil
}
