package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileFormat identifies how a dataset file is encoded.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatJSON               // array of {"title", "locations"} objects
	FormatMsgpack            // same shape, MessagePack encoded
)

// FormatInfo contains metadata about a dataset file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatJSON: {
		Format:      FormatJSON,
		Description: "JSON dataset",
		Extensions:  []string{".json"},
		MinSize:     2, // "[]"
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "MessagePack dataset",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     1, // empty array marker
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFileFormat picks a format from the file extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// ValidateFile checks that filename exists and is large enough to hold a
// dataset of the given format.
func ValidateFile(filename string, format FileFormat) error {
	info, ok := supportedFormats[format]
	if !ok {
		return fmt.Errorf("unknown format: %v", format)
	}
	fi, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}
	if fi.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for %s (minimum: %d bytes)",
			filename, fi.Size(), info.Description, info.MinSize)
	}
	return nil
}

// ListSupportedFormats returns all supported formats
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, f := range []FileFormat{FormatJSON, FormatMsgpack} {
		formats = append(formats, supportedFormats[f])
	}
	return formats
}
