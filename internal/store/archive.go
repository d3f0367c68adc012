package store

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/xkilldash9x/ghostwriter/api/schemas"
)

// ArchiveExt is the suffix for compressed transcript archives. Brotli streams
// carry no magic bytes, so the extension is how archives are recognized.
const ArchiveExt = ".ghost.br"

// WriteArchive serializes the transcript as JSON and writes it through a
// brotli compressor. Keystroke streams are highly repetitive, so even long
// sessions compress to a few kilobytes.
func WriteArchive(w io.Writer, t *schemas.Transcript) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("refusing to archive invalid transcript: %w", err)
	}

	bw := brotli.NewWriterLevel(w, brotli.BestCompression)
	if err := json.NewEncoder(bw).Encode(t); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("failed to flush archive: %w", err)
	}
	return nil
}

// ReadArchive decodes a transcript written by WriteArchive.
func ReadArchive(r io.Reader) (*schemas.Transcript, error) {
	t := &schemas.Transcript{}
	if err := json.NewDecoder(brotli.NewReader(r)).Decode(t); err != nil {
		return nil, fmt.Errorf("failed to decode archive: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("archive contains invalid transcript: %w", err)
	}
	return t, nil
}

// SaveArchive writes the transcript to path, appending ArchiveExt when the
// path does not already end in it. It returns the path actually written.
func SaveArchive(path string, t *schemas.Transcript) (string, error) {
	if !strings.HasSuffix(path, ArchiveExt) && !strings.HasSuffix(path, ".json") {
		path += ArchiveExt
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// A .json suffix opts out of compression for hand-inspectable output.
	if strings.HasSuffix(path, ".json") {
		if err := t.Validate(); err != nil {
			return "", fmt.Errorf("refusing to archive invalid transcript: %w", err)
		}
		if err := json.NewEncoder(f).Encode(t); err != nil {
			return "", fmt.Errorf("failed to encode transcript: %w", err)
		}
		return path, nil
	}

	if err := WriteArchive(f, t); err != nil {
		return "", err
	}
	return path, nil
}

// LoadArchive reads a transcript archive from disk. Files ending in .json are
// treated as uncompressed transcripts, everything else as brotli archives.
func LoadArchive(path string) (*schemas.Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if strings.HasSuffix(path, ".json") {
		t := &schemas.Transcript{}
		if err := json.NewDecoder(f).Decode(t); err != nil {
			return nil, fmt.Errorf("failed to decode transcript: %w", err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("file contains invalid transcript: %w", err)
		}
		return t, nil
	}

	return ReadArchive(f)
}
