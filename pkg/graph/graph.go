package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dimgraph/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts graph data to indented JSON bytes.
func MarshalGraph(g GraphData) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes graph data as JSON to an io.Writer.
func WriteGraph(g GraphData, w io.Writer) error {
	return writeJSON(g, w)
}

// WriteGraphFile writes graph data to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g GraphData, path string) error {
	return writeFile(g, path)
}

// ReadGraph decodes graph data from an io.Reader.
// Unknown fields are ignored. Nodes without an id are rejected.
func ReadGraph(r io.Reader) (GraphData, error) {
	var g GraphData
	if err := readJSON(r, &g); err != nil {
		return GraphData{}, err
	}
	for i, n := range g.Nodes {
		if err := errors.ValidateID("node", n.ID); err != nil {
			return GraphData{}, fmt.Errorf("nodes[%d]: %w", i, err)
		}
	}
	return g, nil
}

// ReadGraphFile reads a JSON file and returns the decoded graph data.
func ReadGraphFile(path string) (GraphData, error) {
	f, err := openFile(path)
	if err != nil {
		return GraphData{}, err
	}
	defer f.Close()
	return ReadGraph(f)
}

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// WriteSnapshot writes a snapshot as JSON to an io.Writer.
func WriteSnapshot(s Snapshot, w io.Writer) error {
	return writeJSON(s, w)
}

// WriteSnapshotFile writes a snapshot to a JSON file.
func WriteSnapshotFile(s Snapshot, path string) error {
	return writeFile(s, path)
}

// ReadSnapshot decodes a snapshot from an io.Reader.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := readJSON(r, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// ReadSnapshotFile reads a snapshot JSON file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := openFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeJSON(v, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
