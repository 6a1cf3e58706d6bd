package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/refnetlabs/refnet/pkg/referral"
)

// MarshalNetwork converts a referral graph to JSON bytes.
func MarshalNetwork(g *referral.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteNetwork(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalNetwork deserializes JSON bytes to a Network.
func UnmarshalNetwork(data []byte) (Network, error) {
	var n Network
	if err := json.Unmarshal(data, &n); err != nil {
		return Network{}, err
	}
	return n, nil
}

// WriteNetwork writes a referral graph as indented JSON to an io.Writer.
// Use MarshalNetwork for in-memory serialization or WriteNetworkFile for files.
func WriteNetwork(g *referral.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteNetworkFile writes a referral graph to a JSON file.
// The file is created with 0644 permissions.
func WriteNetworkFile(g *referral.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteNetwork(g, f)
}

// ReadNetwork decodes a JSON network from an io.Reader into a live graph.
// Returns validation errors for malformed files or constraint violations.
func ReadNetwork(r io.Reader) (*referral.Graph, error) {
	var n Network
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(n)
}

// ReadNetworkFile reads a JSON file and returns the decoded referral graph.
func ReadNetworkFile(path string) (*referral.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadNetwork(f)
}
