package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/scynet/scynet/pkg/community"
	"github.com/scynet/scynet/pkg/errors"
	"github.com/scynet/scynet/pkg/network"
)

// =============================================================================
// Network Serialization API
// =============================================================================

// ReadNetwork decodes a Cytoscape JSON reaction network from r.
func ReadNetwork(r io.Reader) (*network.Network, error) {
	var in Network
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode network")
	}
	return ToNetwork(in)
}

// ReadNetworkFile reads a reaction network from a JSON file.
func ReadNetworkFile(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadNetwork(f)
}

// UnmarshalNetwork decodes network JSON bytes.
func UnmarshalNetwork(data []byte) (*network.Network, error) {
	var in Network
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode network")
	}
	return ToNetwork(in)
}

// MarshalNetwork encodes a reaction network as indented JSON.
func MarshalNetwork(n *network.Network) ([]byte, error) {
	return json.MarshalIndent(FromNetwork(n), "", "  ")
}

// =============================================================================
// Community Serialization API
// =============================================================================

// MarshalCommunity encodes a community network as indented JSON.
func MarshalCommunity(g *community.Graph) ([]byte, error) {
	return json.MarshalIndent(FromCommunity(g), "", "  ")
}

// UnmarshalCommunity decodes community JSON bytes.
func UnmarshalCommunity(data []byte) (*community.Graph, error) {
	var in Community
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode community network")
	}
	return ToCommunity(in)
}

// WriteCommunity writes a community network as JSON to w.
func WriteCommunity(g *community.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromCommunity(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteCommunityFile writes a community network to a JSON file.
func WriteCommunityFile(g *community.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCommunity(g, f)
}

// ReadCommunity decodes a community network from r.
func ReadCommunity(r io.Reader) (*community.Graph, error) {
	var in Community
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode community network")
	}
	return ToCommunity(in)
}

// ReadCommunityFile reads a community network from a JSON file.
func ReadCommunityFile(path string) (*community.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadCommunity(f)
}

func openError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return fmt.Errorf("open %s: %w", path, err)
}
