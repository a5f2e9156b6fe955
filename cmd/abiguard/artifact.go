// Artifact resolution shared by the inspect, check, and browse commands.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wirelayer/abiguard/catalog"
	"github.com/wirelayer/abiguard/header"
	"github.com/wirelayer/abiguard/loader"
	"github.com/wirelayer/abiguard/shape"
)

// artifact is a shape document together with where it came from.
type artifact struct {
	Ref     string
	Library string
	Version string
	Doc     *shape.Document
}

// resolveArtifact loads a shape from one of the supported artifact forms:
// a .wasm library (the header is read the way the loader reads it), a
// .json shape document, or a name@version catalog reference.
func resolveArtifact(ctx context.Context, ref string) (*artifact, error) {
	switch {
	case strings.HasSuffix(ref, ".wasm"):
		return wasmArtifact(ctx, ref)
	case strings.HasSuffix(ref, ".json"):
		return shapeFileArtifact(ref)
	case strings.Contains(ref, "@"):
		return catalogArtifact(ctx, ref)
	default:
		return nil, fmt.Errorf("unrecognized artifact %q: want a .wasm file, a .json shape, or name@version", ref)
	}
}

func wasmArtifact(ctx context.Context, path string) (*artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}

	src, err := loader.OpenWASM(ctx, data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("instantiate library: %w", err)
	}
	defer src.Close(ctx)

	raw, err := src.Symbol(ctx, loader.HeaderSymbol)
	if err != nil {
		return nil, fmt.Errorf("read header symbol: %w", err)
	}
	decoded, err := header.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}

	return &artifact{
		Ref:     path,
		Library: decoded.Name,
		Version: decoded.Version.String(),
		Doc:     decoded.Shape,
	}, nil
}

func shapeFileArtifact(path string) (*artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shape: %w", err)
	}
	doc, err := shape.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}
	return &artifact{Ref: path, Doc: doc}, nil
}

func catalogArtifact(ctx context.Context, ref string) (*artifact, error) {
	library, version, ok := strings.Cut(ref, "@")
	if !ok || library == "" || version == "" {
		return nil, fmt.Errorf("invalid catalog reference %q: want name@version", ref)
	}

	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	defer cat.Close()

	entry, err := cat.Load(ctx, library, version)
	if err != nil {
		return nil, err
	}
	return &artifact{
		Ref:     ref,
		Library: entry.Library,
		Version: entry.Version,
		Doc:     entry.Shape,
	}, nil
}

// title is the artifact's display name for command output.
func (a *artifact) title() string {
	if a.Library != "" {
		return fmt.Sprintf("%s@%s (%s)", a.Library, a.Version, a.Ref)
	}
	return a.Ref
}
