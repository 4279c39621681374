package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"legacy-modernizer/internal/config"
	"legacy-modernizer/internal/model"
)

// ArtifactName is the file name used for a program's translation.
func ArtifactName(program string) (string, error) {
	name := strings.TrimSpace(program)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid program name %q", program)
	}
	return name + ".java", nil
}

// FileSink writes translations to <Dir>/<PROGRAM>.java.
type FileSink struct {
	Dir string
}

func (s FileSink) Store(ctx context.Context, program, code string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := ArtifactName(program)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// NewSink picks S3 storage when an endpoint is configured and the local
// output directory otherwise. runID prefixes object keys on S3.
func NewSink(cfg config.StorageConfig, runID string) (model.ArtifactSink, error) {
	if cfg.S3.Enabled {
		return NewS3Sink(cfg.S3, runID)
	}
	return FileSink{Dir: cfg.OutputDir}, nil
}
