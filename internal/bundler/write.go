package bundler

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteArtifact writes the bundle to path atomically: the text goes to a
// temporary file in the destination directory which is then renamed over
// path. On failure no file is left at path.
func WriteArtifact(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil { //nolint:gosec // G302: bundles are meant to be readable
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set bundle permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move bundle into place: %w", err)
	}
	return nil
}

// Write writes the result's bundle to path.
func (b *Bundler) Write(result *Result, path string) error {
	if err := WriteArtifact(path, result.Bundle); err != nil {
		return err
	}
	b.logger.Info("bundle written", "build_id", result.BuildID, "path", path)
	return nil
}
