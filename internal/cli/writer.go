package cli

import (
	"os"
	"path/filepath"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/models"
)

// PairWriter persists both units of a bridge, or neither
type PairWriter struct {
	perm os.FileMode
}

// NewPairWriter creates a writer producing files with mode 0644
func NewPairWriter() *PairWriter {
	return &PairWriter{perm: 0644}
}

// Write stores the declaration and definition of bridge in dir. Both units
// are staged as temp files in dir and renamed into place only once both are
// complete. It returns the final paths.
func (w *PairWriter) Write(dir string, bridge *models.GeneratedBridge) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", errors.WrapFileSystemError("create directory", dir, err)
	}

	units := []models.GeneratedFile{bridge.Declaration, bridge.Definition}
	temps := make([]string, 0, len(units))
	cleanup := func() {
		for _, temp := range temps {
			os.Remove(temp)
		}
	}

	for _, unit := range units {
		temp, err := w.stage(dir, unit)
		if err != nil {
			cleanup()
			return "", "", err
		}
		temps = append(temps, temp)
	}

	targets := []string{
		filepath.Join(dir, bridge.Declaration.Name),
		filepath.Join(dir, bridge.Definition.Name),
	}
	for i, temp := range temps {
		if err := os.Rename(temp, targets[i]); err != nil {
			cleanup()
			// the declaration may already be in place; a lone unit is partial output
			if i > 0 {
				os.Remove(targets[0])
			}
			return "", "", errors.WrapFileSystemError("rename", targets[i], err)
		}
	}

	return targets[0], targets[1], nil
}

func (w *PairWriter) stage(dir string, unit models.GeneratedFile) (string, error) {
	file, err := os.CreateTemp(dir, "."+unit.Name+".*.tmp")
	if err != nil {
		return "", errors.WrapFileSystemError("create", filepath.Join(dir, unit.Name), err)
	}
	path := file.Name()

	if _, err := file.WriteString(unit.Content); err != nil {
		file.Close()
		os.Remove(path)
		return "", errors.WrapFileSystemError("write", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", errors.WrapFileSystemError("close", path, err)
	}
	if err := os.Chmod(path, w.perm); err != nil {
		os.Remove(path)
		return "", errors.WrapFileSystemError("chmod", path, err)
	}
	return path, nil
}
