package save

import (
	"os"
	"path/filepath"

	"github.com/nathoo/dicelab/engine"
)

// DefaultName is used when a save or load command gives no name.
const DefaultName = "quicksave"

// DefaultDir is where saves go when no directory is configured:
// ~/.dicelab/saves, or ./saves when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "saves"
	}
	return filepath.Join(home, ".dicelab", "saves")
}

// Path returns the file a named save lives in under dir.
func Path(dir, name string) string {
	if name == "" {
		name = DefaultName
	}
	return filepath.Join(dir, name+".json")
}

// WriteFile saves the session to path, creating parent directories.
func WriteFile(e *engine.Engine, path string) error {
	data, err := Save(e)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads the save at path and applies it to e.
func ReadFile(e *engine.Engine, path string) (*SaveData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sd, err := Load(data)
	if err != nil {
		return nil, err
	}
	if err := ApplySave(e, sd); err != nil {
		return nil, err
	}
	return sd, nil
}
