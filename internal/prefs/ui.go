package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const uiFile = "ui.json"

// UI is terminal client state kept between runs.
type UI struct {
	LastPanel string `json:"lastPanel"`
}

func uiPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "lendtrack")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, uiFile), nil
}

func SaveUI(ui UI) error {
	path, err := uiPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(ui, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadUI returns the saved state, or the zero value when nothing was saved yet.
func LoadUI() (UI, error) {
	path, err := uiPath()
	if err != nil {
		return UI{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return UI{}, nil
		}
		return UI{}, err
	}
	var ui UI
	if err := json.Unmarshal(data, &ui); err != nil {
		return UI{}, err
	}
	return ui, nil
}
