package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// FFI is the `--configuration <json>` shape: an explicit exports list
// drives reachability filtering, an imports list drives unlisted-function
// filtering. Kept as JSON rather than folded into the TOML manifest so
// one configuration file can be shared by tooling that already speaks
// this format.
type FFI struct {
	Exports []string `json:"exports"`
	Imports []string `json:"imports"`
}

// LoadFFI reads and decodes a `--configuration` file.
func LoadFFI(path string) (FFI, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a CLI argument
	if err != nil {
		return FFI{}, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}
	var ffi FFI
	if err := json.Unmarshal(data, &ffi); err != nil {
		return FFI{}, fmt.Errorf("%s: invalid configuration JSON: %w", path, err)
	}
	return ffi, nil
}
