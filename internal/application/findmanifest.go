package application

import (
	"fmt"
	"os"
	"path/filepath"
)

// findManifest locates the manifest file at the top level of an unpacked
// package.
func findManifest(root string) (string, error) {
	for _, name := range manifestNames {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("package has no manifest (tried %v)", manifestNames)
}
