/*
Package fileutil holds the write helpers shared by the config and history files.

Both files are rewritten as a whole on every save, so writes go through a
temp file in the same directory followed by a rename, and the previous
content is kept next to the file as <path>.bak.
*/
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AtomicWrite writes data to path via <path>.tmp and an atomic rename.
// Missing parent directories are created.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Backup copies the current content of path to <path>.bak.
// A missing file is not an error (first run, nothing to keep).
func Backup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return os.WriteFile(path+".bak", data, 0644)
}

// ReadPermissionFix returns a platform-specific hint for an unreadable file.
func ReadPermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Edit permissions", path)
	default:
		return fmt.Sprintf("Run: chmod 644 %s", path)
	}
}

// WritePermissionFix returns a platform-specific hint for an unwritable path.
func WritePermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Grant 'Write' permission", path)
	default:
		return fmt.Sprintf("Run: chmod u+w %s", path)
	}
}
