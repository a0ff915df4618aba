package browser

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

var ErrBinaryNotFound = errors.New("browser executable not found in common locations")

// DefaultCandidates lists the usual Brave install locations for the current OS.
func DefaultCandidates() []string {
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "windows":
		paths := []string{
			`C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`,
			`C:\Program Files (x86)\BraveSoftware\Brave-Browser\Application\brave.exe`,
		}
		if home != "" {
			paths = append(paths, filepath.Join(home, "AppData", "Local", "BraveSoftware", "Brave-Browser", "Application", "brave.exe"))
		}
		return paths
	case "darwin":
		paths := []string{"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser"}
		if home != "" {
			paths = append(paths, filepath.Join(home, "Applications", "Brave Browser.app", "Contents", "MacOS", "Brave Browser"))
		}
		return paths
	default:
		return []string{
			"/usr/bin/brave-browser",
			"/usr/bin/brave",
			"/opt/brave.com/brave/brave",
			"/snap/bin/brave",
		}
	}
}

// FindBinary returns the first candidate that exists as a regular file.
func FindBinary(candidates []string) (string, error) {
	for _, path := range candidates {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", ErrBinaryNotFound
}
