package util

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var invalidFilenameChars = regexp.MustCompile(`[\x00-\x1f\x7f\\/:*?"<>|]`)

// reservedNames cannot be used as file names on Windows.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SanitizeFilename replaces characters that are not allowed in file names
// on common platforms with underscores. It never returns an empty name.
func SanitizeFilename(name string) string {
	safe := invalidFilenameChars.ReplaceAllString(name, "_")
	// Windows rejects leading and trailing spaces and dots.
	safe = strings.Trim(safe, ". ")
	if safe == "" {
		return "untitled"
	}
	if reservedNames[strings.ToUpper(safe)] {
		safe += "_"
	}
	return safe
}

// EnsureWritableDir creates dir if needed and checks that files can be
// written into it.
func EnsureWritableDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("path exists but is not a directory: %s", dir)
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	case err != nil:
		return fmt.Errorf("cannot access path: %w", err)
	}

	probe, err := os.CreateTemp(dir, ".novelshelf_write_check")
	if err != nil {
		return fmt.Errorf("no write permission for %s: %w", dir, err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}
