package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"unicode"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// File extensions to skip when looking for finished output
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp"}
)

// Filename constants
const (
	DefaultFileName  = "download"
	MaxFileNameBytes = 200
	allowedPunct     = " ._-()"
	replacementRune  = '_'
	writeProbePrefix = ".ytfetch-probe-"
)

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin: // macOS
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		return openFileInManagerLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openFileInManagerLinux opens directory containing file on Linux
// Note: File selection is not standardized on Linux, so we open the parent directory
func openFileInManagerLinux(filePath string) error {
	dir := filepath.Dir(filePath)

	// Try xdg-open first (most common)
	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	// Fallback to common file managers
	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// EnsureWritableDir creates dirPath if needed and verifies a file can be created in it
func EnsureWritableDir(dirPath string) error {
	if dirPath == "" {
		return errors.New("directory path is empty")
	}
	if err := CreateDirectoryIfNotExists(dirPath); err != nil {
		return fmt.Errorf("create %s: %w", dirPath, err)
	}
	info, err := os.Stat(dirPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dirPath)
	}

	probe, err := os.CreateTemp(dirPath, writeProbePrefix)
	if err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, "Downloads"), nil
}

// SanitizeFilename keeps letters, digits and " ._-()" and replaces everything
// else with an underscore. An empty result becomes DefaultFileName.
func SanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(allowedPunct, r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(replacementRune)
	}

	name := strings.TrimSpace(b.String())
	// Leading dots would hide the file on unix.
	name = strings.TrimLeft(name, ".")
	for len(name) > MaxFileNameBytes {
		runes := []rune(name)
		name = string(runes[:len(runes)-1])
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultFileName
	}
	return name
}

// PathWithExtension joins dir, base and an optional extension
func PathWithExtension(dir, base, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return filepath.Join(dir, base)
	}
	return filepath.Join(dir, base+"."+ext)
}

// FindOutputFile returns the finished file in dir named base.<ext>.
// base.<preferredExt> wins when it exists; otherwise the newest candidate
// is returned. Partial download artifacts are ignored.
func FindOutputFile(dir, base, preferredExt string) (string, error) {
	if ext := strings.TrimPrefix(preferredExt, "."); ext != "" {
		preferred := PathWithExtension(dir, base, ext)
		if info, err := os.Stat(preferred); err == nil && info.Mode().IsRegular() {
			return preferred, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var candidates []candidate
	prefix := base + "."
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || isSkippedExtension(name) {
			continue
		}
		// base.<ext> only; base.<role>.<ext> belongs to another track
		if strings.Contains(strings.TrimPrefix(name, prefix), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{filepath.Join(dir, name), info.ModTime().UnixNano()})
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("file not found: %s", filepath.Join(dir, prefix+"*"))
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].mod > candidates[j].mod })
	return candidates[0].path, nil
}

func isSkippedExtension(filename string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}
