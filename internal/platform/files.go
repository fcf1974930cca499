package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultDirPermissions for directories created for downloads
const DefaultDirPermissions = 0755

// XDGDownloadDirEnv overrides the Downloads directory on Linux desktops
const XDGDownloadDirEnv = "XDG_DOWNLOAD_DIR"

// revealCommands maps GOOS to the command that shows a file in the file
// manager. Linux has no standard way to select a file, so the parent
// directory is opened instead.
var revealCommands = map[string][]string{
	"darwin":  {"open", "-R"},
	"windows": {"explorer", "/select,"},
}

// LinuxFileManagers are tried in order when xdg-open is unavailable
var LinuxFileManagers = []string{"xdg-open", "nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}

// OpenFileInManager reveals a downloaded file in the system file manager
func OpenFileInManager(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("file does not exist: file path is empty")
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	if args, ok := revealCommands[runtime.GOOS]; ok {
		return exec.Command(args[0], append(args[1:], absPath)...).Run()
	}
	if runtime.GOOS == "linux" {
		return openDirectoryLinux(filepath.Dir(absPath))
	}
	return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
}

func openDirectoryLinux(dir string) error {
	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err != nil {
			continue
		}
		if err := exec.Command(fm, dir).Run(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no suitable file manager found")
}

// CreateDirectoryIfNotExists creates dirPath and its parents if missing
func CreateDirectoryIfNotExists(dirPath string) error {
	if dirPath == "" || dirPath == "." {
		return nil
	}
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", dirPath)
	}
	return nil
}

// GetHomeDownloadsDir returns the user's Downloads directory
func GetHomeDownloadsDir() (string, error) {
	if runtime.GOOS == "linux" {
		if dir := strings.TrimSpace(os.Getenv(XDGDownloadDirEnv)); dir != "" && filepath.IsAbs(dir) {
			return dir, nil
		}
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// LocalFileName turns a catalog filename into a name safe to create in a
// local directory. Catalog filenames use forward slashes; only the last
// element is kept.
func LocalFileName(catalogName string) string {
	base := path.Base(strings.ReplaceAll(catalogName, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return "download"
	}
	return base
}
