package platform

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSFreeBSD = "freebsd"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand    = "open"
	XDGOpenCommand = "xdg-open"
	RundllCommand  = "rundll32"
	URLHandlerArg  = "url.dll,FileProtocolHandler"
)

// Application directory names
const (
	AppDirName       = "kicktracker"
	SettingsFileName = "kicktracker.ini"
	IconFileName     = "favicon.ico"
)

// OpenInBrowser opens a web page with the system default browser
func OpenInBrowser(target string) error {
	name, args, err := browserCommand(runtime.GOOS, target)
	if err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	// Reap the child without blocking the caller
	go func() { _ = cmd.Wait() }()
	return nil
}

// browserCommand returns the command line that opens target on goos
func browserCommand(goos, target string) (string, []string, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return "", nil, fmt.Errorf("invalid URL %q: %w", target, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", nil, fmt.Errorf("refusing to open non-web URL: %s", target)
	}

	switch goos {
	case OSDarwin:
		return OpenCommand, []string{target}, nil
	case OSWindows:
		return RundllCommand, []string{URLHandlerArg, target}, nil
	case OSLinux, OSFreeBSD:
		return XDGOpenCommand, []string{target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetConfigDir returns the per-user directory holding the settings file
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to get user config directory: %w", err)
		}
		base = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(base, AppDirName), nil
}

// GetDefaultSettingsPath returns the default location of the settings file
func GetDefaultSettingsPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// FindIcon looks for the window icon next to the executable, then in the
// working directory. It returns "" when none exists.
func FindIcon() string {
	candidates := []string{}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), IconFileName))
	}
	candidates = append(candidates, IconFileName)

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
