package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// AppDirName names the per-user config directory.
const AppDirName = "reelserve"

// PathResolver locates dataset and config files relative to the running
// binary and the user's config directory.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := newPathResolver(execPath, homeDir)
	log.Debugf("PathResolver initialized: exec=%s, execDir=%s, configDir=%s",
		pr.executablePath, pr.executableDir, pr.configDir)
	return pr, nil
}

func newPathResolver(execPath, homeDir string) *PathResolver {
	return &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      getConfigDir(homeDir),
	}
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", AppDirName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppDirName)
		}
		return filepath.Join(homeDir, ".config", AppDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppDirName)
	default:
		return filepath.Join(homeDir, "."+AppDirName)
	}
}

// GetDataFile resolves a dataset path. Candidates are tried in order:
// 1. User-specified path (if absolute)
// 2. Relative to executable directory
// 3. Relative to current working directory
// 4. Inside the config directory
//
// When nothing exists the executable-relative path is returned so the
// caller's error names a sensible location.
func (pr *PathResolver) GetDataFile(userSpecifiedPath string) string {
	candidates := pr.dataFileCandidates(userSpecifiedPath)
	for _, path := range candidates {
		if pr.isRegularFile(path) {
			log.Debugf("Found dataset: %s", path)
			return path
		}
		log.Debugf("Dataset candidate not found: %s", path)
	}
	return pr.ResolveRelativePath(userSpecifiedPath)
}

func (pr *PathResolver) dataFileCandidates(userSpecifiedPath string) []string {
	if filepath.IsAbs(userSpecifiedPath) {
		return []string{userSpecifiedPath}
	}

	candidates := []string{filepath.Join(pr.executableDir, userSpecifiedPath)}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
	}
	candidates = append(candidates, filepath.Join(pr.configDir, filepath.Base(userSpecifiedPath)))
	return candidates
}

// GetConfigPath returns the full path for a config file
// It ensures the config directory exists and handles read-only filesystem issues
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	configPath := filepath.Join(pr.configDir, filename)
	if CheckDirStatus(pr.configDir).Writable {
		return configPath, nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+AppDirName),
		filepath.Join(os.TempDir(), AppDirName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// ResolveRelativePath resolves a path relative to the executable directory
func (pr *PathResolver) ResolveRelativePath(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(pr.executableDir, relativePath)
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}

	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}

func (pr *PathResolver) isRegularFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}

// FileExists reports whether anything exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dirPath and any missing parents.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0o755)
}

// AbsPath returns path made absolute, or "builtin defaults" for an empty
// path, which is how a config that was never read from disk is reported.
func AbsPath(path string) string {
	if path == "" {
		return "builtin defaults"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// DirStatus is the outcome of CheckDirStatus.
type DirStatus struct {
	Exists   bool
	Writable bool
	Error    error
}

// CheckDirStatus creates dirPath if needed and checks it by writing a scratch
// file. Config and fallback directories are only used when Writable.
func CheckDirStatus(dirPath string) DirStatus {
	if err := EnsureDir(dirPath); err != nil {
		log.Debugf("Cannot create directory %s: %v", dirPath, err)
		return DirStatus{Error: err}
	}
	scratch, err := os.CreateTemp(dirPath, ".reelserve-*")
	if err != nil {
		log.Debugf("Directory %s is not writable: %v", dirPath, err)
		return DirStatus{Exists: true, Error: err}
	}
	name := scratch.Name()
	scratch.Close()
	os.Remove(name)
	return DirStatus{Exists: true, Writable: true}
}
