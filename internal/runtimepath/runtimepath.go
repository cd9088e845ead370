package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const appName = "deskshell"

// Dir picks the per-user runtime directory: $XDG_RUNTIME_DIR, then
// /run/user/<uid>, then a private /tmp/deskshell-runtime-<uid>.
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/%s-runtime-%d", appName, uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath is where the session daemon listens. DESKSHELL_SOCKET overrides
// it so several sessions can run side by side.
func SocketPath() (string, error) {
	if override := strings.TrimSpace(os.Getenv("DESKSHELL_SOCKET")); override != "" {
		return override, nil
	}
	return inRuntimeDir(appName + ".sock")
}

// PIDPath is the daemon's pid file.
func PIDPath() (string, error) {
	return inRuntimeDir(appName + ".pid")
}

// WritePID records the current process id at PIDPath.
func WritePID() (string, error) {
	path, err := PIDPath()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
		return "", fmt.Errorf("write pid file: %w", err)
	}
	return path, nil
}

func inRuntimeDir(name string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, name), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
