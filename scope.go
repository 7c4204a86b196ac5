package multiquadlet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Scope selects between systemd's system and user unit hierarchies, which use distinct well-known input and staging directories.
type Scope string

const (
	ScopeSystem Scope = "system"
	ScopeUser   Scope = "user"
)

// ScopeFromEnvironment derives the scope from the SYSTEMD_SCOPE environment variable, defaulting to the system scope.
func ScopeFromEnvironment() Scope {
	if os.Getenv("SYSTEMD_SCOPE") == string(ScopeUser) {
		return ScopeUser
	}

	return ScopeSystem
}

// Directories returns the well-known input and staging directories for the scope. The user scope requires XDG_RUNTIME_DIR, since the staging tree lives
// under the user's runtime directory.
func (s Scope) Directories() (input, staging string, e error) {
	if s != ScopeUser {
		return "/etc/containers/multiquadlet", "/run/multiquadlet-generated", nil
	}

	runtime := os.Getenv("XDG_RUNTIME_DIR")
	if runtime == "" {
		return "", "", errors.New("SYSTEMD_SCOPE is user but XDG_RUNTIME_DIR is not set")
	}

	home, e := os.UserHomeDir()
	if e != nil {
		return "", "", fmt.Errorf("unable to resolve home directory: %w", e)
	}

	return filepath.Join(home, ".config", "containers", "multiquadlet"), filepath.Join(runtime, "multiquadlet-generated"), nil
}
