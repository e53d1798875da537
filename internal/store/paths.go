package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aethos/internal/domain"
)

const (
	// AppDirName is the directory created under the data root.
	AppDirName = "aethos-linux"
	// DefaultProfile is used for empty or blank profile names.
	DefaultProfile = "default"

	identityFilePrefix     = "identity"
	sessionCacheFilePrefix = "session-cache"
)

// SanitizeProfile maps a raw profile name onto the [A-Za-z0-9_-] charset.
// Every other rune becomes '_'. Blank input collapses to DefaultProfile.
//
// Distinct raw names may sanitise to the same value and then share storage.
func SanitizeProfile(profile domain.Profile) string {
	trimmed := strings.TrimSpace(profile.String())
	if trimmed == "" {
		return DefaultProfile
	}
	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ResolveDataRoot picks the base data directory: $XDG_DATA_HOME when set,
// else $HOME/.local/share, else the system temp dir.
func ResolveDataRoot(getenv func(string) string) string {
	if v := strings.TrimSpace(getenv("XDG_DATA_HOME")); v != "" {
		return v
	}
	if home := strings.TrimSpace(getenv("HOME")); home != "" {
		return filepath.Join(home, ".local", "share")
	}
	return os.TempDir()
}

// IdentityPath returns the identity file location for profile under root.
func IdentityPath(root string, profile domain.Profile) string {
	name := fmt.Sprintf("%s-%s.json", identityFilePrefix, SanitizeProfile(profile))
	return filepath.Join(root, AppDirName, name)
}

// SessionCachePath returns the encrypted cache file location for profile under root.
func SessionCachePath(root string, profile domain.Profile) string {
	name := fmt.Sprintf("%s-%s.enc.json", sessionCacheFilePrefix, SanitizeProfile(profile))
	return filepath.Join(root, AppDirName, name)
}
