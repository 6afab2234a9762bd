package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/forPelevin/gamerec/internal/domain/localconfig"
)

var (
	ErrNoProfileFound   = errors.New("no steam profile found")
	ErrAmbiguousProfile = errors.New("more than one steam profile found")
)

const anonymousProfile = "anonymous"

// DefaultInstallDir returns the conventional Steam installation directory
// for the current platform.
func DefaultInstallDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("ProgramFiles(x86)")
		if base == "" {
			base = `C:\Program Files (x86)`
		}
		return filepath.Join(base, "Steam"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "Steam"), nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".steam", "steam"), nil
	}
}

// UserDataDir is the per-profile root under a Steam installation.
func UserDataDir(installDir string) string {
	return filepath.Join(installDir, "userdata")
}

// ProfileResolver picks one profile directory out of userdata.
type ProfileResolver interface {
	Resolve(userDataDir string) (string, error)
}

// ExactlyOne requires a single non-anonymous profile.
func ExactlyOne() ProfileResolver { return exactlyOne{} }

// ByID selects the profile directory named id.
func ByID(id string) ProfileResolver { return byID{id: id} }

// NewResolver returns ByID when id is set and ExactlyOne otherwise.
func NewResolver(id string) ProfileResolver {
	if strings.TrimSpace(id) != "" {
		return ByID(strings.TrimSpace(id))
	}
	return ExactlyOne()
}

type exactlyOne struct{}

func (exactlyOne) Resolve(userDataDir string) (string, error) {
	profiles, err := ListProfiles(userDataDir)
	if err != nil {
		return "", err
	}
	switch len(profiles) {
	case 0:
		return "", fmt.Errorf("%w under %s", ErrNoProfileFound, userDataDir)
	case 1:
		return filepath.Join(userDataDir, profiles[0]), nil
	default:
		return "", fmt.Errorf("%w under %s: %s (pick one with --profile)", ErrAmbiguousProfile, userDataDir, strings.Join(profiles, ", "))
	}
}

type byID struct{ id string }

func (r byID) Resolve(userDataDir string) (string, error) {
	profiles, err := ListProfiles(userDataDir)
	if err != nil {
		return "", err
	}
	for _, p := range profiles {
		if p == r.id {
			return filepath.Join(userDataDir, p), nil
		}
	}
	return "", fmt.Errorf("%w: profile %q not under %s", ErrNoProfileFound, r.id, userDataDir)
}

// ListProfiles returns the sorted names of profile directories, excluding
// the anonymous one.
func ListProfiles(userDataDir string) ([]string, error) {
	entries, err := os.ReadDir(userDataDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNoProfileFound, userDataDir)
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == anonymousProfile {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

func LocalConfigPath(profileDir string) string {
	return filepath.Join(profileDir, "config", "localconfig.vdf")
}

// RecordingRoot reads the profile's localconfig.vdf and returns the absolute
// background recording path.
func RecordingRoot(profileDir string) (string, error) {
	path := LocalConfigPath(profileDir)
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", localconfig.ErrConfigParse, err)
	}
	defer f.Close()

	cfg, err := localconfig.Decode(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	root := cfg.GameRecording.BackgroundRecordPath
	if !filepath.IsAbs(root) {
		root = filepath.Join(profileDir, root)
	}
	return filepath.Clean(root), nil
}
