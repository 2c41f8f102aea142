// Package updater checks GitHub releases for newer builds and replaces
// the running binary in place.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/camctl/camctl/internal/logging"
	"github.com/camctl/camctl/internal/version"
)

// UpdateInfo describes the outcome of a release check.
type UpdateInfo struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseNotes    string
	ReleaseURL      string
	PublishedAt     time.Time
	UpdateAvailable bool
}

// Updater checks for and applies releases from a GitHub repository.
type Updater struct {
	repository selfupdate.Repository
	updater    *selfupdate.Updater
	logger     *slog.Logger

	latest *selfupdate.Release
}

// New creates an updater for the given "owner/repo" slug. It fails early
// when the binary's directory is not writable, since applying an update
// would fail anyway.
func New(repository string, prerelease bool) (*Updater, error) {
	if err := checkWritePermission(); err != nil {
		return nil, err
	}

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Updater{
		repository: selfupdate.ParseSlug(repository),
		updater:    updater,
		logger:     logging.GetLogger("updater"),
	}, nil
}

func checkWritePermission() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	dir := filepath.Dir(exe)
	tmp := filepath.Join(dir, ".camctl.update.test")
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("no write permission to %s: %w", dir, err)
	}
	f.Close()
	os.Remove(tmp)
	return nil
}

// Check queries the repository for the latest release and compares it
// against the running version. A "dev" build is always considered outdated.
func (u *Updater) Check(ctx context.Context) (*UpdateInfo, error) {
	current := version.Version

	release, found, err := u.updater.DetectLatest(ctx, u.repository)
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("repository has no releases")
	}

	isNewer := current == "dev" || release.GreaterThan(current)
	if !isNewer {
		return &UpdateInfo{
			CurrentVersion:  current,
			LatestVersion:   release.Version(),
			UpdateAvailable: false,
		}, nil
	}

	u.latest = release
	return &UpdateInfo{
		CurrentVersion:  current,
		LatestVersion:   release.Version(),
		ReleaseNotes:    release.ReleaseNotes,
		ReleaseURL:      release.URL,
		PublishedAt:     release.PublishedAt,
		UpdateAvailable: true,
	}, nil
}

// Apply downloads the release found by Check and replaces the running
// binary. Check must have reported an available update first.
func (u *Updater) Apply(ctx context.Context) error {
	if u.latest == nil {
		return fmt.Errorf("no update available, run a check first")
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	u.logger.Info("applying update", "version", u.latest.Version())
	if err := u.updater.UpdateTo(ctx, u.latest, exe); err != nil {
		return fmt.Errorf("failed to apply update: %w", err)
	}

	u.logger.Info("update applied", "version", u.latest.Version())
	return nil
}
