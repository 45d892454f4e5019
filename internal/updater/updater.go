// Package updater checks GitHub releases for a newer build and can
// replace the running binary in place. It is strictly outbound and only
// runs when the user asks for it (menu action or --check-update).
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/version"
)

// Info describes the outcome of an update check.
type Info struct {
	CurrentVersion string    `json:"current_version"`
	LatestVersion  string    `json:"latest_version"`
	ReleaseNotes   string    `json:"release_notes"`
	ReleaseURL     string    `json:"release_url"`
	PublishedAt    time.Time `json:"published_at"`
	Available      bool      `json:"update_available"`
}

// Updater checks for and applies releases from one GitHub repository.
type Updater struct {
	repository selfupdate.Repository
	updater    *selfupdate.Updater
	logger     *slog.Logger

	latest *selfupdate.Release
}

// New creates an updater for the given "owner/repo" slug.
func New(slug string, logger *slog.Logger) (*Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("create GitHub source: %w", err)
	}

	up, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		return nil, fmt.Errorf("create updater: %w", err)
	}

	return &Updater{
		repository: selfupdate.ParseSlug(slug),
		updater:    up,
		logger:     logger,
	}, nil
}

// Check queries the repository for the latest release and compares it
// against the running version. A "dev" build is always outdated.
func (u *Updater) Check(ctx context.Context) (*Info, error) {
	current := version.String()

	release, found, err := u.updater.DetectLatest(ctx, u.repository)
	if err != nil {
		return nil, fmt.Errorf("check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("repository has no releases")
	}

	newer := current == "dev" || release.GreaterThan(current)
	if !newer {
		u.logger.Info("already up to date", "version", current)
		return &Info{
			CurrentVersion: current,
			LatestVersion:  release.Version(),
			Available:      false,
		}, nil
	}

	u.latest = release
	u.logger.Info("update available",
		"current", current, "latest", release.Version())

	return &Info{
		CurrentVersion: current,
		LatestVersion:  release.Version(),
		ReleaseNotes:   release.ReleaseNotes,
		ReleaseURL:     release.URL,
		PublishedAt:    release.PublishedAt,
		Available:      true,
	}, nil
}

// Apply replaces the running binary with the release found by the last
// successful Check.
func (u *Updater) Apply(ctx context.Context) error {
	if u.latest == nil {
		return fmt.Errorf("no update detected; run Check first")
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	if err := u.updater.UpdateTo(ctx, u.latest, exe); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	u.logger.Info("update applied, restart to use it", "version", u.latest.Version())
	return nil
}
