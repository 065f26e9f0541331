// Package updater checks for updates via GitHub Releases and replaces the
// running binary.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

const defaultAPIBase = "https://api.github.com"

// ErrNoAsset is returned when a newer release has no binary for this platform.
var ErrNoAsset = errors.New("no release asset for this platform")

// Repo identifies a GitHub repository and the binary name its release assets
// are built from.
type Repo struct {
	Owner string
	Name  string
	Bin   string
}

// ReleaseInfo contains information about a GitHub release.
type ReleaseInfo struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []Asset `json:"assets"`
}

// Asset represents a downloadable file in a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// UpdateResult contains the result of an update check.
type UpdateResult struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
	Release        *ReleaseInfo
}

// Status is the outcome of CheckAndApply. Version is the version the
// executable on disk is at afterwards.
type Status struct {
	Updated bool
	Version string
}

// Checker talks to the GitHub Releases API. The zero value is not usable;
// use New.
type Checker struct {
	// APIBase is the API root, overridable for tests.
	APIBase string
	// Client is used for all requests. It carries no timeout: callers
	// bound the check through the context if they need to.
	Client *http.Client
	// ExePath is the binary replaced on update. Empty means the running
	// executable.
	ExePath string
	// UserAgent is sent with every request.
	UserAgent string
}

// New returns a Checker for api.github.com.
func New(userAgent string) *Checker {
	return &Checker{
		APIBase:   defaultAPIBase,
		Client:    &http.Client{},
		UserAgent: userAgent,
	}
}

// Check queries the latest release of repo and compares it with current.
func (c *Checker) Check(ctx context.Context, repo Repo, current string) (*UpdateResult, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.APIBase, repo.Owner, repo.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// No releases yet
		return &UpdateResult{CurrentVersion: trimV(current)}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release ReleaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	available, err := IsNewer(release.TagName, current)
	if err != nil {
		return nil, err
	}

	return &UpdateResult{
		Available:      available,
		CurrentVersion: trimV(current),
		LatestVersion:  trimV(release.TagName),
		ReleaseURL:     release.HTMLURL,
		Release:        &release,
	}, nil
}

// CheckAndApply checks for a newer release and, if there is one, downloads
// the platform asset and replaces the executable with it. The running process
// keeps its old image; the new version takes effect on next launch.
func (c *Checker) CheckAndApply(ctx context.Context, repo Repo, current string) (*Status, error) {
	// Unversioned builds never replace themselves.
	if current == "" || current == "dev" {
		return &Status{Version: "dev"}, nil
	}

	result, err := c.Check(ctx, repo, current)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return &Status{Version: result.CurrentVersion}, nil
	}

	asset := FindAsset(result.Release, AssetName(repo.Bin))
	if asset == nil {
		return nil, fmt.Errorf("%w: expected %s in %s", ErrNoAsset, AssetName(repo.Bin), result.Release.TagName)
	}

	tmpPath, err := c.DownloadAsset(ctx, asset)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	dest := c.ExePath
	if dest == "" {
		dest, err = os.Executable()
		if err != nil {
			return nil, fmt.Errorf("find executable: %w", err)
		}
	}
	if err := ReplaceBinary(dest, tmpPath); err != nil {
		return nil, err
	}

	return &Status{Updated: true, Version: result.LatestVersion}, nil
}

// AssetName returns the expected asset name for bin on this platform,
// e.g. "timetracker-windows-amd64.exe".
func AssetName(bin string) string {
	name := fmt.Sprintf("%s-%s-%s", bin, runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// FindAsset finds an asset by name in a release.
func FindAsset(release *ReleaseInfo, name string) *Asset {
	for i := range release.Assets {
		if release.Assets[i].Name == name {
			return &release.Assets[i]
		}
	}
	return nil
}

// DownloadAsset downloads a release asset to a temp file and returns the path.
func (c *Checker) DownloadAsset(ctx context.Context, asset *Asset) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.BrowserDownloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp("", "timetracker-update-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}

	tmpFile.Close()

	// Make executable
	if err := os.Chmod(tmpFile.Name(), 0755); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("chmod temp file: %w", err)
	}

	return tmpFile.Name(), nil
}

// ReplaceBinary replaces a binary at destPath with a new binary at newPath.
// Renaming a running executable is allowed on every supported platform, so
// the current binary is moved aside rather than overwritten.
func ReplaceBinary(destPath, newPath string) error {
	destPath, err := filepath.EvalSymlinks(destPath)
	if err != nil {
		return fmt.Errorf("resolve symlink: %w", err)
	}

	bakPath := destPath + ".bak"

	// Remove any stale backup
	os.Remove(bakPath)

	// Rename current → backup
	if err := os.Rename(destPath, bakPath); err != nil {
		return fmt.Errorf("backup old binary: %w", err)
	}

	// Move new → target
	if err := moveFile(newPath, destPath); err != nil {
		// Try to restore backup
		_ = os.Rename(bakPath, destPath)
		return fmt.Errorf("install new binary: %w", err)
	}

	// Fails on Windows while the old image is still mapped; the next
	// update removes it.
	os.Remove(bakPath)

	return nil
}

// moveFile renames src to dst, falling back to copy when they sit on
// different volumes (the temp dir often does).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
