package update

import (
	"context"
	"strings"

	"github.com/mkarlsen/prmerge/internal/github"
)

// ReleaseSource provides the latest published release for a repo slug.
type ReleaseSource interface {
	LatestRelease(ctx context.Context, slug string) (*github.Release, error)
}

// CheckForUpdate queries the code host's releases and returns the latest tag
// if it is newer than the running version, or empty if up to date.
func CheckForUpdate(ctx context.Context, source ReleaseSource, currentVersion, repo string) (string, error) {
	release, err := source.LatestRelease(ctx, repo)
	if err != nil {
		return "", err
	}
	if release == nil {
		return "", nil
	}

	latest := normalizeVersion(release.TagName)
	current := normalizeVersion(currentVersion)

	// "dev" builds are always older than any release
	if current == "dev" {
		return release.TagName, nil
	}

	// Simple string comparison works for semver if format is consistent
	if latest > current {
		return release.TagName, nil
	}
	return "", nil
}

func normalizeVersion(v string) string {
	v = strings.TrimPrefix(v, "prmerge/")
	return strings.TrimPrefix(v, "v")
}
