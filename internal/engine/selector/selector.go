// Package selector picks the release and file a tracked identity should converge to.
package selector

import (
	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/zerr"
)

type matcher func(domain.Release) bool

// Select returns the first acceptable release from candidates.
//
// With an explicit version the release must support both platform and version.
// With an empty version the newest known version drives three tiers, each scanning
// candidates in catalog order: platform and newest, newest alone, platform alone.
// An empty newest disables the first two tiers.
func Select(candidates []domain.Release, platform, version, newest string) (domain.Release, domain.Tier, bool) {
	if version != "" {
		r, ok := first(candidates, func(r domain.Release) bool {
			return r.SupportsPlatform(platform) && r.SupportsVersion(version)
		})
		if !ok {
			return domain.Release{}, domain.TierNone, false
		}
		return r, domain.TierExact, true
	}

	tiers := []struct {
		tier  domain.Tier
		match matcher
	}{
		{domain.TierExact, func(r domain.Release) bool {
			return newest != "" && r.SupportsPlatform(platform) && r.SupportsVersion(newest)
		}},
		{domain.TierVersionOnly, func(r domain.Release) bool {
			return newest != "" && r.SupportsVersion(newest)
		}},
		{domain.TierPlatformOnly, func(r domain.Release) bool {
			return r.SupportsPlatform(platform)
		}},
	}

	for _, t := range tiers {
		if r, ok := first(candidates, t.match); ok {
			return r, t.tier, true
		}
	}
	return domain.Release{}, domain.TierNone, false
}

func first(candidates []domain.Release, match matcher) (domain.Release, bool) {
	for _, r := range candidates {
		if !r.Valid() {
			continue
		}
		if match(r) {
			return r, true
		}
	}
	return domain.Release{}, false
}

// SelectFile returns the file of release to install for kind.
// The primary file always wins. Kinds that do not require a primary file fall
// back to the first valid file.
func SelectFile(release domain.Release, kind domain.ArtifactKind) (domain.FileDescriptor, bool) {
	for _, f := range release.Files {
		if f.Primary && f.Valid() {
			return f, true
		}
	}
	if kind.RequiresPrimary() {
		return domain.FileDescriptor{}, false
	}
	for _, f := range release.Files {
		if f.Valid() {
			return f, true
		}
	}
	return domain.FileDescriptor{}, false
}

// Desire resolves the desired artifact of id from its candidate releases.
func Desire(
	id domain.Identity,
	candidates []domain.Release,
	kind domain.ArtifactKind,
	platform, version, newest string,
) (domain.DesiredArtifact, error) {
	release, tier, ok := Select(candidates, platform, version, newest)
	if !ok {
		err := zerr.With(domain.ErrNoCompatibleRelease, "identity", id.String())
		err = zerr.With(err, "platform", platform)
		return domain.DesiredArtifact{}, zerr.With(err, "version", targetVersion(version, newest))
	}

	file, ok := SelectFile(release, kind)
	if !ok {
		err := zerr.With(domain.ErrNoDownloadableFile, "identity", id.String())
		return domain.DesiredArtifact{}, zerr.With(err, "release", release.ID)
	}

	return domain.DesiredArtifact{
		Identity:       id,
		Release:        release,
		File:           file,
		TargetFilename: domain.TargetFilename(file.Filename, id),
		Tier:           tier,
	}, nil
}

func targetVersion(version, newest string) string {
	if version != "" {
		return version
	}
	return newest
}
