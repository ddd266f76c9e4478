package domain

import (
	"path/filepath"
	"strings"
)

// Identity is the stable key of one tracked project across all of its releases.
type Identity string

// String returns the identity as a plain string.
func (i Identity) String() string {
	return string(i)
}

// Valid reports whether i survives the round trip through a target filename.
// An identity holding the name separator would be read back as its last part.
func (i Identity) Valid() bool {
	s := string(i)
	return s != "" && !strings.Contains(s, nameSeparator) && isPlainFilename(s)
}

// InstalledArtifact is a file currently present in the managed directory.
type InstalledArtifact struct {
	Identity Identity
	Filename string
}

// FileDescriptor describes one downloadable file of a release.
type FileDescriptor struct {
	// URL is the remote location of the file.
	URL string
	// Filename is the display name published by the catalog.
	Filename string
	// Primary marks the canonical download of a release.
	Primary bool
	// SHA512 is the hex digest published by the catalog, empty when unknown.
	SHA512 string
	// Size is the published size in bytes, zero when unknown.
	Size int64
}

// Valid reports whether the descriptor carries the fields needed to download it.
// The filename must name a file directly inside the managed directory.
func (f FileDescriptor) Valid() bool {
	return f.URL != "" && isPlainFilename(f.Filename)
}

// isPlainFilename reports whether name is a single path element.
func isPlainFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}

// Release is one published version of a project.
type Release struct {
	ID             string
	Name           string
	VersionNumber  string
	Platforms      []string
	TargetVersions []string
	Files          []FileDescriptor
}

// Valid reports whether the release is well-formed enough to take part in selection.
func (r Release) Valid() bool {
	return len(r.Platforms) > 0 && len(r.TargetVersions) > 0 && len(r.Files) > 0
}

// SupportsPlatform reports whether the release lists the platform, ignoring case.
func (r Release) SupportsPlatform(platform string) bool {
	for _, p := range r.Platforms {
		if strings.EqualFold(p, platform) {
			return true
		}
	}
	return false
}

// SupportsVersion reports whether the release lists the exact target version.
func (r Release) SupportsVersion(version string) bool {
	for _, v := range r.TargetVersions {
		if v == version {
			return true
		}
	}
	return false
}

// DesiredArtifact is the release file a tracked identity should converge to.
type DesiredArtifact struct {
	Identity       Identity
	Release        Release
	File           FileDescriptor
	TargetFilename string
	Tier           Tier
}

// ArtifactKind is the category of add-on being managed.
type ArtifactKind string

const (
	// KindMod is a loader-specific mod. Only the primary file is acceptable.
	KindMod ArtifactKind = "mod"
	// KindResourcePack is a resource pack.
	KindResourcePack ArtifactKind = "resourcepack"
	// KindShader is a shader pack.
	KindShader ArtifactKind = "shader"
	// KindDatapack is a datapack.
	KindDatapack ArtifactKind = "datapack"
)

// RequiresPrimary reports whether only a release's primary file may be installed.
func (k ArtifactKind) RequiresPrimary() bool {
	return k == KindMod || k == ""
}

// Valid reports whether k is a known kind.
func (k ArtifactKind) Valid() bool {
	switch k {
	case KindMod, KindResourcePack, KindShader, KindDatapack:
		return true
	default:
		return false
	}
}
