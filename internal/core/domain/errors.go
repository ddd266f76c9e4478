package domain

import "go.trai.ch/zerr"

var (
	// ErrCatalogUnavailable is returned when the catalog cannot be reached or answers with an error.
	ErrCatalogUnavailable = zerr.New("catalog unavailable")

	// ErrCatalogParseFailed is returned when a catalog response cannot be decoded.
	ErrCatalogParseFailed = zerr.New("failed to parse catalog response")

	// ErrProjectNotFound is returned when the catalog does not know a project.
	ErrProjectNotFound = zerr.New("project not found in catalog")

	// ErrNoCompatibleRelease is returned when no release satisfies the selection policy.
	ErrNoCompatibleRelease = zerr.New("no compatible release found")

	// ErrNoDownloadableFile is returned when the selected release has no acceptable file.
	ErrNoDownloadableFile = zerr.New("no downloadable file in release")

	// ErrTransferFailed is returned when downloading a file fails.
	ErrTransferFailed = zerr.New("file transfer failed")

	// ErrChecksumMismatch is returned when a downloaded file does not match its published digest.
	ErrChecksumMismatch = zerr.New("checksum mismatch")

	// ErrReplaceFailed is returned when a downloaded file cannot be moved into place.
	ErrReplaceFailed = zerr.New("failed to move file into place")

	// ErrMalformedCatalogEntry marks a catalog entry that is missing required fields.
	ErrMalformedCatalogEntry = zerr.New("malformed catalog entry")

	// ErrInvalidIdentity is returned when an identity cannot be encoded in a filename.
	ErrInvalidIdentity = zerr.New("invalid identity, it must not contain '.' or path separators")

	// ErrUnexpectedPanic is returned when processing an identity panicked.
	ErrUnexpectedPanic = zerr.New("unexpected panic while reconciling")

	// ErrCollectionLookupFailed is returned when the collection members cannot be listed.
	ErrCollectionLookupFailed = zerr.New("failed to look up collection")

	// ErrDirectoryCreateFailed is returned when the managed directory cannot be created.
	ErrDirectoryCreateFailed = zerr.New("failed to create target directory")

	// ErrInventoryScanFailed is returned when the managed directory cannot be listed.
	ErrInventoryScanFailed = zerr.New("failed to scan installed files")

	// ErrInvalidConfiguration is returned when a run configuration is rejected.
	ErrInvalidConfiguration = zerr.New("invalid configuration")

	// ErrMissingPlatform is returned when no target platform is configured.
	ErrMissingPlatform = zerr.New("target platform is required")

	// ErrMissingScope is returned when neither a collection nor projects are configured.
	ErrMissingScope = zerr.New("a collection or at least one project is required")

	// ErrInvalidKind is returned when the artifact kind is unknown.
	ErrInvalidKind = zerr.New("invalid artifact kind, expected 'mod', 'resourcepack', 'shader' or 'datapack'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrJournalWriteFailed is returned when an outcome cannot be appended to the journal.
	ErrJournalWriteFailed = zerr.New("failed to write journal entry")

	// ErrSyncFailed is returned when a run aborts before all identities were processed.
	ErrSyncFailed = zerr.New("sync failed")
)
