package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal state directory.
	StateDirName = ".modsync"

	// JournalDirName is the name of the outcome journal directory.
	JournalDirName = "journal"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "modsync.yaml"

	// DefaultDirectory is the managed directory used when none is configured.
	DefaultDirectory = "mods"

	// DefaultConcurrency is the worker pool size used when none is configured.
	DefaultConcurrency = 5

	// TempSuffix is appended to a target filename while it is being downloaded.
	TempSuffix = ".part"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultJournalPath returns the default path for the outcome journal.
// It joins .modsync and journal.
func DefaultJournalPath() string {
	return filepath.Join(StateDirName, JournalDirName)
}
