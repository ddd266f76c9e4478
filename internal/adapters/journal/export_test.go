package journal

// IsEntryHeaderForTest exports isEntryHeader for testing purposes.
func IsEntryHeaderForTest(line string) bool {
	return isEntryHeader(line)
}
