package domain

import "strings"

const nameSeparator = "."

// ParseIdentity derives the tracked identity encoded in an installed filename.
// The identity is the second-to-last dot-delimited segment, so
// "sodium-0.5.AANobbMI.jar" yields "AANobbMI". Names with fewer than two
// segments, or with an empty identity segment, carry no identity.
func ParseIdentity(filename string) (Identity, bool) {
	parts := strings.Split(filename, nameSeparator)
	if len(parts) < 2 {
		return "", false
	}
	id := parts[len(parts)-2]
	if id == "" {
		return "", false
	}
	return Identity(id), true
}

// TargetFilename inserts id before the final extension segment of a display
// name: "sodium-0.5.jar" becomes "sodium-0.5.<id>.jar". A name without any
// separator gets the identity prepended ("README" becomes "<id>.README") so
// that ParseIdentity still recovers it.
func TargetFilename(display string, id Identity) string {
	idx := strings.LastIndex(display, nameSeparator)
	if idx < 0 {
		return id.String() + nameSeparator + display
	}
	return display[:idx] + nameSeparator + id.String() + display[idx:]
}

// TempFilename returns the in-flight download name for a target filename.
func TempFilename(target string) string {
	return target + TempSuffix
}

// IsTempFilename reports whether name is an in-flight download.
func IsTempFilename(name string) bool {
	return strings.HasSuffix(name, TempSuffix)
}
