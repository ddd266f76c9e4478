package modrinth

import "encoding/json"

// DecodeReleaseForTest exports decodeRelease for testing purposes.
func DecodeReleaseForTest(raw string) (string, error) {
	r, err := decodeRelease(json.RawMessage(raw))
	return r.ID, err
}
