package modrinth

// versionDTO is one entry of GET /v2/project/{id}/version.
// Slices are pointers so that a missing field can be told apart from an empty one.
type versionDTO struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	VersionNumber string     `json:"version_number"`
	GameVersions  *[]string  `json:"game_versions"`
	Loaders       *[]string  `json:"loaders"`
	Files         *[]fileDTO `json:"files"`
}

type fileDTO struct {
	URL      string    `json:"url"`
	Filename string    `json:"filename"`
	Primary  bool      `json:"primary"`
	Hashes   hashesDTO `json:"hashes"`
	Size     int64     `json:"size"`
}

type hashesDTO struct {
	SHA1   string `json:"sha1"`
	SHA512 string `json:"sha512"`
}

// collectionDTO is the body of GET /v3/collection/{id}.
type collectionDTO struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Projects *[]string `json:"projects"`
}

// projectDTO is the subset of GET /v2/project/{id} the client reads.
type projectDTO struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// gameVersionDTO is one entry of GET /v2/tag/game_version.
type gameVersionDTO struct {
	Version     string `json:"version"`
	VersionType string `json:"version_type"`
	Major       bool   `json:"major"`
}

const versionTypeRelease = "release"
