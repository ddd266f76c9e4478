package config

// Modsyncfile represents the structure of the modsync.yaml configuration file.
type Modsyncfile struct {
	Version     string   `yaml:"version"`
	Platform    string   `yaml:"platform"`
	GameVersion string   `yaml:"game_version"`
	Directory   string   `yaml:"directory"`
	Concurrency int      `yaml:"concurrency"`
	Kind        string   `yaml:"kind"`
	Collection  string   `yaml:"collection"`
	Projects    []string `yaml:"projects"`
}
