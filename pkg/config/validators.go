package config

// PublicConfig is the subset of the running config that is safe to expose to
// operators over HTTP.
type PublicConfig struct {
	CORSAllowOrigins []string `json:"cors_allow_origins"`
	Hostname         string   `json:"hostname"`
	RequestTimeout   string   `json:"request_timeout"`
	SeedFixturePath  string   `json:"seed_fixture_path"`
	SeedOnStartup    bool     `json:"seed_on_startup"`
	StorageBackend   string   `json:"storage_backend"`
	StorageLocalURL  string   `json:"storage_local_url"`
	Version          string   `json:"version"`
}
