package config

import "github.com/marqueehq/marquee/pkg/version"

type Service struct {
	config *Config
}

func NewService(cfg *Config) *Service {
	return &Service{config: cfg}
}

func (s *Service) RetrievePublicConfig() *PublicConfig {
	return &PublicConfig{
		CORSAllowOrigins: s.config.CORSAllowOrigins,
		Hostname:         s.config.Hostname,
		RequestTimeout:   s.config.RequestTimeout.String(),
		SeedFixturePath:  s.config.SeedFixturePath,
		SeedOnStartup:    s.config.SeedOnStartup,
		StorageBackend:   s.config.StorageBackend,
		StorageLocalURL:  s.config.StorageLocalURL,
		Version:          version.Version,
	}
}
