package version

// Version is the application version, set at build time via ldflags:
// go build -ldflags "-X github.com/marqueehq/marquee/pkg/version.Version=1.0.0".
var Version = "dev"
