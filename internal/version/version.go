package version

var (
	// Version is the release version, set with -ldflags at build time.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
)
