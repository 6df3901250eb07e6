package version

// Version is the release identifier, overridden at build time via
// -ldflags "-X .../internal/version.Version=...".
var Version = "dev"
