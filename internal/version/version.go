package version

// Version is the current release of matechangelog. Release builds override
// it with -ldflags "-X github.com/thomas-vilte/matechangelog/internal/version.Version=...".
var Version = "0.1.0"

// FullVersion returns the version with its v prefix.
func FullVersion() string {
	return "v" + Version
}
