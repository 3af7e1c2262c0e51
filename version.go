package boba

// Version and BuildDate identify a build. Release builds override them with
// -ldflags "-X github.com/omakase-sh/boba-lang.Version=...".
var (
	Version   = "0.1.0"
	BuildDate = "dev"
)
