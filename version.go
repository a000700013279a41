package localink

// Version information for localink.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/sumeshkk123/localink.Version=1.0.0"
const (
	// Name is the application name.
	Name = "localink"

	// Description is a short description of the application.
	Description = "Content identity linking and translation synchronization engine"

	// Version is the semantic version of the application.
	// Override at build time with ldflags for releases.
	Version = "0.1.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/sumeshkk123/localink"

	// License is the software license.
	License = "MIT"
)

// BuildInfo contains build-time information.
// These are typically set via ldflags during build.
var (
	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)
