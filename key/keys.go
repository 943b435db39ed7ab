// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download run - these keys shape a single pipeline invocation.
const (
	DownloadsFolder     = "downloads.folder"
	DownloadsWorkers    = "downloads.workers"
	DownloadsMinBitrate = "downloads.min_bitrate"
	DownloadsArtwork    = "downloads.artwork"
	DownloadsAlbum      = "downloads.album"
)

// Authentication - these keys gate the credentialed retry.
const (
	AuthEnable = "auth.enable"
)

// External tools - these keys locate the extraction engine and the bitrate probe.
const (
	EngineName   = "engine.name"
	EnginePath   = "engine.path"
	EngineFormat = "engine.format"
	ProbePath    = "probe.path"
)

// Artwork - these keys bound the cover fetch.
const (
	ArtworkTimeout = "artwork.timeout"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the command-line behavior.
const (
	CliColored = "cli.colored"
)
