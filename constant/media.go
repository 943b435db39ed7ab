package constant

import "time"

// Output container - every downloaded item is transcoded to this format.
const (
	AudioFormat  = "mp3"
	AudioQuality = "320K"
	Extension    = "." + AudioFormat
)

// Engine defaults mirror the options bundle handed to yt-dlp.
const (
	FormatSelector   = "bestaudio[abr>=320]/bestaudio"
	OutputTemplate   = "%(title)s [%(id)s].%(ext)s"
	LedgerFilename   = "downloaded.txt"
	CookieFilename   = "soundcloud_cookies.txt"
	LockFilename     = "." + Tapedeck + ".lock"
	MinEngineVersion = "2024.1.0"
	FFmpegBinary     = "ffmpeg"
)

// Tag fallbacks.
const (
	AlbumLabel    = "SoundCloud Playlist"
	UnknownArtist = "Unknown Artist"
	UnknownID     = "unknown"
	CoverDesc     = "Cover"
)

// ArtworkTimeout bounds the single artwork request made per item.
const ArtworkTimeout = 10 * time.Second
