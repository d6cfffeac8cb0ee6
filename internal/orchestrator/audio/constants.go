package audio

// Compression settings
const (
	// DefaultThresholdBytes is the size above which uploads are re-encoded (15 MiB).
	DefaultThresholdBytes = 15 * 1024 * 1024

	DefaultFFmpegPath = "ffmpeg"

	// CompressedSuffix replaces the upload's extension on the re-encoded sibling.
	CompressedSuffix = ".small.mp3"

	audioCodec    = "libmp3lame"
	audioBitrate  = "32k"
	audioChannels = "1"
	audioRate     = "32000"
)
