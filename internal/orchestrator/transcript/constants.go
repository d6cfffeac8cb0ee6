package transcript

const (
	DefaultModel    = "openai/whisper-large-v3"
	DefaultLanguage = "fr"

	// MaxPromptRunes caps the guidance prompt sent upstream.
	MaxPromptRunes = 1000
	// PreviewRunes is how much of the prompt is echoed to the client.
	PreviewRunes = 50
)

// Progress lines
const (
	msgStart      = "🎙️ Début de la transcription (Langue: %s)..."
	msgCompressed = "🗜️ Compression audio terminée."
	msgPrompt     = "💡 Whisper Prompt utilisé : %s..."
	msgDone       = "✅ Transcription terminée."
)
