package orchestrator

// Orchestrator configuration constants
const (
	DefaultLanguage = "fr"
	DefaultModelKey = "mistral"

	// tempPrefix names saved uploads: <tempdir>/temp_<uuid><ext>.
	tempPrefix = "temp_"
)

// Progress lines and client-facing messages
const (
	msgRawText     = "📝 Texte brut reçu directement."
	msgDone        = "🚀 Traitement terminé ! Affichage du résultat..."
	msgServerError = "❌ ERREUR SERVEUR : %v"

	MsgMissingAudio = "Aucun fichier audio fourni."
	MsgMissingText  = "Aucun texte fourni."
	MsgStarted      = "Traitement démarré."
	StatusStarted   = "started"
)
