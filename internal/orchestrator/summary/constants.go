package summary

const (
	DefaultModelKey = "mistral"

	Temperature = 0.2
	MaxTokens   = 4096

	userTemplate = "Voici le texte à synthétiser :\n\n%s"

	msgStart = "🧠 Génération du résumé avec %s..."
	msgError = "❌ Erreur IA : %v"
)

// Models maps the client-facing model key to the upstream model id.
var Models = map[string]string{
	"mistral": "mistralai/Mistral-Small-3.2-24B-Instruct-2506",
	"gpt":     "openai/gpt-oss-120b",
}
