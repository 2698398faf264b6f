package config

type AI string

const (
	AIGemini AI = "gemini"
	AIOpenAI AI = "openai"
)

type Model string

const (
	ModelGeminiV25Pro       Model = "gemini-2.5-pro"
	ModelGeminiV25Flash     Model = "gemini-2.5-flash"
	ModelGeminiV25FlashLite Model = "gemini-2.5-flash-lite"

	ModelGPTV4oMini Model = "gpt-4o-mini"
	ModelGPTV4o     Model = "gpt-4o"
	ModelGPTV41     Model = "gpt-4.1"
	ModelGPTV41Mini Model = "gpt-4.1-mini"
)

func SupportedAIs() []AI {
	return []AI{
		AIOpenAI,
		AIGemini,
	}
}

// IsSupportedAI reports whether a judgment provider exists for ai.
func IsSupportedAI(ai AI) bool {
	for _, s := range SupportedAIs() {
		if s == ai {
			return true
		}
	}
	return false
}

func ModelsForAI(ai AI) []Model {
	switch ai {
	case AIOpenAI:
		return []Model{
			ModelGPTV4oMini,
			ModelGPTV4o,
			ModelGPTV41,
			ModelGPTV41Mini,
		}
	case AIGemini:
		return []Model{
			ModelGeminiV25Flash,
			ModelGeminiV25Pro,
			ModelGeminiV25FlashLite,
		}
	default:
		return []Model{}
	}
}

func DefaultModelForAI(ai AI) Model {
	models := ModelsForAI(ai)
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

// apiKeyFallbacks lists provider-specific variables consulted when
// DOCDRIFT_AI_API_KEY is unset.
func apiKeyFallbacks(ai AI) []string {
	switch ai {
	case AIOpenAI:
		return []string{"OPENAI_API_KEY"}
	case AIGemini:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	default:
		return nil
	}
}
