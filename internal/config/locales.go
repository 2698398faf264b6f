package config

const (
	LangEN = "en"
	LangES = "es"
)

// GetLocaleConfig maps a requested language to a supported one, falling back
// to English.
func GetLocaleConfig(lang string) string {
	switch lang {
	case LangES:
		return LangES
	default:
		return LangEN
	}
}
