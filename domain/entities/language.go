package entities

import "fmt"

// LanguageConfig describes a target language the tutor can teach.
type LanguageConfig struct {
	Name           string `json:"name"`
	Code           string `json:"code"`         // ISO 639-1
	WhisperCode    string `json:"whisper_code"` // speech recognition language hint
	DeepLCode      string `json:"deepl_code"`
	VoiceID        string `json:"voice_id"` // ElevenLabs voice
	TutorName      string `json:"tutor_name"`
	WelcomeMessage string `json:"welcome_message"`
}

// MotherTongueConfig describes a native language used for explanations
// and as a translation target.
type MotherTongueConfig struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	DeepLCode string `json:"deepl_code"`
}

const (
	DefaultTargetLanguage = "spanish"
	DefaultMotherTongue   = "english"
)

// SupportedLanguages maps language keys to target language configurations.
var SupportedLanguages = map[string]LanguageConfig{
	"spanish": {
		Name:           "Spanish",
		Code:           "es",
		WhisperCode:    "es",
		DeepLCode:      "ES",
		VoiceID:        "21m00Tcm4TlvDq8ikWAM", // Rachel
		TutorName:      "Profesor",
		WelcomeMessage: "¡Hola! Soy tu tutor de español. Haz clic en el micrófono para hablar, o escribe tu mensaje. ¡Vamos a practicar!",
	},
	"french": {
		Name:           "French",
		Code:           "fr",
		WhisperCode:    "fr",
		DeepLCode:      "FR",
		VoiceID:        "EXAVITQu4vr4xnSDxMaL", // Bella
		TutorName:      "Professeur",
		WelcomeMessage: "Bonjour! Je suis votre tuteur de français. Cliquez sur le microphone pour parler, ou écrivez votre message. Pratiquons ensemble!",
	},
	"german": {
		Name:           "German",
		Code:           "de",
		WhisperCode:    "de",
		DeepLCode:      "DE",
		VoiceID:        "pNInz6obpgDQGcFmaJgB", // Adam
		TutorName:      "Lehrer",
		WelcomeMessage: "Hallo! Ich bin dein Deutschlehrer. Klicke auf das Mikrofon zum Sprechen oder schreibe deine Nachricht. Lass uns üben!",
	},
	"italian": {
		Name:           "Italian",
		Code:           "it",
		WhisperCode:    "it",
		DeepLCode:      "IT",
		VoiceID:        "yoZ06aMxZJJ28mfd3POQ", // Sam
		TutorName:      "Insegnante",
		WelcomeMessage: "Ciao! Sono il tuo insegnante di italiano. Clicca sul microfono per parlare, o scrivi il tuo messaggio. Pratichiamo!",
	},
	"portuguese": {
		Name:           "Portuguese",
		Code:           "pt",
		WhisperCode:    "pt",
		DeepLCode:      "PT-PT",
		VoiceID:        "jsCqWAovK2LkecY7zXl4", // Fin
		TutorName:      "Professor",
		WelcomeMessage: "Olá! Sou o seu professor de português. Clique no microfone para falar, ou escreva a sua mensagem. Vamos praticar!",
	},
}

// MotherTongues maps language keys to native language configurations.
var MotherTongues = map[string]MotherTongueConfig{
	"english": {Name: "English", Code: "en", DeepLCode: "EN-US"},
	"spanish": {Name: "Spanish", Code: "es", DeepLCode: "ES"},
	"french":  {Name: "French", Code: "fr", DeepLCode: "FR"},
	"german":  {Name: "German", Code: "de", DeepLCode: "DE"},
	"polish":  {Name: "Polish", Code: "pl", DeepLCode: "PL"},
}

// TargetLanguage resolves a language key, falling back to the default
// when the key is unknown.
func TargetLanguage(key string) LanguageConfig {
	if cfg, ok := SupportedLanguages[key]; ok {
		return cfg
	}
	return SupportedLanguages[DefaultTargetLanguage]
}

// MotherTongue resolves a mother tongue key, falling back to the default
// when the key is unknown.
func MotherTongue(key string) MotherTongueConfig {
	if cfg, ok := MotherTongues[key]; ok {
		return cfg
	}
	return MotherTongues[DefaultMotherTongue]
}

// SystemPrompt generates the tutor system prompt for a target language and
// mother tongue pair. Unknown keys fall back to the defaults.
func SystemPrompt(targetKey, motherKey string) string {
	target := TargetLanguage(targetKey)
	mother := MotherTongue(motherKey)

	return fmt.Sprintf(`You are a patient and encouraging %[1]s tutor.
Your student is learning %[1]s and speaks slowly, so give them time and be supportive.
The student's native language is %[2]s.

Guidelines:
- Respond in %[1]s at an appropriate level for the learner
- Correct mistakes gently and explain why (you can use %[2]s for complex explanations if needed)
- Encourage the student to keep practicing
- Use simple vocabulary and grammar initially
- Ask follow-up questions to keep the conversation going
- Be patient and supportive
- Adapt your responses to match the student's proficiency level`, target.Name, mother.Name)
}
