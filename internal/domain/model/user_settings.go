package model

// UserSettings is per-chat configuration, created lazily with defaults on
// first interaction and mutated only via explicit commands. It lives in
// memory for the process lifetime and is lost on restart.
type UserSettings struct {
	ChatID       int64
	OpenAIKey    string
	AnthropicKey string
	Prompt       string
	// InjectLanguage mirrors the /inject toggle: when on, succeeded
	// transcriptions are also published on the injection channel.
	InjectLanguage bool
}

func NewUserSettings(chatID int64) *UserSettings {
	return &UserSettings{ChatID: chatID}
}
