package repository

import "telegram-media-bots/internal/domain/model"

// SettingsStore holds per-chat settings for the process lifetime.
// Get returns a copy; mutations go through Update so concurrent chats
// never share a settings pointer.
type SettingsStore interface {
	Get(chatID int64) (model.UserSettings, bool)
	// GetOrCreate returns existing settings or stores fresh defaults,
	// reporting whether the entry already existed.
	GetOrCreate(chatID int64) (model.UserSettings, bool)
	Update(chatID int64, fn func(*model.UserSettings))
}
