// File: internal/infra/memstore/settings.go
package memstore

import (
	"sync"

	"telegram-media-bots/internal/domain/model"
	"telegram-media-bots/internal/domain/ports/repository"
)

var _ repository.SettingsStore = (*SettingsStore)(nil)

// SettingsStore holds per-chat settings in a concurrency-safe map.
// Values are copied in and out; callers never share pointers.
type SettingsStore struct {
	mu sync.RWMutex
	m  map[int64]model.UserSettings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{m: make(map[int64]model.UserSettings)}
}

func (s *SettingsStore) Get(chatID int64) (model.UserSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	us, ok := s.m[chatID]
	return us, ok
}

func (s *SettingsStore) GetOrCreate(chatID int64) (model.UserSettings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if us, ok := s.m[chatID]; ok {
		return us, true
	}
	us := *model.NewUserSettings(chatID)
	s.m[chatID] = us
	return us, false
}

func (s *SettingsStore) Update(chatID int64, fn func(*model.UserSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	us, ok := s.m[chatID]
	if !ok {
		us = *model.NewUserSettings(chatID)
	}
	fn(&us)
	s.m[chatID] = us
}
