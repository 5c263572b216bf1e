// Package settings keeps user settings loaded at start and written through on every change.
package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/umputun/distiller/pkg/domain"
)

// Backend is a key/value persistence port
type Backend interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Store holds current settings, backed by persistent storage
type Store struct {
	backend     Backend
	fallbackKey string

	mu          sync.RWMutex
	settings    domain.Settings
	onKeyChange func(key string)
}

// Load reads settings from the backend, substituting defaults for missing or empty values.
// fallbackKey is used as the API key when none is stored.
func Load(ctx context.Context, backend Backend, fallbackKey string) (*Store, error) {
	vault, err := backend.GetSetting(ctx, domain.SettingVaultName)
	if err != nil {
		return nil, fmt.Errorf("load vault name: %w", err)
	}
	key, err := backend.GetSetting(ctx, domain.SettingAPIKey)
	if err != nil {
		return nil, fmt.Errorf("load api key: %w", err)
	}

	if vault == "" {
		vault = domain.DefaultVaultName
	}

	return &Store{
		backend:     backend,
		fallbackKey: fallbackKey,
		settings:    domain.Settings{VaultName: vault, APIKey: key, DefaultTags: domain.DefaultTags},
	}, nil
}

// Get returns a copy of current settings
func (s *Store) Get() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// VaultName returns the target vault name, the default one if cleared
func (s *Store) VaultName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if strings.TrimSpace(s.settings.VaultName) == "" {
		return domain.DefaultVaultName
	}
	return s.settings.VaultName
}

// APIKey returns the stored key, or the fallback key if nothing is stored
func (s *Store) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if strings.TrimSpace(s.settings.APIKey) != "" {
		return s.settings.APIKey
	}
	return s.fallbackKey
}

// HasStoredAPIKey reports whether a user-provided key is stored
func (s *Store) HasStoredAPIKey() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.APIKey != ""
}

// SetVaultName updates the vault name and writes it through
func (s *Store) SetVaultName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.VaultName = name
	if err := s.backend.SetSetting(ctx, domain.SettingVaultName, name); err != nil {
		return fmt.Errorf("save vault name: %w", err)
	}
	return nil
}

// SetAPIKey updates the API key and writes it through
func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.APIKey = key
	if s.onKeyChange != nil && key != "" {
		s.onKeyChange(key)
	}
	if err := s.backend.SetSetting(ctx, domain.SettingAPIKey, key); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return nil
}

// OnAPIKeyChange registers fn called with every new non-empty API key.
// Calls are serialized, fn must not use the store.
func (s *Store) OnAPIKeyChange(fn func(key string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onKeyChange = fn
}

// SetDefaultTags updates default tags, kept in memory only
func (s *Store) SetDefaultTags(tags string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.DefaultTags = tags
}
