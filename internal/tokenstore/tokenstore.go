// Package tokenstore отвечает за постоянное хранение пары токенов сессии.
//
// Хранилище — единственное разделяемое состояние клиента: токены читаются
// перед каждым запросом и записываются только при входе, регистрации и выходе.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Store описывает контракт хранилища токенов.
// Отсутствие access-токена означает неаутентифицированное состояние;
// наличие токена не гарантирует его валидность — это решает бэкенд.
type Store interface {
	Save(pair model.TokenPair) error
	Load() (model.TokenPair, bool)
	Clear() error
}

const tokenFileName = "tokens.json"

// DefaultPath возвращает путь файла токенов в каталоге конфигурации пользователя.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "poikatsu", tokenFileName), nil
}

// FileStore хранит пару токенов в JSON-файле с правами 0600.
type FileStore struct {
	path string
}

// NewFileStore создаёт файловое хранилище токенов по указанному пути.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type tokenFile struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Save записывает оба токена в файл.
func (s *FileStore) Save(pair model.TokenPair) error {
	data, err := json.Marshal(tokenFile{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Load читает сохранённую пару токенов.
// Любая ошибка чтения или разбора трактуется как отсутствие токенов.
func (s *FileStore) Load() (model.TokenPair, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.TokenPair{}, false
	}

	var f tokenFile
	if err := json.Unmarshal(data, &f); err != nil {
		return model.TokenPair{}, false
	}

	if f.AccessToken == "" {
		return model.TokenPair{}, false
	}

	return model.TokenPair{
		AccessToken:  f.AccessToken,
		RefreshToken: f.RefreshToken,
	}, true
}

// Clear удаляет файл с токенами.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemStore хранит пару токенов в памяти. Используется в тестах.
type MemStore struct {
	pair model.TokenPair
	ok   bool
}

// NewMemStore создаёт пустое хранилище токенов в памяти.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Save запоминает пару токенов.
func (s *MemStore) Save(pair model.TokenPair) error {
	s.pair = pair
	s.ok = pair.AccessToken != ""
	return nil
}

// Load возвращает сохранённую пару токенов.
func (s *MemStore) Load() (model.TokenPair, bool) {
	return s.pair, s.ok
}

// Clear удаляет сохранённые токены.
func (s *MemStore) Clear() error {
	s.pair = model.TokenPair{}
	s.ok = false
	return nil
}
