package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/mkossman/noted-cli/internal/domain"
	"github.com/mkossman/noted-cli/internal/ports"
)

const (
	configName      = "config"
	configType      = "toml"
	envPrefix       = "NOTED"
	sessionPathKey  = "session.path"
	sessionFileMode = 0o600
	sessionDirMode  = 0o700
	configDirName   = ".noted"
	sessionFileName = "session.toml"
	tempFilePattern = ".session-*.toml.tmp"
)

// Store keeps the bearer token and API base URL in a TOML file under the
// user's home directory. Writes go through a temp file and rename so a
// crash never leaves a half-written session behind.
type Store struct {
	sessionPath string
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionStore = (*Store)(nil)

// NewStore resolves the session file path from config (session.path in
// ~/.noted/config.toml) with a home-relative default.
func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDirName, sessionFileName)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetDefault(sessionPathKey, defaultPath)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	sessionPath := cfg.GetString(sessionPathKey)
	if sessionPath == "" {
		return nil, errors.New("session path is empty")
	}

	return NewStoreAt(sessionPath), nil
}

// NewStoreAt opens a store on an explicit file path. Two handles on the same
// path share a lock, so concurrent mutations serialize.
func NewStoreAt(path string) *Store {
	cleaned := filepath.Clean(path)
	return &Store{sessionPath: cleaned, mu: lockForPath(cleaned)}
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (s *Store) Token(ctx context.Context) (string, error) {
	file, err := s.read(ctx)
	if err != nil {
		return "", err
	}
	return file.Token, nil
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.update(ctx, func(file *fileSchema) {
		file.Token = token
	})
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.update(ctx, func(file *fileSchema) {
		file.Token = ""
	})
}

func (s *Store) BaseURL(ctx context.Context) (string, error) {
	file, err := s.read(ctx)
	if err != nil {
		return "", err
	}
	return file.BaseURL, nil
}

// SetBaseURL normalizes the URL (scheme check, trailing slashes stripped)
// before persisting it.
func (s *Store) SetBaseURL(ctx context.Context, baseURL string) error {
	normalized, err := domain.NormalizeBaseURL(baseURL)
	if err != nil {
		return err
	}

	return s.update(ctx, func(file *fileSchema) {
		file.BaseURL = normalized
	})
}

func (s *Store) ClearBaseURL(ctx context.Context) error {
	return s.update(ctx, func(file *fileSchema) {
		file.BaseURL = ""
	})
}

func (s *Store) read(ctx context.Context) (fileSchema, error) {
	if err := ctx.Err(); err != nil {
		return fileSchema{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readSchema()
}

func (s *Store) update(ctx context.Context, apply func(*fileSchema)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	apply(&file)

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.writeSchema(file)
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.sessionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read session file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode session file: %w", err)
	}
	file.applyDefaults()

	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.sessionPath), sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.sessionPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, s.sessionPath); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.sessionPath, sessionFileMode); err != nil {
		return fmt.Errorf("chmod session file: %w", err)
	}

	return nil
}
