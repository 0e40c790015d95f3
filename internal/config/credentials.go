package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// Credentials is the persisted local-credentials file. Only project_id is
// required; the remaining fields override driver connection settings.
type Credentials struct {
	ProjectID string `json:"project_id"`
	DSN       string `json:"dsn,omitempty"`
	URL       string `json:"url,omitempty"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`

	// Path is the file the credentials were read from.
	Path string `json:"-"`
}

// ResolveCredentials locates and loads the credentials file for cfg.
// The search starts at cfg.SearchDir, or the executable's directory when unset.
// Every failure wraps domain.ErrConfigurationMissing.
func ResolveCredentials(cfg StoreConfig) (*Credentials, error) {
	start := cfg.SearchDir
	if start == "" {
		dir, err := executableDir()
		if err != nil {
			return nil, fmt.Errorf("%w: executable dir: %v", domain.ErrConfigurationMissing, err)
		}
		start = dir
	}

	path, err := LocateCredentials(start, cfg.CredentialsFile, cfg.SearchDepth)
	if err != nil {
		return nil, err
	}
	return LoadCredentials(path)
}

// LocateCredentials looks for fileName in startDir and then in up to maxDepth
// parent directories, nearest first.
func LocateCredentials(startDir, fileName string, maxDepth int) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrConfigurationMissing, err)
	}

	for level := 0; level <= maxDepth; level++ {
		candidate := filepath.Join(dir, fileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: %s not found within %d levels of %s",
		domain.ErrConfigurationMissing, fileName, maxDepth, startDir)
}

// LoadCredentials reads and validates the credentials file at path.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrConfigurationMissing, path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrConfigurationMissing, path, err)
	}
	if strings.TrimSpace(creds.ProjectID) == "" {
		return nil, fmt.Errorf("%w: %s: project_id is required", domain.ErrConfigurationMissing, path)
	}

	creds.Path = path
	return &creds, nil
}

// Apply overrides the driver connection settings in cfg with any values
// present in the credentials.
func (c *Credentials) Apply(cfg *Config) {
	if c.DSN != "" {
		cfg.Database.DSN = c.DSN
	}
	if c.URL != "" {
		cfg.Surreal.URL = c.URL
	}
	if c.Username != "" {
		cfg.Surreal.Username = c.Username
	}
	if c.Password != "" {
		cfg.Surreal.Password = c.Password
	}
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
