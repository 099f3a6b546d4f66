package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/stellarshank/gdrive-mcp/internal/logging"
)

// File and directory permissions for the token file. Tokens are secrets;
// restrict to owner-only access.
const (
	tokenFilePerms = 0o600
	tokenDirPerms  = 0o700
)

// Store persists a single OAuth2 token across process restarts.
type Store interface {
	// Load returns the stored token, or ok=false if no usable token is
	// persisted. A missing or undecodable file is reported as absent,
	// never as an error, so that it triggers re-authorization.
	Load() (token *oauth2.Token, ok bool)

	// Save overwrites the persisted token.
	Save(token *oauth2.Token) error
}

// FileStore persists the token as JSON at a fixed file path.
// Single-process, last-writer-wins; no locking.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a token store backed by the given file path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the token file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the token file. A missing or corrupt file is treated as no
// token being present.
func (s *FileStore) Load() (*oauth2.Token, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read token file, treating as absent",
				logging.Path(s.path),
				logging.Err(err))
		}
		return nil, false
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		s.logger.Warn("failed to decode token file, treating as absent",
			logging.Path(s.path),
			logging.Err(err))
		return nil, false
	}

	if tok.AccessToken == "" && tok.RefreshToken == "" {
		s.logger.Warn("token file contains no tokens, treating as absent",
			logging.Path(s.path))
		return nil, false
	}

	return &tok, true
}

// Save writes the token atomically: temp file in the same directory with
// 0600 permissions, fsync, then rename. A crash mid-write cannot leave a
// truncated token file at the final path.
func (s *FileStore) Save(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, tokenDirPerms); err != nil {
		return fmt.Errorf("failed to create token directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, tokenFilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set token file permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync token file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close token file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename token file into place: %w", err)
	}
	success = true

	s.logger.Debug("persisted token", logging.Path(s.path))
	return nil
}
