package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
)

const (
	// CredentialsEnvVar overrides the location of the OAuth client
	// credentials file when set.
	CredentialsEnvVar = "GDRIVE_MCP_CREDENTIALS"

	// credentialsFileName is the default name of the OAuth client
	// credentials file, looked up next to the executable and in the
	// working directory.
	credentialsFileName = "credentials.json"

	// tokenFileName is the per-user token file in the home directory.
	tokenFileName = ".gdrive_mcp_token.json"
)

// Scopes is the fixed set of OAuth scopes requested during authorization.
// drive.file grants access only to files created or opened by this app.
// A persisted token issued under different scopes will fail on use and
// trigger re-authorization.
var Scopes = []string{drive.DriveFileScope}

// DefaultTokenPath returns the per-user token file path.
func DefaultTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, tokenFileName), nil
}

// ResolveCredentialsPath locates the OAuth client credentials file.
// Lookup order: the GDRIVE_MCP_CREDENTIALS environment variable, the
// directory containing the executable, then the working directory.
// A missing credentials file is a fatal configuration error.
func ResolveCredentialsPath() (string, error) {
	if path := os.Getenv(CredentialsEnvVar); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("credentials file %s (from %s) not accessible: %w", path, CredentialsEnvVar, err)
		}
		return path, nil
	}

	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), credentialsFileName))
	}
	candidates = append(candidates, credentialsFileName)

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("credentials file %s not found; download an OAuth client ID from the Google Cloud Console or set %s", credentialsFileName, CredentialsEnvVar)
}

// LoadOAuthConfig reads an OAuth client credentials file (the JSON blob
// downloaded from the Google Cloud Console) and builds the OAuth2
// configuration with the Drive file scope.
func LoadOAuthConfig(path string) (*oauth2.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	cfg, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	return cfg, nil
}
