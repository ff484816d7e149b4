// Package secrets resolves the LinkedIn credentials from the environment or
// the OS keychain. Nothing outside this package and the session manager ever
// sees the password.
package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/config"
	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

// KeyringService groups this tool's secrets in the OS keychain.
const KeyringService = "linkedin-scraper"

const (
	EnvUsername = "LINKEDIN_USERNAME"
	EnvPassword = "LINKEDIN_PASSWORD"
)

// ErrNoCredentials is returned when no source yields a usable pair.
var ErrNoCredentials = errors.New("linkedin credentials not found (set LINKEDIN_USERNAME/LINKEDIN_PASSWORD, store them with 'scraper credentials set', or put username in the config)")

// Resolve finds the credentials, preferring environment variables, then the
// keychain entry for the configured username, then the config file itself.
func Resolve(cfg config.Config) (models.Credentials, error) {
	username := strings.TrimSpace(os.Getenv(EnvUsername))
	if username == "" {
		username = strings.TrimSpace(cfg.Username)
	}
	if username == "" {
		return models.Credentials{}, ErrNoCredentials
	}

	if pw := os.Getenv(EnvPassword); strings.TrimSpace(pw) != "" {
		return models.Credentials{Username: username, Password: pw}, nil
	}

	if pw, err := keyring.Get(KeyringService, username); err == nil && strings.TrimSpace(pw) != "" {
		return models.Credentials{Username: username, Password: pw}, nil
	}

	if strings.TrimSpace(cfg.Password) != "" {
		return models.Credentials{Username: username, Password: cfg.Password}, nil
	}

	return models.Credentials{}, ErrNoCredentials
}

// SetPassword stores a password in the keychain for the given account.
func SetPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

// DeletePassword removes the keychain entry for the given account.
func DeletePassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
