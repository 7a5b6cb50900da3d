package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyGitHubToken        = "github.token"
	keyGitHubUser         = "github.user"
	keyGitHubRepo         = "github.repo"
	keyGitHubBranch       = "github.branch"
	keyStoreDriver        = "store.driver"
	keyStoreURI           = "store.uri"
	keyStorePath          = "store.path"
	keyStoreDatabase      = "store.database"
	keySourceURL          = "source.url"
	keySourceLocales      = "source.locales"
	keyPathCharacters     = "paths.characters"
	keyPathWeapons        = "paths.weapons"
	keyPathAvatars        = "paths.avatars"
	keyImageConcurrency   = "images.concurrency"
	keyExcludedCharacters = "exclude.characters"
	keyExcludedWeapons    = "exclude.weapons"
)

// Environment variables overriding the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvGitHubUser  = "GITHUB_USER"
	EnvRepoName    = "REPO_NAME"
	EnvBranch      = "BRANCH"
	EnvDBURL       = "DB_URL"
	EnvDBName      = "DB_NAME"
	EnvStoreDriver = "STORE_DRIVER"
	EnvStorePath   = "STORE_PATH"
	EnvSourceURL   = "SOURCE_URL"
)

// DefaultExcludedWeapons lists weapon IDs never ingested: unreleased,
// quest-only and duplicate entries.
var DefaultExcludedWeapons = []int{11419, 11420, 11421, 11429, 12304, 13304, 14306, 15306}

// DefaultLocales are the name locales written to catalog entries.
var DefaultLocales = []string{"en", "ru"}

// DefaultSettings returns settings with no file or environment applied.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		Store: domain.StoreSettings{Driver: domain.StoreDriverMongo},
		Paths: domain.PathSettings{
			Characters: "characters.json",
			Weapons:    "weapons.json",
			Avatars:    "avatars.json",
		},
		Locales:          append([]string(nil), DefaultLocales...),
		ImageConcurrency: DefaultImageConcurrency,
		ExcludedWeapons:  append([]int(nil), DefaultExcludedWeapons...),
	}
}

// SettingsService resolves runtime settings from the config store and the
// environment. Environment values take precedence over the file.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a settings service. A nil getenv reads the
// process environment.
func NewSettingsService(configStore driven.ConfigStore, getenv func(string) string) *SettingsService {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &SettingsService{
		configStore: configStore,
		getenv:      getenv,
	}
}

// LoadSettings resolves settings from configStore and the process environment.
func LoadSettings(configStore driven.ConfigStore) (domain.Settings, error) {
	return NewSettingsService(configStore, nil).Get()
}

// Get resolves the current settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := DefaultSettings()

	locales, err := ParseLocales(s.getStringSlice(keySourceLocales, defaults.Locales))
	if err != nil {
		return domain.Settings{}, err
	}

	settings := domain.Settings{
		GitHub: domain.GitHubSettings{
			Token:  s.resolve(EnvGitHubToken, keyGitHubToken, ""),
			User:   s.resolve(EnvGitHubUser, keyGitHubUser, ""),
			Repo:   s.resolve(EnvRepoName, keyGitHubRepo, ""),
			Branch: s.resolve(EnvBranch, keyGitHubBranch, ""),
		},
		Store: domain.StoreSettings{
			Driver:   domain.StoreDriver(strings.ToLower(s.resolve(EnvStoreDriver, keyStoreDriver, string(defaults.Store.Driver)))),
			URI:      s.resolve(EnvDBURL, keyStoreURI, ""),
			Path:     s.resolve(EnvStorePath, keyStorePath, ""),
			Database: s.resolve(EnvDBName, keyStoreDatabase, ""),
		},
		Paths: domain.PathSettings{
			Characters: s.getString(keyPathCharacters, defaults.Paths.Characters),
			Weapons:    s.getString(keyPathWeapons, defaults.Paths.Weapons),
			Avatars:    s.getString(keyPathAvatars, defaults.Paths.Avatars),
		},
		SourceURL:          s.resolve(EnvSourceURL, keySourceURL, ""),
		Locales:            locales,
		ImageConcurrency:   s.getInt(keyImageConcurrency, defaults.ImageConcurrency),
		ExcludedCharacters: s.getIntSlice(keyExcludedCharacters, defaults.ExcludedCharacters),
		ExcludedWeapons:    s.getIntSlice(keyExcludedWeapons, defaults.ExcludedWeapons),
	}

	if !settings.Store.Driver.IsValid() {
		return domain.Settings{}, fmt.Errorf("%w: store driver %q", domain.ErrUnsupportedType, settings.Store.Driver)
	}
	return settings, nil
}

// ValidateForRefresh checks the settings needed by ingestion runs.
// The GitHub target is required even without uploads because it forms the
// public image URLs.
func ValidateForRefresh(settings domain.Settings) error {
	return settings.GitHub.Validate()
}

// ValidateForSync checks the settings needed by reconciliation runs.
func ValidateForSync(settings domain.Settings) error {
	return settings.Store.Validate()
}

// ParseLocales canonicalises BCP 47 locale tags, e.g. "EN" -> "en".
// Duplicates are dropped; order is preserved.
func ParseLocales(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	locales := make([]string, 0, len(raw))
	for _, r := range raw {
		tag, err := language.Parse(strings.TrimSpace(r))
		if err != nil {
			return nil, fmt.Errorf("%w: locale %q: %w", domain.ErrInvalidInput, r, err)
		}
		name := tag.String()
		if seen[name] {
			continue
		}
		seen[name] = true
		locales = append(locales, name)
	}
	return locales, nil
}

// configValueKind is the type a config key is stored as.
type configValueKind int

const (
	kindString configValueKind = iota
	kindInt
	kindIntList
	kindStringList
)

var configKeys = map[string]configValueKind{
	keyGitHubToken:        kindString,
	keyGitHubUser:         kindString,
	keyGitHubRepo:         kindString,
	keyGitHubBranch:       kindString,
	keyStoreDriver:        kindString,
	keyStoreURI:           kindString,
	keyStorePath:          kindString,
	keyStoreDatabase:      kindString,
	keySourceURL:          kindString,
	keySourceLocales:      kindStringList,
	keyPathCharacters:     kindString,
	keyPathWeapons:        kindString,
	keyPathAvatars:        kindString,
	keyImageConcurrency:   kindInt,
	keyExcludedCharacters: kindIntList,
	keyExcludedWeapons:    kindIntList,
}

// ConfigKeys returns every key the config file understands, sorted.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseConfigValue converts a command-line value into the form stored
// under key. Lists are comma-separated; an empty list value clears the list.
func ParseConfigValue(key, raw string) (any, error) {
	kind, ok := configKeys[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	raw = strings.TrimSpace(raw)

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		return n, nil

	case kindIntList:
		ids := []int{}
		for _, part := range splitList(raw) {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %q is not an ID", domain.ErrInvalidInput, key, part)
			}
			ids = append(ids, n)
		}
		return ids, nil

	case kindStringList:
		parts := splitList(raw)
		if key != keySourceLocales {
			return parts, nil
		}
		locales, err := ParseLocales(parts)
		if err != nil {
			return nil, err
		}
		return locales, nil

	default:
		if key == keyStoreDriver {
			driver := domain.StoreDriver(strings.ToLower(raw))
			if !driver.IsValid() {
				return nil, fmt.Errorf("%w: store driver %q", domain.ErrUnsupportedType, raw)
			}
			return string(driver), nil
		}
		return raw, nil
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resolve returns the environment value, then the config value, then the default.
func (s *SettingsService) resolve(env, key, defaultVal string) string {
	if val := s.getenv(env); val != "" {
		return val
	}
	return s.getString(key, defaultVal)
}

// getString returns a config string or default if not set.
func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt returns a config int or default if not set.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

// getIntSlice returns a config int slice or default if not set.
// An explicitly empty list clears the default.
func (s *SettingsService) getIntSlice(key string, defaultVal []int) []int {
	if _, exists := s.configStore.Get(key); exists {
		return s.configStore.GetIntSlice(key)
	}
	return defaultVal
}

// getStringSlice returns a config string slice or default if not set.
func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if val := s.configStore.GetStringSlice(key); len(val) > 0 {
		return val
	}
	return defaultVal
}
