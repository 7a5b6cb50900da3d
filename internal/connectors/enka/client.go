package enka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
	"github.com/gachadex/catalogsync/internal/logger"
)

const (
	// DefaultBaseURL serves the community-maintained store files.
	DefaultBaseURL = "https://raw.githubusercontent.com/EnkaNetwork/API-docs/master/store"

	// UIBaseURL serves character and profile picture icons.
	UIBaseURL = "https://enka.network/ui"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RequestRate is the proactive throttle for store requests per second.
	RequestRate = 5
)

// quality maps QualityType values to star counts.
var quality = map[string]int{
	"QUALITY_ORANGE":    5,
	"QUALITY_ORANGE_SP": 5,
	"QUALITY_PURPLE":    4,
	"QUALITY_BLUE":      3,
	"QUALITY_GREEN":     2,
	"QUALITY_WHITE":     1,
}

// Ensure Client implements the interface.
var _ driven.CatalogSource = (*Client)(nil)

// Client fetches catalog metadata from an Enka-style store.
type Client struct {
	baseURL string
	locales []string
	http    *http.Client
	limiter *rate.Limiter

	mu  sync.Mutex
	loc localisation
}

// NewClient creates a catalog source. An empty baseURL uses DefaultBaseURL;
// a nil httpClient uses a default client.
func NewClient(baseURL string, locales []string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		locales: locales,
		http:    httpClient,
		limiter: rate.NewLimiter(RequestRate, RequestRate),
	}
}

// Characters returns all playable characters sorted by ID.
func (c *Client) Characters(ctx context.Context) ([]domain.SourceCharacter, error) {
	var raw map[string]characterEntry
	if err := c.getJSON(ctx, "characters.json", &raw); err != nil {
		return nil, err
	}
	loc, err := c.localisation(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SourceCharacter, 0, len(raw))
	for key, entry := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			logger.Debug("Skipping character variant %s", key)
			continue
		}
		iconName := strings.Replace(entry.SideIconName, "_Side_", "_", 1)
		out = append(out, domain.SourceCharacter{
			ID:         id,
			Code:       lastSegment(iconName),
			IconName:   iconName,
			IconURL:    UIURL(iconName),
			Element:    entry.Element,
			Stars:      quality[entry.QualityType],
			WeaponType: entry.WeaponType,
			Names:      c.names(loc, entry.NameTextMapHash),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Weapons returns all weapons sorted by ID.
func (c *Client) Weapons(ctx context.Context) ([]domain.SourceWeapon, error) {
	var raw map[string]weaponEntry
	if err := c.getJSON(ctx, "weapons.json", &raw); err != nil {
		return nil, err
	}
	loc, err := c.localisation(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SourceWeapon, 0, len(raw))
	for key, entry := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			logger.Debug("Skipping weapon %s: non-numeric id", key)
			continue
		}
		out = append(out, domain.SourceWeapon{
			ID:         id,
			Code:       weaponCode(entry.AwakenIcon),
			Stars:      entry.RankLevel,
			WeaponType: entry.WeaponType,
			AwakenIcon: entry.AwakenIcon,
			Names:      c.names(loc, entry.NameTextMapHash),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ProfilePictures returns all profile pictures sorted by ID.
func (c *Client) ProfilePictures(ctx context.Context) ([]domain.ProfilePicture, error) {
	var raw map[string]pfpEntry
	if err := c.getJSON(ctx, "pfps.json", &raw); err != nil {
		return nil, err
	}

	out := make([]domain.ProfilePicture, 0, len(raw))
	for key, entry := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || entry.IconPath == "" {
			continue
		}
		out = append(out, domain.ProfilePicture{ID: id, IconPath: entry.IconPath})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UIURL returns the icon URL for an asset name.
func UIURL(name string) string {
	return fmt.Sprintf("%s/%s.png", UIBaseURL, name)
}

// localisation fetches loc.json once per client.
func (c *Client) localisation(ctx context.Context) (localisation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loc != nil {
		return c.loc, nil
	}

	var loc localisation
	if err := c.getJSON(ctx, "loc.json", &loc); err != nil {
		return nil, err
	}
	c.loc = loc
	return loc, nil
}

// names resolves a text hash in every configured locale.
func (c *Client) names(loc localisation, hash int64) map[string]string {
	key := strconv.FormatInt(hash, 10)
	names := make(map[string]string, len(c.locales))
	for _, locale := range c.locales {
		if text, ok := loc[locale][key]; ok {
			names[locale] = text
		}
	}
	return names
}

// getJSON fetches and decodes one store document.
func (c *Client) getJSON(ctx context.Context, name string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	url := c.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("fetching %s: %w", name, domain.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetching %s: status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// lastSegment returns the text after the final underscore.
func lastSegment(name string) string {
	if i := strings.LastIndex(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// weaponCode derives the internal weapon name from its awaken icon,
// e.g. "UI_EquipIcon_Sword_Falcon_Awaken" -> "Sword_Falcon".
func weaponCode(awakenIcon string) string {
	code := strings.TrimPrefix(awakenIcon, "UI_EquipIcon_")
	return strings.TrimSuffix(code, "_Awaken")
}
