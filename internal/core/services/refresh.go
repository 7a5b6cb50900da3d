package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
	"github.com/gachadex/catalogsync/internal/core/ports/driving"
	"github.com/gachadex/catalogsync/internal/logger"
)

// Ensure Refresher implements the interface.
var _ driving.Refresher = (*Refresher)(nil)

// Image hosts used by the ingestion pipelines.
const (
	GachaImageBaseURL  = "https://gensh.honeyhunterworld.com/img"
	WeaponImageBaseURL = "https://api.hakush.in/gi/UI"
	AvatarImageBaseURL = "https://enka.network/ui"
)

// Refresh kinds reported in RefreshResult.
const (
	KindCharacters = "characters"
	KindWeapons    = "weapons"
	KindAvatars    = "avatars"
)

// DefaultImageConcurrency bounds parallel per-entry image work.
const DefaultImageConcurrency = 4

// Refresher rebuilds catalog files from the upstream source and republishes
// their images to the CDN repository.
type Refresher struct {
	source    driven.CatalogSource
	fetcher   driven.ImageFetcher
	converter driven.ImageConverter
	publisher driven.ImagePublisher
	files     driven.CatalogFiles

	concurrency        int
	excludedCharacters []int
	excludedWeapons    []int

	now func() time.Time
}

// NewRefresher creates a refresher. Exclusions and concurrency come from settings.
func NewRefresher(
	source driven.CatalogSource,
	fetcher driven.ImageFetcher,
	converter driven.ImageConverter,
	publisher driven.ImagePublisher,
	files driven.CatalogFiles,
	settings domain.Settings,
) *Refresher {
	concurrency := settings.ImageConcurrency
	if concurrency <= 0 {
		concurrency = DefaultImageConcurrency
	}
	return &Refresher{
		source:             source,
		fetcher:            fetcher,
		converter:          converter,
		publisher:          publisher,
		files:              files,
		concurrency:        concurrency,
		excludedCharacters: settings.ExcludedCharacters,
		excludedWeapons:    settings.ExcludedWeapons,
		now:                time.Now,
	}
}

// RefreshCharacters rebuilds the characters collection. A character whose
// images cannot be fetched or published is skipped; the rest keep source order.
func (r *Refresher) RefreshCharacters(ctx context.Context, opts driving.RefreshOptions) (*driving.RefreshResult, error) {
	logger.Section("Refresh characters")

	sources, err := r.source.Characters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	previous, err := r.files.LoadCharacters()
	if err != nil {
		return nil, fmt.Errorf("load characters: %w", err)
	}
	prior := make(map[int]domain.ID, len(previous))
	for _, c := range previous {
		prior[c.EnkaID] = c.ID
	}

	candidates := make([]domain.SourceCharacter, 0, len(sources))
	for _, sc := range sources {
		if sc.ID == 0 || sc.Element == "" || slices.Contains(r.excludedCharacters, sc.ID) {
			continue
		}
		candidates = append(candidates, sc)
	}
	logger.Info("Processing %d characters", len(candidates))

	slots := make([]*domain.Character, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, sc := range candidates {
		g.Go(func() error {
			character, err := r.loadCharacter(gctx, sc, opts.Upload)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("Skipping character %s: %v", sc.Code, err)
				return nil
			}
			character.ID = prior[sc.ID]
			slots[i] = character
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("refresh characters: %w", err)
	}

	characters := make([]domain.Character, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			characters = append(characters, *c)
		}
	}

	if opts.Write {
		if err := r.files.SaveCharacters(characters); err != nil {
			return nil, fmt.Errorf("save characters: %w", err)
		}
	}

	logger.Info("Characters refreshed: %d entries", len(characters))
	return &driving.RefreshResult{
		Kind:    KindCharacters,
		Entries: len(characters),
		Skipped: len(candidates) - len(characters),
	}, nil
}

// loadCharacter fetches and publishes the three images of one character.
func (r *Refresher) loadCharacter(ctx context.Context, sc domain.SourceCharacter, upload bool) (*domain.Character, error) {
	cardURL, splashURL := GachaImageURLs(sc.IconName, sc.ID)

	icon, err := r.fetcher.Fetch(ctx, sc.IconURL)
	if err != nil {
		return nil, fmt.Errorf("fetch icon: %w", err)
	}
	card, err := r.fetcher.Fetch(ctx, cardURL)
	if err != nil {
		return nil, fmt.Errorf("fetch gacha card: %w", err)
	}
	splash, err := r.fetcher.Fetch(ctx, splashURL)
	if err != nil {
		return nil, fmt.Errorf("fetch gacha splash: %w", err)
	}

	assets := []struct {
		path    string
		content []byte
		message string
		url     *string
	}{
		{path: fmt.Sprintf("images/characters/icons/%d.png", sc.ID), content: icon, message: "Upload icon for " + sc.Code},
		{path: fmt.Sprintf("images/characters/gacha-card/%d.webp", sc.ID), content: card, message: "Upload half portrait for " + sc.Code},
		{path: fmt.Sprintf("images/characters/gacha-splash/%d.webp", sc.ID), content: splash, message: "Upload hoyo icon portrait for " + sc.Code},
	}

	character := &domain.Character{
		EnkaID:  sc.ID,
		Code:    sc.Code,
		Rank:    sc.Stars,
		Type:    domain.WeaponTypeCode[sc.WeaponType],
		Element: domain.ElementCode[sc.Element],
		En:      sc.Names["en"],
		Ru:      sc.Names["ru"],
	}
	assets[0].url = &character.Icon
	assets[1].url = &character.GachaCard
	assets[2].url = &character.GachaSplash

	for _, a := range assets {
		url, err := r.publish(ctx, a.path, a.content, a.message, upload)
		if err != nil {
			return nil, err
		}
		*a.url = url
	}
	return character, nil
}

// RefreshWeapons rebuilds the weapons collection. Any fetch, conversion or
// publish failure aborts the run and leaves the file untouched.
func (r *Refresher) RefreshWeapons(ctx context.Context, opts driving.RefreshOptions) (*driving.RefreshResult, error) {
	logger.Section("Refresh weapons")

	sources, err := r.source.Weapons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weapons: %w", err)
	}
	previous, err := r.files.LoadWeapons()
	if err != nil {
		return nil, fmt.Errorf("load weapons: %w", err)
	}
	prior := make(map[int]domain.ID, len(previous))
	for _, w := range previous {
		prior[w.EnkaID] = w.ID
	}

	candidates := make([]domain.SourceWeapon, 0, len(sources))
	for _, sw := range sources {
		if sw.ID == 0 || sw.Stars <= 3 || slices.Contains(r.excludedWeapons, sw.ID) {
			continue
		}
		candidates = append(candidates, sw)
	}
	logger.Info("Processing %d weapons", len(candidates))

	weapons := make([]domain.Weapon, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, sw := range candidates {
		g.Go(func() error {
			weapon, err := r.loadWeapon(gctx, sw, opts.Upload)
			if err != nil {
				return fmt.Errorf("weapon %d (%s): %w", sw.ID, sw.Code, err)
			}
			weapon.ID = prior[sw.ID]
			weapons[i] = *weapon
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("refresh weapons: %w", err)
	}

	if opts.Write {
		if err := r.files.SaveWeapons(weapons); err != nil {
			return nil, fmt.Errorf("save weapons: %w", err)
		}
	}

	logger.Info("Weapons refreshed: %d entries", len(weapons))
	return &driving.RefreshResult{Kind: KindWeapons, Entries: len(weapons)}, nil
}

// loadWeapon fetches the WebP icon of one weapon, converts it and publishes it.
func (r *Refresher) loadWeapon(ctx context.Context, sw domain.SourceWeapon, upload bool) (*domain.Weapon, error) {
	raw, err := r.fetcher.Fetch(ctx, WeaponImageURL(sw.AwakenIcon))
	if err != nil {
		return nil, fmt.Errorf("fetch icon: %w", err)
	}
	png, err := r.converter.ToPNG(raw)
	if err != nil {
		return nil, fmt.Errorf("convert icon: %w", err)
	}

	path := fmt.Sprintf("images/weapons/%s.png", sw.AwakenIcon)
	url, err := r.publish(ctx, path, png, "Upload weapon icon for "+sw.Code, upload)
	if err != nil {
		return nil, err
	}

	return &domain.Weapon{
		EnkaID: sw.ID,
		Rank:   sw.Stars,
		Type:   domain.WeaponTypeCode[sw.WeaponType],
		En:     sw.Names["en"],
		Ru:     sw.Names["ru"],
		Icon:   url,
	}, nil
}

// RefreshAvatars rebuilds the avatars collection one picture at a time.
// Entries already present in the file are kept unchanged, createdAt included.
func (r *Refresher) RefreshAvatars(ctx context.Context, opts driving.RefreshOptions) (*driving.RefreshResult, error) {
	logger.Section("Refresh avatars")

	pictures, err := r.source.ProfilePictures(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profile pictures: %w", err)
	}

	avatars := make([]domain.Avatar, 0, len(pictures))
	skipped := 0
	for _, pfp := range pictures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		url, err := r.loadAvatar(ctx, pfp.IconPath, opts.Upload)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logger.Warn("Skipping avatar %s: %v", pfp.IconPath, err)
			skipped++
			continue
		}
		avatars = append(avatars, domain.Avatar{AvatarSrc: url, CreatedAt: r.now().UTC()})
	}

	if opts.Write {
		existing, err := r.files.LoadAvatars()
		if err != nil {
			return nil, fmt.Errorf("load avatars: %w", err)
		}
		avatars = MergeAvatars(existing, avatars)
		if err := r.files.SaveAvatars(avatars); err != nil {
			return nil, fmt.Errorf("save avatars: %w", err)
		}
	}

	logger.Info("Avatars refreshed: %d entries", len(avatars))
	return &driving.RefreshResult{Kind: KindAvatars, Entries: len(avatars), Skipped: skipped}, nil
}

func (r *Refresher) loadAvatar(ctx context.Context, iconPath string, upload bool) (string, error) {
	content, err := r.fetcher.Fetch(ctx, AvatarImageURL(iconPath))
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	path := fmt.Sprintf("images/avatars/%s.png", iconPath)
	return r.publish(ctx, path, content, "Upload avatar with filename: "+iconPath, upload)
}

// publish uploads content when upload is set and returns its public URL.
func (r *Refresher) publish(ctx context.Context, path string, content []byte, message string, upload bool) (string, error) {
	if !upload {
		return r.publisher.PublicURL(path), nil
	}
	url, err := r.publisher.Publish(ctx, path, content, message)
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", path, err)
	}
	return url, nil
}

// MergeAvatars keeps the fresh entries in order, substituting the existing
// entry wherever one with the same avatarSrc is already recorded.
func MergeAvatars(existing, fresh []domain.Avatar) []domain.Avatar {
	known := make(map[string]domain.Avatar, len(existing))
	for _, a := range existing {
		if _, ok := known[a.AvatarSrc]; !ok {
			known[a.AvatarSrc] = a
		}
	}

	merged := make([]domain.Avatar, len(fresh))
	for i, a := range fresh {
		if prev, ok := known[a.AvatarSrc]; ok {
			merged[i] = prev
			continue
		}
		merged[i] = a
	}
	return merged
}

// GachaImageURLs returns the gacha card and splash URLs for a character,
// e.g. ("UI_AvatarIcon_Ayaka", 10000002) ->
// ".../ayaka_002_gacha_card.webp", ".../ayaka_002_gacha_splash.webp".
func GachaImageURLs(iconName string, id int) (card, splash string) {
	name := iconName
	if i := strings.LastIndex(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ToLower(name)

	digits := strconv.Itoa(id)
	if len(digits) > 3 {
		digits = digits[len(digits)-3:]
	}

	prefix := fmt.Sprintf("%s/%s_%s", GachaImageBaseURL, name, digits)
	return prefix + "_gacha_card.webp", prefix + "_gacha_splash.webp"
}

// WeaponImageURL returns the WebP icon URL for a weapon awaken icon.
func WeaponImageURL(awakenIcon string) string {
	return fmt.Sprintf("%s/%s.webp", WeaponImageBaseURL, awakenIcon)
}

// AvatarImageURL returns the PNG URL for a profile picture icon path.
func AvatarImageURL(iconPath string) string {
	return fmt.Sprintf("%s/%s.png", AvatarImageBaseURL, iconPath)
}
