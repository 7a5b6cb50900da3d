package enka

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachadex/catalogsync/internal/core/domain"
)

const (
	charactersJSON = `{
		"10000046": {"Element": "Fire", "SideIconName": "UI_AvatarIcon_Side_Hutao", "QualityType": "QUALITY_ORANGE", "WeaponType": "WEAPON_POLE", "NameTextMapHash": 1940919994},
		"10000002": {"Element": "Ice", "SideIconName": "UI_AvatarIcon_Side_Ayaka", "QualityType": "QUALITY_ORANGE", "WeaponType": "WEAPON_SWORD_ONE_HAND", "NameTextMapHash": 3930000000},
		"10000005-504": {"Element": "Wind", "SideIconName": "UI_AvatarIcon_Side_PlayerBoy", "QualityType": "QUALITY_ORANGE", "WeaponType": "WEAPON_SWORD_ONE_HAND", "NameTextMapHash": 1},
		"10000006": {"Element": "Electric", "SideIconName": "UI_AvatarIcon_Side_Lisa", "QualityType": "QUALITY_PURPLE", "WeaponType": "WEAPON_CATALYST", "NameTextMapHash": 3344622722}
	}`
	weaponsJSON = `{
		"11501": {"RankLevel": 5, "WeaponType": "WEAPON_SWORD_ONE_HAND", "AwakenIcon": "UI_EquipIcon_Sword_Falcon_Awaken", "NameTextMapHash": 3600623979},
		"11101": {"RankLevel": 1, "WeaponType": "WEAPON_SWORD_ONE_HAND", "AwakenIcon": "UI_EquipIcon_Sword_Blunt_Awaken", "NameTextMapHash": 3217019698}
	}`
	pfpsJSON = `{
		"2": {"iconPath": "UI_AvatarIcon_PlayerGirl_Circle"},
		"1": {"iconPath": "UI_AvatarIcon_PlayerBoy_Circle"},
		"3": {"iconPath": ""}
	}`
	locJSON = `{
		"en": {"1940919994": "Hu Tao", "3930000000": "Kamisato Ayaka", "3344622722": "Lisa", "3600623979": "Aquila Favonia", "3217019698": "Dull Blade"},
		"ru": {"1940919994": "Ху Тао", "3930000000": "Камисато Аяка", "3600623979": "Меч Фавония"},
		"de": {"1940919994": "Hu Tao"}
	}`
)

type fakeStore struct {
	requests map[string]int
	status   int
}

func newFakeStore(t *testing.T) (*fakeStore, *httptest.Server) {
	t.Helper()
	fs := &fakeStore{requests: map[string]int{}}
	files := map[string]string{
		"/store/characters.json": charactersJSON,
		"/store/weapons.json":    weaponsJSON,
		"/store/pfps.json":       pfpsJSON,
		"/store/loc.json":        locJSON,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.requests[r.URL.Path]++
		if fs.status != 0 {
			w.WriteHeader(fs.status)
			return
		}
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return fs, srv
}

func TestClient_Characters(t *testing.T) {
	_, srv := newFakeStore(t)
	client := NewClient(srv.URL+"/store/", []string{"en", "ru"}, srv.Client())

	characters, err := client.Characters(context.Background())
	require.NoError(t, err)
	require.Len(t, characters, 3)

	ayaka := characters[0]
	assert.Equal(t, 10000002, ayaka.ID)
	assert.Equal(t, "Ayaka", ayaka.Code)
	assert.Equal(t, "UI_AvatarIcon_Ayaka", ayaka.IconName)
	assert.Equal(t, "https://enka.network/ui/UI_AvatarIcon_Ayaka.png", ayaka.IconURL)
	assert.Equal(t, "Ice", ayaka.Element)
	assert.Equal(t, 5, ayaka.Stars)
	assert.Equal(t, "WEAPON_SWORD_ONE_HAND", ayaka.WeaponType)
	assert.Equal(t, map[string]string{"en": "Kamisato Ayaka", "ru": "Камисато Аяка"}, ayaka.Names)

	assert.Equal(t, 10000006, characters[1].ID)
	assert.Equal(t, 4, characters[1].Stars)
	assert.Equal(t, map[string]string{"en": "Lisa"}, characters[1].Names)

	assert.Equal(t, 10000046, characters[2].ID)
	assert.Equal(t, "Hutao", characters[2].Code)
}

func TestClient_Weapons(t *testing.T) {
	_, srv := newFakeStore(t)
	client := NewClient(srv.URL+"/store", []string{"en", "ru"}, srv.Client())

	weapons, err := client.Weapons(context.Background())
	require.NoError(t, err)
	require.Len(t, weapons, 2)

	assert.Equal(t, 11101, weapons[0].ID)
	assert.Equal(t, 1, weapons[0].Stars)

	falcon := weapons[1]
	assert.Equal(t, 11501, falcon.ID)
	assert.Equal(t, "Sword_Falcon", falcon.Code)
	assert.Equal(t, 5, falcon.Stars)
	assert.Equal(t, "UI_EquipIcon_Sword_Falcon_Awaken", falcon.AwakenIcon)
	assert.Equal(t, "Aquila Favonia", falcon.Names["en"])
	assert.Equal(t, "Меч Фавония", falcon.Names["ru"])
}

func TestClient_ProfilePictures(t *testing.T) {
	_, srv := newFakeStore(t)
	client := NewClient(srv.URL+"/store", nil, srv.Client())

	pfps, err := client.ProfilePictures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.ProfilePicture{
		{ID: 1, IconPath: "UI_AvatarIcon_PlayerBoy_Circle"},
		{ID: 2, IconPath: "UI_AvatarIcon_PlayerGirl_Circle"},
	}, pfps)
}

func TestClient_LocalisationFetchedOnce(t *testing.T) {
	fs, srv := newFakeStore(t)
	client := NewClient(srv.URL+"/store", []string{"en"}, srv.Client())

	_, err := client.Characters(context.Background())
	require.NoError(t, err)
	_, err = client.Weapons(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fs.requests["/store/loc.json"])
}

func TestClient_RateLimited(t *testing.T) {
	fs, srv := newFakeStore(t)
	fs.status = http.StatusTooManyRequests
	client := NewClient(srv.URL+"/store", nil, srv.Client())

	_, err := client.Characters(context.Background())
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestClient_ServerError(t *testing.T) {
	fs, srv := newFakeStore(t)
	fs.status = http.StatusInternalServerError
	client := NewClient(srv.URL+"/store", nil, srv.Client())

	_, err := client.Weapons(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_CancelledContext(t *testing.T) {
	_, srv := newFakeStore(t)
	client := NewClient(srv.URL+"/store", nil, srv.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ProfilePictures(ctx)
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", nil, nil)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultTimeout, client.http.Timeout)
}

func TestWeaponCode(t *testing.T) {
	assert.Equal(t, "Sword_Falcon", weaponCode("UI_EquipIcon_Sword_Falcon_Awaken"))
	assert.Equal(t, "Bow_Amos", weaponCode("UI_EquipIcon_Bow_Amos"))
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "Ayaka", lastSegment("UI_AvatarIcon_Ayaka"))
	assert.Equal(t, "plain", lastSegment("plain"))
}
