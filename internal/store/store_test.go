package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aethos/internal/crypto"
	"aethos/internal/domain"
	"aethos/internal/store"
)

func newIdentity(t *testing.T, id string) domain.Identity {
	t.Helper()
	seed, err := crypto.GenerateSeed()
	require.NoError(t, err)
	return domain.Identity{
		WayfairID:   domain.WayfairID(id),
		SigningSeed: seed,
		DeviceName:  "test-device",
		Platform:    "linux",
	}
}

func TestSanitizeProfile(t *testing.T) {
	cases := map[string]string{
		"":             "default",
		"   ":          "default",
		" alice ":      "alice",
		"work-2_b":     "work-2_b",
		"../etc":       "___etc",
		"a b/c":        "a_b_c",
		"café":         "caf_",
		"Profile.One!": "Profile_One_",
	}
	for in, want := range cases {
		assert.Equal(t, want, store.SanitizeProfile(domain.Profile(in)), "input %q", in)
	}
}

func TestResolveDataRoot(t *testing.T) {
	env := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}

	assert.Equal(t, "/xdg", store.ResolveDataRoot(env(map[string]string{
		"XDG_DATA_HOME": "/xdg",
		"HOME":          "/home/u",
	})))
	assert.Equal(t, filepath.Join("/home/u", ".local", "share"), store.ResolveDataRoot(env(map[string]string{
		"XDG_DATA_HOME": "  ",
		"HOME":          "/home/u",
	})))
	assert.Equal(t, os.TempDir(), store.ResolveDataRoot(env(nil)))
}

func TestPathsAreProfileScoped(t *testing.T) {
	root := "/data"
	assert.Equal(t,
		filepath.Join(root, "aethos-linux", "identity-default.json"),
		store.IdentityPath(root, ""),
	)
	assert.Equal(t,
		filepath.Join(root, "aethos-linux", "session-cache-work.enc.json"),
		store.SessionCachePath(root, "work"),
	)
	assert.NotEqual(t, store.IdentityPath(root, "a"), store.IdentityPath(root, "b"))
}

func TestIdentityFileStore_RoundTrip(t *testing.T) {
	root := t.TempDir()
	s := store.NewIdentityFileStore(root)

	_, ok, err := s.LoadIdentity("alice")
	require.NoError(t, err)
	assert.False(t, ok)

	want := newIdentity(t, "9f0f6c8e-3a1b-4c55-8d2e-2f7b1e1f0a01")
	require.NoError(t, s.SaveIdentity("alice", want))

	got, ok, err := s.LoadIdentity("alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	info, err := os.Stat(store.IdentityPath(root, "alice"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Other profiles stay independent.
	_, ok, err = s.LoadIdentity("bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityFileStore_NoTempFilesLeft(t *testing.T) {
	root := t.TempDir()
	s := store.NewIdentityFileStore(root)
	require.NoError(t, s.SaveIdentity("alice", newIdentity(t, "id-1")))
	require.NoError(t, s.SaveIdentity("alice", newIdentity(t, "id-2")))

	entries, err := os.ReadDir(filepath.Join(root, store.AppDirName))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "identity-alice.json", entries[0].Name())
}

func TestIdentityFileStore_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":    "{",
		"missing id":  `{"signing_key_b64":"AAAA"}`,
		"bad base64":  `{"wayfair_id":"x","signing_key_b64":"***"}`,
		"short seed":  `{"wayfair_id":"x","signing_key_b64":"AAAA"}`,
		"wrong shape": `[]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			path := store.IdentityPath(root, "p")
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			_, ok, err := store.NewIdentityFileStore(root).LoadIdentity("p")
			assert.False(t, ok)
			assert.ErrorIs(t, err, store.ErrCorruptIdentity)
		})
	}
}

func TestIdentityFileStore_DeleteIsIdempotent(t *testing.T) {
	root := t.TempDir()
	s := store.NewIdentityFileStore(root)

	require.NoError(t, s.DeleteIdentity("ghost"))
	require.NoError(t, s.SaveIdentity("alice", newIdentity(t, "id")))
	require.NoError(t, s.DeleteIdentity("alice"))
	require.NoError(t, s.DeleteIdentity("alice"))

	_, ok, err := s.LoadIdentity("alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionCacheFileStore_RoundTrip(t *testing.T) {
	root := t.TempDir()
	s := store.NewSessionCacheFileStore(root)
	id := newIdentity(t, "id-1")

	_, ok, err := s.LoadSessionCache("alice", id)
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.SessionCache{PrimaryStatus: "relay-a ok", SecondaryStatus: "relay-b down"}
	require.NoError(t, s.SaveSessionCache("alice", id, want))

	got, ok, err := s.LoadSessionCache("alice", id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	path := store.SessionCachePath(root, "alice")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "nonce_b64")
	assert.Contains(t, string(raw), "ciphertext_b64")
	assert.NotContains(t, string(raw), "relay-a ok")
}

func TestSessionCacheFileStore_WrongIdentityFailsToDecrypt(t *testing.T) {
	root := t.TempDir()
	s := store.NewSessionCacheFileStore(root)
	owner := newIdentity(t, "id-1")
	require.NoError(t, s.SaveSessionCache("alice", owner, domain.SessionCache{PrimaryStatus: "x"}))

	// Same seed, different id.
	renamed := owner
	renamed.WayfairID = "id-2"
	_, ok, err := s.LoadSessionCache("alice", renamed)
	assert.False(t, ok)
	assert.ErrorIs(t, err, crypto.ErrDecrypt)

	// Different seed, same id.
	reseeded := newIdentity(t, "id-1")
	_, ok, err = s.LoadSessionCache("alice", reseeded)
	assert.False(t, ok)
	assert.ErrorIs(t, err, crypto.ErrDecrypt)
}

func TestSessionCacheFileStore_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":    "nope",
		"bad nonce":   `{"nonce_b64":"***","ciphertext_b64":""}`,
		"short nonce": `{"nonce_b64":"AAAA","ciphertext_b64":""}`,
		"bad payload": `{"nonce_b64":"AAAAAAAAAAAAAAAA","ciphertext_b64":"***"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			path := store.SessionCachePath(root, "p")
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			_, ok, err := store.NewSessionCacheFileStore(root).LoadSessionCache("p", newIdentity(t, "id"))
			assert.False(t, ok)
			assert.ErrorIs(t, err, store.ErrCorruptCache)
		})
	}
}

func TestSessionCacheFileStore_Delete(t *testing.T) {
	root := t.TempDir()
	s := store.NewSessionCacheFileStore(root)
	id := newIdentity(t, "id")

	require.NoError(t, s.DeleteSessionCache("alice"))
	require.NoError(t, s.SaveSessionCache("alice", id, domain.SessionCache{}))
	require.NoError(t, s.DeleteSessionCache("alice"))

	_, ok, err := s.LoadSessionCache("alice", id)
	require.NoError(t, err)
	assert.False(t, ok)
}
