package commands

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aethos/internal/relay/devrelay"
)

func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	getenv = func(string) string { return "" }
	t.Cleanup(func() { appCtx = nil })

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--data-home", home}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestInitAndFingerprint(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, home, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Identity ready.")

	fp := strings.TrimSpace(out[strings.Index(out, "Fingerprint: ")+len("Fingerprint: "):])

	out, err = run(t, home, "fingerprint")
	require.NoError(t, err)
	assert.Equal(t, "Fingerprint: "+fp+"\n", out)
}

func TestIdentityLifecycle(t *testing.T) {
	home := t.TempDir()

	first, err := run(t, home, "identity", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, first, `"platform": "linux"`)
	assert.Contains(t, first, `"verifying_key_b64"`)

	_, err = run(t, home, "identity", "regenerate")
	assert.ErrorIs(t, err, errNeedsYes)

	out, err := run(t, home, "identity", "regenerate", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Identity regenerated.")

	second, err := run(t, home, "identity", "show", "--json")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = run(t, home, "identity", "delete")
	assert.ErrorIs(t, err, errNeedsYes)
	_, err = run(t, home, "identity", "delete", "--yes")
	require.NoError(t, err)
	_, err = run(t, home, "identity", "delete", "--yes")
	require.NoError(t, err)
}

func TestProfilesAreSeparate(t *testing.T) {
	home := t.TempDir()

	a, err := run(t, home, "--profile", "a", "fingerprint")
	require.NoError(t, err)
	b, err := run(t, home, "--profile", "b", "fingerprint")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestConnectStoresSessionCache(t *testing.T) {
	home := t.TempDir()
	dev := devrelay.New(devrelay.Options{Name: "dev"})
	srv := httptest.NewServer(dev.Handler())
	defer srv.Close()

	out, err := run(t, home, "cache", "show")
	require.NoError(t, err)
	assert.Equal(t, "No session cache.\n", out)

	out, err = run(t, home, "connect", "--relay", srv.URL, "--await-ack")
	require.NoError(t, err)
	assert.Contains(t, out, "connected + hello sent")
	assert.Contains(t, out, "1/1 relays reachable.")
	assert.Len(t, dev.Hellos(), 1)

	out, err = run(t, home, "cache", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Primary relay status: "+srv.URL)
	assert.Contains(t, out, "Secondary relay status: idle")

	// Rotation leaves the old cache undecryptable.
	_, err = run(t, home, "identity", "regenerate", "--yes")
	require.NoError(t, err)
	_, err = run(t, home, "cache", "show")
	assert.Error(t, err)

	_, err = run(t, home, "identity", "delete", "--yes")
	require.NoError(t, err)
	out, err = run(t, home, "cache", "show")
	require.NoError(t, err)
	assert.Equal(t, "No session cache.\n", out)
}

func TestConnectUnreachable(t *testing.T) {
	home := t.TempDir()
	out, err := run(t, home, "connect", "--relay", "http://bad host:1")
	assert.ErrorIs(t, err, errNoRelayReachable)
	assert.Contains(t, out, "0/1 relays reachable.")
}

func TestBadConfigFile(t *testing.T) {
	_, err := run(t, t.TempDir(), "--config", "/does/not/exist.toml", "init")
	assert.Error(t, err)
}
