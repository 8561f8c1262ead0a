package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/genricoloni/mpdsleep/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mpdsleep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func parse(t *testing.T, args ...string) *Options {
	t.Helper()
	opts, err := ParseFlags("mpdsleep", args)
	require.NoError(t, err)
	return opts
}

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg, err := NewAppConfig(zap.NewNop(), parse(t))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5613", cfg.GetListenAddr())
	assert.Equal(t, 16, cfg.GetInboxSize())
	assert.Equal(t, 40, cfg.GetFadeFloor())
	assert.Equal(t, 100*time.Millisecond, cfg.GetFadeStep())
	assert.Equal(t, player.Options{
		Backend:    player.BackendMPD,
		MPDNetwork: "tcp",
		MPDAddress: "127.0.0.1:6600",
	}, cfg.GetPlayerOptions())

	d := cfg.GetDiscoveryOptions()
	assert.True(t, d.Enabled)
	assert.Equal(t, "mpd-sleep", d.Instance)
}

func TestNewAppConfig_Precedence(t *testing.T) {
	path := writeConfig(t, `
listen: 127.0.0.1:7000
inbox_size: 4
player:
  mpd:
    address: 10.0.0.2:6600
fade:
  floor: 20
  step: 250ms
`)
	t.Setenv("MPDSLEEP_LISTEN", "127.0.0.1:7001")
	t.Setenv("MPDSLEEP_FADE_FLOOR", "30")

	cfg, err := NewAppConfig(zap.NewNop(), parse(t, "--config", path, "--fade-floor", "35"))
	require.NoError(t, err)

	// env beats file
	assert.Equal(t, "127.0.0.1:7001", cfg.GetListenAddr())
	// file beats defaults
	assert.Equal(t, 4, cfg.GetInboxSize())
	assert.Equal(t, 250*time.Millisecond, cfg.GetFadeStep())
	assert.Equal(t, "10.0.0.2:6600", cfg.GetPlayerOptions().MPDAddress)
	// flag beats env
	assert.Equal(t, 35, cfg.GetFadeFloor())
}

func TestNewAppConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	path := writeConfig(t, "listen: 127.0.0.1:7000\n")

	cfg, err := NewAppConfig(zap.NewNop(), parse(t, "-c", path))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.GetListenAddr())
}

func TestNewAppConfig_MprisBackend(t *testing.T) {
	cfg, err := NewAppConfig(zap.NewNop(), parse(t,
		"--backend", "mpris",
		"--mpris-bus-name", "org.mpris.MediaPlayer2.vlc",
		"--discovery=false"))
	require.NoError(t, err)

	opts := cfg.GetPlayerOptions()
	assert.Equal(t, player.BackendMPRIS, opts.Backend)
	assert.Equal(t, "org.mpris.MediaPlayer2.vlc", opts.MprisBusName)
	assert.False(t, cfg.GetDiscoveryOptions().Enabled)
}

func TestNewAppConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		args []string
	}{
		{name: "Unknown YAML field", file: "listen: 127.0.0.1:1\nvolume_floor: 3\n"},
		{name: "Malformed YAML", file: "listen: [\n"},
		{name: "Bad listen address", args: []string{"--listen", "5613"}},
		{name: "Zero inbox", args: []string{"--inbox-size", "0"}},
		{name: "Unknown backend", args: []string{"--backend", "winamp"}},
		{name: "Bad MPD network", args: []string{"--mpd-network", "udp"}},
		{name: "Floor above 100", args: []string{"--fade-floor", "101"}},
		{name: "Negative step", args: []string{"--fade-step", "-1s"}},
		{name: "Bad env integer", env: map[string]string{"MPDSLEEP_INBOX_SIZE": "many"}},
		{name: "Bad env duration", env: map[string]string{"MPDSLEEP_FADE_STEP": "soon"}},
		{name: "Bad env bool", env: map[string]string{"MPDSLEEP_DISCOVERY_ENABLED": "perhaps"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := tt.args
			if tt.file != "" {
				args = append([]string{"--config", writeConfig(t, tt.file)}, args...)
			}

			_, err := NewAppConfig(zap.NewNop(), parse(t, args...))
			assert.Error(t, err)
		})
	}
}

func TestNewAppConfig_MissingFile(t *testing.T) {
	_, err := NewAppConfig(zap.NewNop(), parse(t, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	assert.ErrorContains(t, err, "read config file")
}

func TestParseFlags_EnvFallbacks(t *testing.T) {
	t.Setenv("MPDSLEEP_LOG_LEVEL", "debug")
	t.Setenv("MPDSLEEP_CONFIG", "/etc/mpdsleep.yaml")

	opts := parse(t)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, "/etc/mpdsleep.yaml", opts.ConfigPath)

	opts = parse(t, "--log-level", "warn")
	assert.Equal(t, "warn", opts.LogLevel)
}

func TestParseFlags_Unknown(t *testing.T) {
	_, err := ParseFlags("mpdsleep", []string{"--volume", "3"})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config/mpdsleep.yaml"), ExpandPath("~/.config/mpdsleep.yaml"))

	t.Setenv("MPDSLEEP_TEST_DIR", "/srv")
	assert.Equal(t, "/srv/mpdsleep.yaml", ExpandPath("$MPDSLEEP_TEST_DIR/mpdsleep.yaml"))
}
