package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/mpdsleep/internal/discovery"
	"github.com/genricoloni/mpdsleep/internal/player"
	"github.com/genricoloni/mpdsleep/internal/sleeptimer"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix = "MPDSLEEP_"

	defaultListenAddr = "0.0.0.0:5613"
	defaultInboxSize  = sleeptimer.DefaultInboxSize
	defaultMPDNetwork = "tcp"
	defaultMPDAddress = "127.0.0.1:6600"
	defaultFadeFloor  = sleeptimer.DefaultFadeFloor
	defaultFadeStep   = sleeptimer.DefaultFadeStep
)

// FileConfig is the YAML layout of the configuration file
type FileConfig struct {
	Listen    string          `yaml:"listen"`
	InboxSize int             `yaml:"inbox_size"`
	Player    PlayerConfig    `yaml:"player"`
	Fade      FadeConfig      `yaml:"fade"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// PlayerConfig selects and configures the player backend
type PlayerConfig struct {
	Backend string      `yaml:"backend"`
	MPD     MPDConfig   `yaml:"mpd"`
	Mpris   MprisConfig `yaml:"mpris"`
}

// MPDConfig is the connection to an MPD server
type MPDConfig struct {
	Network  string `yaml:"network"` // "tcp" or "unix"
	Address  string `yaml:"address"`
	Password string `yaml:"password,omitempty"`
}

// MprisConfig selects an MPRIS player on the session bus
type MprisConfig struct {
	BusName string `yaml:"bus_name,omitempty"`
}

// FadeConfig tunes the fade before pausing
type FadeConfig struct {
	Floor int           `yaml:"floor"`
	Step  time.Duration `yaml:"step"`
}

// DiscoveryConfig controls the mDNS advertisement
type DiscoveryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Instance string `yaml:"instance"`
	Service  string `yaml:"service"`
	Domain   string `yaml:"domain"`
}

// DefaultFileConfig returns a fully populated configuration
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Listen:    defaultListenAddr,
		InboxSize: defaultInboxSize,
		Player: PlayerConfig{
			Backend: player.BackendMPD,
			MPD: MPDConfig{
				Network: defaultMPDNetwork,
				Address: defaultMPDAddress,
			},
		},
		Fade: FadeConfig{
			Floor: defaultFadeFloor,
			Step:  defaultFadeStep,
		},
		Discovery: DiscoveryConfig{
			Enabled:  true,
			Instance: discovery.DefaultInstance,
			Service:  discovery.DefaultService,
			Domain:   discovery.DefaultDomain,
		},
	}
}

// AppConfig holds application configuration
type AppConfig struct {
	logger *zap.Logger
	file   FileConfig
}

// NewAppConfig resolves the configuration from defaults, the optional YAML
// file, MPDSLEEP_* environment variables and command-line flags, in that order
func NewAppConfig(logger *zap.Logger, opts *Options) (*AppConfig, error) {
	cfg := DefaultFileConfig()

	if opts.ConfigPath != "" {
		loaded, err := LoadFile(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	opts.apply(&cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded",
		zap.String("configPath", opts.ConfigPath),
		zap.String("listen", cfg.Listen),
		zap.String("backend", cfg.Player.Backend),
		zap.Int("fadeFloor", cfg.Fade.Floor),
		zap.Duration("fadeStep", cfg.Fade.Step),
		zap.Bool("discovery", cfg.Discovery.Enabled))

	return &AppConfig{logger: logger, file: cfg}, nil
}

// LoadFile reads a YAML config file on top of the defaults.
// Unknown fields are rejected.
func LoadFile(path string) (FileConfig, error) {
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultFileConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("decode config yaml: %w", err)
	}

	return cfg, nil
}

// ExpandPath expands environment variables and a leading ~
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}

func applyEnv(cfg *FileConfig, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	integer := func(name string, dst *int) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	str("LISTEN", &cfg.Listen)
	integer("INBOX_SIZE", &cfg.InboxSize)
	str("PLAYER_BACKEND", &cfg.Player.Backend)
	str("MPD_NETWORK", &cfg.Player.MPD.Network)
	str("MPD_ADDRESS", &cfg.Player.MPD.Address)
	str("MPD_PASSWORD", &cfg.Player.MPD.Password)
	str("MPRIS_BUS_NAME", &cfg.Player.Mpris.BusName)
	integer("FADE_FLOOR", &cfg.Fade.Floor)

	if v, ok := lookup(envPrefix + "FADE_STEP"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sFADE_STEP: %w", envPrefix, err))
		} else {
			cfg.Fade.Step = d
		}
	}
	if v, ok := lookup(envPrefix + "DISCOVERY_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sDISCOVERY_ENABLED: %w", envPrefix, err))
		} else {
			cfg.Discovery.Enabled = b
		}
	}
	str("DISCOVERY_INSTANCE", &cfg.Discovery.Instance)

	return errors.Join(errs...)
}

// Validate checks a resolved configuration
func Validate(cfg FileConfig) error {
	var errs []error

	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		errs = append(errs, fmt.Errorf("listen %q: %w", cfg.Listen, err))
	}
	if cfg.InboxSize < 1 {
		errs = append(errs, fmt.Errorf("inbox_size must be at least 1, got %d", cfg.InboxSize))
	}

	switch cfg.Player.Backend {
	case player.BackendMPD:
		if cfg.Player.MPD.Network != "tcp" && cfg.Player.MPD.Network != "unix" {
			errs = append(errs, fmt.Errorf("player.mpd.network must be tcp or unix, got %q", cfg.Player.MPD.Network))
		}
		if cfg.Player.MPD.Address == "" {
			errs = append(errs, errors.New("player.mpd.address is empty"))
		}
	case player.BackendMPRIS:
	default:
		errs = append(errs, fmt.Errorf("player.backend must be %s or %s, got %q",
			player.BackendMPD, player.BackendMPRIS, cfg.Player.Backend))
	}

	if cfg.Fade.Floor < 0 || cfg.Fade.Floor > 100 {
		errs = append(errs, fmt.Errorf("fade.floor must be within 0..100, got %d", cfg.Fade.Floor))
	}
	if cfg.Fade.Step < 0 {
		errs = append(errs, fmt.Errorf("fade.step must not be negative, got %s", cfg.Fade.Step))
	}

	if cfg.Discovery.Enabled {
		if cfg.Discovery.Instance == "" || cfg.Discovery.Service == "" || cfg.Discovery.Domain == "" {
			errs = append(errs, errors.New("discovery needs instance, service and domain"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetListenAddr returns the HTTP listen address
func (c *AppConfig) GetListenAddr() string {
	return c.file.Listen
}

// GetInboxSize returns the coordinator inbox buffer size
func (c *AppConfig) GetInboxSize() int {
	return c.file.InboxSize
}

// GetFadeFloor returns the volume the fade ramps down to
func (c *AppConfig) GetFadeFloor() int {
	return c.file.Fade.Floor
}

// GetFadeStep returns the pause between fade steps
func (c *AppConfig) GetFadeStep() time.Duration {
	return c.file.Fade.Step
}

// GetPlayerOptions returns the player backend selection
func (c *AppConfig) GetPlayerOptions() player.Options {
	return player.Options{
		Backend:      c.file.Player.Backend,
		MPDNetwork:   c.file.Player.MPD.Network,
		MPDAddress:   c.file.Player.MPD.Address,
		MPDPassword:  c.file.Player.MPD.Password,
		MprisBusName: c.file.Player.Mpris.BusName,
	}
}

// GetDiscoveryOptions returns the mDNS advertisement settings
func (c *AppConfig) GetDiscoveryOptions() discovery.Options {
	d := c.file.Discovery
	return discovery.Options{
		Enabled:  d.Enabled,
		Instance: d.Instance,
		Service:  d.Service,
		Domain:   d.Domain,
	}
}
