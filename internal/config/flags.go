package config

import (
	"os"
	"time"

	"github.com/genricoloni/mpdsleep/internal/player"
	flag "github.com/spf13/pflag"
)

// Options holds command-line settings. Only flags the user actually set
// override the file and environment values.
type Options struct {
	ConfigPath string
	LogLevel   string
	Dev        bool

	fs *flag.FlagSet

	listen       string
	inboxSize    int
	backend      string
	mpdNetwork   string
	mpdAddress   string
	mpdPassword  string
	mprisBusName string
	fadeFloor    int
	fadeStep     time.Duration
	discovery    bool
}

// ParseFlags parses args (without the program name)
func ParseFlags(name string, args []string) (*Options, error) {
	o := &Options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVarP(&o.ConfigPath, "config", "c", os.Getenv(envPrefix+"CONFIG"), "path to a YAML config file")
	fs.StringVar(&o.LogLevel, "log-level", envOr(envPrefix+"LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	fs.BoolVar(&o.Dev, "dev", false, "human-readable development logging")

	fs.StringVarP(&o.listen, "listen", "l", defaultListenAddr, "HTTP listen address")
	fs.IntVar(&o.inboxSize, "inbox-size", defaultInboxSize, "sleep timer inbox buffer size")
	fs.StringVarP(&o.backend, "backend", "b", player.BackendMPD, "player backend (mpd, mpris)")
	fs.StringVar(&o.mpdNetwork, "mpd-network", defaultMPDNetwork, "MPD network (tcp, unix)")
	fs.StringVarP(&o.mpdAddress, "mpd-address", "a", defaultMPDAddress, "MPD address or socket path")
	fs.StringVar(&o.mpdPassword, "mpd-password", "", "MPD password")
	fs.StringVar(&o.mprisBusName, "mpris-bus-name", "", "MPRIS bus name (default: first player found)")
	fs.IntVar(&o.fadeFloor, "fade-floor", defaultFadeFloor, "volume the fade ramps down to")
	fs.DurationVar(&o.fadeStep, "fade-step", defaultFadeStep, "pause between fade steps")
	fs.BoolVar(&o.discovery, "discovery", true, "advertise the HTTP service over mDNS")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.fs = fs
	return o, nil
}

func (o *Options) apply(cfg *FileConfig) {
	if o.fs == nil {
		return
	}
	changed := o.fs.Changed

	if changed("listen") {
		cfg.Listen = o.listen
	}
	if changed("inbox-size") {
		cfg.InboxSize = o.inboxSize
	}
	if changed("backend") {
		cfg.Player.Backend = o.backend
	}
	if changed("mpd-network") {
		cfg.Player.MPD.Network = o.mpdNetwork
	}
	if changed("mpd-address") {
		cfg.Player.MPD.Address = o.mpdAddress
	}
	if changed("mpd-password") {
		cfg.Player.MPD.Password = o.mpdPassword
	}
	if changed("mpris-bus-name") {
		cfg.Player.Mpris.BusName = o.mprisBusName
	}
	if changed("fade-floor") {
		cfg.Fade.Floor = o.fadeFloor
	}
	if changed("fade-step") {
		cfg.Fade.Step = o.fadeStep
	}
	if changed("discovery") {
		cfg.Discovery.Enabled = o.discovery
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
