package player

import (
	"fmt"

	"github.com/genricoloni/mpdsleep/internal/domain"
	"go.uber.org/zap"
)

const (
	BackendMPD   = "mpd"
	BackendMPRIS = "mpris"
)

// Options selects and configures a player backend
type Options struct {
	Backend string

	MPDNetwork  string
	MPDAddress  string
	MPDPassword string

	MprisBusName string
}

// New creates the PlayerControl for the configured backend
func New(logger *zap.Logger, opts Options) (domain.PlayerControl, error) {
	switch opts.Backend {
	case BackendMPD, "":
		logger.Info("Using MPD player",
			zap.String("network", opts.MPDNetwork),
			zap.String("addr", opts.MPDAddress),
			zap.Bool("auth", opts.MPDPassword != ""))
		return NewMPDControl(logger, opts.MPDNetwork, opts.MPDAddress, opts.MPDPassword), nil
	case BackendMPRIS:
		logger.Info("Using MPRIS player", zap.String("busName", opts.MprisBusName))
		return NewMprisControl(logger, opts.MprisBusName), nil
	default:
		return nil, fmt.Errorf("unknown player backend %q", opts.Backend)
	}
}
