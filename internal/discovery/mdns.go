package discovery

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/enbility/zeroconf/v3"
	"go.uber.org/zap"
)

const (
	DefaultInstance = "mpd-sleep"
	DefaultService  = "_http._tcp"
	DefaultDomain   = "local."
)

// Options configures the mDNS advertisement of the HTTP endpoint
type Options struct {
	Enabled  bool
	Instance string
	Service  string
	Domain   string
}

// Registrar publishes a service record and returns a function that withdraws it
type Registrar func(instance, service, domain string, port int, txt []string) (shutdown func(), err error)

// Advertiser announces the sleep timer HTTP endpoint on the local network
// so remote controls can find it without a configured address.
type Advertiser struct {
	logger   *zap.Logger
	opts     Options
	register Registrar

	mu       sync.Mutex
	shutdown func()
}

// NewAdvertiser creates an advertiser. A disabled advertiser does nothing.
func NewAdvertiser(logger *zap.Logger, opts Options) *Advertiser {
	return &Advertiser{
		logger:   logger,
		opts:     opts,
		register: zeroconfRegister,
	}
}

func zeroconfRegister(instance, service, domain string, port int, txt []string) (func(), error) {
	// nil interfaces means all of them
	server, err := zeroconf.Register(instance, service, domain, port, txt, nil)
	if err != nil {
		return nil, err
	}
	return server.Shutdown, nil
}

// Start registers the service for port. Registration failures are logged
// and do not stop the daemon: the HTTP surface works without discovery.
func (a *Advertiser) Start(ctx context.Context, port int) error {
	if !a.opts.Enabled {
		a.logger.Debug("mDNS advertisement disabled")
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.shutdown != nil {
		a.shutdown()
		a.shutdown = nil
	}

	txt := TXTRecords()
	shutdown, err := a.register(a.opts.Instance, a.opts.Service, a.opts.Domain, port, txt)
	if err != nil {
		a.logger.Warn("Failed to register mDNS service",
			zap.String("service", a.opts.Service),
			zap.Int("port", port),
			zap.Error(err))
		return nil
	}

	a.shutdown = shutdown
	a.logger.Info("mDNS service registered",
		zap.String("instance", a.opts.Instance),
		zap.String("service", a.opts.Service),
		zap.String("domain", a.opts.Domain),
		zap.Int("port", port))
	return nil
}

// Stop withdraws the advertisement
func (a *Advertiser) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.shutdown == nil {
		return nil
	}
	a.shutdown()
	a.shutdown = nil
	a.logger.Info("mDNS service withdrawn", zap.String("instance", a.opts.Instance))
	return nil
}

// TXTRecords describes the HTTP routes to browsers
func TXTRecords() []string {
	records := []string{
		"path=/sleep",
		"start=/sleep/start/{seconds}",
		"cancel=/sleep/cancel",
		"status=/sleep/status",
		"events=/sleep/events",
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		records = append(records, fmt.Sprintf("host=%s", host))
	}
	return records
}
