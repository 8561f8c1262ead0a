package discovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRegistrar struct {
	calls     int
	instance  string
	service   string
	domain    string
	port      int
	txt       []string
	err       error
	shutdowns int
}

func (f *fakeRegistrar) register(instance, service, domain string, port int, txt []string) (func(), error) {
	f.calls++
	f.instance, f.service, f.domain, f.port, f.txt = instance, service, domain, port, txt
	if f.err != nil {
		return nil, f.err
	}
	return func() { f.shutdowns++ }, nil
}

func defaultOptions() Options {
	return Options{
		Enabled:  true,
		Instance: DefaultInstance,
		Service:  DefaultService,
		Domain:   DefaultDomain,
	}
}

func TestAdvertiser_StartStop(t *testing.T) {
	fake := &fakeRegistrar{}
	a := NewAdvertiser(zap.NewNop(), defaultOptions())
	a.register = fake.register

	require.NoError(t, a.Start(t.Context(), 5613))
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "mpd-sleep", fake.instance)
	assert.Equal(t, "_http._tcp", fake.service)
	assert.Equal(t, "local.", fake.domain)
	assert.Equal(t, 5613, fake.port)
	assert.Contains(t, fake.txt, "start=/sleep/start/{seconds}")

	require.NoError(t, a.Stop(t.Context()))
	assert.Equal(t, 1, fake.shutdowns)

	// second stop is a no-op
	require.NoError(t, a.Stop(t.Context()))
	assert.Equal(t, 1, fake.shutdowns)
}

func TestAdvertiser_RestartReplacesRegistration(t *testing.T) {
	fake := &fakeRegistrar{}
	a := NewAdvertiser(zap.NewNop(), defaultOptions())
	a.register = fake.register

	require.NoError(t, a.Start(t.Context(), 5613))
	require.NoError(t, a.Start(t.Context(), 5614))

	assert.Equal(t, 2, fake.calls)
	assert.Equal(t, 1, fake.shutdowns)
	assert.Equal(t, 5614, fake.port)
}

func TestAdvertiser_Disabled(t *testing.T) {
	fake := &fakeRegistrar{}
	opts := defaultOptions()
	opts.Enabled = false
	a := NewAdvertiser(zap.NewNop(), opts)
	a.register = fake.register

	require.NoError(t, a.Start(t.Context(), 5613))
	require.NoError(t, a.Stop(t.Context()))
	assert.Zero(t, fake.calls)
}

func TestAdvertiser_RegisterFailureIsNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fake := &fakeRegistrar{err: errors.New("no multicast interface")}
	a := NewAdvertiser(zap.New(core), defaultOptions())
	a.register = fake.register

	require.NoError(t, a.Start(t.Context(), 5613))
	assert.Equal(t, 1, logs.FilterMessage("Failed to register mDNS service").Len())

	require.NoError(t, a.Stop(t.Context()))
	assert.Zero(t, fake.shutdowns)
}

func TestTXTRecords(t *testing.T) {
	records := TXTRecords()
	assert.Contains(t, records, "path=/sleep")
	assert.Contains(t, records, "events=/sleep/events")
	for _, r := range records {
		assert.LessOrEqual(t, len(r), 255, "TXT strings are length-prefixed by one byte")
	}
}
