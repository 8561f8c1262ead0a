package player

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

// DBusClient defines the D-Bus operations the MPRIS player needs.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/mpdsleep/internal/player DBusClient
type DBusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// ListNames returns all names on the bus
	ListNames() ([]string, error)

	// GetProperty retrieves a property from a D-Bus object
	// dest: The bus name (e.g., "org.mpris.MediaPlayer2.mpd")
	// path: The object path (e.g., "/org/mpris/MediaPlayer2")
	// prop: The property name (e.g., "org.mpris.MediaPlayer2.Player.Volume")
	GetProperty(dest, path, prop string) (dbus.Variant, error)

	// SetProperty writes a property on a D-Bus object
	SetProperty(dest, path, prop string, value dbus.Variant) error

	// Call invokes a method without arguments and discards the reply body
	Call(dest, path, method string) error
}

// StdDBusClient is the real implementation using godbus
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient opens a private session bus connection. It must be
// closed by the caller; the shared connection from dbus.SessionBus is not
// used so that Close never affects other users.
func NewStdDBusClient() (DBusClient, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

// Close closes the D-Bus connection
func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

// ListNames returns all names on the bus
func (c *StdDBusClient) ListNames() ([]string, error) {
	var names []string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

// GetProperty retrieves a property from a D-Bus object
func (c *StdDBusClient) GetProperty(dest, path, prop string) (dbus.Variant, error) {
	obj := c.conn.Object(dest, dbus.ObjectPath(path))
	return obj.GetProperty(prop)
}

// SetProperty writes a property on a D-Bus object.
// prop is the fully qualified name, interface and member joined by a dot.
func (c *StdDBusClient) SetProperty(dest, path, prop string, value dbus.Variant) error {
	idx := strings.LastIndex(prop, ".")
	if idx <= 0 || idx == len(prop)-1 {
		return fmt.Errorf("invalid property name %q", prop)
	}
	obj := c.conn.Object(dest, dbus.ObjectPath(path))
	return obj.Call("org.freedesktop.DBus.Properties.Set", 0, prop[:idx], prop[idx+1:], value).Err
}

// Call invokes a method on a D-Bus object
func (c *StdDBusClient) Call(dest, path, method string) error {
	obj := c.conn.Object(dest, dbus.ObjectPath(path))
	return obj.Call(method, 0).Err
}
