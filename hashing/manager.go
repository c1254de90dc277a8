package hashing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
)

// Manager is a thread-safe driver registry and dispatcher for password hashing.
//
// Register one or more named [Hasher] implementations, nominate a default
// driver, and then call [Manager.Make] / [Manager.Check] / [Manager.NeedsRehash]
// through the Manager for all day-to-day hashing operations.
//
// # Thread safety
//
// All Manager methods are safe for concurrent use by multiple goroutines.
// A [sync.RWMutex] serialises writes (RegisterDriver, SetDefaultDriver) while
// allowing concurrent reads (Make, Check, etc.).
type Manager struct {
	mu      sync.RWMutex
	drivers map[DriverName]Hasher
	def     DriverName
}

// NewManager creates an empty Manager with the given default driver name.
// Drivers must be registered with [Manager.RegisterDriver] before any
// hashing operation is invoked through the Manager.
func NewManager(defaultDriver DriverName) *Manager {
	return &Manager{
		drivers: make(map[DriverName]Hasher),
		def:     defaultDriver,
	}
}

// NewDefaultManager creates a Manager with both bcrypt drivers registered at
// [DefaultBcryptCost]. The default driver is [DriverBcrypt].
//
//	m, err := hashing.NewDefaultManager()
//	hash, _ := m.Make("secret")
func NewDefaultManager() (*Manager, error) {
	return NewBcryptManager(DefaultBcryptOptions())
}

// NewBcryptManager registers [DriverBcrypt] and [DriverBcrypt2y] with the
// cost and reader from opts. The default driver follows opts.Version.
func NewBcryptManager(opts BcryptOptions) (*Manager, error) {
	b := opts
	b.Version = bcrypt.Version2b
	bh, err := NewBcryptHasher(b)
	if err != nil {
		return nil, fmt.Errorf("hashing: failed to create bcrypt hasher: %w", err)
	}
	y := opts
	y.Version = bcrypt.Version2y
	yh, err := NewBcryptHasher(y)
	if err != nil {
		return nil, fmt.Errorf("hashing: failed to create bcrypt-2y hasher: %w", err)
	}

	def := DriverBcrypt
	switch opts.Version {
	case bcrypt.Version2, bcrypt.Version2b:
	case bcrypt.Version2y:
		def = DriverBcrypt2y
	default:
		return nil, fmt.Errorf("%w: bcrypt version %q cannot be produced", ErrInvalidOption, opts.Version)
	}

	m := NewManager(def)
	_ = m.RegisterDriver(DriverBcrypt, bh)
	_ = m.RegisterDriver(DriverBcrypt2y, yh)
	return m, nil
}

// RegisterDriver adds or replaces a named hasher in the Manager.
// It is safe to call RegisterDriver while other goroutines are using the Manager.
func (m *Manager) RegisterDriver(name DriverName, h Hasher) error {
	if name == "" {
		return ErrEmptyDriverName
	}
	if h == nil {
		return ErrNilHasher
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[name] = h
	return nil
}

// Driver returns the [Hasher] registered under name, or [ErrDriverNotFound]
// if no such driver has been registered.
func (m *Manager) Driver(name DriverName) (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}
	return h, nil
}

// Drivers returns the registered driver names in sorted order.
func (m *Manager) Drivers() []DriverName {
	m.mu.RLock()
	names := make([]DriverName, 0, len(m.drivers))
	for n := range m.drivers {
		names = append(names, n)
	}
	m.mu.RUnlock()
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// SetDefaultDriver changes the driver used by [Manager.Make], [Manager.Check],
// and [Manager.NeedsRehash]. The named driver must already be registered.
func (m *Manager) SetDefaultDriver(name DriverName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[name]; !ok {
		return fmt.Errorf("%w: %q is not registered; call RegisterDriver first",
			ErrDriverNotFound, name)
	}
	m.def = name
	return nil
}

// DefaultDriver returns the name of the currently configured default driver.
func (m *Manager) DefaultDriver() DriverName {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// HasDriver reports whether a driver with the given name is registered.
func (m *Manager) HasDriver(name DriverName) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.drivers[name]
	return ok
}

// Make hashes password using the default driver.
func (m *Manager) Make(password string) (string, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return "", err
	}
	return h.Make(password)
}

// Check verifies password against hash using the default driver. Every
// bcrypt driver checks every revision, so the default is usually enough.
func (m *Manager) Check(password, hash string) (bool, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return false, err
	}
	return h.Check(password, hash)
}

// CheckWithDetect verifies password against hash using the driver that
// produces its prefix.
//
// Returns [ErrDriverNotFound] if the detected driver is not registered.
// Returns [ErrInvalidHash] if the hash format is unrecognised.
func (m *Manager) CheckWithDetect(password, hash string) (bool, error) {
	h, err := m.resolveByHash(hash)
	if err != nil {
		return false, err
	}
	return h.Check(password, hash)
}

// NeedsRehash reports whether hash should be re-hashed.
//
// It returns true when:
//  1. The hash carries a prefix another driver produces, OR
//  2. The hash carries the default driver's prefix but a different cost
//     or a legacy revision ("$2$", "$2a$", "$2x$").
//
// On the next successful login, callers should call [Manager.Make] and persist
// the new hash when this returns true.
func (m *Manager) NeedsRehash(hash string) (bool, error) {
	detected, ok := DetectDriver(hash)
	if !ok {
		return false, ErrInvalidHash
	}

	m.mu.RLock()
	def := m.def
	m.mu.RUnlock()

	if detected != def {
		return true, nil
	}

	h, err := m.Driver(detected)
	if err != nil {
		return false, err
	}
	return h.NeedsRehash(hash)
}

// Info extracts metadata from hash using the default driver.
func (m *Manager) Info(hash string) (HashInfo, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return HashInfo{}, err
	}
	return h.Info(hash)
}

// InfoWithDetect extracts metadata from hash by automatically detecting
// which driver produced it.
func (m *Manager) InfoWithDetect(hash string) (HashInfo, error) {
	h, err := m.resolveByHash(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return h.Info(hash)
}

func (m *Manager) resolveDefault() (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.drivers[m.def]
	if !ok {
		return nil, fmt.Errorf("%w: default driver %q has not been registered",
			ErrDriverNotFound, m.def)
	}
	return h, nil
}

func (m *Manager) resolveByHash(hash string) (Hasher, error) {
	name, ok := DetectDriver(hash)
	if !ok {
		return nil, ErrInvalidHash
	}
	return m.Driver(name)
}
