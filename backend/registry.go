package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/xr"
)

// Backend names.
const (
	// NameWGPU is the WebGPU backend over gogpu/wgpu HAL.
	NameWGPU = "wgpu"
	// NameSoftware is the CPU backend.
	NameSoftware = "software"
)

// ErrBackendNotAvailable is returned when a requested backend is not registered
// or its factory fails.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Factory creates a graphics system.
type Factory func() (xr.GraphicsSystem, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for selection (first available wins).
	priority = []string{NameWGPU, NameSoftware}
)

// Register registers a factory under name. A factory registered under the
// same name is replaced.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes a backend. This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get creates the graphics system registered under name.
func Get(name string) (xr.GraphicsSystem, error) {
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	gs, err := f()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendNotAvailable, name, err)
	}
	return gs, nil
}

// Default returns the best available graphics system.
// Priority order: wgpu > software, then any other registered backend.
func Default() (string, xr.GraphicsSystem, error) {
	order := slices.Clone(priority)
	for _, name := range Available() {
		if !slices.Contains(order, name) {
			order = append(order, name)
		}
	}

	var errs []error
	for _, name := range order {
		if !IsRegistered(name) {
			continue
		}
		gs, err := Get(name)
		if err != nil {
			xr.Logger().Debug("backend: skipping", "name", name, "err", err)
			errs = append(errs, err)
			continue
		}
		return name, gs, nil
	}
	if len(errs) == 0 {
		return "", nil, ErrBackendNotAvailable
	}
	return "", nil, errors.Join(errs...)
}
