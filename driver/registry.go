// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownDriver is returned by Open for names nobody registered.
var ErrUnknownDriver = errors.New("driver: unknown driver")

// Factory opens a driver instance.
type Factory func(opts Options) (Driver, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register makes a driver available under name. It is meant to be called
// from the init function of a driver package.
//
// Register panics if factory is nil or if name is already registered.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("driver: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("driver: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a driver. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Open creates a driver instance by name.
func Open(name string, opts Options) (Driver, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownDriver, name)
	}
	drv, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("driver: open %q: %w", name, err)
	}
	return drv, nil
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Count returns the number of registered drivers.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(factories)
}
