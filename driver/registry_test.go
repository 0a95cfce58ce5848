package driver

import (
	"errors"
	"testing"
)

// fakeDriver satisfies Driver by embedding the interface; only the identity
// of the value matters in registry tests.
type fakeDriver struct {
	Driver
	opts Options
}

// resetRegistry clears all registered drivers for test isolation.
func resetRegistry() map[string]Factory {
	registryMu.Lock()
	defer registryMu.Unlock()
	saved := factories
	factories = make(map[string]Factory)
	return saved
}

func restoreRegistry(saved map[string]Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories = saved
}

func TestRegisterAndOpen(t *testing.T) {
	defer restoreRegistry(resetRegistry())

	Register("fake", func(opts Options) (Driver, error) {
		return &fakeDriver{opts: opts}, nil
	})

	drv, err := Open("fake", Options{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	fd, ok := drv.(*fakeDriver)
	if !ok {
		t.Fatalf("Open() returned %T, want *fakeDriver", drv)
	}
	if fd.opts.Width != 640 || fd.opts.Height != 480 {
		t.Errorf("factory got size %dx%d, want 640x480", fd.opts.Width, fd.opts.Height)
	}
}

func TestOpenUnknown(t *testing.T) {
	defer restoreRegistry(resetRegistry())

	_, err := Open("missing", Options{})
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Open(missing) error = %v, want ErrUnknownDriver", err)
	}
}

func TestOpenFactoryError(t *testing.T) {
	defer restoreRegistry(resetRegistry())

	boom := errors.New("no context")
	Register("broken", func(Options) (Driver, error) { return nil, boom })

	_, err := Open("broken", Options{})
	if !errors.Is(err, boom) {
		t.Errorf("Open(broken) error = %v, want wrapped %v", err, boom)
	}
}

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
	}{
		{
			name:  "nil factory",
			setup: func() { Register("nil", nil) },
		},
		{
			name: "duplicate",
			setup: func() {
				f := func(Options) (Driver, error) { return &fakeDriver{}, nil }
				Register("dup", f)
				Register("dup", f)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer restoreRegistry(resetRegistry())
			defer func() {
				if recover() == nil {
					t.Error("Register did not panic")
				}
			}()
			tt.setup()
		})
	}
}

func TestDriversSortedAndCount(t *testing.T) {
	defer restoreRegistry(resetRegistry())

	f := func(Options) (Driver, error) { return &fakeDriver{}, nil }
	Register("zeta", f)
	Register("alpha", f)
	Register("mid", f)

	got := Drivers()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Drivers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Drivers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if Count() != 3 {
		t.Errorf("Count() = %d, want 3", Count())
	}
	if !IsRegistered("mid") {
		t.Error("IsRegistered(mid) = false, want true")
	}

	Unregister("mid")
	Unregister("never-registered")
	if IsRegistered("mid") {
		t.Error("IsRegistered(mid) after Unregister = true, want false")
	}
	if Count() != 2 {
		t.Errorf("Count() after Unregister = %d, want 2", Count())
	}
}

func TestCullStateMode(t *testing.T) {
	tests := []struct {
		name    string
		state   CullState
		wantAll bool
	}{
		{"disabled", CullState{Enabled: false, Faces: CullBack}, false},
		{"back", CullState{Enabled: true, Faces: CullBack}, false},
		{"both", CullState{Enabled: true, Faces: CullFront | CullBack}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, all := tt.state.Mode()
			if all != tt.wantAll {
				t.Errorf("Mode() all = %v, want %v", all, tt.wantAll)
			}
		})
	}
}
