//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build groups compile targets.
type Build mg.Namespace

// Test groups test targets.
type Test mg.Namespace

// All compiles every package with the OpenGL driver.
func (Build) All() error {
	return sh.RunV("go", "build", "./...")
}

// Headless compiles every package without cgo window and OpenGL support.
func (Build) Headless() error {
	return sh.RunWith(map[string]string{"CGO_ENABLED": "0"}, "go", "build", "-tags", "nogl", "./...")
}

// Demo builds the demo binary into bin/.
func (Build) Demo() error {
	return sh.RunV("go", "build", "-o", "bin/gfxcmd-demo", "./cmd/gfxcmd-demo")
}

// Unit runs the test suite.
func (Test) Unit() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the headless test suite with the race detector.
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "-tags", "nogl", "./...")
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	mg.Deps(Vet)
	return sh.RunV("golangci-lint", "run", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Trace runs the demo on the headless trace driver.
func Trace() error {
	mg.Deps(Build.Demo)
	return sh.RunV("bin/gfxcmd-demo", "-driver", "trace")
}
