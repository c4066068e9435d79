//go:build mage

// Package main provides build targets for asciipinyin using Mage.
//
// Usage:
//
//	mage build     Compile the asciipinyin binary to bin/
//	mage test      Run all tests with the race detector
//	mage cover     Write coverage.out and print per-function coverage
//	mage lint      Run go vet and golangci-lint
//	mage clean     Remove build artifacts
//	mage install   Install asciipinyin to GOPATH/bin
//	mage stats     Print Go line counts per package
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo        = "go"
	binaryName   = "asciipinyin"
	binaryDir    = "bin"
	cmdDir       = "./cmd/asciipinyin"
	coverProfile = "coverage.out"
	versionVar   = "github.com/pmachovec/asciipinyin/internal/cli.Version"
)

// ldflags stamps the binary with $VERSION when set.
func ldflags() string {
	if v := os.Getenv("VERSION"); v != "" {
		return "-X " + versionVar + "=" + v
	}
	return ""
}

// Build compiles the asciipinyin binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests with the race detector.
func Test() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover runs the tests with a coverage profile and prints the summary.
func Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV(binGo, "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	for _, path := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	fmt.Printf("installing %s\n", dst)
	return sh.Copy(dst, src)
}
