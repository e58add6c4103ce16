//go:build mage

// Build targets for artifact_optimizer.
//
//	mage build    Compile the CLI to bin/
//	mage test     Run all tests
//	mage lambda   Build the Lambda bootstrap binary for linux/arm64
//	mage clean    Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "artifact_optimizer"
	binaryDir  = "bin"
	cmdDir     = "./cmd/artifact_optimizer"
	lambdaDir  = "./cmd/artifact_optimizer_lambda"
)

// Build compiles the CLI to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Lambda builds bin/lambda/bootstrap for the provided.al2023 runtime.
func Lambda() error {
	mg.Deps(Test)
	out := filepath.Join(binaryDir, "lambda", "bootstrap")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	env := map[string]string{"GOOS": "linux", "GOARCH": "arm64", "CGO_ENABLED": "0"}
	return sh.RunWithV(env, binGo, "build", "-tags", "lambda", "-trimpath", "-ldflags", "-s -w", "-o", out, lambdaDir)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
