// Package testhelpers provides helpers for integration tests.
package testhelpers

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/kndndrj/mysql-fdw/core"
)

// GetContainerProvider returns the container provider type to use for the tests.
// If we detect podman is available, we use it, otherwise we use docker.
func GetContainerProvider() testcontainers.ProviderType {
	if _, err := exec.LookPath("podman"); err == nil {
		fmt.Println("Podman detected. Remember to set TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED=true;")
		return testcontainers.ProviderPodman
	}
	return testcontainers.ProviderDocker
}

// ScanAll begins a scan and iterates it to the end, passes times, with a
// rescan between passes. The scan is ended afterwards.
func ScanAll(t *testing.T, ft *core.ForeignTable, passes int) [][]*core.Tuple {
	t.Helper()

	ctx := context.Background()
	scan, err := ft.Begin(ctx)
	require.NoError(t, err)
	defer func() { require.NoError(t, scan.End()) }()

	out := make([][]*core.Tuple, 0, passes)
	for pass := 0; pass < passes; pass++ {
		if pass > 0 {
			scan.ReScan()
		}

		var tuples []*core.Tuple
		for {
			tuple, err := scan.Iterate(ctx)
			require.NoError(t, err)
			if tuple == nil {
				break
			}
			tuples = append(tuples, tuple)
		}
		out = append(out, tuples)
	}

	return out
}

// GetTestDataPath returns the path to the testdata directory.
func GetTestDataPath() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get current file path")
	}

	return filepath.Join(filepath.Dir(currentFile), "../testdata"), nil
}

// GetTestDataFile returns a file from the testdata directory.
func GetTestDataFile(filename string) (*os.File, error) {
	testDataPath, err := GetTestDataPath()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(testDataPath, filename)
	return os.Open(path)
}
