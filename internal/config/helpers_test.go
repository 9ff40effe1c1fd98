package config

import (
	"os"
	"testing"
)

// unsetForTest removes keys from the environment and restores them when
// the test ends.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
}
