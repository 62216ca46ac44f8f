package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionInfo(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	assert.Contains(t, GetVersionInfo(), "quotes dev (")
	assert.Equal(t, "quotes dev", GetShortVersion())

	Version, Commit, Date = "1.2.0", "abc123", "2026-01-01"
	assert.Contains(t, GetVersionInfo(), "commit: abc123")
	assert.Equal(t, "1.2.0", GetVersion())
}
