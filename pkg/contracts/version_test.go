package contracts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, SchemaVersion, info.Schema)
}

func TestGetFullVersionString(t *testing.T) {
	s := GetFullVersionString("salesreport")
	assert.True(t, strings.HasPrefix(s, "salesreport v"+Version+" (built: "))
	assert.Contains(t, s, "schema: "+SchemaVersion)
}
