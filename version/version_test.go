package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestIsDev(t *testing.T) {
	assert.True(t, Info{Version: "dev"}.IsDev())
	assert.True(t, Info{}.IsDev())
	assert.False(t, Info{Version: "v0.3.1"}.IsDev())
}

func TestString(t *testing.T) {
	s := Info{Commit: "abc123", Branch: "main"}.String()
	assert.Contains(t, s, "abc123")
	assert.Contains(t, s, "Branch:\t\tmain")
}
