package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUintList(t *testing.T) {
	assert.Equal(t, []uint{1, 2, 3}, ParseUintList("1, 2", "x", "0", "3"))
	assert.Nil(t, ParseUintList(""))
}

func TestUniqueFilename(t *testing.T) {
	name := UniqueFilename(DirVideos, "Intro.MP4")

	assert.True(t, strings.HasPrefix(name, "videos/"))
	assert.True(t, strings.HasSuffix(name, ".mp4"))
	assert.NotEqual(t, name, UniqueFilename(DirVideos, "Intro.MP4"))
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("clip.MOV", AllowedVideoExtensions))
	assert.False(t, HasExtension("clip.exe", AllowedVideoExtensions))
}
