package civic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatarURLPrefersStored(t *testing.T) {
	stored := "https://example.com/me.png"
	assert.Equal(t, stored, AvatarURL("Asha", &stored))

	empty := ""
	assert.Contains(t, AvatarURL("Asha", &empty), "i.pravatar.cc")
}

func TestAvatarURLDeterministic(t *testing.T) {
	first := AvatarURL("Asha", nil)
	second := AvatarURL("Asha", nil)

	assert.Equal(t, first, second)
	assert.Regexp(t, `^https://i\.pravatar\.cc/150\?img=\d+$`, first)
}

func TestAvatarURLEmptySeed(t *testing.T) {
	assert.Equal(t, AvatarURL("", nil), AvatarURL("   ", nil))
}
