package civic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetNeedLevelBands(t *testing.T) {
	cases := []struct {
		score int
		tier  string
	}{
		{100, "destructive"},
		{70, "destructive"},
		{69, "default"},
		{40, "default"},
		{39, "secondary"},
		{0, "secondary"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.tier, GetNeedLevel(tc.score).Tier, "score %d", tc.score)
	}
}

func TestGetNeedLevelLabels(t *testing.T) {
	assert.Equal(t, "Critical attention needed", GetNeedLevel(85).Label)
	assert.Equal(t, "Rising concern", GetNeedLevel(55).Label)
	assert.Equal(t, "Healthy momentum", GetNeedLevel(10).Label)
}
