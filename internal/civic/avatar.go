package civic

import (
	"fmt"
	"strings"
)

const avatarPoolSize = 70

// AvatarURL returns the stored avatar when present, otherwise a deterministic
// placeholder picked from a fixed pool by hashing the seed.
func AvatarURL(seed string, existing *string) string {
	if existing != nil && *existing != "" {
		return *existing
	}

	source := strings.TrimSpace(seed)
	if source == "" {
		source = "neighbor"
	}

	var hash int32
	for _, r := range source {
		hash = (hash << 5) - hash + int32(r)
	}
	if hash < 0 {
		hash = -hash
	}

	return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", hash%avatarPoolSize+1)
}
