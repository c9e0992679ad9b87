package civic

// NormalizeToOne collapses a to-one relation that may arrive as a list: the
// first element wins, a missing relation becomes the placeholder. Implemented
// once so every response assembly shares the same rule.
func NormalizeToOne[T any](raw []T, placeholder T) T {
	if len(raw) > 0 {
		return raw[0]
	}
	return placeholder
}

// ValueOr is the pointer form of NormalizeToOne, for preloaded relations
// whose row may be gone (deleted author, unassigned block).
func ValueOr[T any](raw *T, placeholder T) T {
	if raw != nil {
		return *raw
	}
	return placeholder
}

// PersonRef is the embedded author shape on reports and replies.
type PersonRef struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// PlaceholderAuthor stands in for a missing or deleted author.
func PlaceholderAuthor() PersonRef {
	return PersonRef{DisplayName: "Community Member", AvatarURL: nil}
}

// BlockRef is the embedded block shape on reports.
type BlockRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
