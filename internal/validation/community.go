package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var communitySlugRegex = regexp.MustCompile(`^[a-z0-9-]{3,24}$`)

var reservedCommunitySlugs = map[string]struct{}{
	"admin":       {},
	"api":         {},
	"auth":        {},
	"settings":    {},
	"communities": {},
	"c":           {},
	"users":       {},
	"posts":       {},
	"comments":    {},
	"friends":     {},
	"metrics":     {},
	"health":      {},
	"login":       {},
	"signup":      {},
}

// ValidateCommunitySlug validates community slug format and reserved names.
func ValidateCommunitySlug(slug string) error {
	if !communitySlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-24 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedCommunitySlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}

// ValidateCommunityName validates the display name of a community.
func ValidateCommunityName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return fmt.Errorf("name must be at least 3 characters long")
	}
	if len(name) > 80 {
		return fmt.Errorf("name must not exceed 80 characters")
	}
	return nil
}
