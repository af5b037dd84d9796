package foldertree

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugFallback is used when a name normalizes to nothing ("***", emoji-only
// names and the like). Sibling collisions on the fallback are handled by the
// normal numeric suffixing in AllocateSlug.
const slugFallback = "folder"

// Slugify normalizes a display name into a URL-safe slug: diacritics folded,
// lower-cased, runs of non-alphanumerics collapsed to a single dash, leading
// and trailing dashes trimmed. Deterministic and pure.
func Slugify(name string) string {
	// Strip diacritics: decompose, drop combining marks, recompose.
	deaccent := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(deaccent, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	lastDash := true // suppresses leading dashes
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return slugFallback
	}
	return slug
}

// AllocateSlug derives a slug from the display name and, if it collides with
// a sibling slug, appends an incrementing numeric suffix until unique.
func AllocateSlug(name string, taken map[string]struct{}) string {
	base := Slugify(name)

	slug := base
	for i := 2; ; i++ {
		if _, exists := taken[slug]; !exists {
			return slug
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}
