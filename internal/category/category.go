// Package category defines the closed set of reel categories and the
// keyword matcher used to map free text onto it.
package category

import (
	"fmt"
	"strings"

	"reelvault/internal/apperr"
)

// Category is one value of the closed reel taxonomy.
type Category string

// Assignable categories.
const (
	Recipes       Category = "Recipes"
	Movies        Category = "Movies"
	Tools         Category = "Tools"
	Notes         Category = "Notes"
	Anime         Category = "Anime"
	LifeHacks     Category = "LifeHacks"
	Books         Category = "Books"
	Fitness       Category = "Fitness"
	Career        Category = "Career"
	Art           Category = "Art"
	Tech          Category = "Tech"
	Gaming        Category = "Gaming"
	Beauty        Category = "Beauty"
	Travel        Category = "Travel"
	Music         Category = "Music"
	Products      Category = "Products"
	Finance       Category = "Finance"
	Coding        Category = "Coding"
	Pets          Category = "Pets"
	Funny         Category = "Funny"
	Fashion       Category = "Fashion"
	Quotes        Category = "Quotes"
	Uncategorized Category = "Uncategorized"
)

// All is the filter-only meta value. It is never assigned to a reel.
const All Category = "All"

var ordered = []Category{
	Recipes, Movies, Tools, Notes, Anime, LifeHacks, Books, Fitness,
	Career, Art, Tech, Gaming, Beauty, Travel, Music, Products,
	Finance, Coding, Pets, Funny, Fashion, Quotes, Uncategorized,
}

// List returns the assignable categories in display order.
func List() []Category {
	out := make([]Category, len(ordered))
	copy(out, ordered)
	return out
}

// Valid reports whether c is an assignable category.
func (c Category) Valid() bool {
	for _, o := range ordered {
		if o == c {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// canonical returns the category whose name equals s, ignoring case.
func canonical(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range ordered {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// ParseFilter parses a filter value: "All" or any assignable category,
// case-insensitively.
func ParseFilter(s string) (Category, error) {
	if strings.EqualFold(strings.TrimSpace(s), string(All)) {
		return All, nil
	}
	if c, ok := canonical(s); ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q: %w", s, apperr.ErrInvalidInput)
}
