package category

import "strings"

// rule maps a set of lowercase substrings onto a category.
type rule struct {
	category Category
	keywords []string
}

func (r rule) matches(lower string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// rules are evaluated top to bottom and the first match wins, so a hint that
// mentions several keywords resolves to the earliest rule. The first eight
// entries hold one keyword each (two for LifeHacks) and decide every hint
// that contains one of them; the synonym entries below them only apply when
// none of those keywords occur.
//
//nolint:gochecknoglobals // Static lookup table
var rules = []rule{
	{Recipes, []string{"recipe"}},
	{Movies, []string{"movie"}},
	{Tools, []string{"tool"}},
	{Anime, []string{"anime"}},
	{LifeHacks, []string{"hack", "life"}},
	{Books, []string{"book"}},
	{Fitness, []string{"fitness"}},
	{Notes, []string{"note"}},

	// synonyms
	{Recipes, []string{"food", "cooking", "baking"}},
	{Movies, []string{"film", "cinema"}},
	{Tools, []string{"diy"}},
	{Anime, []string{"manga"}},
	{Books, []string{"novel", "reading"}},
	{Fitness, []string{"workout", "gym", "exercise"}},
	{Notes, []string{"remember", "idea"}},

	{Career, []string{"career", "job", "interview", "resume"}},
	{Art, []string{"artwork", "artist", "drawing", "painting", "sketch"}},
	{Tech, []string{"tech", "gadget", "software"}},
	{Gaming, []string{"gaming", "game", "esport"}},
	{Beauty, []string{"beauty", "makeup", "skincare"}},
	{Travel, []string{"travel", "trip", "vacation"}},
	{Music, []string{"music", "song", "playlist"}},
	{Products, []string{"product", "unboxing", "review"}},
	{Finance, []string{"finance", "money", "invest", "budget"}},
	{Coding, []string{"coding", "code", "programming", "developer"}},
	{Pets, []string{"pets", "puppy", "kitten", "dog"}},
	{Funny, []string{"funny", "meme", "comedy", "joke"}},
	{Fashion, []string{"fashion", "outfit", "style"}},
	{Quotes, []string{"quote", "motivation", "inspiration"}},
}

func match(text string) (Category, bool) {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.matches(lower) {
			return r.category, true
		}
	}
	return "", false
}

// Normalize maps free text (typically a category string returned by the AI
// classifier) onto the taxonomy. An exact category name is accepted first,
// then the keyword rules are tried. ok is false when nothing matches.
func Normalize(text string) (c Category, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	if c, ok := canonical(text); ok {
		return c, true
	}
	return match(text)
}

// ClassifyByHint returns the category suggested by a hint, or Uncategorized.
func ClassifyByHint(hint string) Category {
	if c, ok := match(hint); ok {
		return c
	}
	return Uncategorized
}

// Hint returns the part of raw input before the first colon, which users use
// to tag their input ("recipe: ..."). Without a colon the whole input is the hint.
func Hint(raw string) string {
	before, _, _ := strings.Cut(raw, ":")
	return before
}
