package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/leap-app/leap/internal/api"
)

// ResolveCategory finds the category named by input, which may be an id,
// an exact or prefix name match, or a close misspelling.
func ResolveCategory(input string, cats []api.MindContentCategory) (api.MindContentCategory, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return api.MindContentCategory{}, fmt.Errorf("empty category")
	}

	if id, err := strconv.Atoi(input); err == nil {
		for _, c := range cats {
			if c.ID == id {
				return c, nil
			}
		}
		return api.MindContentCategory{}, fmt.Errorf("no category with id %d", id)
	}

	want := strings.ToLower(input)
	var prefixed []api.MindContentCategory
	for _, c := range cats {
		name := strings.ToLower(c.Name)
		if name == want {
			return c, nil
		}
		if strings.HasPrefix(name, want) {
			prefixed = append(prefixed, c)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}
	if len(prefixed) > 1 {
		return api.MindContentCategory{}, fmt.Errorf("category %q is ambiguous: %s", input, names(prefixed))
	}

	// Allow roughly one typo per three characters.
	limit := max(2, len(want)/3)
	best, bestDist, tied := -1, limit+1, false
	for i, c := range cats {
		d := levenshtein.ComputeDistance(want, strings.ToLower(c.Name))
		switch {
		case d < bestDist:
			best, bestDist, tied = i, d, false
		case d == bestDist:
			tied = true
		}
	}
	if best < 0 {
		return api.MindContentCategory{}, fmt.Errorf("unknown category %q (have %s)", input, names(cats))
	}
	if tied {
		return api.MindContentCategory{}, fmt.Errorf("category %q is ambiguous", input)
	}
	return cats[best], nil
}

func names(cats []api.MindContentCategory) string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return strings.Join(out, ", ")
}
