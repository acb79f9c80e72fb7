// Package category holds the closed registry of item categories.
package category

// Registry order matches the display order used by the UI.
var all = []string{
	"produce",
	"dairy",
	"meat-seafood",
	"bakery",
	"pantry",
	"frozen",
	"beverages",
	"snacks",
	"household",
	"personal-care",
	"other",
}

var registry = func() map[string]struct{} {
	m := make(map[string]struct{}, len(all))
	for _, id := range all {
		m[id] = struct{}{}
	}
	return m
}()

// Valid reports whether id is a registered category.
func Valid(id string) bool {
	_, ok := registry[id]
	return ok
}

// All returns the registered category identifiers in display order.
func All() []string {
	out := make([]string, len(all))
	copy(out, all)
	return out
}
