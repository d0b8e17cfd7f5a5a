package model

import "strings"

// Category is the closed spending taxonomy. Ad hoc category strings produce
// silent mismatches like "Food & Dining" vs "food_dining", so a single
// validated set is shared by extraction, storage and querying.
type Category string

const (
	CategoryFoodDining     Category = "Food & Dining"
	CategoryTransportation Category = "Transportation"
	CategoryBillsUtilities Category = "Bills & Utilities"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthFitness  Category = "Health & Fitness"
	CategoryTravel         Category = "Travel"
	CategoryEducation      Category = "Education"
	CategoryGroceries      Category = "Groceries"
	CategoryOther          Category = "Other"
)

// AllCategories is the reference list handed to the LLM as an enum.
var AllCategories = []Category{
	CategoryFoodDining, CategoryTransportation, CategoryBillsUtilities,
	CategoryShopping, CategoryEntertainment, CategoryHealthFitness,
	CategoryTravel, CategoryEducation, CategoryGroceries, CategoryOther,
}

// CategoryNames returns the taxonomy as strings, for prompt enums and
// validation messages.
func CategoryNames() []string {
	names := make([]string, len(AllCategories))
	for i, c := range AllCategories {
		names[i] = string(c)
	}
	return names
}

// categoryGroups maps each category to a coarse group. A historical expense
// in the same group as a requested category scores 0.7 instead of the 1.0
// exact-match relevance.
var categoryGroups = map[Category]string{
	CategoryFoodDining:     "food",
	CategoryGroceries:      "food",
	CategoryTransportation: "transport",
	CategoryTravel:         "transport",
	CategoryBillsUtilities: "bills",
	CategoryShopping:       "shopping",
	CategoryEntertainment:  "entertainment",
	CategoryHealthFitness:  "health",
}

// Group returns the coarse group of a category, or "" when it has none
// (Education and Other are ungrouped).
func (c Category) Group() string {
	return categoryGroups[c]
}

// canonical lookup: lowercase, letters and digits only. Built once from the
// taxonomy plus a handful of aliases seen in the wild.
var categoryLookup = func() map[string]Category {
	m := make(map[string]Category)
	for _, c := range AllCategories {
		m[canonicalKey(string(c))] = c
	}
	aliases := map[string]Category{
		"food":          CategoryFoodDining,
		"fooddining":    CategoryFoodDining,
		"dining":        CategoryFoodDining,
		"restaurants":   CategoryFoodDining,
		"transport":     CategoryTransportation,
		"bills":         CategoryBillsUtilities,
		"utilities":     CategoryBillsUtilities,
		"billsutilities": CategoryBillsUtilities,
		"health":        CategoryHealthFitness,
		"healthfitness": CategoryHealthFitness,
		"medical":       CategoryHealthFitness,
		"grocery":       CategoryGroceries,
		"misc":          CategoryOther,
	}
	for k, v := range aliases {
		m[k] = v
	}
	return m
}()

func canonicalKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCategory maps a free-form category string onto the closed set.
// The boolean reports whether the input was recognized; unrecognized input
// falls back to Other so a drifting model answer never breaks extraction.
func NormalizeCategory(raw string) (Category, bool) {
	if c, ok := categoryLookup[canonicalKey(raw)]; ok {
		return c, true
	}
	return CategoryOther, false
}
