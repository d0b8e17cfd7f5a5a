package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
)

// The deterministic fallback: find $<amount> tokens, classify the trailing
// words through a keyword lexicon. Confidence is 0.8 when a keyword matched
// and 0.6 when the category fell through to Other.

var amountRe = regexp.MustCompile(`\$\s*([0-9]+(?:\.[0-9]{1,2})?)`)

const (
	fallbackConfidenceMatched   = 0.8
	fallbackConfidenceUnmatched = 0.6
)

// lexicon maps spending keywords to categories. First keyword hit in a
// segment wins.
var lexicon = map[string]model.Category{
	"lunch": model.CategoryFoodDining, "dinner": model.CategoryFoodDining,
	"breakfast": model.CategoryFoodDining, "restaurant": model.CategoryFoodDining,
	"coffee": model.CategoryFoodDining, "food": model.CategoryFoodDining,
	"pizza": model.CategoryFoodDining, "snacks": model.CategoryFoodDining,
	"meal": model.CategoryFoodDining, "takeout": model.CategoryFoodDining,

	"gas": model.CategoryTransportation, "fuel": model.CategoryTransportation,
	"uber": model.CategoryTransportation, "taxi": model.CategoryTransportation,
	"bus": model.CategoryTransportation, "train": model.CategoryTransportation,
	"parking": model.CategoryTransportation, "metro": model.CategoryTransportation,

	"rent": model.CategoryBillsUtilities, "electricity": model.CategoryBillsUtilities,
	"electric": model.CategoryBillsUtilities, "water": model.CategoryBillsUtilities,
	"internet": model.CategoryBillsUtilities, "phone": model.CategoryBillsUtilities,
	"bill": model.CategoryBillsUtilities, "bills": model.CategoryBillsUtilities,

	"groceries": model.CategoryGroceries, "grocery": model.CategoryGroceries,
	"supermarket": model.CategoryGroceries,

	"movie": model.CategoryEntertainment, "movies": model.CategoryEntertainment,
	"netflix": model.CategoryEntertainment, "concert": model.CategoryEntertainment,
	"game": model.CategoryEntertainment, "games": model.CategoryEntertainment,

	"gym": model.CategoryHealthFitness, "doctor": model.CategoryHealthFitness,
	"pharmacy": model.CategoryHealthFitness, "medicine": model.CategoryHealthFitness,

	"clothes": model.CategoryShopping, "shoes": model.CategoryShopping,
	"amazon": model.CategoryShopping, "shopping": model.CategoryShopping,

	"flight": model.CategoryTravel, "hotel": model.CategoryTravel,

	"course": model.CategoryEducation, "tuition": model.CategoryEducation,
	"books": model.CategoryEducation, "book": model.CategoryEducation,
}

// filler words stripped from the edges of a description segment.
var leadingFiller = map[string]struct{}{
	"on": {}, "for": {}, "at": {}, "in": {}, "a": {}, "an": {},
	"the": {}, "of": {}, "to": {}, "my": {}, "some": {},
}

var trailingFiller = map[string]struct{}{
	"and": {}, "plus": {}, "then": {}, "also": {}, "with": {},
}

// Fallback extracts expenses with the regex + lexicon path and tags the
// result with the reason the model path was skipped.
func Fallback(paragraph, reason string) Result {
	matches := amountRe.FindAllStringSubmatchIndex(paragraph, -1)

	result := Result{
		Source:         SourceFallback,
		FallbackReason: reason,
		Timeframe:      "current month",
	}

	for i, m := range matches {
		amount, err := strconv.ParseFloat(paragraph[m[2]:m[3]], 64)
		if err != nil {
			continue
		}

		// The segment between this amount and the next one carries the
		// words that describe what was bought.
		segEnd := len(paragraph)
		if i+1 < len(matches) {
			segEnd = matches[i+1][0]
		}
		segment := paragraph[m[1]:segEnd]

		category, matched := classifySegment(segment)
		confidence := fallbackConfidenceUnmatched
		if matched {
			confidence = fallbackConfidenceMatched
		}

		description := cleanDescription(segment)
		if description == "" {
			description = "expense"
		}

		result.Entries = append(result.Entries, Entry{
			Description:   description,
			Amount:        amount,
			Category:      category,
			PaymentMethod: model.PaymentUnknown,
			Confidence:    confidence,
		})
	}

	result.finalize()
	if len(result.Entries) > 0 {
		result.Insights = []string{
			fmt.Sprintf("Detected %d expense(s) totaling $%.2f.", len(result.Entries), result.TotalAmount),
		}
	}
	return result
}

// classifySegment looks each word of the segment up in the lexicon.
func classifySegment(segment string) (model.Category, bool) {
	for _, word := range tokenize(segment) {
		if category, ok := lexicon[word]; ok {
			return category, true
		}
	}
	return model.CategoryOther, false
}

// cleanDescription trims filler from both edges of a segment:
// " on lunch and " becomes "lunch".
func cleanDescription(segment string) string {
	words := tokenize(segment)

	for len(words) > 0 {
		if _, ok := leadingFiller[words[0]]; !ok {
			break
		}
		words = words[1:]
	}
	for len(words) > 0 {
		if _, ok := trailingFiller[words[len(words)-1]]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?()\"'")
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}
