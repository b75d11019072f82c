package validator

import (
	"fmt"
	"sort"
)

// analyze builds the summary/by-type/by-category rollup consumed by
// reporting (the diagnostic analyzer's output, folded into the
// validator result since both walk the same error list).
func analyze(errs []Error) Analysis {
	byType := map[ErrorType]int{}
	byCategory := map[ErrorCategory]int{}
	var suggestions []string
	seen := map[string]bool{}

	for _, e := range errs {
		byType[e.Type]++
		byCategory[e.Category]++
		if e.Suggestion != "" && !seen[e.Suggestion] {
			seen[e.Suggestion] = true
			suggestions = append(suggestions, e.Suggestion)
		}
	}

	sort.Strings(suggestions)
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}

	summary := "no discrepancies"
	if len(errs) > 0 {
		summary = fmt.Sprintf("%d discrepanc%s across %d categor%s", len(errs), ySuffix(len(errs)), len(byCategory), ySuffix(len(byCategory)))
	}

	return Analysis{
		TotalErrors:      len(errs),
		ErrorsByType:     byType,
		ErrorsByCategory: byCategory,
		Summary:          summary,
		TopSuggestions:   suggestions,
	}
}

func ySuffix(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
