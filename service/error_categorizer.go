package service

import (
	"errors"
	"strings"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/internal/ted"
	"github.com/ludo-technologies/treedist/internal/tree"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	patterns []categoryPatterns
}

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() *ErrorCategorizerImpl {
	return &ErrorCategorizerImpl{
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorPatterns lists message patterns, most specific category first
func initializeErrorPatterns() []categoryPatterns {
	return []categoryPatterns{
		{domain.ErrorCategoryResource, []string{
			"resource limit",
			"branch budget",
			"time limit",
			"depth limit",
			"deadline exceeded",
		}},
		{domain.ErrorCategoryStructure, []string{
			"malformed tree",
			"syntax error",
			"cycle",
			"multiple roots",
			"two parents",
		}},
		{domain.ErrorCategoryConfig, []string{
			"config",
			"configuration",
			"invalid settings",
			"toml",
			"unknown strategy",
			"cost",
		}},
		{domain.ErrorCategoryInput, []string{
			"invalid input",
			"no files found",
			"no tree files",
			"file not found",
			"no such file",
			"cannot access",
			"permission denied",
			"is required",
		}},
		{domain.ErrorCategoryOutput, []string{
			"write",
			"output",
			"cannot create",
			"unsupported format",
		}},
		{domain.ErrorCategoryProcessing, []string{
			"parse",
			"invariant",
			"failed to compute",
		}},
	}
}

// Categorize determines the category of an error. Domain error codes and
// core sentinels win over message patterns.
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	category, ok := categoryFromCode(err)
	if !ok {
		category = ec.categoryFromMessage(strings.ToLower(err.Error()))
	}

	message := ec.getCategoryMessage(category)
	if category == domain.ErrorCategoryUnknown {
		message = err.Error()
	}
	return &domain.CategorizedError{
		Category: category,
		Message:  message,
		Original: err,
	}
}

func categoryFromCode(err error) (domain.ErrorCategory, bool) {
	switch {
	case errors.Is(err, ted.ErrResourceExceeded):
		return domain.ErrorCategoryResource, true
	case errors.Is(err, tree.ErrStructural):
		return domain.ErrorCategoryStructure, true
	case errors.Is(err, ted.ErrInvalidConfiguration):
		return domain.ErrorCategoryConfig, true
	case errors.Is(err, ted.ErrInvariantViolation):
		return domain.ErrorCategoryProcessing, true
	}

	switch domain.ErrorCode(err) {
	case domain.ErrCodeResourceExceeded:
		return domain.ErrorCategoryResource, true
	case domain.ErrCodeStructuralError, domain.ErrCodeParseError:
		return domain.ErrorCategoryStructure, true
	case domain.ErrCodeInvalidConfiguration, domain.ErrCodeConfigError:
		return domain.ErrorCategoryConfig, true
	case domain.ErrCodeInvalidInput, domain.ErrCodeFileNotFound:
		return domain.ErrorCategoryInput, true
	case domain.ErrCodeOutputError, domain.ErrCodeUnsupportedFormat:
		return domain.ErrorCategoryOutput, true
	case domain.ErrCodeInvariantViolation, domain.ErrCodeAnalysisError:
		return domain.ErrorCategoryProcessing, true
	}
	return "", false
}

func (ec *ErrorCategorizerImpl) categoryFromMessage(errMsg string) domain.ErrorCategory {
	for _, cp := range ec.patterns {
		if containsAnyPattern(errMsg, cp.patterns) {
			return cp.category
		}
	}
	return domain.ErrorCategoryUnknown
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the tree files exist and are readable",
			"Use --inline to pass bracket notation such as \"A(B,C)\" directly",
			"Quote glob patterns so the shell does not expand them: treedist batch 'trees/**/*.tree'",
		},
		domain.ErrorCategoryStructure: {
			"Bracket notation is label(child,child,...); quote labels containing ( ) , or \"",
			"JSON and YAML trees are nested {label, children} documents",
			"Python files must parse without syntax errors",
		},
		domain.ErrorCategoryConfig: {
			"Costs must be finite numbers >= 0",
			"Valid strategies: backtracking, branch_and_bound, divide_and_conquer, dynamic_programming",
			"Try: treedist init to generate a valid .treedist.toml",
		},
		domain.ErrorCategoryResource: {
			"The search strategies are exponential; use --strategy divide_and_conquer for large trees",
			"Raise --max-branches or --timeout, or set 0 to disable the limit",
			"Raise --max-depth for very deep trees",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions for the output path",
			"Use one of --json, --yaml or --csv, or none for text",
		},
		domain.ErrorCategoryProcessing: {
			"Strategies disagreeing on an exact distance is a bug; please report it with both trees",
			"Run with --verbose for detailed information",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to read input trees",
		domain.ErrorCategoryStructure:  "Input is not a well-formed tree",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryResource:   "Computation stopped at a resource limit",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while computing the edit distance",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An unexpected error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}

var _ domain.ErrorCategorizer = (*ErrorCategorizerImpl)(nil)
