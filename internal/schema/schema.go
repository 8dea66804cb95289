// Package schema validates Strudel track metadata and pattern code.
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SlugPattern matches kebab-case identifiers: lowercase alphanumerics
// separated by single dashes.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// gainPattern captures the numeric literal of a .gain(...) call. Permissive
// on purpose: leading sign and bare decimal points are accepted.
var gainPattern = regexp.MustCompile(`\.gain\(\s*([-+]?[0-9]*\.?[0-9]+)\s*\)`)

// ValidateMetadata checks a decoded front-matter value against the track
// metadata rules. It returns errors (block the build) and warnings
// (surfaced but never blocking) in field-declaration order. Field checks
// run independently so one bad field does not hide problems in another.
func ValidateMetadata(metadata interface{}) (errors []string, warnings []string) {
	fields, ok := metadata.(map[string]interface{})
	if !ok || fields == nil {
		errors = append(errors, "metadata block is missing or malformed")
		return errors, warnings
	}

	slug := fields["slug"]
	if isBlank(slug) {
		errors = append(errors, "`slug` is required")
	} else if s, isStr := slug.(string); !isStr || !SlugPattern.MatchString(s) {
		errors = append(errors, "`slug` must be kebab-case (lowercase alphanumerics separated by dashes)")
	}

	if title, isStr := fields["title"].(string); !isStr || strings.TrimSpace(title) == "" {
		errors = append(errors, "`title` must be a non-empty string")
	}

	tempo := fields["tempo"]
	if tempo == nil {
		errors = append(errors, "`tempo` (cycles per minute) is required")
	} else if value, err := toFloat(tempo); err != nil {
		errors = append(errors, "`tempo` must be numeric")
	} else if value <= 0 {
		errors = append(errors, "`tempo` must be a positive number")
	} else if value != float64(int64(value)) {
		warnings = append(warnings, "`tempo` should normally be an integer")
	}

	if mood, isStr := fields["mood"].(string); !isStr || strings.TrimSpace(mood) == "" {
		warnings = append(warnings, "`mood` is recommended to help downstream curation")
	}

	tags, isList := fields["tags"].([]interface{})
	if !isList || len(tags) == 0 {
		warnings = append(warnings, "`tags` array is recommended for filtering (minimum 2)")
	} else {
		if len(tags) < 2 {
			warnings = append(warnings, "provide at least 2 tags for better discovery")
		}
		for i, tag := range tags {
			if s, isStr := tag.(string); !isStr || strings.TrimSpace(s) == "" {
				errors = append(errors, fmt.Sprintf("tag #%d must be a non-empty string", i+1))
			} else if s != strings.ToLower(s) {
				warnings = append(warnings, fmt.Sprintf("tag %q should be lowercase", s))
			}
		}
	}

	if summary, isStr := fields["summary"].(string); !isStr || strings.TrimSpace(summary) == "" {
		warnings = append(warnings, "`summary` is recommended to describe the arrangement")
	}

	if resources, present := fields["resources"]; present && resources != nil {
		entries, isList := resources.([]interface{})
		if !isList {
			errors = append(errors, "`resources` must be a list of strings if provided")
		} else {
			for i, resource := range entries {
				if s, isStr := resource.(string); !isStr || strings.TrimSpace(s) == "" {
					warnings = append(warnings, fmt.Sprintf("resource #%d should be a non-empty string", i+1))
				}
			}
		}
	}

	return errors, warnings
}

// ValidatePatternCode runs shallow lexical heuristics over a pattern body.
// It is deliberately not a parser: the authoritative syntax check happens
// later in the browser lint session.
func ValidatePatternCode(code string) (errors []string, warnings []string) {
	if strings.TrimSpace(code) == "" {
		errors = append(errors, "pattern body is empty")
		return errors, warnings
	}

	stripped := strings.ReplaceAll(code, " ", "")
	if !strings.Contains(stripped, "setcpm(") && !strings.Contains(stripped, "setcps(") {
		warnings = append(warnings, "set tempo explicitly with `setcpm(...)` once near the top")
	}

	for _, match := range gainPattern.FindAllStringSubmatch(code, -1) {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if value > 1 {
			warnings = append(warnings, fmt.Sprintf("gain literal %g detected; consider keeping it <= 1 to avoid clipping", value))
		}
	}

	return errors, warnings
}

// isBlank reports whether a decoded scalar counts as "not provided": nil
// or an empty string.
func isBlank(value interface{}) bool {
	if value == nil {
		return true
	}
	s, isStr := value.(string)
	return isStr && s == ""
}

// toFloat coerces decoded YAML scalars to float64. Numeric strings are
// accepted to match the lenient behavior track authors rely on.
func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not a number: %T", value)
	}
}
