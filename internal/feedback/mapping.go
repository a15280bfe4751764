package feedback

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/client"
	"github.com/Veraticus/mapping-lia/internal/model"
)

// friendly maps backend mapping failures to display text, first match wins.
var friendly = []struct {
	contains string
	message  string
}{
	{"Duplicate competence already exists in database", "This competence is already in the database"},
	{"Input is too short or empty", "This competence is too short or empty"},
	{"Invalid input format", "Invalid input format"},
	{"Input could not be normalized", "Could not normalize this competence"},
	{"No matching area/category/subcategory found", "No matching area/category/subcategory found"},
	{"An error occurred during matching", "An error occurred during matching. Please try again or contact support if the issue persists."},
	{"Validation failed", "Validation failed: input may be misspelled, non-English, or the match is incorrect."},
}

// FriendlyMappingMessage rewrites a known backend mapping failure.
// Unknown messages are returned unchanged.
func FriendlyMappingMessage(msg string) string {
	if msg == "" {
		return msg
	}
	for _, f := range friendly {
		if strings.Contains(msg, f.contains) {
			return f.message
		}
	}
	return msg
}

// ParseMappingError splits "competence: message" at the first ": " and
// rewrites the message part.
func ParseMappingError(text string) string {
	if text == "" {
		return text
	}

	idx := strings.Index(text, ": ")
	if idx <= 0 {
		return FriendlyMappingMessage(strings.TrimSpace(text))
	}

	competence := strings.TrimSpace(text[:idx])
	msg := FriendlyMappingMessage(strings.TrimSpace(text[idx+2:]))
	if competence == "" {
		return msg
	}
	return competence + ": " + msg
}

// MappingErrors extracts per-competence failures from a failed mapping call.
// A 400 with a text body carries all failures joined by "; ".
func MappingErrors(err error) []string {
	if err == nil {
		return nil
	}

	apiErr, ok := client.AsAPIError(err)
	if !ok {
		return []string{Message(err)}
	}

	if len(apiErr.Errors) > 0 {
		return parseAll(apiErr.Errors)
	}

	if apiErr.Message != "" {
		if apiErr.StatusCode == http.StatusBadRequest && !isJSONObject(apiErr.Body) {
			return parseAll(strings.Split(apiErr.Message, "; "))
		}
		return []string{ParseMappingError(apiErr.Message)}
	}

	return []string{Message(err)}
}

// BatchErrors returns the parsed failures of a partially successful batch.
func BatchErrors(b model.BatchMapping) []string {
	return parseAll(b.Errors)
}

// Summary condenses a list of failures into one notification line.
func Summary(errs []string) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0]
	default:
		return strconv.Itoa(len(errs)) + " errors occurred"
	}
}

func parseAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, ParseMappingError(s))
	}
	return out
}

func isJSONObject(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "{")
}
