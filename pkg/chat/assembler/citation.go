package assembler

import (
	"regexp"
	"strings"
)

// Citation markers travel inline in assistant output using the form
// {%citation items=[{name:"..",id:".."}]/%}. The items payload is not JSON
// (keys are bare), so both sides use these helpers instead of a codec.

var (
	markerPattern = regexp.MustCompile(`\{%citation items=\[(.*?)\]\s*/%\}`)
	itemPattern   = regexp.MustCompile(`\{\s*name:"((?:[^"\\]|\\.)*)"\s*,\s*id:"((?:[^"\\]|\\.)*)"\s*\}`)
)

// BuildMarker renders citations as one inline marker. Empty input yields "".
func BuildMarker(citations []Citation) string {
	if len(citations) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("{%citation items=[")
	for i, c := range citations {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{name:"`)
		sb.WriteString(escapeQuotes(c.Name))
		sb.WriteString(`",id:"`)
		sb.WriteString(escapeQuotes(c.Id))
		sb.WriteString(`"}`)
	}
	sb.WriteString("]/%}")
	return sb.String()
}

// ParseMarkers extracts every citation from the markers embedded in content.
func ParseMarkers(content string) []Citation {
	var citations []Citation
	for _, marker := range markerPattern.FindAllStringSubmatch(content, -1) {
		for _, item := range itemPattern.FindAllStringSubmatch(marker[1], -1) {
			citations = append(citations, Citation{
				Name: unescapeQuotes(item[1]),
				Id:   unescapeQuotes(item[2]),
			})
		}
	}
	return citations
}

// StripMarkers removes citation markers, leaving the prose answer.
func StripMarkers(content string) string {
	return strings.TrimSpace(markerPattern.ReplaceAllString(content, ""))
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func unescapeQuotes(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}
