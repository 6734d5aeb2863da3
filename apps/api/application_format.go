package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	checkboxOnValue     = "on"
	checkboxDisplayYes  = "Yes"
	applicationFieldSep = "<br/>"
)

// formatFieldLabel upper-cases the first character of a field name and
// turns hyphens and underscores into spaces.
func formatFieldLabel(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	if first != utf8.RuneError && unicode.IsLower(first) {
		name = string(unicode.ToUpper(first)) + name[size:]
	}
	name = strings.ReplaceAll(name, "-", " ")
	return strings.ReplaceAll(name, "_", " ")
}

func formatFieldValue(value string) string {
	if value == checkboxOnValue {
		return checkboxDisplayYes
	}
	return value
}

// formatApplicationHTML renders every field as a bold label followed by its
// value, in submission order.
func formatApplicationHTML(sub Submission) string {
	fragments := make([]string, 0, len(sub))
	for _, field := range sub {
		fragments = append(fragments, fmt.Sprintf("<b>%s:</b><br/>%s<br/>", formatFieldLabel(field.Name), formatFieldValue(field.Value)))
	}
	return strings.Join(fragments, applicationFieldSep)
}

func formatApplicationText(sub Submission) string {
	lines := make([]string, 0, len(sub))
	for _, field := range sub {
		lines = append(lines, fmt.Sprintf("%s: %s", formatFieldLabel(field.Name), formatFieldValue(field.Value)))
	}
	return strings.Join(lines, "\n")
}

func applicationSubject(sub Submission) string {
	return fmt.Sprintf("%s - Adoption Application from %s", sub.Value(dogNameField), sub.Value(applicantNameField))
}
