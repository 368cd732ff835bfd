package service

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type ITextService interface {
	RepairUTF8(input string) string
	RemoveTags(input string) string
	CollapseWhitespace(input string) string
	ReduceToLength(input string, length int) string
	SanitizeName(input string) string
}

type TextService struct{}

func NewTextService() *TextService {
	return &TextService{}
}

// RepairUTF8 replaces invalid byte sequences with U+FFFD so a name can
// always be stored as valid text.
func (ts *TextService) RepairUTF8(input string) string {
	return strings.ToValidUTF8(input, "�")
}

func (ts *TextService) RemoveTags(input string) string {
	re := regexp.MustCompile(`<[^>]*>`)
	return re.ReplaceAllString(html.UnescapeString(input), "")
}

func (ts *TextService) CollapseWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func (ts *TextService) ReduceToLength(input string, length int) string {
	var builder strings.Builder
	words := strings.Split(input, " ")
	totalLength := 0

	for i, word := range words {
		if totalLength+len(word) > length {
			break
		}

		if i > 0 {
			builder.WriteString(" ")
			totalLength++
		}

		builder.WriteString(word)
		totalLength += len(word)
	}

	return builder.String()
}

const maxNameLength = 512

// SanitizeName prepares a listing name coming from the search API:
// repairs the encoding, normalizes to NFC, strips markup and squeezes
// whitespace. Marketplace names are occasionally decorated with tags or
// pasted with broken encodings, so every step has to tolerate garbage.
func (ts *TextService) SanitizeName(input string) string {
	cleaned := ts.RepairUTF8(input)
	cleaned = norm.NFC.String(cleaned)
	cleaned = ts.RemoveTags(cleaned)
	cleaned = ts.CollapseWhitespace(cleaned)
	if len(cleaned) > maxNameLength {
		cleaned = ts.ReduceToLength(cleaned, maxNameLength)
	}
	return cleaned
}
