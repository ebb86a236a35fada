package moderation

import (
	_ "embed"
	"strings"
)

//go:embed words.txt
var wordsFile string

// EmbeddedWords returns the built-in censored wordlist, one word per line,
// ignoring blanks and # comments.
func EmbeddedWords() []string {
	var words []string
	for _, line := range strings.Split(wordsFile, "\n") {
		word := strings.TrimSpace(line)
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	return words
}
