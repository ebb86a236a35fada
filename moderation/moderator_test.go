package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestModerator(t *testing.T) *Moderator {
	t.Helper()
	m, err := NewModerator(EmbeddedWords(), '*')
	require.NoError(t, err)
	return m
}

func TestCensor_MasksForbiddenWord(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t)

	censored := m.Censor("oh dammit that failed")

	req.Equal("oh ****** that failed", censored)
}

func TestCensor_LeavesCleanTextAlone(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t)

	clean := "hello, shall we review the deployment tomorrow?"
	req.Equal(clean, m.Censor(clean))
}

func TestCensor_CaseInsensitive(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t)

	req.Equal("******!", m.Censor("DaMmIt!"))
}

func TestCensor_LeetSpeak(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t)

	// d4mm1t normalizes to dammit and gets masked in place
	req.Equal("oh ******", m.Censor("oh d4mm1t"))
}

func TestCensor_PreservesLength(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t)

	original := "you utter jackass"
	censored := m.Censor(original)

	req.Len([]rune(censored), len([]rune(original)))
	req.NotEqual(original, censored)
}

func TestCensor_EmptyInput(t *testing.T) {
	req := require.New(t)
	m := newTestModerator(t)

	req.Equal("", m.Censor(""))
	req.Equal("   ", m.Censor("   "))
}

func TestEmbeddedWords_SkipsCommentsAndBlanks(t *testing.T) {
	req := require.New(t)

	words := EmbeddedWords()

	req.NotEmpty(words)
	for _, word := range words {
		req.NotEmpty(word)
		req.NotContains(word, "#")
	}
}
