// Package lyrics resolves a playback position to the lyric line that should
// be on screen and decides when that line has to be shown again.
package lyrics

import "strings"

// Word is a single displayable token.
type Word struct {
	Text string
}

// Line is a lyric line with the position, in caller-defined units, at which
// it starts.
type Line struct {
	Timestamp uint64
	Words     []Word
}

// Text joins the words with single spaces and trims the result.
func (l Line) Text() string {
	return joinWords(l.Words)
}

// UnsyncedLine is a lyric line without timing. Its content is never shown.
type UnsyncedLine struct {
	Words []Word
}

// Text joins the words with single spaces and trims the result.
func (l UnsyncedLine) Text() string {
	return joinWords(l.Words)
}

func joinWords(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Song is one of NoLyrics, Synced or Unsynced.
type Song interface {
	isSong()
}

// NoLyrics is a synced song for which no lyrics are available.
type NoLyrics struct{}

// Synced is a song whose lines are sorted ascending by timestamp.
// Sortedness is not checked.
type Synced struct {
	Lines []Line
}

// Unsynced is a song that has lyrics but no timing for them.
type Unsynced struct {
	Lines []UnsyncedLine
}

func (NoLyrics) isSong() {}
func (Synced) isSong()   {}
func (Unsynced) isSong() {}
