package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"lyricsync/core/lyrics"
	"lyricsync/model"

	"github.com/gorilla/websocket"
)

// ErrUnrecognized is returned for payloads that match none of the known shapes.
var ErrUnrecognized = errors.New("unrecognized message")

// Kind is the interpretation chosen for an inbound frame.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindTime
	KindSynced
	KindUnsynced
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindSynced:
		return "synced"
	case KindUnsynced:
		return "unsynced"
	case KindClose:
		return "close"
	default:
		return "unrecognized"
	}
}

// Inbound is a decoded client frame.
type Inbound struct {
	Kind Kind
	Time uint64      // KindTime
	Song lyrics.Song // KindSynced, KindUnsynced
	Err  error       // KindUnrecognized
}

// Classify decodes a websocket frame. Shapes are tried in order: time update,
// synced song, unsynced song. Close frames map to KindClose for callers that
// see raw frames; ReadPump never does, since gorilla reports them as a read
// error. Anything else is unrecognized and carries an error wrapping ErrUnrecognized.
func Classify(messageType int, data []byte) Inbound {
	switch messageType {
	case websocket.TextMessage:
	case websocket.CloseMessage:
		return Inbound{Kind: KindClose}
	default:
		return unrecognized(fmt.Errorf("frame type %d is not text", messageType))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return unrecognized(err)
	}
	if fields == nil {
		return unrecognized(errors.New("payload is null"))
	}

	if _, ok := fields["time"]; ok {
		var update model.TimeUpdate
		if err := json.Unmarshal(data, &update); err == nil && update.Time != nil {
			return Inbound{Kind: KindTime, Time: *update.Time}
		}
	}

	raw, ok := fields["lyrics"]
	if !ok {
		return unrecognized(errors.New("payload has neither time nor lyrics"))
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Inbound{Kind: KindSynced, Song: lyrics.NoLyrics{}}
	}

	var synced []model.LyricLine
	if err := json.Unmarshal(raw, &synced); err == nil {
		if song, ok := syncedSong(synced); ok {
			return Inbound{Kind: KindSynced, Song: song}
		}
	}

	var unsynced []model.UnsyncedLyricLine
	if err := json.Unmarshal(raw, &unsynced); err != nil {
		return unrecognized(err)
	}
	song, ok := unsyncedSong(unsynced)
	if !ok {
		return unrecognized(errors.New("lyric line without words"))
	}
	return Inbound{Kind: KindUnsynced, Song: song}
}

func unrecognized(err error) Inbound {
	return Inbound{Kind: KindUnrecognized, Err: fmt.Errorf("%w: %v", ErrUnrecognized, err)}
}

func syncedSong(wire []model.LyricLine) (lyrics.Song, bool) {
	lines := make([]lyrics.Line, 0, len(wire))
	for _, l := range wire {
		if l.Time == nil {
			return nil, false
		}
		ws, ok := convertWords(l.Words)
		if !ok {
			return nil, false
		}
		lines = append(lines, lyrics.Line{Timestamp: *l.Time, Words: ws})
	}
	return lyrics.Synced{Lines: lines}, true
}

func unsyncedSong(wire []model.UnsyncedLyricLine) (lyrics.Song, bool) {
	lines := make([]lyrics.UnsyncedLine, 0, len(wire))
	for _, l := range wire {
		ws, ok := convertWords(l.Words)
		if !ok {
			return nil, false
		}
		lines = append(lines, lyrics.UnsyncedLine{Words: ws})
	}
	return lyrics.Unsynced{Lines: lines}, true
}

func convertWords(wire *[]model.Word) ([]lyrics.Word, bool) {
	if wire == nil {
		return nil, false
	}
	ws := make([]lyrics.Word, 0, len(*wire))
	for _, w := range *wire {
		if w.String == nil {
			return nil, false
		}
		ws = append(ws, lyrics.Word{Text: *w.String})
	}
	return ws, true
}
