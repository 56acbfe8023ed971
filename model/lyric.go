package model

// Word is a single token of a lyric line as sent by the client.
type Word struct {
	String *string `json:"string"`
}

// LyricLine is one timed lyric entry on the wire.
type LyricLine struct {
	Time  *uint64 `json:"time"`
	Words *[]Word `json:"words"`
}

// UnsyncedLyricLine is a lyric entry without timing information.
type UnsyncedLyricLine struct {
	Words *[]Word `json:"words"`
}

// TimeUpdate carries the current playback position.
// {"time": 1234}
type TimeUpdate struct {
	Time *uint64 `json:"time"`
}
