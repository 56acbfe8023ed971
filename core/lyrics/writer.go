package lyrics

// Default messages shown when a song cannot be followed line by line.
const (
	DefaultNoLyricsMessage = "No Lyrics found ;("
	DefaultUnsyncedMessage = "This song is unsynced :("
	DefaultPlaceholder     = "\U000F0388"
)

// State is the phase a Writer is in.
type State int

const (
	NoSongLoaded State = iota
	SyncedWithLines
	SyncedNoLines
	UnsyncedLines
)

func (s State) String() string {
	switch s {
	case NoSongLoaded:
		return "no_song"
	case SyncedWithLines:
		return "synced"
	case SyncedNoLines:
		return "no_lyrics"
	case UnsyncedLines:
		return "unsynced"
	default:
		return "unknown"
	}
}

// Options configures what a Writer emits.
type Options struct {
	// Width pads or trims every line to this many characters. Zero disables it.
	Width int
	// NoLyricsMessage is shown once for a song without lyrics.
	NoLyricsMessage string
	// UnsyncedMessage is shown once for a song without timing.
	UnsyncedMessage string
	// Placeholder is shown while the position is before the first line.
	Placeholder string
	// SuppressPlaceholder emits nothing instead of Placeholder.
	SuppressPlaceholder bool
	// BlankOnLoad emits an empty separator line whenever a song is loaded.
	BlankOnLoad bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		NoLyricsMessage: DefaultNoLyricsMessage,
		UnsyncedMessage: DefaultUnsyncedMessage,
		Placeholder:     DefaultPlaceholder,
		BlankOnLoad:     true,
	}
}

// Markers kept in Writer.last besides real line indexes.
const (
	unset     = -1
	beforeAll = -2
	announced = -3
)

// Writer holds the song loaded on one connection and the last line shown for
// it. It is not safe for concurrent use; each session owns its own Writer.
type Writer struct {
	opts  Options
	song  Song
	state State
	last  int
}

// NewWriter returns a Writer with no song loaded.
func NewWriter(opts Options) *Writer {
	return &Writer{
		opts:  opts,
		song:  NoLyrics{},
		state: NoSongLoaded,
		last:  unset,
	}
}

// State reports the current phase.
func (w *Writer) State() State {
	return w.state
}

// Load replaces the current song and forgets what was shown for the previous
// one. When BlankOnLoad is set it returns an empty separator line to emit.
func (w *Writer) Load(song Song) (string, bool) {
	if song == nil {
		song = NoLyrics{}
	}
	w.song = song
	w.last = unset

	switch s := song.(type) {
	case NoLyrics:
		w.state = SyncedNoLines
	case Synced:
		// an empty line list is treated the same as no lyrics
		if len(s.Lines) == 0 {
			w.state = SyncedNoLines
		} else {
			w.state = SyncedWithLines
		}
	case Unsynced:
		w.state = UnsyncedLines
	}

	if w.opts.BlankOnLoad {
		return "", true
	}
	return "", false
}

// Advance moves the playback position to t and returns the line to display
// if it differs from what was last returned.
func (w *Writer) Advance(t uint64) (string, bool) {
	switch w.state {
	case SyncedWithLines:
		return w.advanceSynced(t)
	case UnsyncedLines:
		return w.announce(w.opts.UnsyncedMessage)
	default:
		return w.announce(w.opts.NoLyricsMessage)
	}
}

func (w *Writer) advanceSynced(t uint64) (string, bool) {
	lines := w.song.(Synced).Lines

	current := beforeAll
	if i, ok := Resolve(lines, t); ok {
		current = i
	}
	if current == w.last {
		return "", false
	}
	w.last = current

	if current == beforeAll {
		if w.opts.SuppressPlaceholder {
			return "", false
		}
		return Format(w.opts.Placeholder, w.opts.Width), true
	}
	return Format(lines[current].Text(), w.opts.Width), true
}

func (w *Writer) announce(message string) (string, bool) {
	if w.last != unset {
		return "", false
	}
	w.last = announced
	return message, true
}
