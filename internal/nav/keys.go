package nav

// Key is a navigation key understood by the controller.
type Key int

const (
	KeyNone Key = iota
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyBackspace
	KeyRight
	KeyEnter
	KeyEscape
)

var keyNames = map[string]Key{
	"home":      KeyHome,
	"end":       KeyEnd,
	"pgup":      KeyPageUp,
	"pgdown":    KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"backspace": KeyBackspace,
	"right":     KeyRight,
	"enter":     KeyEnter,
	"esc":       KeyEscape,
}

// ParseKey maps a terminal key name ("up", "pgdown", "esc", ...) to a Key.
// Unknown names map to KeyNone.
func ParseKey(s string) Key {
	return keyNames[s]
}

func (k Key) String() string {
	for name, key := range keyNames {
		if key == k {
			return name
		}
	}
	return "none"
}
