package session

// Key names understood by HandleKey. Digits "1" to "9" accept the
// suggestion at that position.
const (
	KeyUp     = "up"
	KeyDown   = "down"
	KeyEnter  = "enter"
	KeyEscape = "escape"
	KeySpace  = "space"
)

// keyIndex maps an accepting key to a suggestion index.
func keyIndex(key string, selected int) (int, bool) {
	if key == KeyEnter {
		return selected, true
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return int(key[0] - '1'), true
	}
	return 0, false
}
