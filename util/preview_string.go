package util

// PreviewString cuts str down to at most max runes without splitting a
// multi-byte character.
func PreviewString(str string, max int) string {
	var numRunes = 0
	for index := range str {
		numRunes++
		if numRunes > max {
			return str[:index]
		}
	}
	return str
}
