package ingest

import "strings"

// Placeholders used when garbled text cannot be recovered.
const (
	hiddenName    = "Id- [Name Hidden]"
	hiddenVehicle = "[Vehicle Name Hidden]"
	unreadable    = "N/A"
)

// CleanText repairs free-text fields that were exported with the wrong
// character encoding. Garbled runes show up as literal question marks;
// readable fragments (numeric codes, plate numbers) are kept and the
// rest is replaced with a fixed placeholder. It never fails, and its
// output contains no question marks, so a second pass is a no-op.
func CleanText(text string) string {
	if text == "" || !strings.Contains(text, "?") {
		return text
	}

	if strings.HasPrefix(text, "Id-") {
		// The remainder after the Id prefix is unrecoverable.
		return hiddenName
	}

	if strings.HasPrefix(text, "(") && strings.Contains(text, ")") {
		// Vehicle format like "(23) LAB 375 - ???": keep the numeric
		// code, salvage whatever plate text survives.
		idx := strings.Index(text, ")")
		numberPart := text[:idx+1]
		rest := strings.TrimSpace(text[idx+1:])
		if strings.Contains(rest, "?") {
			readable := collapseSpaces(keepRunes(rest, " -"))
			if len(readable) > 3 {
				return numberPart + " " + readable
			}
			return numberPart + " " + hiddenVehicle
		}
	}

	readable := collapseSpaces(keepRunes(text, " -(),."))
	if len(readable) > 3 {
		return readable
	}
	return unreadable
}

// keepRunes keeps ASCII letters, digits and the extra characters given;
// everything else is dropped.
func keepRunes(s, extra string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune(extra, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// collapseSpaces trims and collapses runs of whitespace to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
