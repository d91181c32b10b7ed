package protocol

import "unicode/utf8"

// DefaultMTU is the ATT payload size assumed before the link negotiates a
// larger one.
const DefaultMTU = 20

// ChunkFrame splits an encoded frame into writes of at most mtu bytes. The
// device reassembles them from the declared frame length. Returns nil for an
// empty frame or a non-positive mtu.
func ChunkFrame(frame []byte, mtu int) [][]byte {
	if len(frame) == 0 || mtu <= 0 {
		return nil
	}
	chunks := make([][]byte, 0, (len(frame)+mtu-1)/mtu)
	for len(frame) > mtu {
		chunks = append(chunks, frame[:mtu])
		frame = frame[mtu:]
	}
	return append(chunks, frame)
}

// WrapText splits text into lines that each fit within maxBytes, for
// drawing long strings as several text commands. It prefers splitting at
// spaces and never splits in the middle of a UTF-8 character. The space at
// a split point is dropped. Returns nil for empty text.
func WrapText(text string, maxBytes int) []string {
	if len(text) == 0 || maxBytes <= 0 {
		return nil
	}

	var lines []string
	for len(text) > maxBytes {
		split := maxBytes
		for split > 0 && !utf8.RuneStart(text[split]) {
			split--
		}
		if split == 0 {
			// maxBytes is smaller than the first rune; emit it whole.
			_, size := utf8.DecodeRuneInString(text)
			split = size
		}

		// A space right after the cut also counts as a split point.
		space := -1
		for i := min(split+1, len(text)); i > 0; i-- {
			if text[i-1] == ' ' {
				space = i - 1
				break
			}
		}

		if space > 0 {
			lines = append(lines, text[:space])
			text = text[space+1:]
		} else {
			lines = append(lines, text[:split])
			text = text[split:]
		}
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
