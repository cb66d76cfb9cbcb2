// Package chunker splits extracted document text into overlapping,
// boundary-aware segments sized for embedding and retrieval.
package chunker

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Chunk splits text into segments of at most size characters, consecutive
// segments sharing roughly overlap characters. Whitespace runs are collapsed
// to single spaces first, so original spacing is not preserved. A candidate
// break point is moved backward — at most size−overlap characters — to the
// nearest sentence-terminal punctuation or newline so segments do not end
// mid-sentence. Empty input yields nil; text shorter than size yields a
// single trimmed chunk.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}

	text = whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for start < n {
		end := start + size
		if end >= n {
			if last := strings.TrimSpace(string(runes[start:])); last != "" {
				chunks = append(chunks, last)
			}
			break
		}

		// scan backward from the candidate end for the nearest break
		breakPoint := end
		stop := start + size - overlap
		if stop < start {
			stop = start
		}
		for i := end; i > stop; i-- {
			c := runes[i]
			if c == '.' || c == '!' || c == '?' {
				breakPoint = i + 1
				break
			}
			if c == '\n' || c == '\r' {
				breakPoint = i
				break
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:breakPoint])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := breakPoint - overlap
		if next < 0 {
			next = 0
		}
		if next <= start {
			// forward progress guard for tiny size/overlap combinations
			next = breakPoint
		}
		start = next
	}

	return chunks
}
