// Package assemble resolves the text to display or edit for a page while
// the transcription stream is still arriving.
package assemble

import (
	"regexp"
	"strconv"
	"strings"

	"gradescribe/internal/stream"
)

// questionMarker matches inline question-boundary tags such as <Q3>.
var questionMarker = regexp.MustCompile(`<Q(\d+)>`)

// DisplayText returns the text to show for a page. Final annotated text
// wins once the page is complete, then verified text, then raw text.
// Question markers are stripped.
func DisplayText(page stream.PageState) string {
	return StripMarkers(rawDisplayText(page))
}

// rawDisplayText applies the precedence rules without stripping markers.
func rawDisplayText(page stream.PageState) string {
	if page.Phase == stream.PageComplete && page.MarkedText != "" {
		return page.MarkedText
	}
	if page.VerifiedText != "" {
		return page.VerifiedText
	}
	return page.RawText
}

// StripMarkers removes question-boundary tags from marked text.
func StripMarkers(text string) string {
	return questionMarker.ReplaceAllString(text, "")
}

// Block is a span of marked text attributed to one question. Question is
// zero for text preceding the first marker.
type Block struct {
	Question int
	Text     string
}

// SplitByQuestion splits marked text at question-boundary tags. Marker
// tags are consumed; the returned text is display-ready.
func SplitByQuestion(marked string) []Block {
	matches := questionMarker.FindAllStringSubmatchIndex(marked, -1)
	if len(matches) == 0 {
		if marked == "" {
			return nil
		}
		return []Block{{Question: 0, Text: marked}}
	}

	var blocks []Block
	if head := marked[:matches[0][0]]; head != "" {
		blocks = append(blocks, Block{Question: 0, Text: head})
	}
	for i, match := range matches {
		question, err := strconv.Atoi(marked[match[2]:match[3]])
		if err != nil {
			question = 0
		}
		end := len(marked)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		blocks = append(blocks, Block{Question: question, Text: marked[match[1]:end]})
	}
	return blocks
}

// JoinBlocks concatenates answer blocks for display, separated by a blank
// line.
func JoinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}

// LineOffsets returns the zero-based starting line of each block within
// the JoinBlocks concatenation, so line numbering stays stable when
// several answer blocks for one question are shown together.
func LineOffsets(blocks []string) []int {
	offsets := make([]int, len(blocks))
	line := 0
	for i, block := range blocks {
		offsets[i] = line
		// The separating blank line costs one extra line.
		line += strings.Count(block, "\n") + 2
	}
	return offsets
}
