package advisor

import "strings"

type LineKind string

const (
	LineHeading   LineKind = "heading"
	LineBold      LineKind = "bold"
	LineBullet    LineKind = "bullet"
	LineBlank     LineKind = "blank"
	LineParagraph LineKind = "paragraph"
)

// Line is a single display line of generated advice, classified for rendering
type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

// ClassifyLines splits generated text into display lines. The model output is
// Markdown-ish at best, so the rules are applied line by line, in order:
// "###" heading, "**" bold, "-" bullet, blank, plain paragraph. Text with
// none of these markers simply comes out as paragraphs.
func ClassifyLines(text string) []Line {
	rawLines := strings.Split(text, "\n")
	lines := make([]Line, 0, len(rawLines))
	for _, raw := range rawLines {
		lines = append(lines, classifyLine(raw))
	}
	return lines
}

func classifyLine(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "###"):
		return Line{
			Kind: LineHeading,
			Text: strings.TrimSpace(strings.TrimPrefix(raw, "###")),
		}
	case strings.HasPrefix(raw, "**"):
		return Line{
			Kind: LineBold,
			Text: strings.ReplaceAll(raw, "**", ""),
		}
	case strings.HasPrefix(trimmed, "-"):
		return Line{
			Kind: LineBullet,
			Text: strings.TrimSpace(strings.TrimPrefix(trimmed, "-")),
		}
	case trimmed == "":
		return Line{Kind: LineBlank}
	default:
		return Line{Kind: LineParagraph, Text: raw}
	}
}
