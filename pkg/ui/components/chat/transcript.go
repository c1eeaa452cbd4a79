package chat

import (
	"regexp"
	"strings"

	"docchat/pkg/ai"
	"docchat/pkg/ui/components/utils"
	"docchat/pkg/ui/styles"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	questionLabel = "You"
	answerLabel   = "Assistant"
)

var (
	orderedItem = regexp.MustCompile(`^(\d{1,3})[.)]\s+(.*)$`)
	headingLine = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
)

// span is a run of text sharing one style.
type span struct {
	text  string
	style lipgloss.Style
}

// renderMessage lays out one transcript entry. Questions sit in a
// right-aligned bubble and are shown verbatim; answers are left-aligned
// and get light markdown.
func renderMessage(msg ai.Message, width int) []string {
	if msg.Role == ai.RoleUser {
		return renderQuestion(msg.Content, width)
	}
	return renderAnswer(msg.Content, width)
}

func renderQuestion(content string, width int) []string {
	bubble := max(width*3/4, min(width, 16))

	var body []string
	for _, para := range strings.Split(cleanText(content), "\n") {
		body = append(body, wrapSpans([]span{{text: para, style: styles.QuestionStyle}}, bubble-2, "", "", styles.QuestionStyle)...)
	}
	inner := 0
	for _, line := range body {
		inner = max(inner, lipgloss.Width(line))
	}

	lines := []string{alignRight(styles.QuestionLabelStyle.Render(questionLabel), width)}
	for _, line := range body {
		fill := styles.QuestionStyle.Render(strings.Repeat(" ", inner-lipgloss.Width(line)+1))
		lines = append(lines, alignRight(styles.QuestionStyle.Render(" ")+line+fill, width))
	}
	return lines
}

func renderAnswer(content string, width int) []string {
	lines := []string{styles.AnswerLabelStyle.Render(answerLabel)}
	return append(lines, renderReply(content, width)...)
}

// renderReply renders the markdown subset replies use: headings, **bold**,
// `inline code`, fenced code blocks and bullet or numbered lists.
func renderReply(content string, width int) []string {
	var out []string
	inFence := false

	for _, line := range strings.Split(cleanText(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			out = append(out, renderCodeLine(line, width)...)
			continue
		}

		switch {
		case trimmed == "":
			out = append(out, "")
		case headingLine.MatchString(trimmed):
			text := headingLine.FindStringSubmatch(trimmed)[1]
			out = append(out, wrapSpans(inlineSpans(text, boldStyle), width, "", "", textStyle)...)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			out = append(out, wrapSpans(inlineSpans(trimmed[2:], textStyle), width, "• ", "  ", textStyle)...)
		case orderedItem.MatchString(trimmed):
			m := orderedItem.FindStringSubmatch(trimmed)
			marker := m[1] + ". "
			out = append(out, wrapSpans(inlineSpans(m[2], textStyle), width, marker, strings.Repeat(" ", len(marker)), textStyle)...)
		default:
			out = append(out, wrapSpans(inlineSpans(trimmed, textStyle), width, "", "", textStyle)...)
		}
	}

	if len(out) == 0 {
		return []string{""}
	}
	return out
}

// inlineSpans splits text on **bold** and `code` markers. Unclosed markers
// are kept as literal text.
func inlineSpans(text string, base lipgloss.Style) []span {
	var spans []span
	for text != "" {
		bold := strings.Index(text, "**")
		code := strings.IndexByte(text, '`')

		next, marker, style := -1, "", base
		switch {
		case bold >= 0 && (code < 0 || bold < code):
			next, marker, style = bold, "**", boldStyle
		case code >= 0:
			next, marker, style = code, "`", codeStyle
		}
		if next < 0 {
			spans = append(spans, span{text: text, style: base})
			break
		}

		end := strings.Index(text[next+len(marker):], marker)
		if end < 0 {
			spans = append(spans, span{text: text, style: base})
			break
		}
		if next > 0 {
			spans = append(spans, span{text: text[:next], style: base})
		}
		inner := text[next+len(marker) : next+len(marker)+end]
		if inner != "" {
			spans = append(spans, span{text: inner, style: style})
		}
		text = text[next+len(marker)+end+len(marker):]
	}
	return spans
}

// wrapSpans greedily fills lines of at most width cells. first prefixes
// the first line and rest every following one; gap styles prefixes and
// the spaces between words. Words wider than a line are split.
func wrapSpans(spans []span, width int, first, rest string, gap lipgloss.Style) []string {
	type word struct {
		text  string
		style lipgloss.Style
		// glue joins the word to the previous one without a space.
		glue bool
	}

	var words []word
	spaced := true
	for _, s := range spans {
		for i, w := range strings.Fields(s.text) {
			glue := i == 0 && !spaced && !strings.HasPrefix(s.text, " ")
			words = append(words, word{text: w, style: s.style, glue: glue})
		}
		if s.text != "" {
			spaced = strings.HasSuffix(s.text, " ")
		}
	}

	var lines []string
	var sb strings.Builder
	prefix := first
	used := 0
	started := false

	flush := func() {
		lines = append(lines, gap.Render(prefix)+sb.String())
		sb.Reset()
		prefix = rest
		used = 0
		started = false
	}

	for _, w := range words {
		avail := max(width-ansi.StringWidth(prefix), 1)
		for _, part := range utils.SplitByWidth(w.text, avail) {
			pw := ansi.StringWidth(part)
			sep := 1
			if !started || w.glue {
				sep = 0
			}
			if started && used+sep+pw > avail {
				flush()
				sep = 0
			}
			if sep == 1 {
				sb.WriteString(gap.Render(" "))
			}
			sb.WriteString(w.style.Render(part))
			used += sep + pw
			started = true
			w.glue = false
		}
	}
	if started || len(lines) == 0 {
		flush()
	}
	return lines
}

func renderCodeLine(line string, width int) []string {
	line = strings.ReplaceAll(line, "\t", "    ")
	if width <= 0 {
		return []string{codeStyle.Render(line)}
	}
	parts := utils.SplitByWidth(line, width)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		lines = append(lines, codeStyle.Render(utils.PadPlain(part, width)))
	}
	return lines
}

func alignRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// cleanText normalizes line endings and drops control characters so a
// reply cannot move the cursor or switch terminal modes.
func cleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	for _, br := range []string{"<br>", "<br/>", "<br />"} {
		content = strings.ReplaceAll(content, br, "\n")
	}

	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		if r == '\n' || r == '\t' || (r >= 0x20 && r != 0x7f) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
