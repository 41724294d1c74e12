package render

import (
	"regexp"
	"strings"
	"unicode"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/muesli/termenv"

	"curie/backend"
	"curie/model"
)

var (
	// CSI, OSC and two-byte escape sequences.
	escapeSeqRegex  = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)|\x1b[@-_]`)
	sgrRegex        = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
)

// Sanitize strips escape sequences and control characters so server text
// cannot drive the terminal. Newlines and tabs survive.
func Sanitize(s string) string {
	s = escapeSeqRegex.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// StripANSI removes SGR codes for width calculations.
func StripANSI(s string) string {
	return sgrRegex.ReplaceAllString(s, "")
}

// Linker turns download paths into OSC 8 hyperlinks pointing at the server.
type Linker struct {
	BaseURL string
}

func NewLinker(baseURL string) Linker {
	return Linker{BaseURL: strings.TrimRight(baseURL, "/")}
}

// URL resolves a download path against the server.
func (l Linker) URL(path string) string {
	return l.BaseURL + path
}

// Linkify wraps every download path in s. Run it after Sanitize.
func (l Linker) Linkify(s string) string {
	if l.BaseURL == "" {
		return s
	}
	return backend.DownloadPathPattern.ReplaceAllStringFunc(s, func(path string) string {
		return termenv.Hyperlink(l.URL(path), path)
	})
}

// TraceLines renders the rows of a trace block for the terminal. Output rows
// are linkified, call rows are not.
func (l Linker) TraceLines(trace []model.ToolCallEvent) []string {
	lines := make([]string, len(trace))
	for i, ev := range trace {
		row := Sanitize(TraceRow(ev))
		if ev.Kind == model.ToolCallKindOutput {
			row = l.Linkify(row)
		}
		lines[i] = row
	}
	return lines
}

// Markdown renders assistant text for a terminal of the given width.
func Markdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	content = mdLinkRegex.ReplaceAllString(Sanitize(content), "$2")

	// autolink off keeps plain paths intact for Linkify
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	rendered = frameCodeBlocks(rendered, width)
	return strings.TrimRight(rendered, "\n")
}

func frameCodeBlocks(s string, width int) string {
	lines := strings.Split(s, "\n")
	var result []string
	inCodeBlock := false

	darkGray := "\x1b[90m"
	reset := "\x1b[0m"
	border := darkGray + strings.Repeat("━", width) + reset

	for _, line := range lines {
		// go-term-markdown prefixes code block lines with ┃
		if strings.Contains(line, "┃") {
			if !inCodeBlock {
				inCodeBlock = true
				result = append(result, border)
			}
			result = append(result, stripCodeBlockPrefix(line))
			continue
		}
		if inCodeBlock {
			result = append(result, border)
			inCodeBlock = false
		}
		result = append(result, line)
	}
	if inCodeBlock {
		result = append(result, border)
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, "┃")
	if idx < 0 {
		return line
	}
	after := idx + len("┃")
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}
