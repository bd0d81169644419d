// Package markdown renders the bodies of markdown/HTML posts as a templ component.
// It covers the GFM subset editors use in the CMS and passes raw HTML blocks through.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`\b_([^_]+)_\b`)
	reStrike           = regexp.MustCompile(`~~(.+?)~~`)
	reInlineCode       = regexp.MustCompile("`([^`]+)`")
	reImg              = regexp.MustCompile(`!\[(.*?)\]\((\S*?)(?:\s+&#34;(.*?)&#34;)?\)`)
	reLink             = regexp.MustCompile(`\[(.*?)\]\((\S*?)\)`)
	reHeading          = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*$`)
	reOrderedList      = regexp.MustCompile(`^\d+[.)]\s+`)
	reHTMLBlock        = regexp.MustCompile(`^\s*<(?:[A-Za-z][A-Za-z0-9-]*|/[A-Za-z]|!--)`)
	reScript           = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
)

// Options tweak the output.
type Options struct {
	// ImageURL rewrites image sources. Nil leaves them unchanged.
	ImageURL func(src string) string
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		Render(&buf, md, opts)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

type block int

const (
	blockNone block = iota
	blockPara
	blockList
	blockOrderedList
	blockQuote
	blockTable
	blockHTML
)

var closeTags = map[block]string{
	blockPara:        "</p>",
	blockList:        "</ul>",
	blockOrderedList: "</ol>",
	blockQuote:       "</blockquote>",
}

type renderer struct {
	buf        *bytes.Buffer
	opts       Options
	open       block
	tableBody  bool
	imageCount int
	hardBreak  bool
	raw        strings.Builder
}

// Render writes the HTML representation of md to buf.
func Render(buf *bytes.Buffer, md string, opts Options) {
	r := &renderer{buf: buf, opts: opts}
	inCode := false

	for _, rawLine := range strings.Split(md, "\n") {
		line := strings.TrimRight(rawLine, "\r")

		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "```") {
			if inCode {
				buf.WriteString("</code></pre>")
				inCode = false
				continue
			}
			r.close()
			lang := html.EscapeString(strings.TrimSpace(trimmed[3:]))
			if lang != "" {
				buf.WriteString(`<pre class="code-block"><code class="language-` + lang + `">`)
			} else {
				buf.WriteString(`<pre class="code-block"><code>`)
			}
			inCode = true
			continue
		}
		if inCode {
			buf.WriteString(html.EscapeString(line))
			buf.WriteByte('\n')
			continue
		}

		if strings.TrimSpace(line) == "" {
			r.close()
			continue
		}
		if r.open == blockHTML {
			r.raw.WriteString("\n" + line)
			continue
		}
		r.line(line)
	}
	if inCode {
		buf.WriteString("</code></pre>")
	}
	r.close()
}

func (r *renderer) line(line string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case reHTMLBlock.MatchString(line):
		r.close()
		r.open = blockHTML
		r.raw.WriteString(line)
	case isRule(trimmed):
		r.close()
		r.buf.WriteString("<hr/>")
	case reHeading.MatchString(trimmed):
		r.close()
		m := reHeading.FindStringSubmatch(trimmed)
		level := strconv.Itoa(len(m[1]))
		r.buf.WriteString("<h" + level + ">" + r.inline(m[2]) + "</h" + level + ">")
	case strings.HasPrefix(trimmed, "|"):
		r.tableRow(trimmed)
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ "):
		r.begin(blockList, "<ul>")
		r.buf.WriteString("<li>" + r.listItem(trimmed[2:]) + "</li>")
	case reOrderedList.MatchString(trimmed):
		r.begin(blockOrderedList, "<ol>")
		r.buf.WriteString("<li>" + r.listItem(reOrderedList.ReplaceAllString(trimmed, "")) + "</li>")
	case trimmed == ">" || strings.HasPrefix(trimmed, "> "):
		if r.open == blockQuote {
			r.buf.WriteString("<br/>")
		}
		r.begin(blockQuote, "<blockquote>")
		r.buf.WriteString(r.inline(strings.TrimPrefix(strings.TrimPrefix(trimmed, ">"), " ")))
	default:
		if r.open == blockPara {
			if r.hardBreak {
				r.buf.WriteString("<br/>")
			} else {
				r.buf.WriteByte(' ')
			}
		}
		r.begin(blockPara, "<p>")
		r.buf.WriteString(r.inline(trimmed))
		r.hardBreak = strings.HasSuffix(line, "  ")
	}
}

// begin closes any other open block and opens b unless it is already open.
func (r *renderer) begin(b block, tag string) {
	if r.open == b {
		return
	}
	r.close()
	r.buf.WriteString(tag)
	r.open = b
}

func (r *renderer) close() {
	switch r.open {
	case blockNone:
		return
	case blockTable:
		if r.tableBody {
			r.buf.WriteString("</tbody>")
		}
		r.buf.WriteString("</table>")
		r.tableBody = false
	case blockHTML:
		r.buf.WriteString(reScript.ReplaceAllString(r.raw.String(), ""))
		r.raw.Reset()
	default:
		r.buf.WriteString(closeTags[r.open])
	}
	r.open = blockNone
}

func (r *renderer) listItem(s string) string {
	switch {
	case strings.HasPrefix(s, "[ ] "):
		return `<input type="checkbox" disabled/> ` + r.inline(s[4:])
	case strings.HasPrefix(s, "[x] ") || strings.HasPrefix(s, "[X] "):
		return `<input type="checkbox" checked disabled/> ` + r.inline(s[4:])
	}
	return r.inline(s)
}

func (r *renderer) tableRow(line string) {
	if r.open != blockTable {
		r.close()
		r.open = blockTable
		r.buf.WriteString("<table><thead><tr>")
		for _, cell := range tableCells(line) {
			r.buf.WriteString("<th>" + r.inline(cell) + "</th>")
		}
		r.buf.WriteString("</tr></thead>")
		return
	}
	if !r.tableBody {
		r.buf.WriteString("<tbody>")
		r.tableBody = true
	}
	if isTableSeparator(line) {
		return
	}
	r.buf.WriteString("<tr>")
	for _, cell := range tableCells(line) {
		r.buf.WriteString("<td>" + r.inline(cell) + "</td>")
	}
	r.buf.WriteString("</tr>")
}

func isRule(s string) bool {
	if len(s) < 3 {
		return false
	}
	c := s[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	return strings.Trim(strings.ReplaceAll(s, " ", ""), string(c)) == ""
}

func tableCells(line string) []string {
	line = strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isTableSeparator(line string) bool {
	for _, cell := range tableCells(line) {
		if strings.Trim(cell, "-:") != "" {
			return false
		}
	}
	return true
}

func (r *renderer) inline(s string) string {
	return FormatInline(s, &r.imageCount, r.opts.ImageURL)
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so formatting regexes never touch URLs inside attributes.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for len(s) > 0 {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// FormatInline escapes s and applies inline formatting: images, links, code, emphasis
// and strikethrough. imageCount tracks images so the first one loads eagerly.
func FormatInline(s string, imageCount *int, imageURL func(string) string) string {
	escaped := html.EscapeString(s)

	// Inline code is swapped for placeholders so no other rule touches its content.
	var codes []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		codes = append(codes, "<code>"+reInlineCode.FindStringSubmatch(m)[1]+"</code>")
		return "\x00C" + strconv.Itoa(len(codes)-1) + "\x00"
	})

	escaped = reImg.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reImg.FindStringSubmatch(m)
		src := SafeURL(match[2])
		if src == "" {
			return match[1]
		}
		if imageURL != nil {
			src = html.EscapeString(imageURL(html.UnescapeString(src)))
		}
		*imageCount++
		attr := `loading="lazy"`
		if *imageCount == 1 {
			attr = `fetchpriority="high"`
		}
		out := `<img src="` + src + `" alt="` + match[1] + `" ` + attr + ` decoding="async"`
		if match[3] != "" {
			out += ` title="` + match[3] + `"`
		}
		return out + `/>`
	})
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := ""
		if isExternal(href) {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[1] + `</a>`
	})
	escaped = ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldUnderscore.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		seg = reItalicUnderscore.ReplaceAllString(seg, "<em>$1</em>")
		seg = reStrike.ReplaceAllString(seg, "<del>$1</del>")
		return seg
	})
	for i, code := range codes {
		escaped = strings.Replace(escaped, "\x00C"+strconv.Itoa(i)+"\x00", code, 1)
	}
	return escaped
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// SafeURL validates and escapes a URL for use in an HTML attribute.
// It returns "" for schemes other than http, https, mailto and tel.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
