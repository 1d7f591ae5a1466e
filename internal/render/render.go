package render

import "strings"

// Markdown renders markdown for terminal display using a pooled renderer.
func Markdown(content string, opts Options) (string, error) {
	tr, release, err := shared.borrow(opts)
	if err != nil {
		return "", err
	}
	defer release()

	return tr.Render(content)
}

// MarkdownWithWidth renders with default options and the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// MarkdownOrPlain renders markdown, falling back to the raw text on error.
// Leading and trailing blank lines added by glamour are removed.
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

// Lines splits text on line feeds. Only "\n" is a line break.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}
