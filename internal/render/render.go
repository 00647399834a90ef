package render

// Markdown renders markdown for the terminal with a pooled renderer.
func Markdown(content string, opts Options) (string, error) {
	r, err := acquire(opts)
	if err != nil {
		return "", err
	}
	defer release(opts, r)

	return r.Render(content)
}

// MarkdownWithWidth renders with the default options at width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Response applies the markup policy to a server response and renders
// the result
func Response(content string, opts Options) (string, error) {
	return Markdown(ToMarkdown(content, opts.HTML), opts)
}
