package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrUnsupportedFormat is returned for files the summary cannot be written back into.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file format")

var textExtensions = map[string]bool{
	"":          true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".text":     true,
}

// CheckFormat accepts Markdown and plain-text files.
func CheckFormat(filePath string) error {
	ext := strings.ToLower(filepath.Ext(filePath))
	if !textExtensions[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return nil
}

// RenderHTML converts Markdown text to HTML.
func RenderHTML(text string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}

	return strings.Trim(buf.String(), " \t\n\r"), nil
}
