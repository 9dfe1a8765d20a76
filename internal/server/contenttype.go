package server

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// formatContentTypes covers the formats clients commonly download; anything
// else is sniffed from the converted bytes.
var formatContentTypes = map[string]string{
	"commonmark": "text/markdown; charset=utf-8",
	"docx":       "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"epub":       "application/epub+zip",
	"epub2":      "application/epub+zip",
	"epub3":      "application/epub+zip",
	"gfm":        "text/markdown; charset=utf-8",
	"html":       "text/html; charset=utf-8",
	"html4":      "text/html; charset=utf-8",
	"html5":      "text/html; charset=utf-8",
	"json":       "application/json",
	"latex":      "application/x-latex",
	"markdown":   "text/markdown; charset=utf-8",
	"odt":        "application/vnd.oasis.opendocument.text",
	"pdf":        "application/pdf",
	"plain":      "text/plain; charset=utf-8",
	"pptx":       "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"rst":        "text/x-rst; charset=utf-8",
	"rtf":        "application/rtf",
}

// contentTypeFor resolves the response content type for a target format,
// sniffing the output bytes when the format is not in the table.
func contentTypeFor(format string, output []byte) string {
	base := strings.ToLower(format)
	if i := strings.IndexAny(base, "+-"); i >= 0 {
		base = base[:i]
	}
	if ct, ok := formatContentTypes[base]; ok {
		return ct
	}
	return mimetype.Detect(output).String()
}
