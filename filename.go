package pandocd

import "strings"

// formatExtensions maps pandoc format identifiers to file suffixes. Pandoc
// picks readers and writers by format flag, but some of them also look at
// the file extension, so temp files get a matching suffix.
var formatExtensions = map[string]string{
	"commonmark":   ".md",
	"commonmark_x": ".md",
	"docx":         ".docx",
	"epub":         ".epub",
	"epub2":        ".epub",
	"epub3":        ".epub",
	"gfm":          ".md",
	"html":         ".html",
	"html4":        ".html",
	"html5":        ".html",
	"latex":        ".tex",
	"markdown":     ".md",
	"md":           ".md",
	"odt":          ".odt",
	"pdf":          ".pdf",
	"plain":        ".txt",
	"pptx":         ".pptx",
	"rst":          ".rst",
	"rtf":          ".rtf",
	"tex":          ".tex",
	"txt":          ".txt",
}

// fileOutputFormats are binary container targets that pandoc refuses to
// emit on stdout; these are written to a temp file and read back.
var fileOutputFormats = map[string]bool{
	"docx":  true,
	"epub":  true,
	"epub2": true,
	"epub3": true,
	"odt":   true,
	"pdf":   true,
	"pptx":  true,
}

// baseFormat strips pandoc extension modifiers, e.g.
// "markdown+smart-fancy_lists" -> "markdown".
func baseFormat(format string) string {
	if i := strings.IndexAny(format, "+-"); i >= 0 {
		return format[:i]
	}
	return format
}

// extensionFor returns the file suffix for a format identifier, falling
// back to ".<format>" for formats not in the table.
func extensionFor(format string) string {
	base := strings.ToLower(baseFormat(format))
	if ext, ok := formatExtensions[base]; ok {
		return ext
	}
	return "." + base
}

// writesToFile reports whether the target format must be emitted to a file
// rather than captured from stdout.
func writesToFile(format string) bool {
	return fileOutputFormats[strings.ToLower(baseFormat(format))]
}

// OutputFilename returns the suggested download name for a target format.
func OutputFilename(format string) string {
	return "output" + extensionFor(format)
}
