package loader

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Load turns raw uploaded bytes into a sequence of text pages.
//
// Plain text and markdown are supported; form feeds (0x0C) act as page
// breaks, otherwise the whole file is a single page. Binary uploads (PDFs
// included) are rejected with a descriptive error rather than silently
// producing garbage chunks.
func Load(fileBytes []byte) ([]string, error) {
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	if !utf8.Valid(fileBytes) {
		return nil, fmt.Errorf("document is not valid UTF-8 text; only plain-text documents are supported")
	}

	content := strings.ReplaceAll(string(fileBytes), "\r\n", "\n")

	var pages []string
	for _, page := range strings.Split(content, "\f") {
		page = strings.TrimSpace(page)
		if page != "" {
			pages = append(pages, page)
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("document contains no readable text")
	}

	return pages, nil
}
