package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

var (
	xmlTagRE  = regexp.MustCompile(`<[^>]+>`)
	spaceRunRE = regexp.MustCompile(`\s+`)
)

// extractDOCX pulls the text out of the main document part of a .docx
// archive: paragraph closes become newlines, remaining markup is stripped,
// whitespace is collapsed, entities are unescaped. A corrupt archive is a
// malformed-input failure, not a capability problem.
func extractDOCX(contents []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(contents), int64(len(contents)))
	if err != nil {
		return "", &MalformedInputError{Format: "docx", Err: err}
	}

	f, err := zr.Open("word/document.xml")
	if err != nil {
		return "", &MalformedInputError{Format: "docx", Err: fmt.Errorf("missing word/document.xml: %w", err)}
	}
	defer f.Close()

	xmlBytes, err := io.ReadAll(f)
	if err != nil {
		return "", &MalformedInputError{Format: "docx", Err: err}
	}

	xmlText := strings.ToValidUTF8(string(xmlBytes), "")
	xmlText = strings.ReplaceAll(xmlText, "</w:p>", "\n")
	plain := xmlTagRE.ReplaceAllString(xmlText, " ")
	plain = spaceRunRE.ReplaceAllString(plain, " ")
	return strings.TrimSpace(html.UnescapeString(plain)), nil
}
