// Package samples extracts plain text from uploaded sample documents so
// users can train a voice profile from a file instead of pasted text.
package samples

import (
	"bytes"
	"strings"

	"code.sajari.com/docconv"

	"github.com/calebowu/ghostwriter/internal/core/errs"
)

// ExtractText converts an uploaded document (docx, pdf, txt, html) to
// plain text. Empty output is a validation failure: a sample file with
// no extractable text can never train a profile.
func ExtractText(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errs.Validation("empty sample file")
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, false)
	if err != nil {
		return "", errs.Validation("could not read sample file (%s): %v", contentType, err)
	}

	text := strings.TrimSpace(res.Body)
	if text == "" {
		return "", errs.Validation("sample file contains no extractable text")
	}
	return text, nil
}
