// Package cvparse turns raw CV bytes into structured candidate fields.
// Pipeline: bytes (PDF/DOCX/TXT) -> plain text -> LLM -> CandidateData.
package cvparse

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// ExtractText extracts plain text from CV bytes based on file extension.
func ExtractText(content []byte, extension string) (string, error) {
	ext := strings.ToLower(extension)
	switch ext {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.Convert(bytes.NewReader(content), docconv.MimeTypeByExtension("cv"+ext), true)
		if err != nil {
			return "", fmt.Errorf("failed to parse document: %w", err)
		}
		return res.Body, nil
	case ".txt":
		return string(content), nil
	default:
		// Best-effort decode
		return string(content), nil
	}
}
