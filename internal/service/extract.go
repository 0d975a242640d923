package service

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExtractText converts raw upload bytes into indexable UTF-8 text.
// Binary payloads are rejected rather than indexed as garbage; the
// rejection surfaces as that file's per-batch error.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("file is empty")
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("file contains no text")
	}

	return text, nil
}
