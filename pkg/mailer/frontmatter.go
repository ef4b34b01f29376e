package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var fmDelimiter = []byte("---")

// splitFrontMatter separates YAML front matter from the markdown body.
// Content without a leading delimiter is all body.
func splitFrontMatter(content []byte) (map[string]any, []byte, error) {
	meta := make(map[string]any)
	if !bytes.HasPrefix(content, fmDelimiter) {
		return meta, content, nil
	}

	rest := bytes.TrimLeft(content[len(fmDelimiter):], "\r\n")
	if len(rest) == 0 {
		return nil, nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontMatter)
	}

	head, body, ok := bytes.Cut(rest, fmDelimiter)
	if !ok {
		return nil, nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontMatter)
	}
	if b, found := bytes.CutPrefix(body, []byte("\r\n")); found {
		body = b
	} else {
		body, _ = bytes.CutPrefix(body, []byte("\n"))
	}

	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &meta); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
		}
	}
	return meta, body, nil
}
