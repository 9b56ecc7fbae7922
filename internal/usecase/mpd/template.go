package mpd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type segmentTemplate struct {
	base   *url.URL
	tokens []token
}

func newSegmentTemplate(base *url.URL, tmpl string) (segmentTemplate, error) {
	tokens, err := scan(tmpl)
	if err != nil {
		return segmentTemplate{}, err
	}
	return segmentTemplate{base: base, tokens: tokens}, nil
}

// render fills in the variables and resolves the result against the manifest URL.
// A nil time renders as an empty string, which is what init segments use.
func (t segmentTemplate) render(representationID string, time *uint64) (string, error) {
	var b strings.Builder
	for _, tok := range t.tokens {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(tok.text)
		case tokenTime:
			if time != nil {
				b.WriteString(strconv.FormatUint(*time, 10))
			}
		case tokenRepresentationID:
			b.WriteString(representationID)
		}
	}

	ref, err := url.Parse(b.String())
	if err != nil {
		return "", fmt.Errorf("invalid segment path %q: %w", b.String(), err)
	}
	return t.base.ResolveReference(ref).String(), nil
}
