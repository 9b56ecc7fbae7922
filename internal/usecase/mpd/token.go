package mpd

import (
	"errors"
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenTime
	tokenRepresentationID
)

type token struct {
	kind tokenKind
	text string
}

var errUnterminated = errors.New("unterminated variable")

// scan splits a SegmentTemplate attribute into literals and $Name$ variables.
func scan(s string) ([]token, error) {
	var tokens []token
	for len(s) > 0 {
		if s[0] != '$' {
			end := strings.IndexByte(s, '$')
			if end < 0 {
				end = len(s)
			}
			tokens = append(tokens, token{kind: tokenLiteral, text: s[:end]})
			s = s[end:]
			continue
		}

		end := strings.IndexByte(s[1:], '$')
		if end < 0 {
			return nil, errUnterminated
		}
		name := s[1 : end+1]
		switch name {
		case "Time":
			tokens = append(tokens, token{kind: tokenTime})
		case "RepresentationID":
			tokens = append(tokens, token{kind: tokenRepresentationID})
		default:
			return nil, fmt.Errorf("invalid template variable: %s", name)
		}
		s = s[end+2:]
	}
	return tokens, nil
}
