package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var reOonURL = regexp.MustCompile(
	`^https?://on\.orf\.at/video/(?P<video>[0-9]+)(/(?P<segment>[0-9]+))?(/.+)?$`,
)

// OonURL is a validated ORF ON video page URL.
type OonURL struct {
	raw       string
	videoID   string
	segmentID string
}

// ParseOonURL validates s as an ORF ON video page URL.
// A second numeric path element selects a single segment of an episode.
func ParseOonURL(s string) (OonURL, error) {
	in := strings.TrimSpace(s)

	m := reOonURL.FindStringSubmatch(in)
	if m == nil {
		return OonURL{}, &OpError{
			Op:   "domain.parse_url",
			Kind: KindValidation,
			Path: in,
			Err:  ErrInvalidURL,
		}
	}
	if _, err := url.Parse(in); err != nil {
		return OonURL{}, &OpError{
			Op:   "domain.parse_url",
			Kind: KindValidation,
			Path: in,
			Err:  err,
		}
	}

	return OonURL{
		raw:       in,
		videoID:   m[reOonURL.SubexpIndex("video")],
		segmentID: m[reOonURL.SubexpIndex("segment")],
	}, nil
}

func (u OonURL) String() string { return u.raw }

func (u OonURL) VideoID() string { return u.videoID }

// SegmentID returns the segment id and whether the URL points at a single segment.
func (u OonURL) SegmentID() (string, bool) {
	return u.segmentID, u.segmentID != ""
}
