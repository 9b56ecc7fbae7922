// Package extract finds the title and the DASH manifest URLs in an ORF ON video page.
package extract

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const baseRE = `https?://[-a-zA-Z0-9.]+\.apa\.at/dash/cms-(?:austria|worldwide|worldwide_episodes)(?:/[-a-zA-Z0-9_]+)*`

var (
	reSegment     = regexp.MustCompile(baseRE + `/[-a-zA-Z0-9_]+__s(?P<segment>[0-9]+)_[-a-zA-Z0-9_]+_QXB\.mp4/manifest\.mpd`)
	reUnsegmented = regexp.MustCompile(baseRE + `/[0-9]+_[0-9]+_QXB\.mp4/manifest\.mpd`)
	reAnyManifest = regexp.MustCompile(baseRE + `/[-a-zA-Z0-9_]+_QXB\.mp4/manifest\.mpd`)
)

var (
	errNoTitle      = errors.New("could not extract title")
	errNoSegmentURL = errors.New("could not extract segment url")
	errNoManifests  = errors.New("could not extract mpd-urls")
)

// Title returns the og:title of the page with HTML entities decoded.
func Title(page string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", errNoTitle
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "meta" || !hasAttr {
				continue
			}
			var property, content string
			var hasContent bool
			for more := true; more; {
				var key, val []byte
				key, val, more = z.TagAttr()
				switch string(key) {
				case "property":
					property = string(val)
				case "content":
					content = string(val)
					hasContent = true
				}
			}
			if property == "og:title" && hasContent {
				return content, nil
			}
		}
	}
}

// SegmentURL returns the manifest URL of the given segment of an episode.
func SegmentURL(page, segmentID string) (string, error) {
	idx := reSegment.SubexpIndex("segment")
	for _, m := range reSegment.FindAllStringSubmatch(page, -1) {
		if m[idx] == segmentID {
			return m[0], nil
		}
	}
	return "", errNoSegmentURL
}

// VideoInfo lists the manifests that make up the video on a page.
// Segmented is true when the episode is split into several parts that need to be joined.
type VideoInfo struct {
	Segmented bool
	URLs      []string
}

// Videos finds the manifest URLs of a page. A full-episode manifest wins over the
// individual segments; otherwise every distinct manifest on the page is a segment.
func Videos(page string) (VideoInfo, error) {
	if u := reUnsegmented.FindString(page); u != "" {
		return VideoInfo{URLs: []string{u}}, nil
	}

	urls := dedupe(reAnyManifest.FindAllString(page, -1))
	switch len(urls) {
	case 0:
		return VideoInfo{}, errNoManifests
	case 1:
		return VideoInfo{URLs: urls}, nil
	default:
		return VideoInfo{Segmented: true, URLs: urls}, nil
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
