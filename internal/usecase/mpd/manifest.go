// Package mpd turns a DASH manifest into the ordered segment URLs of one
// video and one audio track.
package mpd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mawi1/oondl/internal/domain"
)

type manifest struct {
	Periods []period `xml:"Period"`
}

type period struct {
	AdaptationSets []adaptationSet `xml:"AdaptationSet"`
}

type adaptationSet struct {
	MimeType        *string              `xml:"mimeType,attr"`
	Representations []representation     `xml:"Representation"`
	SegmentTemplate *segmentTemplateNode `xml:"SegmentTemplate"`
}

type representation struct {
	ID        *string `xml:"id,attr"`
	Bandwidth *string `xml:"bandwidth,attr"`
}

type segmentTemplateNode struct {
	Initialization *string       `xml:"initialization,attr"`
	Media          *string       `xml:"media,attr"`
	Timeline       *timelineNode `xml:"SegmentTimeline"`
}

type timelineNode struct {
	S []segmentNode `xml:"S"`
}

type segmentNode struct {
	T      *string `xml:"t,attr"`
	Time   *string `xml:"time,attr"`
	D      *string `xml:"d,attr"`
	Repeat *string `xml:"r,attr"`
}

type segment struct {
	time     *uint64
	duration uint64
	repeat   uint64
}

// Media holds the segment URLs of the selected tracks, init segment first.
type Media struct {
	Video []string
	Audio []string
}

func nodeNotFound(name string) error {
	return fmt.Errorf("node not found: %s", name)
}

// MediaURLs parses the manifest and lists the segments of the video track
// matching q and of the first audio track. Relative paths resolve against base,
// which should be the URL the manifest was finally served from.
func MediaURLs(base *url.URL, doc string, q domain.Quality) (Media, error) {
	var m manifest
	if err := xml.Unmarshal([]byte(doc), &m); err != nil {
		return Media{}, fmt.Errorf("could not parse manifest: %w", err)
	}
	if len(m.Periods) == 0 {
		return Media{}, nodeNotFound("Period")
	}
	p := m.Periods[0]

	videoSet := p.findMime("video/mp4")
	if videoSet == nil {
		return Media{}, nodeNotFound("AdaptationSet[@mimeType=video/mp4]")
	}
	audioSet := p.findMime("audio/mp4")
	if audioSet == nil {
		return Media{}, nodeNotFound("AdaptationSet[@mimeType=audio/mp4]")
	}

	videoID, err := videoSet.pickRepresentation(q)
	if err != nil {
		return Media{}, err
	}
	video, err := videoSet.urls(base, videoID)
	if err != nil {
		return Media{}, err
	}

	audioID, err := audioSet.firstRepresentation()
	if err != nil {
		return Media{}, err
	}
	audio, err := audioSet.urls(base, audioID)
	if err != nil {
		return Media{}, err
	}

	return Media{Video: video, Audio: audio}, nil
}

func (p period) findMime(mime string) *adaptationSet {
	for i := range p.AdaptationSets {
		if mt := p.AdaptationSets[i].MimeType; mt != nil && *mt == mime {
			return &p.AdaptationSets[i]
		}
	}
	return nil
}

func (as *adaptationSet) firstRepresentation() (string, error) {
	if len(as.Representations) == 0 {
		return "", nodeNotFound("Representation")
	}
	id := as.Representations[0].ID
	if id == nil {
		return "", nodeNotFound("Representation[@id]")
	}
	return *id, nil
}

type rated struct {
	id        string
	bandwidth uint64
}

func (as *adaptationSet) pickRepresentation(q domain.Quality) (string, error) {
	reps := make([]rated, 0, len(as.Representations))
	for _, r := range as.Representations {
		if r.ID == nil {
			return "", nodeNotFound("Representation[@id]")
		}
		if r.Bandwidth == nil {
			return "", nodeNotFound("Representation[@bandwidth]")
		}
		bw, err := strconv.ParseUint(*r.Bandwidth, 10, 32)
		if err != nil {
			return "", fmt.Errorf("could not parse bandwidth: %w", err)
		}
		reps = append(reps, rated{id: *r.ID, bandwidth: bw})
	}
	if len(reps) == 0 {
		return "", errors.New("no representation nodes found")
	}
	return selectByBandwidth(reps, q).id, nil
}

// selectByBandwidth picks the first minimum for Low, the last maximum for High
// and the first entry closest to the integer mean for Medium.
func selectByBandwidth(reps []rated, q domain.Quality) rated {
	best := reps[0]
	switch q {
	case domain.QualityLow:
		for _, r := range reps[1:] {
			if r.bandwidth < best.bandwidth {
				best = r
			}
		}
	case domain.QualityMedium:
		var sum uint64
		for _, r := range reps {
			sum += r.bandwidth
		}
		mean := sum / uint64(len(reps))
		for _, r := range reps[1:] {
			if absDiff(r.bandwidth, mean) < absDiff(best.bandwidth, mean) {
				best = r
			}
		}
	default:
		for _, r := range reps[1:] {
			if r.bandwidth >= best.bandwidth {
				best = r
			}
		}
	}
	return best
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

func (as *adaptationSet) urls(base *url.URL, representationID string) ([]string, error) {
	st := as.SegmentTemplate
	if st == nil {
		return nil, nodeNotFound("SegmentTemplate")
	}
	if st.Initialization == nil {
		return nil, nodeNotFound("SegmentTemplate[@initialization]")
	}
	if st.Media == nil {
		return nil, nodeNotFound("SegmentTemplate[@media]")
	}
	if st.Timeline == nil {
		return nil, nodeNotFound("SegmentTimeline")
	}

	segments, err := parseSegments(st.Timeline.S)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, errors.New("no segments found")
	}

	initTmpl, err := newSegmentTemplate(base, *st.Initialization)
	if err != nil {
		return nil, err
	}
	first, err := initTmpl.render(representationID, nil)
	if err != nil {
		return nil, err
	}
	urls := []string{first}

	mediaTmpl, err := newSegmentTemplate(base, *st.Media)
	if err != nil {
		return nil, err
	}
	var lastEnd uint64
	for _, s := range segments {
		start := lastEnd
		if s.time != nil {
			start = *s.time
		}
		for i := uint64(0); i <= s.repeat; i++ {
			u, err := mediaTmpl.render(representationID, &start)
			if err != nil {
				return nil, err
			}
			urls = append(urls, u)
			start += s.duration
			lastEnd = start
		}
	}
	return urls, nil
}

func parseSegments(nodes []segmentNode) ([]segment, error) {
	out := make([]segment, 0, len(nodes))
	for _, n := range nodes {
		var s segment

		raw := n.T
		if raw == nil {
			raw = n.Time
		}
		if raw != nil {
			t, err := strconv.ParseUint(*raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse time: %w", err)
			}
			s.time = &t
		}

		if n.D == nil {
			return nil, nodeNotFound("S[@d]")
		}
		d, err := strconv.ParseUint(*n.D, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse duration: %w", err)
		}
		s.duration = d

		if n.Repeat != nil {
			r, err := strconv.ParseUint(*n.Repeat, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse repeat: %w", err)
			}
			s.repeat = r
		}
		out = append(out, s)
	}
	return out, nil
}
