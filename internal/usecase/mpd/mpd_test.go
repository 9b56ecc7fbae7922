package mpd

import (
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mawi1/oondl/internal/domain"
)

const testBase = "http://example.com/123/abc/321/manifest.mpd"

func mustBase(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse(testBase)
	if err != nil {
		t.Fatalf("parse base: %v", err)
	}
	return u
}

func TestScan(t *testing.T) {
	cases := []struct {
		in   string
		want []token
	}{
		{"abc_$Time$123", []token{{kind: tokenLiteral, text: "abc_"}, {kind: tokenTime}, {kind: tokenLiteral, text: "123"}}},
		{"abc_$Time$", []token{{kind: tokenLiteral, text: "abc_"}, {kind: tokenTime}}},
		{"$Time$__eee333", []token{{kind: tokenTime}, {kind: tokenLiteral, text: "__eee333"}}},
		{"$RepresentationID$$Time$", []token{{kind: tokenRepresentationID}, {kind: tokenTime}}},
	}
	for _, tc := range cases {
		got, err := scan(tc.in)
		if err != nil {
			t.Fatalf("scan(%q): %v", tc.in, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("scan(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestScanErrors(t *testing.T) {
	if _, err := scan("abc_$Foo$"); err == nil || err.Error() != "invalid template variable: Foo" {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := scan("abc_$Foo"); err == nil || err.Error() != "unterminated variable" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSegmentTemplateRender(t *testing.T) {
	st, err := newSegmentTemplate(mustBase(t), "seg_$RepresentationID$_foo$Time$_mpd.m4s")
	if err != nil {
		t.Fatalf("template: %v", err)
	}

	for _, tc := range []struct {
		time uint64
		want string
	}{
		{500, "http://example.com/123/abc/321/seg_v123xyz_foo500_mpd.m4s"},
		{800, "http://example.com/123/abc/321/seg_v123xyz_foo800_mpd.m4s"},
	} {
		tm := tc.time
		got, err := st.render("v123xyz", &tm)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}

	got, err := st.render("v1", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "http://example.com/123/abc/321/seg_v1_foo_mpd.m4s" {
		t.Fatalf("missing time should render empty, got %q", got)
	}
}

func readManifest(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "manifest.mpd"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	return string(b)
}

func expectedURLs(rep string, times ...string) []string {
	const prefix = "http://example.com/123/abc/321/14224991_0014_QXB-"
	out := []string{prefix + rep + ".dash"}
	for _, tm := range times {
		out = append(out, prefix+rep+"-"+tm+".dash")
	}
	return out
}

func TestMediaURLs(t *testing.T) {
	doc := readManifest(t)
	wantAudio := expectedURLs("audio_deu=128000", "0", "192000", "384000")

	cases := []struct {
		quality domain.Quality
		rep     string
	}{
		{domain.QualityLow, "video=400000"},
		{domain.QualityMedium, "video=1200000"},
		{domain.QualityHigh, "video=3000000"},
	}
	for _, tc := range cases {
		t.Run(tc.quality.String(), func(t *testing.T) {
			m, err := MediaURLs(mustBase(t), doc, tc.quality)
			if err != nil {
				t.Fatalf("MediaURLs: %v", err)
			}
			want := expectedURLs(tc.rep, "0", "4000", "8000")
			if !reflect.DeepEqual(m.Video, want) {
				t.Errorf("video = %v, want %v", m.Video, want)
			}
			if !reflect.DeepEqual(m.Audio, wantAudio) {
				t.Errorf("audio = %v, want %v", m.Audio, wantAudio)
			}
		})
	}
}

func TestSelectByBandwidthTies(t *testing.T) {
	reps := []rated{{"a", 100}, {"b", 300}, {"c", 100}, {"d", 300}}

	if got := selectByBandwidth(reps, domain.QualityLow).id; got != "a" {
		t.Errorf("low picked %q, want first minimum", got)
	}
	if got := selectByBandwidth(reps, domain.QualityHigh).id; got != "d" {
		t.Errorf("high picked %q, want last maximum", got)
	}
	// mean 200: every entry is 100 away, first wins
	if got := selectByBandwidth(reps, domain.QualityMedium).id; got != "a" {
		t.Errorf("medium picked %q, want first closest", got)
	}
}

const timelineDoc = `<MPD><Period>
<AdaptationSet mimeType="video/mp4">
  <SegmentTemplate initialization="i_$RepresentationID$" media="m_$Time$">
    <SegmentTimeline>%s</SegmentTimeline>
  </SegmentTemplate>
  <Representation id="v" bandwidth="1"/>
</AdaptationSet>
<AdaptationSet mimeType="audio/mp4">
  <SegmentTemplate initialization="ai" media="am_$Time$">
    <SegmentTimeline><S t="0" d="1"/></SegmentTimeline>
  </SegmentTemplate>
  <Representation id="a"/>
</AdaptationSet>
</Period></MPD>`

func withTimeline(s string) string {
	return strings.Replace(timelineDoc, "%s", s, 1)
}

func TestMediaURLsTimeline(t *testing.T) {
	doc := withTimeline(`<S time="10" d="5"/><S d="5" r="1"/><S t="100" d="2"/>`)
	m, err := MediaURLs(mustBase(t), doc, domain.QualityHigh)
	if err != nil {
		t.Fatalf("MediaURLs: %v", err)
	}
	want := []string{
		"http://example.com/123/abc/321/i_v",
		"http://example.com/123/abc/321/m_10",
		"http://example.com/123/abc/321/m_15",
		"http://example.com/123/abc/321/m_20",
		"http://example.com/123/abc/321/m_100",
	}
	if !reflect.DeepEqual(m.Video, want) {
		t.Fatalf("video = %v, want %v", m.Video, want)
	}
}

func TestMediaURLsErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"no period", `<MPD></MPD>`, "node not found: Period"},
		{"no video", `<MPD><Period><AdaptationSet mimeType="audio/mp4"/></Period></MPD>`, "node not found: AdaptationSet[@mimeType=video/mp4]"},
		{"no audio", `<MPD><Period><AdaptationSet mimeType="video/mp4"/></Period></MPD>`, "node not found: AdaptationSet[@mimeType=audio/mp4]"},
		{"no representations", `<MPD><Period><AdaptationSet mimeType="video/mp4"/><AdaptationSet mimeType="audio/mp4"/></Period></MPD>`, "no representation nodes found"},
		{"no segments", withTimeline(""), "no segments found"},
		{"missing duration", withTimeline(`<S t="0"/>`), "node not found: S[@d]"},
		{"negative repeat", withTimeline(`<S t="0" d="1" r="-1"/>`), "could not parse repeat"},
		{"not xml", `<MPD>`, "could not parse manifest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MediaURLs(mustBase(t), tc.doc, domain.QualityHigh)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.HasPrefix(err.Error(), tc.want) {
				t.Fatalf("error %q does not start with %q", err.Error(), tc.want)
			}
		})
	}
}
