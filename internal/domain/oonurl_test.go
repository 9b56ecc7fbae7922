package domain

import (
	"errors"
	"testing"
)

func TestParseOonURL_Valid(t *testing.T) {
	cases := []struct {
		in      string
		video   string
		segment string
	}{
		{"https://on.orf.at/video/14225330", "14225330", ""},
		{"https://on.orf.at/video/14224991/willkommen-darmstadt-mit-stermann-grissemann", "14224991", ""},
		{"https://on.orf.at/video/14225651/15636092/gauder-fest-im-tiroler-zillertal", "14225651", "15636092"},
		{"http://on.orf.at/video/1/2", "1", "2"},
		{"  https://on.orf.at/video/14225330\n", "14225330", ""},
	}
	for _, c := range cases {
		u, err := ParseOonURL(c.in)
		if err != nil {
			t.Fatalf("ParseOonURL(%q) unexpected error: %v", c.in, err)
		}
		if u.VideoID() != c.video {
			t.Errorf("ParseOonURL(%q).VideoID() = %q, want %q", c.in, u.VideoID(), c.video)
		}
		seg, ok := u.SegmentID()
		if seg != c.segment || ok != (c.segment != "") {
			t.Errorf("ParseOonURL(%q).SegmentID() = (%q, %v), want %q", c.in, seg, ok, c.segment)
		}
	}
}

func TestParseOonURL_Invalid(t *testing.T) {
	for _, in := range []string{
		"https://example.com/foo/a",
		"",
		"https://on.orf.at/video/",
		"https://on.orf.at/video/abc",
		"ftp://on.orf.at/video/1",
		"https://on.orf.atx/video/1",
	} {
		_, err := ParseOonURL(in)
		if err == nil {
			t.Fatalf("ParseOonURL(%q) expected error", in)
		}
		if !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("ParseOonURL(%q) expected ErrInvalidURL, got %v", in, err)
		}
		if !IsKind(err, KindValidation) {
			t.Fatalf("ParseOonURL(%q) expected validation kind", in)
		}
	}
}

func TestOonURL_StringIsTrimmed(t *testing.T) {
	u, err := ParseOonURL(" https://on.orf.at/video/1 ")
	if err != nil {
		t.Fatal(err)
	}
	if u.String() != "https://on.orf.at/video/1" {
		t.Fatalf("unexpected String(): %q", u.String())
	}
}
