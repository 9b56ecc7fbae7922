package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func testPage(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(b)
}

func TestTitle(t *testing.T) {
	got, err := Title(testPage(t, "title.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ZIB 1 vom 08.05.2024" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestTitleEscaped(t *testing.T) {
	got, err := Title(testPage(t, "title_escaped.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "ORF-Hilfsaktion \"Österreich hilft Österreich\" - Wien heute vom 13.06.2024"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTitleMissing(t *testing.T) {
	_, err := Title("<html><head><title>x</title></head></html>")
	if err == nil || err.Error() != "could not extract title" {
		t.Fatalf("expected title error, got %v", err)
	}
}

func TestVideosUnsegmented(t *testing.T) {
	info, err := Videos(testPage(t, "unsegmented.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Segmented {
		t.Fatalf("expected unsegmented")
	}
	want := "https://apasfiis.sf.apa.at/dash/cms-austria/online/14224991_0014_QXB.mp4/manifest.mpd"
	if len(info.URLs) != 1 || info.URLs[0] != want {
		t.Fatalf("unexpected urls %v", info.URLs)
	}
}

func TestVideosSegmented(t *testing.T) {
	info, err := Videos(testPage(t, "segmented.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.Segmented {
		t.Fatalf("expected segmented")
	}
	want := []string{
		"https://apasfiis.sf.apa.at/dash/cms-austria/2024-06-13_1900_tl_22_WIEN-HEUTE__s15658301_Q8C_QXB.mp4/manifest.mpd",
		"https://apasfiis.sf.apa.at/dash/cms-austria/2024-06-13_1900_tl_22_WIEN-HEUTE__s15658302_Q8C_QXB.mp4/manifest.mpd",
		"https://apasfiis.sf.apa.at/dash/cms-austria/2024-06-13_1900_tl_22_WIEN-HEUTE__s15658303_Q8C_QXB.mp4/manifest.mpd",
	}
	if len(info.URLs) != len(want) {
		t.Fatalf("expected %d urls (duplicates dropped), got %v", len(want), info.URLs)
	}
	for i := range want {
		if info.URLs[i] != want[i] {
			t.Errorf("url[%d] = %q, want %q", i, info.URLs[i], want[i])
		}
	}
}

func TestVideosPrefersFullEpisode(t *testing.T) {
	info, err := Videos(testPage(t, "segmented_and_unsegmented.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://apasfiis.sf.apa.at/dash/cms-worldwide_episodes/14225330_0016_QXB.mp4/manifest.mpd"
	if info.Segmented || len(info.URLs) != 1 || info.URLs[0] != want {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestVideosSkipsBumperClip(t *testing.T) {
	info, err := Videos(testPage(t, "with_bumper_clip.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://apasfiis.sf.apa.at/dash/cms-austria/online/14226001_0007_QXB.mp4/manifest.mpd"
	if info.Segmented || len(info.URLs) != 1 || info.URLs[0] != want {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestVideosRepeatedManifestIsOneVideo(t *testing.T) {
	u := "https://apasfiis.sf.apa.at/dash/cms-austria/2024-06-13_1900_tl_22_WIEN-HEUTE__s15658301_Q8C_QXB.mp4/manifest.mpd"
	page := `<script>{"src":"` + u + `"}</script><video data-src="` + u + `"></video>`
	info, err := Videos(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Segmented || len(info.URLs) != 1 || info.URLs[0] != u {
		t.Fatalf("a manifest listed twice must not become two segments: %+v", info)
	}
}

func TestVideosNone(t *testing.T) {
	_, err := Videos(testPage(t, "no_video.html"))
	if err == nil || err.Error() != "could not extract mpd-urls" {
		t.Fatalf("expected mpd-urls error, got %v", err)
	}
}

func TestSegmentURL(t *testing.T) {
	got, err := SegmentURL(testPage(t, "segment.html"), "15658303")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://apasfiis.sf.apa.at/dash/cms-austria/2024-05-04_1720_in_02_Gauder-Fest__s15658303_Q8C_QXB.mp4/manifest.mpd"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if _, err := SegmentURL(testPage(t, "segment.html"), "1"); err == nil {
		t.Fatalf("expected error for unknown segment")
	}
}
