// Package i18n holds the UI strings. Message keys are the English texts;
// German translations are registered with x/text/message.
package i18n

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mawi1/oondl/internal/domain"
)

const (
	URLLabel         = "URL:"
	URLHint          = "e.g. https://on.orf.at/video/12345678"
	QualityLabel     = "Quality:"
	QualityHigh      = "High"
	QualityMedium    = "Medium"
	QualityLow       = "Low"
	DestLabel        = "Destination:"
	NoActiveDownload = "No active download."
	TitlePlaceholder = "<title>"
	Analyzing        = "Analyzing"
	Downloading      = "Downloading %.0f%% video %d of %d"
	Merging          = "Merging"
	Queue            = "Queue"
	QueueEmpty       = "Queue is empty."
	ErrorTitle       = "Error!"
	InvalidURL       = "Not a valid URL."
	NotWritable      = "No write permission for the destination folder."
	NetworkError     = "A network error occurred."
	FileError        = "Error while writing a file."
	UnexpectedError  = "An unexpected error occurred."
	Saved            = "Saved to %s"
	InvalidSettings  = "Invalid settings file %s, using defaults."
	InvalidSettingsL = "Invalid settings file %s (line %s), using defaults."

	HelpDownload       = "download"
	HelpNextField      = "next field"
	HelpQuality        = "change quality"
	HelpCancelDownload = "cancel download"
	HelpRemoveQueued   = "remove selected"
	HelpQuit           = "quit"
	HelpRetry          = "retry"
	HelpCancelFailed   = "cancel"
	HelpDismiss        = "close"
)

var german = map[string]string{
	URLLabel:         "URL:",
	URLHint:          "z.B. https://on.orf.at/video/12345678",
	QualityLabel:     "Qualität:",
	QualityHigh:      "Hoch",
	QualityMedium:    "Mittel",
	QualityLow:       "Niedrig",
	DestLabel:        "Zielordner:",
	NoActiveDownload: "Kein aktiver Download.",
	TitlePlaceholder: "<Titel>",
	Analyzing:        "Analysieren",
	Downloading:      "Herunterladen %.0f%% Video %d von %d",
	Merging:          "Zusammenfügen",
	Queue:            "Warteschlange",
	QueueEmpty:       "Warteschlange ist leer.",
	ErrorTitle:       "Fehler!",
	InvalidURL:       "Keine gültige Url.",
	NotWritable:      "Keine Schreibrechte für Zielordner.",
	NetworkError:     "Ein Netzwerkfehler ist aufgetreten.",
	FileError:        "Fehler beim Schreiben einer Datei.",
	UnexpectedError:  "Es ist ein unerwarteter Fehler aufgetreten.",
	Saved:            "Gespeichert unter %s",
	InvalidSettings:  "Ungültige Einstellungsdatei %s, Standardwerte werden verwendet.",
	InvalidSettingsL: "Ungültige Einstellungsdatei %s (Zeile %s), Standardwerte werden verwendet.",

	HelpDownload:       "herunterladen",
	HelpNextField:      "nächstes Feld",
	HelpQuality:        "Qualität ändern",
	HelpCancelDownload: "Download abbrechen",
	HelpRemoveQueued:   "Auswahl entfernen",
	HelpQuit:           "beenden",
	HelpRetry:          "wiederholen",
	HelpCancelFailed:   "abbrechen",
	HelpDismiss:        "schließen",
}

var supportedTags = []language.Tag{
	language.English,
	language.German,
}

var tagMatcher = language.NewMatcher(supportedTags)

func init() {
	for key, msg := range german {
		_ = message.SetString(language.German, key, msg)
	}
}

// Default returns the fallback language.
func Default() language.Tag {
	return language.English
}

// ResolveTag maps a POSIX locale such as "de_AT.UTF-8" to a supported language.
func ResolveTag(locale string) language.Tag {
	s := strings.TrimSpace(locale)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return Default()
	}

	tag, err := language.Parse(s)
	if err != nil {
		return Default()
	}
	_, idx, conf := tagMatcher.Match(tag)
	if conf == language.No {
		return Default()
	}
	return supportedTags[idx]
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ForLocale is Printer(ResolveTag(locale)).
func ForLocale(locale string) *message.Printer {
	return Printer(ResolveTag(locale))
}

func QualityName(p *message.Printer, q domain.Quality) string {
	switch q {
	case domain.QualityLow:
		return p.Sprintf(QualityLow)
	case domain.QualityMedium:
		return p.Sprintf(QualityMedium)
	default:
		return p.Sprintf(QualityHigh)
	}
}

// ErrorMessage returns the sentence shown to the user for err.
func ErrorMessage(p *message.Printer, err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		return p.Sprintf(InvalidURL)
	case errors.Is(err, domain.ErrNotWritable):
		return p.Sprintf(NotWritable)
	}
	switch domain.Classify(err) {
	case domain.KindNetwork:
		return p.Sprintf(NetworkError)
	case domain.KindFile:
		return p.Sprintf(FileError)
	default:
		return p.Sprintf(UnexpectedError)
	}
}
