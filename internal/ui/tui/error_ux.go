package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/message"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/i18n"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

func userMessage(p *message.Printer, err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) && oe.Kind == domain.KindInvalidConfig {
		base := "settings.yaml"
		if strings.TrimSpace(oe.Path) != "" {
			base = filepath.Base(oe.Path)
		}
		if line := extractLine(err.Error()); line != "" {
			return p.Sprintf(i18n.InvalidSettingsL, base, line)
		}
		return p.Sprintf(i18n.InvalidSettings, base)
	}

	return i18n.ErrorMessage(p, err)
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
