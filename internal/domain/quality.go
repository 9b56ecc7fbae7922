package domain

import (
	"fmt"
	"strings"
)

// Quality selects the video representation by bandwidth.
type Quality int

const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
)

func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

// Next cycles low → medium → high → low.
func (q Quality) Next() Quality {
	return (q + 1) % 3
}

// Prev cycles in the opposite direction of Next.
func (q Quality) Prev() Quality {
	return (q + 2) % 3
}

func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "niedrig":
		return QualityLow, nil
	case "medium", "mittel":
		return QualityMedium, nil
	case "high", "hoch", "":
		return QualityHigh, nil
	}
	return QualityHigh, &OpError{
		Op:   "domain.parse_quality",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("%w: unknown quality %q (expected low|medium|high)", ErrInvalidConfig, s),
	}
}

func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quality) UnmarshalText(b []byte) error {
	v, err := ParseQuality(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}
