package game

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type Level int

const (
	LevelUnknown Level = iota - 1
	DoesNotRun
	Launches
	MajorBugs
	MediumImpact
	MinorBugs
	Completable
	Perfect
)

var levelNames = map[Level]string{
	LevelUnknown: "unknown",
	DoesNotRun:   "doesnotrun",
	Launches:     "launches",
	MajorBugs:    "majorbugs",
	MediumImpact: "mediumimpact",
	MinorBugs:    "minorbugs",
	Completable:  "completable",
	Perfect:      "perfect",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return Level(s[0] - '0'), true
	}
	for level, name := range levelNames {
		if name == s {
			return level, true
		}
	}
	return LevelUnknown, false
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	level, ok := ParseLevel(string(b))
	if !ok {
		return fmt.Errorf("unknown status level %q", string(b))
	}
	*l = level
	return nil
}

type Status struct {
	Level   Level      `json:"level"`
	// Text after the level digit, or all of it when there is none.
	Message string     `json:"message,omitempty"`
	Tested  *time.Time `json:"tested,omitempty"`
}

var statusDate = regexp.MustCompile(`\((\d{4}-\d{2}-\d{2})\)`)

// ParseStatus parses a Status value. A parenthesised YYYY-MM-DD group is the
// test date and must be a valid calendar date.
func ParseStatus(value string) (Status, error) {
	value = strings.TrimSpace(value)
	status := Status{Level: LevelUnknown, Message: value}

	if len(value) > 0 && value[0] >= '0' && value[0] <= '6' &&
		(len(value) == 1 || value[1] == ' ' || value[1] == '(') {
		status.Level = Level(value[0] - '0')
		status.Message = strings.TrimSpace(value[1:])
	}

	matches := statusDate.FindAllStringSubmatch(value, -1)
	if len(matches) > 0 {
		raw := matches[len(matches)-1][1]
		tested, err := ParseDate(raw)
		if err != nil {
			return Status{}, fmt.Errorf("status date %q: %w", raw, err)
		}
		status.Tested = &tested
	}
	return status, nil
}

func (s Status) String() string {
	if s.Level == LevelUnknown {
		return s.Message
	}
	digit := fmt.Sprintf("%d", int(s.Level))
	if s.Message == "" {
		return digit
	}
	return digit + " " + s.Message
}
