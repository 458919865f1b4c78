package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/' || r == '\'' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

// parseDuration accepts Go duration syntax plus bare numbers, which are
// read as milliseconds.
func parseDuration(token string) (time.Duration, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return 0, false
	}
	if n, err := strconv.ParseFloat(token, 64); err == nil {
		if n < 0 {
			return 0, false
		}
		return time.Duration(n * float64(time.Millisecond)), true
	}
	switch {
	case strings.HasSuffix(token, "sec"), strings.HasSuffix(token, "secs"):
		token = strings.TrimSuffix(strings.TrimSuffix(token, "secs"), "sec") + "s"
	}
	d, err := time.ParseDuration(token)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

func mapDirection(token string) game.Direction {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "u", "up", "north":
		return game.DirUp
	case "down", "dn", "south":
		return game.DirDown
	case "l", "left", "west":
		return game.DirLeft
	case "r", "right", "east":
		return game.DirRight
	default:
		return game.DirNone
	}
}
