package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var repeatRE = regexp.MustCompile(`\s+x(\d+)$`)

const maxRepeat = 1000

// ParseScript reads one command per line (or several separated by ";").
// Blank lines and "#" comments are skipped, and a trailing "x3" repeats the
// command. Control verbs such as cast and quit are kept so the player can
// act on them.
func (p *Parser) ParseScript(r io.Reader) ([]Intent, error) {
	var out []Intent
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, part := range strings.Split(text, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			repeat := 1
			if m := repeatRE.FindStringSubmatch(strings.ToLower(part)); m != nil {
				n, err := strconv.Atoi(m[1])
				if err != nil || n < 1 || n > maxRepeat {
					return nil, fmt.Errorf("line %d: bad repeat count %q", line, m[1])
				}
				repeat = n
				part = strings.TrimSpace(part[:len(part)-len(m[0])])
			}
			intent := p.Parse(ParseContext{}, part)
			if intent.Clarify != nil || intent.Kind == Unknown {
				return nil, fmt.Errorf("line %d: cannot parse %q", line, part)
			}
			for i := 0; i < repeat; i++ {
				out = append(out, intent)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return out, nil
}
