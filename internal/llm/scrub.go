package llm

import (
	"regexp"
	"strings"
)

// Models sometimes echo the "[Name]: text" convention the prompt uses
// for speaker attribution. Strip any self-prefix and unwrap bracketed
// names inside the reply.
var (
	leadingBracketName = regexp.MustCompile(`^\[[^\]]*\]:?\s*`)
	leadingName        = regexp.MustCompile(`^\w+:\s*`)
	bracketedName      = regexp.MustCompile(`\[([^\]]+)\]`)
)

func Scrub(reply string) string {
	reply = strings.TrimSpace(reply)
	reply = leadingBracketName.ReplaceAllString(reply, "")
	reply = leadingName.ReplaceAllString(reply, "")
	reply = bracketedName.ReplaceAllString(reply, "$1")
	return strings.TrimSpace(reply)
}
