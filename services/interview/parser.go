package interview

import "strings"

// EndMarker is the reserved literal the model prefixes its reply with to end
// the interview. Only an exact match at the start of the reply counts; partial
// or mid-string occurrences are ordinary text.
const EndMarker = "[END_INTERVIEW]"

type replyKind int

const (
	replyQuestion replyKind = iota
	replyTermination
)

// modelReply is the parsed form of a raw assistant reply: either another
// question or a termination with the model's closing remark.
type modelReply struct {
	Kind replyKind
	Text string
}

func parseReply(raw string) modelReply {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, EndMarker) {
		return modelReply{
			Kind: replyTermination,
			Text: strings.TrimSpace(trimmed[len(EndMarker):]),
		}
	}

	return modelReply{Kind: replyQuestion, Text: trimmed}
}
