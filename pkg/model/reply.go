package model

import (
	"regexp"
	"strconv"
	"strings"
)

// Fallback values used when a model reply does not match the instructed
// format. A formatting slip must not abort an otherwise successful call.
const (
	DefaultQuestion = "Could you please provide more details?"
	DefaultFeedback = "No specific feedback."
)

var (
	// Question text runs from the marker to the first '?', independent of
	// whatever follows. Non-greedy so a "Feedback" word inside the question
	// clause does not push the match past the question mark.
	questionRe = regexp.MustCompile(`Question:\s*(.*?)\?`)
	feedbackRe = regexp.MustCompile(`Feedback:\s*(\d+)\s*-\s*(.*)`)
	scoreRe    = regexp.MustCompile(`Feedback:\s*(\d+)`)
)

// Reply is the structured form of one model reply.
type Reply struct {
	Question          string
	Feedback          string
	TransparencyScore int
}

// ParseReply extracts question, transparency score, and feedback text from a
// raw model reply of the shape "Question: <q>? Feedback: <n> - <text>". It is
// total: any clause that does not match degrades to its default instead of
// failing.
func ParseReply(raw string) Reply {
	text := strings.TrimSpace(raw)
	reply := Reply{
		Question: DefaultQuestion,
		Feedback: DefaultFeedback,
	}

	if m := questionRe.FindStringSubmatch(text); m != nil {
		reply.Question = strings.TrimSpace(m[1]) + "?"
	}

	if m := feedbackRe.FindStringSubmatch(text); m != nil {
		reply.TransparencyScore = parseScore(m[1])
		reply.Feedback = strings.TrimSpace(m[2])
	} else if m := scoreRe.FindStringSubmatch(text); m != nil {
		reply.TransparencyScore = parseScore(m[1])
	}

	return reply
}

// parseScore returns 0 for anything outside the instructed 1-10 range.
func parseScore(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 10 {
		return 0
	}
	return n
}
