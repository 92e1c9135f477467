package stream

import "strings"

// DefaultLeakMarkers are control tokens that belong to provider chat
// templates and must never surface in user-visible text. Their presence
// in text deltas means the provider failed to strip its own framing.
var DefaultLeakMarkers = []string{
	"<think>",
	"</think>",
	"<|channel|>",
	"<|message|>",
	"<|end|>",
}

// LeakDetector counts control-token occurrences across a sequence of
// text deltas, including markers split over delta boundaries. It only
// observes; deltas are never altered.
type LeakDetector struct {
	markers []string
	tail    string
	window  int
	count   int
}

func NewLeakDetector(markers []string) *LeakDetector {
	window := 0
	for _, m := range markers {
		if len(m) > window {
			window = len(m)
		}
	}
	if window > 0 {
		window--
	}
	return &LeakDetector{markers: markers, window: window}
}

// Feed scans one text delta. Matches entirely inside the retained tail
// were counted by an earlier Feed and are skipped.
func (d *LeakDetector) Feed(delta string) {
	if delta == "" || len(d.markers) == 0 {
		return
	}
	s := d.tail + delta
	for _, m := range d.markers {
		for from := 0; ; {
			i := strings.Index(s[from:], m)
			if i < 0 {
				break
			}
			at := from + i
			if at+len(m) > len(d.tail) {
				d.count++
			}
			from = at + 1
		}
	}
	if len(s) > d.window {
		s = s[len(s)-d.window:]
	}
	d.tail = s
}

// Count returns the number of leaked markers seen so far.
func (d *LeakDetector) Count() int {
	return d.count
}
