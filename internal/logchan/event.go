package logchan

import "encoding/json"

// Event is one frame pushed to a client: a progress line or a terminal result.
type Event struct {
	text   string
	result *resultPayload
}

type resultPayload struct {
	Type string `json:"type"`
	HTML string `json:"html"`
}

// Text returns a plain progress-line event.
func Text(line string) Event { return Event{text: line} }

// Result returns the terminal payload carrying rendered HTML.
func Result(html string) Event {
	return Event{result: &resultPayload{Type: ResultType, HTML: html}}
}

// Encode returns the frame body sent on the wire.
func (e Event) Encode() (string, error) {
	if e.result == nil {
		return e.text, nil
	}
	b, err := json.Marshal(e.result)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
