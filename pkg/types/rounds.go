package types

import "encoding/json"

const RoundTypeTopic = "topic"

// RoundSummary is the /api/rounds projection of a round. Name, Type and
// each topic name are the document's own JSON values, null when absent.
// Topics is only emitted for topic rounds, and always as a list for them.
type RoundSummary struct {
	Name   json.RawMessage   `json:"name"`
	Type   json.RawMessage   `json:"type"`
	Topics []json.RawMessage `json:"topics,omitempty"`
}

// IsTopic reports whether Type is the string "topic".
func (r RoundSummary) IsTopic() bool {
	var t string
	return json.Unmarshal(r.Type, &t) == nil && t == RoundTypeTopic
}

func (r RoundSummary) MarshalJSON() ([]byte, error) {
	name, typ := orNull(r.Name), orNull(r.Type)
	if !r.IsTopic() {
		return json.Marshal(struct {
			Name json.RawMessage `json:"name"`
			Type json.RawMessage `json:"type"`
		}{name, typ})
	}
	topics := make([]json.RawMessage, 0, len(r.Topics))
	for _, t := range r.Topics {
		topics = append(topics, orNull(t))
	}
	return json.Marshal(struct {
		Name   json.RawMessage   `json:"name"`
		Type   json.RawMessage   `json:"type"`
		Topics []json.RawMessage `json:"topics"`
	}{name, typ, topics})
}

func orNull(v json.RawMessage) json.RawMessage {
	if len(v) == 0 {
		return json.RawMessage("null")
	}
	return v
}

// QuestionsDiagnosis is the /debug/questions report. Fields other than
// FileExists are only set once the file has been found.
type QuestionsDiagnosis struct {
	FileExists bool            `json:"fileExists"`
	ValidJSON  *bool           `json:"validJson,omitempty"`
	Rounds     *int            `json:"rounds,omitempty"`
	Teams      json.RawMessage `json:"teams,omitempty"`
	FirstRound json.RawMessage `json:"firstRound,omitempty"`
	Error      string          `json:"error,omitempty"`
}
