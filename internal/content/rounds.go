package content

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"

	"github.com/DoyleJ11/quizboard/pkg/types"
)

// Rounds projects each round down to its name, type and, for topic rounds,
// the topic names. Values are passed through as stored, null when absent.
// Anything that cannot be read yields an empty list.
func (s *Store) Rounds() []types.RoundSummary {
	out := []types.RoundSummary{}

	doc, err := s.Load()
	if err != nil {
		return out
	}
	rounds := field(doc, "rounds")
	if !rounds.IsArray() {
		return out
	}

	for _, r := range rounds.Array() {
		if !r.IsObject() {
			continue
		}
		sum := types.RoundSummary{
			Name: raw(r.Get("name")),
			Type: raw(r.Get("type")),
		}
		if sum.IsTopic() {
			sum.Topics = topicNames(r.Get("topics"))
		}
		out = append(out, sum)
	}
	return out
}

func topicNames(topics gjson.Result) []json.RawMessage {
	names := []json.RawMessage{}
	if !topics.IsArray() {
		return names
	}
	for _, t := range topics.Array() {
		if !t.IsObject() {
			continue
		}
		names = append(names, raw(t.Get("name")))
	}
	return names
}

func raw(v gjson.Result) json.RawMessage {
	if !v.Exists() {
		return json.RawMessage("null")
	}
	return json.RawMessage(v.Raw)
}

// Diagnose describes the state of the document file. A missing file and a
// parse failure are reported in the diagnosis; only other read failures are
// returned as errors.
func (s *Store) Diagnose() (types.QuestionsDiagnosis, error) {
	doc, err := s.Load()
	switch {
	case errors.Is(err, ErrNotFound):
		return types.QuestionsDiagnosis{FileExists: false, Error: "File not found"}, nil
	case errors.Is(err, ErrMalformed):
		valid := false
		return types.QuestionsDiagnosis{FileExists: true, ValidJSON: &valid, Error: parseError(err)}, nil
	case err != nil:
		return types.QuestionsDiagnosis{}, err
	}

	valid := true
	rounds := field(doc, "rounds")
	count := 0
	firstRound := json.RawMessage("null")
	if rounds.IsArray() {
		all := rounds.Array()
		count = len(all)
		if count > 0 {
			firstRound = json.RawMessage(all[0].Raw)
		}
	}

	teams := json.RawMessage("[]")
	if t := field(doc, "teams"); t.Exists() {
		teams = json.RawMessage(t.Raw)
	}

	return types.QuestionsDiagnosis{
		FileExists: true,
		ValidJSON:  &valid,
		Rounds:     &count,
		Teams:      teams,
		FirstRound: firstRound,
	}, nil
}

// parseError strips the sentinel prefix so only the parser message is shown.
func parseError(err error) string {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return syn.Error()
	}
	return err.Error()
}
