package httpapi

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/DoyleJ11/quizboard/internal/content"
	"github.com/DoyleJ11/quizboard/internal/scores"
	"github.com/DoyleJ11/quizboard/pkg/types"
)

const (
	maxScoreBody     = 64 << 10
	maxQuestionsBody = 16 << 20
)

// ScoreStore is the part of the score database the handlers use.
type ScoreStore interface {
	All(ctx context.Context) (map[string]int, error)
	Add(ctx context.Context, team string, points int) error
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}

type Deps struct {
	Content *content.Store
	Scores  ScoreStore
	Log     *zap.Logger
}

func GetQuestions(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := d.Content.Load()
		switch {
		case errors.Is(err, content.ErrNotFound):
			d.Log.Warn("questions file not found", zap.String("path", d.Content.Path()))
			respondJSON(w, http.StatusNotFound, types.QuestionsError{Error: "Questions file not found"})
			return
		case errors.Is(err, content.ErrMalformed):
			d.Log.Error("invalid JSON in questions file", zap.String("path", d.Content.Path()), zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, types.QuestionsError{Error: "Invalid JSON file"})
			return
		case err != nil:
			d.Log.Error("reading questions file", zap.Error(err), zap.Stack("stack"))
			respondJSON(w, http.StatusInternalServerError, types.QuestionsError{Error: "Failed to read questions file"})
			return
		}

		d.Log.Debug("served questions", zap.Int("rounds", int(gjson.GetBytes(doc, "rounds.#").Int())))
		respondRaw(w, http.StatusOK, doc)
	}
}

func GetScores(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, currentScores(r.Context(), d))
	}
}

func UpdateScore(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScoreBody))
		if err != nil || !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req := gjson.ParseBytes(body)
		team := req.Get("team")
		if team.Type != gjson.String || !d.Content.IsTeam(team.Str) {
			respondError(w, http.StatusBadRequest, "Invalid team")
			return
		}
		points := coercePoints(req.Get("points"))

		err = d.Scores.Add(r.Context(), team.Str, points)
		if errors.Is(err, scores.ErrScoreOutOfRange) {
			respondError(w, http.StatusBadRequest, "Score out of range")
			return
		}
		if err != nil {
			d.Log.Error("updating score", zap.String("team", team.Str), zap.Int("points", points), zap.Error(err), zap.Stack("stack"))
			respondError(w, http.StatusInternalServerError, "Server error updating score")
			return
		}

		d.Log.Info("score updated", zap.String("team", team.Str), zap.Int("points", points))
		respondJSON(w, http.StatusOK, types.ScoresResponse{Status: types.StatusSuccess, Scores: currentScores(r.Context(), d)})
	}
}

func ResetScores(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Scores.Reset(r.Context()); err != nil {
			d.Log.Error("resetting scores", zap.Error(err), zap.Stack("stack"))
			respondError(w, http.StatusInternalServerError, "Failed to reset scores on server")
			return
		}

		d.Log.Info("all team scores have been reset to 0")
		respondJSON(w, http.StatusOK, types.ScoresResponse{Status: types.StatusSuccess, Scores: currentScores(r.Context(), d)})
	}
}

// GetQuestionsForEdit never fails; the editor gets an empty document seeded
// with the resolved teams when the file is unusable.
func GetQuestionsForEdit(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondRaw(w, http.StatusOK, d.Content.DocumentOrFallback())
	}
}

func SaveQuestions(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxQuestionsBody))
		if err == nil {
			err = d.Content.Save(body)
		}
		if err != nil {
			d.Log.Error("saving questions", zap.String("path", d.Content.Path()), zap.Error(err))
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		d.Log.Info("questions saved", zap.String("path", d.Content.Path()), zap.Int("bytes", len(body)))
		respondJSON(w, http.StatusOK, types.StatusResponse{Status: types.StatusSuccess})
	}
}

func GetRounds(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, d.Content.Rounds())
	}
}

func DebugQuestions(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		diag, err := d.Content.Diagnose()
		if err != nil {
			d.Log.Error("diagnosing questions file", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, types.QuestionsError{Error: err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, diag)
	}
}

func Healthz(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.Scores.Ping(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, types.HealthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
	}
}

// currentScores starts every resolved team at zero and overlays whatever
// the store holds. A store failure is logged and leaves the zeros.
func currentScores(ctx context.Context, d Deps) map[string]int {
	out := make(map[string]int)
	for _, t := range d.Content.Teams() {
		out[t] = 0
	}

	stored, err := d.Scores.All(ctx)
	if err != nil {
		d.Log.Error("getting all scores", zap.Error(err), zap.Stack("stack"))
		return out
	}
	for team, score := range stored {
		out[team] = score
	}
	return out
}

// coercePoints accepts numbers (truncated), numeric strings and booleans.
// Anything else, including numbers outside the int64 range, counts as zero.
func coercePoints(v gjson.Result) int {
	switch v.Type {
	case gjson.Number:
		if n, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return int(n)
		}
		f := v.Float()
		if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0
		}
		return int(f)
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return 0
		}
		return n
	case gjson.True:
		return 1
	default:
		return 0
	}
}
