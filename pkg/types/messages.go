package types

// Server -> Client
//
// Scores (GET /api/scores):
//   { [team]: number }
//
// ScoresResponse (POST /api/scores, POST /api/reset_scores):
//   status: "success"
//   scores: { [team]: number }
//
// StatusResponse (POST /api/questions/save):
//   status: "success"
//
// ErrorResponse:
//   status: "error"
//   message: string
//
// QuestionsError (GET /api/questions):
//   error: string

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type StatusResponse struct {
	Status string `json:"status"`
}

type ScoresResponse struct {
	Status string         `json:"status"`
	Scores map[string]int `json:"scores"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type QuestionsError struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
