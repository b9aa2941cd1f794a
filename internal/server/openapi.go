package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/powderparty/skigame/internal/skigame"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "SkiGame API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the slope shape-drawing party game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]struct {
		Status string `json:"status"`
	}{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// GET /ws/echo
	getWSEcho, _ := r.NewOperationContext(http.MethodGet, "/ws/echo")
	getWSEcho.SetSummary("WebSocket echo")
	getWSEcho.SetDescription("Upgrades to a WebSocket connection that echoes messages back.")
	getWSEcho.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSEcho)

	// POST /sessions
	postSessions, _ := r.NewOperationContext(http.MethodPost, "/sessions")
	postSessions.SetSummary("Create session")
	postSessions.SetDescription("Creates a game session in the lobby phase and returns its join code.")
	postSessions.AddReqStructure(CreateSessionRequest{})
	postSessions.AddRespStructure(CreateSessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSessions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSessions)

	// GET /sessions/resolve/{joinCode}
	getResolve, _ := r.NewOperationContext(http.MethodGet, "/sessions/resolve/{joinCode}")
	getResolve.SetSummary("Resolve join code")
	getResolve.SetDescription("Resolves a join code (case-insensitive) to a session id.")
	getResolve.AddRespStructure(ResolveJoinCodeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getResolve.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getResolve)

	// GET /sessions/{sessionID}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/sessions/{sessionID}")
	getSession.SetSummary("Session status")
	getSession.SetDescription("Full session snapshot: phase, mode, host, and per-player summaries.")
	getSession.AddRespStructure(SessionStatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// PATCH /sessions/{sessionID}
	patchSession, _ := r.NewOperationContext(http.MethodPatch, "/sessions/{sessionID}")
	patchSession.SetSummary("Update session")
	patchSession.SetDescription("Partially updates mode and/or phase. Phase changes must follow the lifecycle order.")
	patchSession.AddReqStructure(UpdateSessionRequest{})
	patchSession.AddRespStructure(UpdateSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	patchSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	patchSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	patchSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(patchSession)

	// POST /sessions/{sessionID}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/sessions/{sessionID}/join")
	postJoin.SetSummary("Join session")
	postJoin.SetDescription("Adds a player with a generated display name to the session.")
	postJoin.AddRespStructure(JoinSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postJoin)

	// POST /sessions/{sessionID}/leave
	postLeave, _ := r.NewOperationContext(http.MethodPost, "/sessions/{sessionID}/leave")
	postLeave.SetSummary("Leave session")
	postLeave.SetDescription("Removes the player and any submitted track from the session.")
	postLeave.AddReqStructure(LeaveSessionRequest{})
	postLeave.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLeave.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postLeave)

	// POST /sessions/{sessionID}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/sessions/{sessionID}/start")
	postStart.SetSummary("Start session")
	postStart.SetDescription("Moves the session to the started phase and, in drawing mode, assigns every current player a shape challenge.")
	postStart.AddReqStructure(StartSessionRequest{})
	postStart.AddRespStructure(StartSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postStart)

	// POST /sessions/{sessionID}/end
	postEnd, _ := r.NewOperationContext(http.MethodPost, "/sessions/{sessionID}/end")
	postEnd.SetSummary("End session")
	postEnd.SetDescription("Moves the session to the finished phase from any phase.")
	postEnd.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postEnd)

	// POST /sessions/{sessionID}/tracks
	postTrack, _ := r.NewOperationContext(http.MethodPost, "/sessions/{sessionID}/tracks")
	postTrack.SetSummary("Submit track")
	postTrack.SetDescription("Creates or overwrites the player's recorded ski run.")
	postTrack.AddReqStructure(SubmitTrackRequest{})
	postTrack.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postTrack.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postTrack.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postTrack)

	// GET /sessions/{sessionID}/tracks
	getTracks, _ := r.NewOperationContext(http.MethodGet, "/sessions/{sessionID}/tracks")
	getTracks.SetSummary("List tracks")
	getTracks.SetDescription("Returns submitted tracks for players that have one.")
	getTracks.AddRespStructure([]TrackItem{}, openapi.WithHTTPStatus(http.StatusOK))
	getTracks.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getTracks)

	// GET /sessions/{sessionID}/challenges
	getChallenges, _ := r.NewOperationContext(http.MethodGet, "/sessions/{sessionID}/challenges")
	getChallenges.SetSummary("List challenges")
	getChallenges.SetDescription("Returns the challenge assignments per player.")
	getChallenges.AddRespStructure(map[string][]skigame.Challenge{}, openapi.WithHTTPStatus(http.StatusOK))
	getChallenges.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getChallenges)

	// POST /sessions/{sessionID}/guesses
	postGuesses, _ := r.NewOperationContext(http.MethodPost, "/sessions/{sessionID}/guesses")
	postGuesses.SetSummary("Submit guesses")
	postGuesses.SetDescription("Validates a batch of shape guesses against challenge assignments and awards points.")
	postGuesses.AddReqStructure(SubmitGuessesRequest{})
	postGuesses.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuesses.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuesses.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postGuesses)

	// GET /sessions/{sessionID}/score
	getScore, _ := r.NewOperationContext(http.MethodGet, "/sessions/{sessionID}/score")
	getScore.SetSummary("Leaderboard")
	getScore.SetDescription("Returns players ordered by score descending; ties keep join order.")
	getScore.AddRespStructure([]ScoreItem{}, openapi.WithHTTPStatus(http.StatusOK))
	getScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getScore)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
