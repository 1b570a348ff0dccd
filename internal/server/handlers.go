package server

import (
	"crypto/ed25519"
	"encoding/json"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/internal/types"
)

// Interactions is the endpoint Discord posts interactions to. The response is
// written first; the follow-up runs after the handler returns.
func Interactions(handler InteractionHandler, key ed25519.PublicKey, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !discordgo.VerifyInteraction(r, key) {
			http.Error(w, "invalid request signature", http.StatusUnauthorized)
			return
		}

		var interaction discordgo.Interaction
		if err := json.NewDecoder(r.Body).Decode(&interaction); err != nil {
			logger.Warn("Malformed interaction payload: %v", err)
			http.Error(w, "malformed interaction", http.StatusBadRequest)
			return
		}

		outcome := handler.Dispatch(r.Context(), &interaction)
		if outcome == nil || outcome.Response == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(outcome.Response); err != nil {
			logger.Error("Failed to write response for interaction %s: %v", interaction.ID, err)
			return
		}

		if outcome.FollowUp != nil {
			handler.RunFollowUpAsync(outcome.FollowUp)
		}
	}
}

// Daily returns the question of the day as JSON
func Daily(questions QuestionSource, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if questions == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "question source is not configured"})
			return
		}

		q, err := questions.DailyQuestion(r.Context())
		if err != nil {
			logger.LogError(err)
			status := http.StatusBadGateway
			var gameErr *types.GameError
			if types.As(err, &gameErr) && gameErr.Code == types.ErrInternalError {
				status = http.StatusServiceUnavailable
			}
			writeJSON(w, status, errorBody{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, q)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
