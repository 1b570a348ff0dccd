package server

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/leetbot/internal/bot"
	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/pkg/leetcode"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InteractionHandler turns interactions into outcomes and runs their follow-ups
type InteractionHandler interface {
	Dispatch(ctx context.Context, i *discordgo.Interaction) *bot.Outcome
	RunFollowUpAsync(f *bot.FollowUp)
}

// QuestionSource provides the question of the day
type QuestionSource interface {
	DailyQuestion(ctx context.Context) (*leetcode.Question, error)
}

// Options configure the router
type Options struct {
	// PublicKey verifies interaction signatures. Without it /interactions is
	// not mounted.
	PublicKey ed25519.PublicKey
	Logger    *logging.Logger
}

// SetupRoutes builds the HTTP API
func SetupRoutes(handler InteractionHandler, questions QuestionSource, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if len(opts.PublicKey) == ed25519.PublicKeySize {
		r.Post("/interactions", Interactions(handler, opts.PublicKey, logger))
	}
	r.Get("/daily", Daily(questions, logger))
	r.Get("/healthz", Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// ParsePublicKey decodes the hex Ed25519 key shown in the developer portal
func ParsePublicKey(hexKey string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key: expected %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}
