package server

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/leetbot/internal/bot"
	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/internal/types"
	"github.com/fadedpez/leetbot/pkg/leetcode"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockInteractionHandler is a mock implementation of InteractionHandler
type MockInteractionHandler struct {
	mock.Mock
}

func (m *MockInteractionHandler) Dispatch(ctx context.Context, i *discordgo.Interaction) *bot.Outcome {
	args := m.Called(ctx, i)
	outcome, _ := args.Get(0).(*bot.Outcome)
	return outcome
}

func (m *MockInteractionHandler) RunFollowUpAsync(f *bot.FollowUp) {
	m.Called(f)
}

// MockQuestionSource is a mock implementation of QuestionSource
type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) DailyQuestion(ctx context.Context) (*leetcode.Question, error) {
	args := m.Called(ctx)
	q, _ := args.Get(0).(*leetcode.Question)
	return q, args.Error(1)
}

type ServerTestSuite struct {
	suite.Suite
	handler    *MockInteractionHandler
	questions  *MockQuestionSource
	publicKey  ed25519.PublicKey
	privateKey ed25519.PrivateKey
	routes     http.Handler
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	var err error
	s.publicKey, s.privateKey, err = ed25519.GenerateKey(nil)
	s.Require().NoError(err)

	s.handler = &MockInteractionHandler{}
	s.handler.Test(s.T())
	s.questions = &MockQuestionSource{}
	s.questions.Test(s.T())
	s.routes = SetupRoutes(s.handler, s.questions, Options{PublicKey: s.publicKey, Logger: logging.NewNop()})
}

func (s *ServerTestSuite) signedRequest(body string) *http.Request {
	timestamp := "1700000000"
	signature := ed25519.Sign(s.privateKey, []byte(timestamp+body))

	req := httptest.NewRequest(http.MethodPost, "/interactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(signature))
	req.Header.Set("X-Signature-Timestamp", timestamp)
	return req
}

func (s *ServerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.routes.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) TestPing() {
	// Setup
	s.handler.On("Dispatch", mock.Anything, mock.MatchedBy(func(i *discordgo.Interaction) bool {
		return i.Type == discordgo.InteractionPing
	})).Return(&bot.Outcome{Response: &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}})

	// Execute
	rec := s.serve(s.signedRequest(`{"id":"1","type":1,"token":"tok"}`))

	// Assert
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))
	s.JSONEq(`{"type":1}`, rec.Body.String())
	s.handler.AssertNotCalled(s.T(), "RunFollowUpAsync", mock.Anything)
}

func (s *ServerTestSuite) TestInvalidSignature() {
	// Setup
	req := s.signedRequest(`{"id":"1","type":1}`)
	req.Header.Set("X-Signature-Timestamp", "1700000001")

	// Execute
	rec := s.serve(req)

	// Assert
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.handler.AssertNotCalled(s.T(), "Dispatch", mock.Anything, mock.Anything)
}

func (s *ServerTestSuite) TestMissingSignature() {
	req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(`{"type":1}`))

	rec := s.serve(req)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerTestSuite) TestMalformedBody() {
	rec := s.serve(s.signedRequest(`{"type":`))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.handler.AssertNotCalled(s.T(), "Dispatch", mock.Anything, mock.Anything)
}

func (s *ServerTestSuite) TestNoOutcome() {
	s.handler.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

	rec := s.serve(s.signedRequest(`{"id":"2","type":3,"token":"tok","data":{"custom_id":"select-99","component_type":3,"values":["rock"]}}`))

	s.Equal(http.StatusNoContent, rec.Code)
	s.Empty(rec.Body.String())
}

func (s *ServerTestSuite) TestComponentWithFollowUp() {
	// Setup
	followUp := &bot.FollowUp{Action: bot.FollowUpDelete, Token: "tok", MessageID: "challenge-msg"}
	s.handler.On("Dispatch", mock.Anything, mock.MatchedBy(func(i *discordgo.Interaction) bool {
		data, ok := i.Data.(discordgo.MessageComponentInteractionData)
		return ok && data.CustomID == "accept-42" && i.Message != nil && i.Message.ID == "challenge-msg"
	})).Return(&bot.Outcome{
		Response: &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "What is your object of choice?",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		},
		FollowUp: followUp,
	})
	s.handler.On("RunFollowUpAsync", followUp).Return()

	// Execute
	rec := s.serve(s.signedRequest(`{
		"id": "3",
		"type": 3,
		"token": "tok",
		"member": {"user": {"id": "user-b"}},
		"message": {"id": "challenge-msg"},
		"data": {"custom_id": "accept-42", "component_type": 2}
	}`))

	// Assert
	s.Equal(http.StatusOK, rec.Code)
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(float64(discordgo.InteractionResponseChannelMessageWithSource), body["type"])
	data := body["data"].(map[string]interface{})
	s.Equal("What is your object of choice?", data["content"])
	s.Equal(float64(discordgo.MessageFlagsEphemeral), data["flags"])
	s.handler.AssertExpectations(s.T())
}

func (s *ServerTestSuite) TestInteractionsNotMountedWithoutKey() {
	routes := SetupRoutes(s.handler, s.questions, Options{Logger: logging.NewNop()})

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, s.signedRequest(`{"type":1}`))

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestDaily() {
	// Setup
	s.questions.On("DailyQuestion", mock.Anything).Return(&leetcode.Question{
		Date:       "2024-03-01",
		Link:       "https://leetcode.com/problems/two-sum/",
		Title:      "Two Sum",
		Difficulty: "Easy",
		TopicTags:  []leetcode.TopicTag{{Name: "Array", Slug: "array"}},
	}, nil)

	// Execute
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/daily", nil))

	// Assert
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{
		"date": "2024-03-01",
		"url": "https://leetcode.com/problems/two-sum/",
		"title": "Two Sum",
		"difficulty": "Easy",
		"topicTags": [{"name": "Array", "slug": "array"}]
	}`, rec.Body.String())
}

func (s *ServerTestSuite) TestDailyUpstreamError() {
	s.questions.On("DailyQuestion", mock.Anything).
		Return(nil, types.NewGameError(types.ErrNetworkError, "LeetCode returned status 503"))

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/daily", nil))

	s.Equal(http.StatusBadGateway, rec.Code)
	s.Contains(rec.Body.String(), "LeetCode returned status 503")
}

func (s *ServerTestSuite) TestHealthz() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestMetrics() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "go_goroutines")
}

func (s *ServerTestSuite) TestParsePublicKey() {
	key, err := ParsePublicKey(hex.EncodeToString(s.publicKey))
	s.Require().NoError(err)
	s.Equal(s.publicKey, key)

	_, err = ParsePublicKey("zz")
	s.Error(err)
	_, err = ParsePublicKey("abcd")
	s.Error(err)
}
