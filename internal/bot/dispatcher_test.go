package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/leetbot/internal/games"
	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/internal/types"
	"github.com/fadedpez/leetbot/pkg/entities"
	"github.com/fadedpez/leetbot/pkg/games/rps"
	"github.com/fadedpez/leetbot/pkg/leetcode"
	"github.com/fadedpez/leetbot/pkg/repositories/match"
	"github.com/fadedpez/leetbot/pkg/services/stats"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockQuestionSource is a mock implementation of QuestionSource
type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) FetchDaily(ctx context.Context) (*leetcode.Question, error) {
	args := m.Called(ctx)
	q, _ := args.Get(0).(*leetcode.Question)
	return q, args.Error(1)
}

type DispatcherTestSuite struct {
	suite.Suite
	ctx        context.Context
	registry   *games.Registry
	repo       *match.MemoryRepository
	questions  *MockQuestionSource
	dispatcher *Dispatcher
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func (s *DispatcherTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.registry = games.NewRegistry()
	s.repo = match.NewMemoryRepository()
	s.questions = &MockQuestionSource{}
	s.questions.Test(s.T())
	s.dispatcher = NewDispatcher(s.registry, stats.NewService(s.repo), s.questions, logging.NewNop())
	s.dispatcher.emoji = func() string { return "✨" }
	s.dispatcher.shuffle = func() []rps.Option {
		return []rps.Option{
			{Label: "Scissors", Value: rps.Scissors, Description: "snip"},
			{Label: "Rock", Value: rps.Rock, Description: "thud"},
			{Label: "Paper", Value: rps.Paper, Description: "rustle"},
		}
	}
}

func member(userID string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID}}
}

func commandInteraction(id, userID, name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:     id,
		Type:   discordgo.InteractionApplicationCommand,
		Token:  "token-" + id,
		Member: member(userID),
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
		},
	}
}

func objectOption(value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  OptionObject,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func componentInteraction(userID, customID, messageID string, values ...string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "component-" + customID,
		Type:      discordgo.InteractionMessageComponent,
		Token:     "token-" + customID,
		GuildID:   "guild-1",
		ChannelID: "channel-1",
		Member:    member(userID),
		Message:   &discordgo.Message{ID: messageID},
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customID,
			Values:   values,
		},
	}
}

func (s *DispatcherTestSuite) TestPing() {
	outcome := s.dispatcher.Dispatch(s.ctx, &discordgo.Interaction{Type: discordgo.InteractionPing})

	s.Require().NotNil(outcome)
	s.Equal(discordgo.InteractionResponsePong, outcome.Response.Type)
	s.Nil(outcome.FollowUp)
}

func (s *DispatcherTestSuite) TestNilAndUnknownInteractions() {
	s.Nil(s.dispatcher.Dispatch(s.ctx, nil))
	s.Nil(s.dispatcher.Dispatch(s.ctx, &discordgo.Interaction{Type: discordgo.InteractionModalSubmit}))
	s.Nil(s.dispatcher.Dispatch(s.ctx, commandInteraction("1", "user-a", "unknown")))
	s.Nil(s.dispatcher.Dispatch(s.ctx, &discordgo.Interaction{Type: discordgo.InteractionApplicationCommand}))
	s.Nil(s.dispatcher.Dispatch(s.ctx, componentInteraction("user-a", "blackjack_hit", "m1")))
}

func (s *DispatcherTestSuite) TestHello() {
	outcome := s.dispatcher.Dispatch(s.ctx, commandInteraction("1", "user-a", CommandHello))

	s.Require().NotNil(outcome)
	s.Equal(discordgo.InteractionResponseChannelMessageWithSource, outcome.Response.Type)
	s.Equal("hello world ✨", outcome.Response.Data.Content)
	s.Nil(outcome.FollowUp)
}

func (s *DispatcherTestSuite) TestChallengeCreatesGame() {
	// Execute
	outcome := s.dispatcher.Dispatch(s.ctx, commandInteraction("42", "user-a", CommandChallenge, objectOption("rock")))

	// Assert
	s.Require().NotNil(outcome)
	s.Equal("Rock papers scissors challenge from <@user-a>", outcome.Response.Data.Content)
	s.Zero(outcome.Response.Data.Flags)

	row, ok := outcome.Response.Data.Components[0].(discordgo.ActionsRow)
	s.Require().True(ok)
	button, ok := row.Components[0].(discordgo.Button)
	s.Require().True(ok)
	s.Equal("accept-42", button.CustomID)
	s.Equal("Accept", button.Label)

	game, exists := s.registry.Get("42")
	s.Require().True(exists)
	s.Equal(rps.Player{UserID: "user-a", Choice: rps.Rock}, game.Challenger)
	s.Nil(game.Opponent)
}

func (s *DispatcherTestSuite) TestChallengeInvalidObjectIsIgnored() {
	s.Nil(s.dispatcher.Dispatch(s.ctx, commandInteraction("42", "user-a", CommandChallenge, objectOption("lizard"))))
	s.Nil(s.dispatcher.Dispatch(s.ctx, commandInteraction("43", "user-a", CommandChallenge)))
	s.Nil(s.dispatcher.Dispatch(s.ctx, commandInteraction("", "user-a", CommandChallenge, objectOption("rock"))))
	s.Zero(s.registry.Len())
}

func (s *DispatcherTestSuite) TestChallengeNonStringOptionIsIgnored() {
	opt := &discordgo.ApplicationCommandInteractionDataOption{
		Name:  OptionObject,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(3),
	}

	s.Nil(s.dispatcher.Dispatch(s.ctx, commandInteraction("42", "user-a", CommandChallenge, opt)))
	s.Zero(s.registry.Len())
}

func (s *DispatcherTestSuite) TestChallengeConflictReportsError() {
	// Setup
	s.Require().NoError(s.registry.Create("42", rps.Player{UserID: "user-b", Choice: rps.Paper}))

	// Execute
	outcome := s.dispatcher.Dispatch(s.ctx, commandInteraction("42", "user-a", CommandChallenge, objectOption("rock")))

	// Assert
	s.Require().NotNil(outcome)
	s.Equal(discordgo.MessageFlagsEphemeral, outcome.Response.Data.Flags)
	s.Contains(outcome.Response.Data.Content, "🎮")
	game, _ := s.registry.Get("42")
	s.Equal("user-b", game.Challenger.UserID)
}

func (s *DispatcherTestSuite) TestAcceptShowsSelectMenuAndDeletesChallenge() {
	// Execute
	outcome := s.dispatcher.Dispatch(s.ctx, componentInteraction("user-b", "accept-42", "challenge-msg"))

	// Assert
	s.Require().NotNil(outcome)
	s.Equal("What is your object of choice?", outcome.Response.Data.Content)
	s.Equal(discordgo.MessageFlagsEphemeral, outcome.Response.Data.Flags)

	row, ok := outcome.Response.Data.Components[0].(discordgo.ActionsRow)
	s.Require().True(ok)
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	s.Require().True(ok)
	s.Equal("select-42", menu.CustomID)
	s.Equal(discordgo.StringSelectMenu, menu.MenuType)
	s.Require().Len(menu.Options, 3)
	s.Equal("scissors", menu.Options[0].Value)
	s.Equal("Scissors", menu.Options[0].Label)
	s.Equal("snip", menu.Options[0].Description)

	s.Require().NotNil(outcome.FollowUp)
	s.Equal(FollowUpDelete, outcome.FollowUp.Action)
	s.Equal("token-accept-42", outcome.FollowUp.Token)
	s.Equal("challenge-msg", outcome.FollowUp.MessageID)
}

func (s *DispatcherTestSuite) TestAcceptWithoutMessageHasNoFollowUp() {
	i := componentInteraction("user-b", "accept-42", "")
	i.Message = nil

	outcome := s.dispatcher.Dispatch(s.ctx, i)

	s.Require().NotNil(outcome)
	s.Nil(outcome.FollowUp)
}

func (s *DispatcherTestSuite) TestFullGame() {
	// Challenge with rock as game 42
	s.Require().NotNil(s.dispatcher.Dispatch(s.ctx, commandInteraction("42", "user-a", CommandChallenge, objectOption("rock"))))
	s.Equal(1, s.registry.Len())
	game, _ := s.registry.Get("42")
	s.Equal(rps.Rock, game.Challenger.Choice)

	// Accept
	accept := s.dispatcher.Dispatch(s.ctx, componentInteraction("user-b", "accept-42", "challenge-msg"))
	s.Require().NotNil(accept)
	menu := accept.Response.Data.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	s.Equal("select-42", menu.CustomID)
	s.Equal(FollowUpDelete, accept.FollowUp.Action)

	// Select scissors
	outcome := s.dispatcher.Dispatch(s.ctx, componentInteraction("user-b", "select-42", "select-msg", "scissors"))

	// Assert the challenger won and the game is gone
	s.Require().NotNil(outcome)
	s.Equal("<@user-a>'s **rock** crushes <@user-b>'s **scissors**", outcome.Response.Data.Content)
	s.Zero(outcome.Response.Data.Flags)
	_, exists := s.registry.Get("42")
	s.False(exists)

	s.Require().NotNil(outcome.FollowUp)
	s.Equal(FollowUpPatch, outcome.FollowUp.Action)
	s.Equal("select-msg", outcome.FollowUp.MessageID)
	s.Equal("Nice choice ✨", *outcome.FollowUp.Edit.Content)
	s.Require().NotNil(outcome.FollowUp.Edit.Components)
	s.Empty(*outcome.FollowUp.Edit.Components)

	// The match was recorded for both players
	matches, err := s.repo.GetPlayerMatches(s.ctx, "user-b", 0)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal("42", matches[0].GameID)
	s.Equal("user-a", matches[0].WinnerID)
	s.Equal("guild-1", matches[0].GuildID)
}

func (s *DispatcherTestSuite) TestSelectUnknownGameIsIgnored() {
	// Setup
	s.Require().NoError(s.registry.Create("42", rps.Player{UserID: "user-a", Choice: rps.Rock}))

	// Execute
	outcome := s.dispatcher.Dispatch(s.ctx, componentInteraction("user-b", "select-99", "select-msg", "paper"))

	// Assert
	s.Nil(outcome)
	s.Equal(1, s.registry.Len())
}

func (s *DispatcherTestSuite) TestSelectInvalidValueLeavesGame() {
	s.Require().NoError(s.registry.Create("42", rps.Player{UserID: "user-a", Choice: rps.Rock}))

	s.Nil(s.dispatcher.Dispatch(s.ctx, componentInteraction("user-b", "select-42", "select-msg", "lizard")))
	s.Nil(s.dispatcher.Dispatch(s.ctx, componentInteraction("user-b", "select-42", "select-msg")))

	s.Equal(1, s.registry.Len())
}

func (s *DispatcherTestSuite) TestSelectTwiceOnlyResolvesOnce() {
	s.Require().NoError(s.registry.Create("42", rps.Player{UserID: "user-a", Choice: rps.Paper}))

	first := s.dispatcher.Dispatch(s.ctx, componentInteraction("user-b", "select-42", "m1", "paper"))
	second := s.dispatcher.Dispatch(s.ctx, componentInteraction("user-c", "select-42", "m2", "rock"))

	s.Require().NotNil(first)
	s.Equal("<@user-a> and <@user-b> draw with **paper**", first.Response.Data.Content)
	s.Nil(second)
}

func (s *DispatcherTestSuite) TestSelectRecordingFailureStillAnnouncesResult() {
	// Setup
	recorder := &failingRecorder{}
	dispatcher := NewDispatcher(s.registry, recorder, nil, logging.NewNop())
	s.Require().NoError(s.registry.Create("42", rps.Player{UserID: "user-a", Choice: rps.Rock}))

	// Execute
	outcome := dispatcher.Dispatch(s.ctx, componentInteraction("user-b", "select-42", "m1", "paper"))

	// Assert
	s.Require().NotNil(outcome)
	s.Equal("<@user-b>'s **paper** covers <@user-a>'s **rock**", outcome.Response.Data.Content)
	s.True(recorder.called)
}

func (s *DispatcherTestSuite) TestDaily() {
	// Setup
	q := &leetcode.Question{Title: "Two Sum", Link: "https://leetcode.com/problems/two-sum/", Difficulty: "Easy"}
	s.questions.On("FetchDaily", mock.Anything).Return(q, nil)

	// Execute
	outcome := s.dispatcher.Dispatch(s.ctx, commandInteraction("1", "user-a", CommandDaily))

	// Assert
	s.Require().NotNil(outcome)
	s.Require().Len(outcome.Response.Data.Embeds, 1)
	s.Equal("Two Sum", outcome.Response.Data.Embeds[0].Title)
	s.questions.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestDailyFetchError() {
	s.questions.On("FetchDaily", mock.Anything).
		Return(nil, types.NewGameError(types.ErrNetworkError, "LeetCode returned status 503"))

	outcome := s.dispatcher.Dispatch(s.ctx, commandInteraction("1", "user-a", CommandDaily))

	s.Require().NotNil(outcome)
	s.Equal(discordgo.MessageFlagsEphemeral, outcome.Response.Data.Flags)
	s.Equal("🌐 LeetCode returned status 503", outcome.Response.Data.Content)
}

func (s *DispatcherTestSuite) TestStats() {
	// Setup
	service := stats.NewService(s.repo)
	_, err := service.RecordResult(s.ctx, stats.MatchMeta{GameID: "1"},
		rps.Resolve(rps.Player{UserID: "user-a", Choice: rps.Rock}, rps.Player{UserID: "user-b", Choice: rps.Scissors}))
	s.Require().NoError(err)

	// Execute
	outcome := s.dispatcher.Dispatch(s.ctx, commandInteraction("2", "user-a", CommandStats))

	// Assert
	s.Require().NotNil(outcome)
	s.Equal(discordgo.MessageFlagsEphemeral, outcome.Response.Data.Flags)
	s.Equal("<@user-a>: 1 wins, 0 losses, 0 ties (1 played)", outcome.Response.Data.Content)
}

func (s *DispatcherTestSuite) TestStatsNoMatches() {
	outcome := s.dispatcher.Dispatch(s.ctx, commandInteraction("2", "user-z", CommandStats))

	s.Require().NotNil(outcome)
	s.Equal("<@user-z> has no rock paper scissors matches yet", outcome.Response.Data.Content)
}

func (s *DispatcherTestSuite) TestDirectMessageUser() {
	i := commandInteraction("42", "", CommandChallenge, objectOption("paper"))
	i.Member = nil
	i.User = &discordgo.User{ID: "dm-user"}

	outcome := s.dispatcher.Dispatch(s.ctx, i)

	s.Require().NotNil(outcome)
	game, ok := s.registry.Get("42")
	s.Require().True(ok)
	s.Equal("dm-user", game.Challenger.UserID)
}

type failingRecorder struct {
	called bool
}

func (f *failingRecorder) RecordResult(ctx context.Context, meta stats.MatchMeta, result rps.Result) (*entities.Match, error) {
	f.called = true
	return nil, errors.New("database is locked")
}

func (f *failingRecorder) PlayerRecord(ctx context.Context, userID string) (*entities.PlayerRecord, error) {
	return nil, errors.New("database is locked")
}
