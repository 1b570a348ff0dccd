package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/leetbot/internal/discord"
	"github.com/fadedpez/leetbot/internal/games"
	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/internal/metrics"
	"github.com/fadedpez/leetbot/pkg/entities"
	"github.com/fadedpez/leetbot/pkg/games/rps"
	"github.com/fadedpez/leetbot/pkg/leetcode"
	"github.com/fadedpez/leetbot/pkg/services/stats"
)

// QuestionSource fetches the question of the day
type QuestionSource interface {
	FetchDaily(ctx context.Context) (*leetcode.Question, error)
}

// MatchRecorder keeps the history of resolved games
type MatchRecorder interface {
	RecordResult(ctx context.Context, meta stats.MatchMeta, result rps.Result) (*entities.Match, error)
	PlayerRecord(ctx context.Context, userID string) (*entities.PlayerRecord, error)
}

// FollowUpAction is the webhook call made after the primary response
type FollowUpAction string

const (
	FollowUpDelete FollowUpAction = "delete"
	FollowUpPatch  FollowUpAction = "patch"
)

// FollowUp targets webhooks/{appId}/{token}/messages/{messageId}
type FollowUp struct {
	Action    FollowUpAction
	Token     string
	MessageID string
	Edit      *discordgo.WebhookEdit // only for FollowUpPatch
}

// Outcome is everything the bot sends back for one interaction
type Outcome struct {
	Response *discordgo.InteractionResponse
	FollowUp *FollowUp
}

// Dispatcher turns an interaction into an Outcome. It owns the game registry;
// sending is left to the transport.
type Dispatcher struct {
	registry  *games.Registry
	matches   MatchRecorder
	questions QuestionSource
	logger    *logging.Logger
	emoji     func() string
	shuffle   func() []rps.Option
}

// NewDispatcher creates a dispatcher. matches and questions may be nil, in
// which case the commands that need them answer with an error.
func NewDispatcher(registry *games.Registry, matches MatchRecorder, questions QuestionSource, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default
	}
	return &Dispatcher{
		registry:  registry,
		matches:   matches,
		questions: questions,
		logger:    logger,
		emoji:     RandomEmoji,
		shuffle:   rps.ShuffledOptions,
	}
}

// Dispatch routes the interaction. A nil Outcome means nothing is sent.
func (d *Dispatcher) Dispatch(ctx context.Context, i *discordgo.Interaction) *Outcome {
	if i == nil {
		return nil
	}

	switch i.Type {
	case discordgo.InteractionPing:
		metrics.Interactions.WithLabelValues("ping").Inc()
		return &Outcome{Response: discord.Pong()}
	case discordgo.InteractionApplicationCommand:
		metrics.Interactions.WithLabelValues("command").Inc()
		return d.handleCommand(ctx, i)
	case discordgo.InteractionMessageComponent:
		metrics.Interactions.WithLabelValues("component").Inc()
		return d.handleComponent(ctx, i)
	default:
		metrics.Interactions.WithLabelValues("unknown").Inc()
		d.logger.Debug("Ignoring interaction %s of type %d", i.ID, i.Type)
		return nil
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, i *discordgo.Interaction) *Outcome {
	data, ok := i.Data.(discordgo.ApplicationCommandInteractionData)
	if !ok {
		d.logger.Warn("Command interaction %s without command data", i.ID)
		return nil
	}

	switch data.Name {
	case CommandHello:
		return respond(discord.NewResponse("hello world "+d.emoji(), nil))
	case CommandChallenge:
		return d.handleChallenge(i, data)
	case CommandDaily:
		return d.handleDaily(ctx)
	case CommandStats:
		return d.handleStats(ctx, i)
	default:
		d.logger.Debug("Unknown command: %s", data.Name)
		return nil
	}
}

func (d *Dispatcher) handleChallenge(i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) *Outcome {
	userID := interactionUserID(i)
	if i.ID == "" || userID == "" {
		d.logger.Warn("Challenge without interaction or user id")
		return nil
	}

	raw, ok := stringOption(data.Options, OptionObject)
	if !ok {
		d.logger.Warn("Challenge %s without an %s option", i.ID, OptionObject)
		return nil
	}
	choice, err := rps.ParseChoice(raw)
	if err != nil {
		d.logger.Warn("Challenge %s: %v", i.ID, err)
		return nil
	}

	if err := d.registry.Create(i.ID, rps.Player{UserID: userID, Choice: choice}); err != nil {
		d.logger.LogError(err)
		return respond(discord.NewErrorResponse(err))
	}
	metrics.GamesCreated.Inc()

	accept := ComponentID{Kind: ComponentAccept, GameID: i.ID}
	return respond(discord.NewResponse(
		fmt.Sprintf("Rock papers scissors challenge from <@%s>", userID),
		[]discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						CustomID: accept.String(),
						Label:    "Accept",
						Style:    discordgo.PrimaryButton,
					},
				},
			},
		},
	))
}

func (d *Dispatcher) handleDaily(ctx context.Context) *Outcome {
	if d.questions == nil {
		return respond(discord.NewErrorResponse(fmt.Errorf("the question of the day is not configured")))
	}

	q, err := d.questions.FetchDaily(ctx)
	if err != nil {
		d.logger.LogError(err)
		return respond(discord.NewErrorResponse(err))
	}
	return respond(discord.NewEmbedResponse(discord.QuestionEmbed(q), false))
}

func (d *Dispatcher) handleStats(ctx context.Context, i *discordgo.Interaction) *Outcome {
	userID := interactionUserID(i)
	if userID == "" {
		return nil
	}
	if d.matches == nil {
		return respond(discord.NewErrorResponse(fmt.Errorf("match history is not enabled")))
	}

	record, err := d.matches.PlayerRecord(ctx, userID)
	if err != nil {
		d.logger.LogError(err)
		return respond(discord.NewErrorResponse(err))
	}

	content := fmt.Sprintf("<@%s> has no rock paper scissors matches yet", userID)
	if record.Played() > 0 {
		content = fmt.Sprintf("<@%s>: %d wins, %d losses, %d ties (%d played)",
			userID, record.Wins, record.Losses, record.Ties, record.Played())
	}
	return respond(discord.NewEphemeralResponse(content, nil))
}

func (d *Dispatcher) handleComponent(ctx context.Context, i *discordgo.Interaction) *Outcome {
	data, ok := i.Data.(discordgo.MessageComponentInteractionData)
	if !ok {
		d.logger.Warn("Component interaction %s without component data", i.ID)
		return nil
	}

	id, ok := ParseComponentID(data.CustomID)
	if !ok {
		d.logger.Debug("Unknown component interaction: %s", data.CustomID)
		return nil
	}

	switch id.Kind {
	case ComponentAccept:
		return d.handleAccept(i, id)
	case ComponentSelectChoice:
		return d.handleSelect(ctx, i, id, data.Values)
	}
	return nil
}

// handleAccept shows the choice menu to whoever pressed Accept and removes the
// challenge message. The registry is not consulted; a stale game is caught on
// selection.
func (d *Dispatcher) handleAccept(i *discordgo.Interaction, id ComponentID) *Outcome {
	options := d.shuffle()
	menuOptions := make([]discordgo.SelectMenuOption, 0, len(options))
	for _, o := range options {
		menuOptions = append(menuOptions, discordgo.SelectMenuOption{
			Label:       o.Label,
			Value:       string(o.Value),
			Description: o.Description,
		})
	}

	selectID := ComponentID{Kind: ComponentSelectChoice, GameID: id.GameID}
	outcome := respond(discord.NewEphemeralResponse("What is your object of choice?", []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    selectID.String(),
					Placeholder: "Choose an object",
					Options:     menuOptions,
				},
			},
		},
	}))

	if i.Message != nil && i.Message.ID != "" && i.Token != "" {
		outcome.FollowUp = &FollowUp{
			Action:    FollowUpDelete,
			Token:     i.Token,
			MessageID: i.Message.ID,
		}
	}
	return outcome
}

func (d *Dispatcher) handleSelect(ctx context.Context, i *discordgo.Interaction, id ComponentID, values []string) *Outcome {
	userID := interactionUserID(i)
	if userID == "" || len(values) == 0 {
		d.logger.Warn("Selection for game %s without user or value", id.GameID)
		return nil
	}

	choice, err := rps.ParseChoice(values[0])
	if err != nil {
		d.logger.Warn("Selection for game %s: %v", id.GameID, err)
		return nil
	}

	result, ok := d.registry.ResolveAndRemove(id.GameID, rps.Player{UserID: userID, Choice: choice})
	if !ok {
		d.logger.Debug("Ignoring selection for unknown game %s", id.GameID)
		return nil
	}
	metrics.GamesResolved.WithLabelValues(result.Outcome.String()).Inc()

	if d.matches != nil {
		meta := stats.MatchMeta{GameID: id.GameID, GuildID: i.GuildID, ChannelID: i.ChannelID}
		if _, err := d.matches.RecordResult(ctx, meta, result); err != nil {
			d.logger.Error("Failed to record match for game %s: %v", id.GameID, err)
		}
	}

	outcome := respond(discord.NewResponse(result.Description(), nil))
	if i.Message != nil && i.Message.ID != "" && i.Token != "" {
		content := "Nice choice " + d.emoji()
		outcome.FollowUp = &FollowUp{
			Action:    FollowUpPatch,
			Token:     i.Token,
			MessageID: i.Message.ID,
			Edit: &discordgo.WebhookEdit{
				Content:    &content,
				Components: &[]discordgo.MessageComponent{},
			},
		}
	}
	return outcome
}

func respond(r *discord.Response) *Outcome {
	return &Outcome{Response: r.InteractionResponse()}
}

// interactionUserID prefers the guild member and falls back to the DM user
func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// stringOption finds a string option by name
func stringOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) (string, bool) {
	for _, opt := range options {
		if opt == nil || opt.Name != name {
			continue
		}
		value, ok := opt.Value.(string)
		return value, ok
	}
	return "", false
}
