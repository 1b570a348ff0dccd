package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/leetbot/internal/config"
	"github.com/fadedpez/leetbot/internal/discord"
	"github.com/fadedpez/leetbot/internal/games"
	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/internal/metrics"
	"github.com/fadedpez/leetbot/internal/types"
	"github.com/fadedpez/leetbot/pkg/leetcode"
	"github.com/fadedpez/leetbot/pkg/scheduler"
)

const (
	TaskDailyQuestion = "daily_question"
	TaskGameSweep     = "game_sweep"

	followUpTimeout = 10 * time.Second
)

// Bot represents the Discord bot and its dependencies
type Bot struct {
	config     *config.Config
	session    discord.SessionHandler
	dispatcher *Dispatcher
	registry   *games.Registry
	questions  QuestionSource
	scheduler  *scheduler.Scheduler
	logger     *logging.Logger

	commands      []*discordgo.ApplicationCommand
	removeHandler func()
	shutdownWg    sync.WaitGroup
}

// New creates a new instance of Bot
func New(cfg *config.Config, session discord.SessionHandler, registry *games.Registry, matches MatchRecorder, questions QuestionSource, logger *logging.Logger) *Bot {
	if logger == nil {
		logger = logging.Default
	}

	metrics.BindActiveGames(registry.Len)

	return &Bot{
		config:     cfg,
		session:    session,
		dispatcher: NewDispatcher(registry, matches, questions, logger),
		registry:   registry,
		questions:  questions,
		scheduler:  scheduler.NewScheduler(logger),
		logger:     logger,
		commands:   make([]*discordgo.ApplicationCommand, 0),
	}
}

// Start connects to Discord, registers commands and starts the scheduled tasks
func (b *Bot) Start(ctx context.Context) error {
	if !b.config.IsHTTPMode() {
		b.removeHandler = b.session.AddHandler(b.handleInteractionCreate)
		if err := b.session.Open(); err != nil {
			return fmt.Errorf("failed to open Discord connection: %w", err)
		}
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	if err := b.scheduleTasks(); err != nil {
		return fmt.Errorf("failed to schedule tasks: %w", err)
	}
	b.scheduler.Start(ctx)

	return nil
}

// Shutdown gracefully shuts down the bot
func (b *Bot) Shutdown() {
	b.scheduler.Stop()

	if b.config.IsDevelopment() {
		if err := b.cleanupCommands(); err != nil {
			b.logger.Error("Error cleaning up commands: %v", err)
		}
	}

	if b.removeHandler != nil {
		b.removeHandler()
	}

	// Wait for any ongoing follow-ups to complete
	b.shutdownWg.Wait()

	if !b.config.IsHTTPMode() {
		if err := b.session.Close(); err != nil {
			b.logger.Error("Error closing Discord session: %v", err)
		}
	}
}

// Dispatch exposes the dispatcher to other transports
func (b *Bot) Dispatch(ctx context.Context, i *discordgo.Interaction) *Outcome {
	return b.dispatcher.Dispatch(ctx, i)
}

// handleInteractionCreate handles Discord interaction events from the gateway
func (b *Bot) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.HandleInteraction(context.Background(), i.Interaction)
}

// HandleInteraction dispatches an interaction and delivers the outcome over
// REST. The follow-up only runs once the primary response went through.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.Interaction) {
	outcome := b.dispatcher.Dispatch(ctx, i)
	if outcome == nil || outcome.Response == nil {
		return
	}

	if err := b.session.InteractionRespond(i, outcome.Response, discordgo.WithContext(ctx)); err != nil {
		b.logger.Error("Failed to respond to interaction %s: %v", i.ID, err)
		return
	}

	if outcome.FollowUp != nil {
		b.RunFollowUp(ctx, outcome.FollowUp)
	}
}

// RunFollowUp performs the follow-up webhook call. Failures are logged and
// counted; they never undo what the primary response did.
func (b *Bot) RunFollowUp(ctx context.Context, f *FollowUp) error {
	ctx, cancel := context.WithTimeout(ctx, followUpTimeout)
	defer cancel()

	var err error
	switch f.Action {
	case FollowUpDelete:
		err = b.session.WebhookMessageDelete(b.config.AppID, f.Token, f.MessageID, discordgo.WithContext(ctx))
	case FollowUpPatch:
		_, err = b.session.WebhookMessageEdit(b.config.AppID, f.Token, f.MessageID, f.Edit, discordgo.WithContext(ctx))
	default:
		err = types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("unknown follow-up action %q", f.Action))
	}

	if err != nil {
		metrics.FollowUpFailures.WithLabelValues(string(f.Action)).Inc()
		b.logger.Warn("Follow-up %s of message %s failed: %v", f.Action, f.MessageID, err)
	}
	return err
}

// RunFollowUpAsync runs the follow-up in the background. Shutdown waits for it.
func (b *Bot) RunFollowUpAsync(f *FollowUp) {
	b.shutdownWg.Add(1)
	go func() {
		defer b.shutdownWg.Done()
		b.RunFollowUp(context.Background(), f)
	}()
}

// DailyQuestion fetches the question of the day
func (b *Bot) DailyQuestion(ctx context.Context) (*leetcode.Question, error) {
	if b.questions == nil {
		return nil, types.NewGameError(types.ErrInternalError, "question source is not configured")
	}
	return b.questions.FetchDaily(ctx)
}

// PostDailyQuestion sends the question of the day to the configured channel
func (b *Bot) PostDailyQuestion(ctx context.Context) error {
	if !b.config.DailyEnabled() {
		return nil
	}

	q, err := b.DailyQuestion(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch question of the day: %w", err)
	}

	_, err = b.session.ChannelMessageSendComplex(b.config.DailyChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{discord.QuestionEmbed(q)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post question of the day: %w", err)
	}

	b.logger.Info("Posted question of the day %q to channel %s", q.Title, b.config.DailyChannelID)
	return nil
}

// SweepGames drops abandoned challenges
func (b *Bot) SweepGames(ctx context.Context) error {
	removed := b.registry.Sweep(b.config.GameTTL)
	if removed > 0 {
		metrics.GamesSwept.Add(float64(removed))
		b.logger.Info("Swept %d abandoned games", removed)
	}
	return nil
}

func (b *Bot) scheduleTasks() error {
	if b.config.DailyEnabled() {
		hour, minute := b.config.DailyPostClock()
		if err := b.scheduler.AddDailyTask(TaskDailyQuestion, hour, minute, b.config.Location(), b.PostDailyQuestion); err != nil {
			return err
		}
	}

	if b.config.GameTTL > 0 {
		if err := b.scheduler.AddTask(TaskGameSweep, b.config.GameSweepInterval, b.SweepGames); err != nil {
			return err
		}
	}
	return nil
}

// registerCommands creates every slash command, for the guild when one is configured
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands {
		created, err := b.session.ApplicationCommandCreate(b.config.AppID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
		b.logger.Debug("Registered command %s", cmd.Name)
	}
	return nil
}

// cleanupCommands removes all of the application's commands
func (b *Bot) cleanupCommands() error {
	cmds, err := b.session.ApplicationCommands(b.config.AppID, b.config.GuildID)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	for _, cmd := range cmds {
		if err := b.session.ApplicationCommandDelete(b.config.AppID, b.config.GuildID, cmd.ID); err != nil {
			return fmt.Errorf("failed to delete command %s: %w", cmd.Name, err)
		}
	}
	b.commands = b.commands[:0]
	return nil
}
