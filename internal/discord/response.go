package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/leetbot/internal/types"
)

// ResponseEmoji maps error codes to appropriate emojis
var ResponseEmoji = map[types.ErrorCode]string{
	types.ErrGameNotFound:       "🔍",
	types.ErrGameInProgress:     "🎮",
	types.ErrInvalidChoice:      "✂️",
	types.ErrInvalidInteraction: "⛔",
	types.ErrInvalidArgument:    "❗",
	types.ErrInternalError:      "💥",
	types.ErrNetworkError:       "🌐",
	types.ErrInvalidResponse:    "🧩",
	types.ErrDatabaseError:      "💾",
}

// Response represents a Discord interaction response
type Response struct {
	Content    string
	Components []discordgo.MessageComponent
	Embeds     []*discordgo.MessageEmbed
	Ephemeral  bool
}

// NewResponse creates a new Response
func NewResponse(content string, components []discordgo.MessageComponent) *Response {
	return &Response{
		Content:    content,
		Components: components,
		Ephemeral:  false,
	}
}

// NewEphemeralResponse creates a new ephemeral Response (only visible to the user)
func NewEphemeralResponse(content string, components []discordgo.MessageComponent) *Response {
	return &Response{
		Content:    content,
		Components: components,
		Ephemeral:  true,
	}
}

// NewEmbedResponse creates a Response carrying a single embed
func NewEmbedResponse(embed *discordgo.MessageEmbed, ephemeral bool) *Response {
	return &Response{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Ephemeral: ephemeral,
	}
}

// NewErrorResponse creates a new error Response
func NewErrorResponse(err error) *Response {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		emoji := ResponseEmoji[gameErr.Code]
		if emoji == "" {
			emoji = "❌"
		}
		return NewEphemeralResponse(fmt.Sprintf("%s %s", emoji, gameErr.Message), nil)
	}
	return NewEphemeralResponse(fmt.Sprintf("❌ An error occurred: %v", err), nil)
}

// InteractionResponse converts the response into a channel message reply
func (r *Response) InteractionResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    r.Content,
			Components: r.Components,
			Embeds:     r.Embeds,
			Flags:      getFlags(r.Ephemeral),
		},
	}
}

// Pong acknowledges a ping interaction
func Pong() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}
}

// SendResponse sends a response to a Discord interaction
func SendResponse(s SessionHandler, i *discordgo.Interaction, r *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	return s.InteractionRespond(i, r, options...)
}

// Helper functions

func getFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}
