package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/leetbot/pkg/games/rps"
)

const (
	CommandHello     = "hello"
	CommandChallenge = "challenge"
	CommandDaily     = "daily"
	CommandStats     = "rps-stats"

	// OptionObject is the challenger's pick on the challenge command
	OptionObject = "object"
)

// Commands defines all slash commands for the bot
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        CommandHello,
		Description: "Basic hello command",
	},
	{
		Name:        CommandChallenge,
		Description: "Challenge to a match of rock paper scissors",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionObject,
				Description: "Pick your object",
				Required:    true,
				Choices:     objectChoices(),
			},
		},
	},
	{
		Name:        CommandDaily,
		Description: "Show the LeetCode question of the day",
	},
	{
		Name:        CommandStats,
		Description: "Show your rock paper scissors record",
	},
}

func objectChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(rps.Choices))
	for _, c := range rps.Choices {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  c.Label(),
			Value: string(c),
		})
	}
	return choices
}
