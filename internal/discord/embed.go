package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/leetbot/pkg/leetcode"
)

var difficultyColors = map[string]int{
	"Easy":   0x00B8A3,
	"Medium": 0xFFC01E,
	"Hard":   0xFF375F,
}

const defaultEmbedColor = 0x5865F2

// QuestionEmbed renders the question of the day
func QuestionEmbed(q *leetcode.Question) *discordgo.MessageEmbed {
	color, ok := difficultyColors[q.Difficulty]
	if !ok {
		color = defaultEmbedColor
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Difficulty", Value: fallback(q.Difficulty), Inline: true},
		{Name: "Date", Value: fallback(q.Date), Inline: true},
	}

	if len(q.TopicTags) > 0 {
		tags := make([]string, 0, len(q.TopicTags))
		for _, tag := range q.TopicTags {
			tags = append(tags, fmt.Sprintf("`%s`", tag.Name))
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Topics",
			Value: strings.Join(tags, " "),
		})
	}

	return &discordgo.MessageEmbed{
		Type:   discordgo.EmbedTypeRich,
		Title:  q.Title,
		URL:    q.Link,
		Color:  color,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: "LeetCode question of the day"},
	}
}

func fallback(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
