package bot

import "math/rand/v2"

var emojis = []string{"😭", "😄", "😌", "🤓", "😎", "😤", "🤖", "😶‍🌫️", "🌏", "📸", "💿", "👋", "🌊", "✨"}

// RandomEmoji picks a decorative emoji for bot messages
func RandomEmoji() string {
	return emojis[rand.IntN(len(emojis))]
}
