package round

import (
	"fmt"
	"strings"
	"time"

	"github.com/jiacillo/bluetrivia/internal/leaderboard"
)

// maxPostLength is the platform character budget for one post. Results
// posts assemble optional trailing sections and drop them from the end
// until the text fits.
const maxPostLength = 280

var tips = []string{
	"Spelling doesn't have to be perfect, close counts!",
	"Reply fast, the first correct answer takes gold.",
	"Every correct answer counts toward the all-time standings.",
	"Stuck? The pictures hide more than they show.",
}

var medalEmoji = []string{"🥇", "🥈", "🥉"}

// roundPost composes the question post for a new round.
func roundPost(number int, prompt string, window time.Duration, tip string) string {
	base := fmt.Sprintf("🎬 Round %d\n\n%s\n\nReply with your answer! You have %s.",
		number, prompt, formatWindow(window))
	withTip := base + "\n\n💡 " + tip
	if len([]rune(withTip)) <= maxPostLength {
		return withTip
	}
	return base
}

// resultsPost composes the results reply. medals lists the first correct
// responders in arrival order; standings is the all-time top and may be
// empty.
func resultsPost(number int, answer string, res Result, medals []string, standings []leaderboard.Entry, nextIn time.Duration) string {
	header := "😿"
	if res.Correct > 0 {
		header = "🏆"
	}

	required := fmt.Sprintf("%s Round %d is over!\n\nThe answer was: %s\n%d answered, %d got it right (%d%%).",
		header, number, answer, res.Attempts, res.Correct, res.Percentage)

	var optional []string
	if len(medals) > 0 {
		lines := make([]string, 0, len(medals))
		for i, handle := range medals {
			if i >= len(medalEmoji) {
				break
			}
			lines = append(lines, fmt.Sprintf("%s @%s", medalEmoji[i], handle))
		}
		optional = append(optional, strings.Join(lines, "\n"))
	}
	if line := standingsLine(standings); line != "" {
		optional = append(optional, line)
	}
	if nextIn > 0 {
		optional = append(optional, fmt.Sprintf("⏰ Next round in %s!", formatWindow(nextIn)))
	}

	text := required
	for _, section := range optional {
		candidate := text + "\n\n" + section
		if len([]rune(candidate)) > maxPostLength {
			break
		}
		text = candidate
	}
	return text
}

func standingsLine(standings []leaderboard.Entry) string {
	if len(standings) == 0 {
		return ""
	}
	parts := make([]string, 0, len(standings))
	for _, e := range standings {
		parts = append(parts, fmt.Sprintf("%s (%d)", e.Handle, e.Correct))
	}
	return "🌟 All-time best: " + strings.Join(parts, ", ")
}

func formatWindow(window time.Duration) string {
	if window < time.Minute {
		return fmt.Sprintf("%d seconds", int(window.Seconds()))
	}
	minutes := int(window.Round(time.Minute).Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
