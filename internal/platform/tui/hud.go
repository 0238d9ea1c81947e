package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/season-runner/internal/audio"
	"github.com/vovakirdan/season-runner/internal/runner"
	"github.com/vovakirdan/season-runner/internal/track"
)

// hudRows is the number of terminal rows the HUD occupies below the track.
const hudRows = 4

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1)
	eventStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("249"))
)

func field(label, value string) string {
	return labelStyle.Render(label+" ") + valueStyle.Render(value)
}

// renderStatus is the first HUD row: score, distance and season.
func renderStatus(r *runner.Runner, speed float64) string {
	idx, pal := r.Season()
	season := styleFor(pal.Color).Bold(true).Render(fmt.Sprintf("%s (%d)", pal.Name, idx))

	parts := []string{
		field("SCORE", fmt.Sprintf("%.0f", r.Score())),
		field("DIST", fmt.Sprintf("%.0fm", r.Progress())),
		labelStyle.Render("SEASON ") + season,
		field("SPEED", fmt.Sprintf("x%g", speed)),
	}
	if r.Paused() {
		parts = append(parts, pausedStyle.Render("PAUSED"))
	}
	return strings.Join(parts, "  ")
}

// renderSystems is the second HUD row: cooldowns, music and environment.
func renderSystems(r *runner.Runner) string {
	cd := r.Cooldowns()
	env := r.Scene().Environment()
	parts := []string{
		field("rare", cooldownText(cd.Rare)),
		field("power-up", cooldownText(cd.Powerup)),
		field("music", musicText(r.Crossfader().Job(), r.Bank())),
		field("sky", env.Skybox),
	}
	if env.Ambient != "" {
		parts = append(parts, field("ambient", env.Ambient))
	}
	return strings.Join(parts, "  ")
}

func cooldownText(remaining float64) string {
	if remaining <= 0 {
		return "ready"
	}
	return fmt.Sprintf("%.1fs", remaining)
}

// musicText describes the crossfade in flight, or the channel playing.
func musicText(job *audio.CrossfadeJob, bank *audio.Bank) string {
	if job != nil && job.Phase != audio.PhaseDone {
		pct := 100.0
		if job.Duration > 0 {
			pct = job.Elapsed / job.Duration * 100
		}
		from := "-"
		if job.From != nil {
			from = job.From.Name()
		}
		return fmt.Sprintf("%s -> %s %s %.0f%%", from, job.To.Name(), job.Phase, pct)
	}
	if ch, ok := bank.FirstPlaying(); ok {
		return ch.Name()
	}
	return "silent"
}

// describeEvent turns a runner event into a HUD message. Routine events
// return an empty string.
func describeEvent(ev runner.Event) string {
	switch e := ev.(type) {
	case runner.SeasonChanged:
		return fmt.Sprintf("season %s at score %.0f", e.Name, e.Score)
	case runner.CrossfadeStarted:
		return fmt.Sprintf("music %s -> %s", e.From, e.To)
	case runner.CrossfadeFinished:
		return fmt.Sprintf("now playing %s", e.To)
	case runner.AudioDegraded:
		return fmt.Sprintf("audio %s unavailable: %v", e.Channel, e.Err)
	case runner.ItemCollected:
		switch {
		case e.Rare:
			return fmt.Sprintf("rare %s +%d", e.Variant, e.Points)
		case e.Kind == track.PowerUp:
			return fmt.Sprintf("power-up %s", e.Variant)
		}
	}
	return ""
}
