package generate

import (
	"math/rand"
	"strings"
	"testing"

	"rosebot/internal/schedule"
)

func TestPromptsForFixedSlots(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	wantTitles := map[schedule.Sanctuary]string{
		schedule.SanctuaryHead:   "🧠 Santuário da Cabeça — Intenção",
		schedule.SanctuaryPelvis: "⚡ Santuário da Pélvis — Renovação",
		schedule.SanctuaryHeart:  "💖 Santuário do Coração — Reflexão",
	}
	for _, slot := range schedule.Fixed {
		p := For(slot, rng)
		if p.Title != wantTitles[slot.Sanctuary] {
			t.Fatalf("%s title = %q", slot.Sanctuary, p.Title)
		}
		if p.System != SystemPrompt {
			t.Fatalf("%s missing system prompt", slot.Sanctuary)
		}
		if !strings.Contains(p.User, "400 CARACTERES") {
			t.Fatalf("%s prompt missing length bound", slot.Sanctuary)
		}
	}
}

func TestPromptForIntegration(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := For(schedule.RandomSlot(9, 30), rng)
	if p.Title != "🌹 Os Três Santuários — Integração" {
		t.Fatalf("title = %q", p.Title)
	}
	if !strings.Contains(p.User, "900 CARACTERES") {
		t.Fatalf("integration prompt missing length bound")
	}
	for _, center := range []string{"CABEÇA", "CORAÇÃO", "PÉLVIS"} {
		if !strings.Contains(p.User, center) {
			t.Fatalf("integration prompt missing %s", center)
		}
	}
}

func TestPromptThemesRotate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[For(schedule.Fixed[0], rng).User] = true
	}
	if len(seen) < 2 {
		t.Fatalf("secondary theme never rotated")
	}
}
