package game

import (
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/Claimline/internal/engine"
)

func TestBannerText(t *testing.T) {
	cases := map[engine.Outcome]string{
		engine.OutcomeWin:      "Level Cleared",
		engine.OutcomeLoss:     "Life Lost",
		engine.OutcomeGameOver: "Game Over",
	}
	for o, want := range cases {
		if got := bannerText(o); got != want {
			t.Errorf("bannerText(%s) = %q, want %q", o, got, want)
		}
	}
}

func TestHUDLines(t *testing.T) {
	s, err := engine.NewSession(engine.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	lines := hudLines(s, true, 2)
	if lines[0] != "Level 1  Lives 3  PLAYING" {
		t.Fatalf("status line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "of 75%") {
		t.Fatalf("claim line = %q", lines[1])
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "autopilot  sim 2x") {
		t.Fatalf("mode line missing:\n%s", joined)
	}
	if strings.Contains(joined, "BOOST") {
		t.Fatal("boost line shown without a boost")
	}
	s.ActivateBoost()
	if !strings.Contains(strings.Join(hudLines(s, false, 1), "\n"), "BOOST x2") {
		t.Fatal("boost line missing while boosted")
	}
}

func TestPlayTime(t *testing.T) {
	if got := playTime(300 * time.Millisecond); got != "0 s" {
		t.Fatalf("sub-second = %q", got)
	}
	if got := playTime(65*time.Second + 400*time.Millisecond); !strings.Contains(got, "1") || !strings.Contains(got, "5") {
		t.Fatalf("65s = %q", got)
	}
}
