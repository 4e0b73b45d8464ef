package reminder

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/goaltrack/internal/goals"
	"github.com/julianstephens/goaltrack/internal/models"
)

var renderDate = time.Date(2026, time.March, 4, 7, 30, 0, 0, time.UTC)

func sampleGroups() map[models.GoalType][]models.Goal {
	return goals.Partition([]models.Goal{
		{ID: "1", Text: "Stretch", Type: models.GoalDaily, Active: true},
		{ID: "2", Text: "Call <mom> & dad", Type: models.GoalWeekly, Active: true},
		{ID: "3", Text: "Journal", Type: models.GoalDaily, Active: true},
	})
}

func TestRenderAnnouncement(t *testing.T) {
	email, err := Render(Announcement, renderDate, sampleGroups(), "https://goals.example.com")
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	if email.Subject != "Your Goals for Wednesday, March 4, 2026" {
		t.Errorf("Subject = %q", email.Subject)
	}

	for _, want := range []string{
		"Good morning! 🌟",
		"Here are your goals for <strong>Wednesday, March 4, 2026</strong>",
		`<h2 class="daily">Daily Goals</h2>`,
		`<h2 class="weekly">Weekly Goals</h2>`,
		"<li>Stretch</li>",
		`href="https://goals.example.com"`,
		"Open Dashboard",
		"Have a productive day!",
	} {
		if !strings.Contains(email.HTML, want) {
			t.Errorf("announcement missing %q", want)
		}
	}

	if strings.Contains(email.HTML, "Monthly Goals") {
		t.Error("empty monthly section should be omitted")
	}
	if strings.Contains(email.HTML, "☐") {
		t.Error("announcement should not render checkboxes")
	}
	if strings.Index(email.HTML, "Stretch") > strings.Index(email.HTML, "Journal") {
		t.Error("goals within a section should keep their order")
	}
}

func TestRenderReflection(t *testing.T) {
	email, err := Render(Reflection, renderDate, sampleGroups(), "https://goals.example.com")
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	if email.Subject != "Evening Reflection - What did you accomplish today?" {
		t.Errorf("Subject = %q", email.Subject)
	}
	for _, want := range []string{
		"Good evening! 🌙",
		"What did you get done today?",
		"Here are the goals you needed to complete for <strong>Wednesday, March 4, 2026</strong>:",
		"<li>☐ Stretch</li>",
		"Update Your Progress",
		"Remember: Progress, not perfection. Every step counts! 💪",
	} {
		if !strings.Contains(email.HTML, want) {
			t.Errorf("reflection missing %q", want)
		}
	}
}

func TestRenderEscapesGoalText(t *testing.T) {
	email, err := Render(Announcement, renderDate, sampleGroups(), "")
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if strings.Contains(email.HTML, "<mom>") {
		t.Error("goal text was not escaped")
	}
	if !strings.Contains(email.HTML, "Call &lt;mom&gt; &amp; dad") {
		t.Error("escaped goal text not found")
	}
	if !strings.Contains(email.HTML, `href="http://localhost:5173"`) {
		t.Error("empty app URL should fall back to the default")
	}
}

func TestRenderNoGoals(t *testing.T) {
	email, err := Render(Reflection, renderDate, goals.Partition(nil), "")
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if strings.Contains(email.HTML, "<h2") {
		t.Error("no sections expected without goals")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "morning", want: Announcement},
		{in: "Evening", want: Reflection},
		{in: "noon", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseKind(%q) = %q, %v", tt.in, got, err)
		}
	}

	if _, err := Render("noon", renderDate, nil, ""); err == nil {
		t.Error("Render() with unknown kind should fail")
	}
}
