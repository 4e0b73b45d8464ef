package reminder

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/julianstephens/goaltrack/internal/constants"
	"github.com/julianstephens/goaltrack/internal/models"
)

// Kind selects which reminder is rendered.
type Kind string

const (
	// Announcement is the morning email listing the day's goals.
	Announcement Kind = "morning"
	// Reflection is the evening email prompting the user to check goals off.
	Reflection Kind = "evening"
)

// ParseKind accepts "morning" or "evening".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Announcement, Reflection:
		return k, nil
	}
	return "", fmt.Errorf("unknown reminder %q (expected morning or evening)", s)
}

//go:embed templates/reminder.html
var templateFS embed.FS

var reminderTemplate = template.Must(template.ParseFS(templateFS, "templates/reminder.html"))

type copyText struct {
	heading string
	cta     string
	footer  string
}

var copies = map[Kind]copyText{
	Announcement: {
		heading: "Good morning! 🌟",
		cta:     "Open Dashboard",
		footer:  "Have a productive day!",
	},
	Reflection: {
		heading: "Good evening! 🌙",
		cta:     "Update Your Progress",
		footer:  "Remember: Progress, not perfection. Every step counts! 💪",
	},
}

type section struct {
	Title string
	Class string
	Goals []string
}

type templateData struct {
	Heading    string
	Reflection bool
	Date       string
	Sections   []section
	AppURL     string
	CTA        string
	Footer     string
}

// Email is a rendered reminder, ready to address.
type Email struct {
	Subject string
	HTML    string
}

// Render builds the reminder of the given kind for goals grouped by type.
// Empty groups are left out; an email with no goals at all is still valid.
func Render(kind Kind, date time.Time, groups map[models.GoalType][]models.Goal, appURL string) (Email, error) {
	text, ok := copies[kind]
	if !ok {
		return Email{}, fmt.Errorf("unknown reminder kind %q", kind)
	}
	if appURL == "" {
		appURL = constants.DefaultAppURL
	}

	displayDate := date.Format(constants.DisplayDateFormat)
	data := templateData{
		Heading:    text.heading,
		Reflection: kind == Reflection,
		Date:       displayDate,
		AppURL:     appURL,
		CTA:        text.cta,
		Footer:     text.footer,
	}
	for _, goalType := range models.GoalTypes {
		goals := groups[goalType]
		if len(goals) == 0 {
			continue
		}
		s := section{Title: goalType.Title(), Class: string(goalType)}
		for _, g := range goals {
			s.Goals = append(s.Goals, g.Text)
		}
		data.Sections = append(data.Sections, s)
	}

	var buf bytes.Buffer
	if err := reminderTemplate.Execute(&buf, data); err != nil {
		return Email{}, fmt.Errorf("failed to render %s reminder: %w", kind, err)
	}

	return Email{Subject: Subject(kind, date), HTML: buf.String()}, nil
}

// Subject returns the subject line for a reminder sent on date.
func Subject(kind Kind, date time.Time) string {
	if kind == Reflection {
		return "Evening Reflection - What did you accomplish today?"
	}
	return "Your Goals for " + date.Format(constants.DisplayDateFormat)
}
