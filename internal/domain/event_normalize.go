package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Field length limits for events.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxOverviewLen    = 1000
	MaxVenueLen       = 200
	MaxLocationLen    = 200
	MaxAudienceLen    = 100
	MaxOrganizerLen   = 100
)

// DateLayout is the canonical stored form of Event.Date.
const DateLayout = "2006-01-02"

var (
	slugStripRe      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe      = regexp.MustCompile(`\s+`)
	slugHyphenRe     = regexp.MustCompile(`-+`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	looseTimePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	timePattern      = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// accepted input shapes for Event.Date, tried in order.
var dateLayouts = []string{DateLayout, time.RFC3339, time.RFC3339Nano, "2006/01/02"}

// Slugify derives the URL-safe identifier for a title.
// The result is empty when the title has no ASCII letters or digits.
func Slugify(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeDate parses value as a calendar date and returns it as YYYY-MM-DD.
func NormalizeDate(value string) (string, error) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC().Format(DateLayout), nil
		}
	}
	return "", NewValidationError(MsgInvalidDate)
}

// NormalizeTime zero-pads the hour of an H:MM or HH:MM value.
// Values of any other shape are returned trimmed but otherwise untouched.
func NormalizeTime(value string) string {
	v := strings.TrimSpace(value)
	m := looseTimePattern.FindStringSubmatch(v)
	if m == nil {
		return v
	}
	hour := m[1]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	return hour + ":" + m[2]
}

// NormalizeAgenda trims every item and drops the empty ones.
func NormalizeAgenda(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeTags lowercases and trims every tag, drops empty tags and
// collapses repeats, keeping the first occurrence.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		s := strings.TrimSpace(strings.ToLower(tag))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// NormalizeEvent rewrites next into its stored form before a save.
// prev is the currently stored record, or nil when next is new; only fields
// that differ from prev are re-derived. Slug uniqueness is left to storage.
func NormalizeEvent(prev, next *Event) error {
	isNew := prev == nil

	next.Title = strings.TrimSpace(next.Title)
	next.Description = strings.TrimSpace(next.Description)
	next.Overview = strings.TrimSpace(next.Overview)
	next.Image = strings.TrimSpace(next.Image)
	next.Venue = strings.TrimSpace(next.Venue)
	next.Location = strings.TrimSpace(next.Location)
	next.Audience = strings.TrimSpace(next.Audience)
	next.Organizer = strings.TrimSpace(next.Organizer)
	next.Mode = strings.ToLower(strings.TrimSpace(next.Mode))

	if isNew || next.Title != prev.Title || next.Slug == "" {
		next.Slug = Slugify(next.Title)
		if next.Slug == "" {
			return NewValidationError(MsgSlugGenerationFailed)
		}
	}

	if isNew || next.Date != prev.Date {
		date, err := NormalizeDate(next.Date)
		if err != nil {
			return err
		}
		next.Date = date
	}

	if isNew || next.Time != prev.Time {
		next.Time = NormalizeTime(next.Time)
	}

	if isNew || !slices.Equal(next.Agenda, prev.Agenda) {
		next.Agenda = NormalizeAgenda(next.Agenda)
		if len(next.Agenda) == 0 {
			return NewValidationError(MsgAgendaEmpty)
		}
	}

	if isNew || !slices.Equal(next.Tags, prev.Tags) {
		next.Tags = NormalizeTags(next.Tags)
		if len(next.Tags) == 0 {
			return NewValidationError(MsgTagsEmpty)
		}
	}

	return nil
}

// ValidateEvent applies the field-level rules and reports every violation at once.
func ValidateEvent(e *Event) error {
	var problems []string
	requireText := func(field, value string, max int) {
		switch {
		case strings.TrimSpace(value) == "":
			problems = append(problems, field+" is required")
		case max > 0 && utf8.RuneCountInString(value) > max:
			problems = append(problems, fmt.Sprintf("%s cannot exceed %d characters", field, max))
		}
	}

	requireText("title", e.Title, MaxTitleLen)
	if e.Slug != "" && !slugPattern.MatchString(e.Slug) {
		problems = append(problems, "slug must contain only lowercase letters, digits and single hyphens")
	}
	requireText("description", e.Description, MaxDescriptionLen)
	requireText("overview", e.Overview, MaxOverviewLen)
	requireText("image", e.Image, 0)
	if e.Image != "" && !validImage(e.Image) {
		problems = append(problems, "image must be an http(s) URL or a site path")
	}
	requireText("venue", e.Venue, MaxVenueLen)
	requireText("location", e.Location, MaxLocationLen)

	switch {
	case e.Date == "":
		problems = append(problems, "date is required")
	case !isoDatePattern.MatchString(e.Date):
		problems = append(problems, "date must be in ISO format (YYYY-MM-DD)")
	default:
		if _, err := time.Parse(DateLayout, e.Date); err != nil {
			problems = append(problems, "date must be in ISO format (YYYY-MM-DD)")
		}
	}

	switch {
	case e.Time == "":
		problems = append(problems, "time is required")
	case !timePattern.MatchString(e.Time):
		problems = append(problems, "time must be in 24-hour format (HH:MM)")
	}

	switch e.Mode {
	case "":
		problems = append(problems, "mode is required")
	case ModeOnline, ModeOffline, ModeHybrid:
	default:
		problems = append(problems, "mode must be either online, offline, or hybrid")
	}

	requireText("audience", e.Audience, MaxAudienceLen)
	if !nonEmptyItems(e.Agenda) {
		problems = append(problems, "agenda must contain at least one non-empty item")
	}
	requireText("organizer", e.Organizer, MaxOrganizerLen)
	if !nonEmptyItems(e.Tags) {
		problems = append(problems, "tags must contain at least one non-empty tag")
	}

	if len(problems) > 0 {
		return NewValidationError(problems...)
	}
	return nil
}

func nonEmptyItems(items []string) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			return false
		}
	}
	return true
}

func validImage(s string) bool {
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
