package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/config"
	"devevent/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	api := &fakeSES{}
	m := newSESMailer(api, config.EmailConfig{FromAddress: "events@example.com", FromName: "DevEvent"}, testLogger)

	err := m.Send(context.Background(), "ada@example.com", "Hi", "<p>Hi</p>", "")
	require.NoError(t, err)
	require.NotNil(t, api.input)
	assert.Equal(t, "DevEvent <events@example.com>", aws.ToString(api.input.Source))
	assert.Equal(t, []string{"ada@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "<p>Hi</p>", aws.ToString(api.input.Message.Body.Html.Data))
	assert.Nil(t, api.input.Message.Body.Text)
}

func TestSESMailer_SendError(t *testing.T) {
	api := &fakeSES{err: errors.New("throttled")}
	m := newSESMailer(api, config.EmailConfig{FromAddress: "events@example.com"}, testLogger)

	err := m.Send(context.Background(), "ada@example.com", "Hi", "", "Hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.Equal(t, "events@example.com", aws.ToString(api.input.Source))
}

func TestNewMailer_Providers(t *testing.T) {
	assert.IsType(t, &noopMailer{}, NewMailer(config.EmailConfig{}, testLogger))
	assert.IsType(t, &noopMailer{}, NewMailer(config.EmailConfig{Provider: "smtp"}, testLogger))
	assert.IsType(t, &sesMailer{}, NewMailer(config.EmailConfig{Provider: "ses", AWSRegion: "eu-west-1"}, testLogger))
	require.NoError(t, NewMailer(config.EmailConfig{}, testLogger).Send(context.Background(), "a@b.co", "s", "h", "t"))
}

func TestTemplateRenderer_BookingConfirmation(t *testing.T) {
	data := &domain.BookingConfirmationEmailData{
		Email:      "ada@example.com",
		EventTitle: "React <Summit>",
		EventDate:  "2026-03-18",
		EventTime:  "09:30",
		Venue:      "RAI",
		Location:   "Amsterdam, NL",
		Mode:       "hybrid",
		EventURL:   "https://devevent.example/events/react-summit",
	}

	subject, html, text, err := NewTemplateRenderer().Render("booking_confirmation", data)
	require.NoError(t, err)
	assert.Equal(t, "You're booked for React <Summit>", subject)
	assert.Contains(t, html, "React &lt;Summit&gt;")
	assert.Contains(t, html, `href="https://devevent.example/events/react-summit"`)
	assert.Contains(t, text, "2026-03-18 at 09:30")
	assert.Contains(t, text, "RAI, Amsterdam, NL (hybrid)")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	require.Error(t, err)
}
