package mailer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tpl "github.com/oksasatya/contacts-api/pkg/mailer/templates"
)

type recordedMail struct {
	to, subject, text, html string
}

type fakeTransport struct {
	sent []recordedMail
	err  error
}

func (f *fakeTransport) Send(_ context.Context, to, subject, text, html string) error {
	f.sent = append(f.sent, recordedMail{to, subject, text, html})
	return f.err
}

type fakePublisher struct {
	bodies [][]byte
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	f.bodies = append(f.bodies, b)
	return nil
}

func TestDirectMailer_RendersAndSends(t *testing.T) {
	tr := &fakeTransport{}
	m := NewDirectMailer(tr, tpl.Brand{AppName: "Contacts"})

	err := m.Send(context.Background(), tpl.ResetPassword, "bob@example.com", map[string]any{
		"Username": "bob",
		"ResetURL": "https://app.example.com/reset?token=abc",
	})
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)
	assert.Equal(t, "bob@example.com", tr.sent[0].to)
	assert.Equal(t, "Reset your password", tr.sent[0].subject)
	assert.Contains(t, tr.sent[0].text, "https://app.example.com/reset?token=abc")
	assert.NotEmpty(t, tr.sent[0].html)
}

func TestDirectMailer_Errors(t *testing.T) {
	tr := &fakeTransport{}
	m := NewDirectMailer(tr, tpl.Brand{})

	err := m.Send(context.Background(), "missing", "bob@example.com", nil)
	assert.Error(t, err)
	assert.Empty(t, tr.sent)

	tr.err = assert.AnError
	err = m.Send(context.Background(), tpl.VerifyEmail, "bob@example.com", map[string]any{"VerifyURL": "x"})
	assert.ErrorIs(t, err, assert.AnError)
}

// A job published by QueueMailer must render the same way in the worker,
// including ExpiresAt after it has become an RFC3339 string.
func TestQueueMailer_JobRoundTripsToWorker(t *testing.T) {
	pub := &fakePublisher{}
	exp := time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)

	err := NewQueueMailer(pub).Send(context.Background(), tpl.VerifyEmail, "alice@example.com", map[string]any{
		"Username":  "alice",
		"VerifyURL": "https://api.example.com/api/auth/confirmed_email/tok",
		"ExpiresAt": exp,
	})
	require.NoError(t, err)
	require.Len(t, pub.bodies, 1)

	var job EmailJob
	require.NoError(t, json.Unmarshal(pub.bodies[0], &job))
	assert.Equal(t, "alice@example.com", job.To)
	assert.Equal(t, tpl.VerifyEmail, job.Template)

	tr := &fakeTransport{}
	require.NoError(t, NewDirectMailer(tr, tpl.Brand{}).Send(context.Background(), job.Template, job.To, job.Data))
	require.Len(t, tr.sent, 1)
	assert.Contains(t, tr.sent[0].text, "02 January 2030, 15:04 UTC")
}

func TestLogMailer_NeverFails(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), tpl.VerifyEmail, "a@b.c", nil))
}
