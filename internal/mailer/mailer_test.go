package mailer

import (
	"bytes"
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPSender_ComposesAndRelays(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "mail.local", Port: "2525", From: "no-reply@x.com"})
	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		assert.Nil(t, a)
		return nil
	}

	err := s.Send(context.Background(), Message{To: "a@x.com", Subject: "Reset Password", Body: "link"})
	require.NoError(t, err)

	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, "no-reply@x.com", gotFrom)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.Contains(t, string(gotBody), "Subject: Reset Password\r\n")
	assert.True(t, bytes.HasSuffix(gotBody, []byte("\r\n\r\nlink")))
}

func TestSMTPSender_WrapsRelayError(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "mail.local", Port: "25", Username: "u", Password: "p"})
	relayErr := errors.New("535 authentication failed")
	s.send = func(string, smtp.Auth, string, []string, []byte) error { return relayErr }

	err := s.Send(context.Background(), Message{To: "a@x.com"})

	assert.ErrorIs(t, err, relayErr)
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	require.NoError(t, NewLogSender(log).Send(context.Background(), Message{To: "a@x.com", Subject: "hi", Body: "body"}))

	assert.Contains(t, buf.String(), "a@x.com")
	assert.Contains(t, buf.String(), "body")
}
