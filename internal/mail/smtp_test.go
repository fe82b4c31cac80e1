package mail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routineapp/routine-server/internal/testutil"
)

func TestSMTP_Send(t *testing.T) {
	cfg := Config{
		Host:     "smtp.routine.test",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "no-reply@routine.test",
	}

	t.Run("passes relay settings and a well-formed message", func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte

		m := NewSMTP(cfg, testutil.MakeNoopLogger())
		m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		}

		err := m.Send(context.Background(), "user@example.com", "Verify your account", "click the link")

		require.NoError(t, err)
		assert.Equal(t, "smtp.routine.test:587", gotAddr)
		assert.Equal(t, "no-reply@routine.test", gotFrom)
		assert.Equal(t, []string{"user@example.com"}, gotTo)
		assert.Contains(t, string(gotMsg), "Subject: Verify your account\r\n")
		assert.Contains(t, string(gotMsg), "\r\n\r\nclick the link")
	})

	t.Run("wraps relay failures", func(t *testing.T) {
		m := NewSMTP(cfg, testutil.MakeNoopLogger())
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("relay refused")
		}

		err := m.Send(context.Background(), "user@example.com", "subject", "body")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "relay refused")
	})

	t.Run("honors an already cancelled context", func(t *testing.T) {
		m := NewSMTP(cfg, testutil.MakeNoopLogger())
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("send must not be called")
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := m.Send(ctx, "user@example.com", "subject", "body")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
