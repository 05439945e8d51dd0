package core

import (
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailMessage_Render(t *testing.T) {
	MustRegisterEmailTemplate("test_greeting", "Hello {{.Name}}, balance {{.Balance}}")

	t.Run("plain body", func(t *testing.T) {
		msg := EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, BodyStr: "hi"}
		require.NoError(t, msg.Render())
		assert.Equal(t, "hi", msg.TextContent)
		assert.True(t, msg.HasRecipients())
		assert.True(t, msg.HasContent())
	})

	t.Run("template", func(t *testing.T) {
		msg := EmailMessage{
			TemplateName: "test_greeting",
			TemplateData: map[string]string{"Name": "Kofi", "Balance": "350.00"},
		}
		require.NoError(t, msg.Render())
		assert.Equal(t, "Hello Kofi, balance 350.00", msg.TextContent)
		assert.False(t, msg.HasRecipients())
	})

	t.Run("missing data", func(t *testing.T) {
		msg := EmailMessage{TemplateName: "test_greeting", TemplateData: map[string]string{"Name": "Kofi"}}
		assert.Error(t, msg.Render())
	})

	t.Run("unknown template", func(t *testing.T) {
		msg := EmailMessage{TemplateName: "nope"}
		err := msg.Render()
		assert.Equal(t, ErrTemplateNotFound, errors.Cause(err))
	})

	t.Run("empty", func(t *testing.T) {
		var msg EmailMessage
		require.NoError(t, msg.Render())
		assert.False(t, msg.HasContent())
	})
}

func TestRegisterEmailTemplate_invalid(t *testing.T) {
	assert.Error(t, RegisterEmailTemplate("broken", "{{.Name"))
}
