package email

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Every embedded template triple must parse and render.
func TestTemplateRenderer_Render(t *testing.T) {
	r := NewTemplateRenderer()
	data := map[string]string{"count": "2", "tier_id": "tier-1"}

	for _, name := range []string{
		"invitation_granted",
		"request_approved",
		"request_rejected",
		"tickets_issued",
	} {
		subject, htmlBody, textBody, err := r.Render(name, data)
		require.NoError(t, err, name)
		require.NotEmpty(t, subject, name)
		require.NotEmpty(t, htmlBody, name)
		require.NotEmpty(t, textBody, name)
	}
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()
	_, _, _, err := r.Render("no_such_template", nil)
	require.Error(t, err)
}
