package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var branding = Branding{CompanyName: "Acme Services", AppName: "service-app", LoginURL: "https://acme.test/login"}

func TestRenderWelcome(t *testing.T) {
	name, data := NewWelcomeData(branding, "Alice", "alice@x.com", "acme", "regular")
	require.Equal(t, Welcome, name)

	subject, text, html, err := Render(name, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Acme Services", subject)
	assert.Contains(t, text, "alice@x.com")
	assert.Contains(t, html, `href="https://acme.test/login"`)
}

func TestRenderWelcomeBusiness(t *testing.T) {
	name, data := NewWelcomeData(branding, "Bob", "bob@x.com", "acme", "business", WithBusinessName("Bob's Plumbing"))
	require.Equal(t, WelcomeBusiness, name)

	subject, _, html, err := Render(name, data)
	require.NoError(t, err)
	assert.Equal(t, "Bob's Plumbing is now on Acme Services", subject)
	assert.Contains(t, html, "Bob&#39;s Plumbing")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", ""))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "y", defaultFn("x", "y"))
	assert.Equal(t, "x", defaultFn("x", 0))
}
