package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPersonalizerRender(t *testing.T) {
	p := NewPersonalizer(zap.NewNop())
	vars := map[string]interface{}{"name": "Ana", "company": "Acme"}

	assert.Equal(t, "Hi Ana from Acme", p.Render("Hi {{name}} from {{company}}", vars))
	assert.Equal(t, "Hi Ana", p.Render("Hi {{ name }}", vars))
	assert.Equal(t, "Hi ", p.Render("Hi {{missing}}", vars))
	assert.Equal(t, "no placeholders", p.Render("no placeholders", vars))
}

func TestPersonalizerKeepsRawOnParseError(t *testing.T) {
	p := NewPersonalizer(zap.NewNop())
	raw := "Hi {{ name "

	assert.Equal(t, raw, p.Render(raw, map[string]interface{}{"name": "Ana"}))
}
