package mail

import (
	"strings"

	"github.com/osteele/liquid"
	"go.uber.org/zap"
)

// Personalizer fills {{name}}-style placeholders. Text that fails to parse
// or render is returned as is.
type Personalizer struct {
	engine *liquid.Engine
	log    *zap.Logger
}

func NewPersonalizer(log *zap.Logger) *Personalizer {
	return &Personalizer{engine: liquid.NewEngine(), log: log}
}

func (p *Personalizer) Render(text string, vars map[string]interface{}) string {
	if !strings.Contains(text, "{{") && !strings.Contains(text, "{%") {
		return text
	}

	out, err := p.engine.ParseAndRenderString(text, vars)
	if err != nil {
		p.log.Debug("personalize: keeping raw text", zap.Error(err))
		return text
	}
	return out
}
