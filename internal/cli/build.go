package cli

import (
	"fmt"

	"github.com/clinpipe/clinpipe/internal/nlp"
	"github.com/clinpipe/clinpipe/internal/rules"
)

// buildPipeline constructs the NLP pipeline from the global flags.
func buildPipeline() (*nlp.Pipeline, error) {
	extra, err := rules.LoadFiles(flagRuleFiles...)
	if err != nil {
		return nil, fmt.Errorf("load rule files: %w", err)
	}

	return nlp.Load(nlp.Options{
		Model:          flagModel,
		Enable:         flagEnable,
		Disable:        flagDisable,
		NoDefaultRules: flagNoDefaultRules,
		ExtraRules:     extra,
	})
}
