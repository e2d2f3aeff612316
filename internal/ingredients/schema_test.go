package ingredients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResultAcceptsEvaluatorOutput(t *testing.T) {
	for _, text := range []string{"", "sugar", "sugar palm oil", "sugar color flavor artificial"} {
		require.NoError(t, ValidateResult(Evaluate(text)), text)
	}
}

func TestValidateJSONRejectsBrokenResults(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"percent off tier", `{"percent":80,"health_flag":"healthy","chips":[{"type":"healthy","label":"Healthy"}],"note":"x","flags":[]}`},
		{"two chips", `{"percent":90,"health_flag":"healthy","chips":[{"type":"healthy","label":"a"},{"type":"healthy","label":"b"}],"note":"x","flags":[]}`},
		{"empty note", `{"percent":90,"health_flag":"healthy","chips":[{"type":"healthy","label":"Healthy"}],"note":"","flags":[]}`},
		{"unknown flag", `{"percent":90,"health_flag":"meh","chips":[{"type":"healthy","label":"Healthy"}],"note":"x","flags":[]}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateJSON([]byte(tt.json)))
		})
	}
}
