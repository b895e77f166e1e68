package quizgen_test

import (
	"testing"

	"wikiquiz/internal/adapter/quizgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capable(name string) quizgen.ModelCandidate {
	return quizgen.ModelCandidate{Name: name, GenerationMethods: []string{"generateContent", "countTokens"}}
}

func embedOnly(name string) quizgen.ModelCandidate {
	return quizgen.ModelCandidate{Name: name, GenerationMethods: []string{"embedContent"}}
}

func TestPickModel(t *testing.T) {
	tests := []struct {
		name       string
		candidates []quizgen.ModelCandidate
		override   string
		expected   string
		wantErr    bool
	}{
		{
			name: "prefers gemini-1.5-flash",
			candidates: []quizgen.ModelCandidate{
				capable("models/gemini-1.5-pro"),
				capable("models/gemini-1.5-flash"),
				capable("models/gemini-1.5-flash-8b"),
			},
			expected: "models/gemini-1.5-flash",
		},
		{
			name: "falls back to the 8b flash variant",
			candidates: []quizgen.ModelCandidate{
				capable("models/gemini-1.5-pro"),
				capable("models/gemini-1.5-flash-8b"),
			},
			expected: "models/gemini-1.5-flash-8b",
		},
		{
			name: "any flash model when the preferred ones are absent",
			candidates: []quizgen.ModelCandidate{
				capable("models/gemini-1.5-pro"),
				capable("models/gemini-2.0-flash-lite"),
			},
			expected: "models/gemini-2.0-flash-lite",
		},
		{
			name: "first capable model when nothing matches the heuristics",
			candidates: []quizgen.ModelCandidate{
				capable("models/gemini-1.5-pro"),
				capable("models/gemini-ultra"),
			},
			expected: "models/gemini-1.5-pro",
		},
		{
			name: "bare override honored when available",
			candidates: []quizgen.ModelCandidate{
				capable("models/gemini-1.5-flash"),
				capable("models/gemini-1.5-pro"),
			},
			override: "gemini-1.5-pro",
			expected: "models/gemini-1.5-pro",
		},
		{
			name: "prefixed override honored when available",
			candidates: []quizgen.ModelCandidate{
				capable("models/gemini-1.5-flash"),
				capable("models/gemini-1.5-pro"),
			},
			override: "models/gemini-1.5-pro",
			expected: "models/gemini-1.5-pro",
		},
		{
			name: "unavailable override falls back to the preference order",
			candidates: []quizgen.ModelCandidate{
				capable("models/gemini-1.5-pro"),
				capable("models/gemini-1.5-flash"),
			},
			override: "gemini-9000-ultra",
			expected: "models/gemini-1.5-flash",
		},
		{
			name: "embedding-only models are never picked",
			candidates: []quizgen.ModelCandidate{
				embedOnly("models/text-embedding-004"),
				embedOnly("models/gemini-1.5-flash"),
				capable("models/gemini-1.5-pro"),
			},
			expected: "models/gemini-1.5-pro",
		},
		{
			name: "no capable models",
			candidates: []quizgen.ModelCandidate{
				embedOnly("models/text-embedding-004"),
			},
			wantErr: true,
		},
		{
			name:    "empty candidate list",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := quizgen.PickModel(tt.candidates, tt.override)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no Gemini models with generateContent")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
