package quizgen

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
)

// ModelCandidate describes one model offered to the configured API key.
type ModelCandidate struct {
	// Name is fully qualified, e.g. "models/gemini-1.5-flash".
	Name string
	// GenerationMethods lists the API methods the model supports.
	GenerationMethods []string
}

// preferredModels are tried in order before any name heuristics apply.
var preferredModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

// ListModelCandidates queries the Gemini API for the models available to the
// client's API key.
func ListModelCandidates(ctx context.Context, client *genai.Client) ([]ModelCandidate, error) {
	var candidates []ModelCandidate
	it := client.ListModels(ctx)
	for {
		info, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list Gemini models: %w", err)
		}
		candidates = append(candidates, ModelCandidate{
			Name:              info.Name,
			GenerationMethods: info.SupportedGenerationMethods,
		})
	}
	return candidates, nil
}

// PickModel selects the model to generate with. override comes from
// configuration and may be a bare name or carry the "models/" prefix; it is
// honored only when the named model is actually available, otherwise the
// ranked preference order applies, then any "flash" model, then the first
// capable model as listed.
func PickModel(candidates []ModelCandidate, override string) (string, error) {
	var names []string
	var simple []string
	for _, c := range candidates {
		if !supportsGeneration(c) {
			continue
		}
		names = append(names, c.Name)
		simple = append(simple, bareName(c.Name))
	}
	if len(names) == 0 {
		return "", errors.New("no Gemini models with generateContent are available to this API key")
	}

	if override != "" {
		if slices.Contains(simple, override) {
			return "models/" + override, nil
		}
		if strings.HasPrefix(override, "models/") && slices.Contains(simple, bareName(override)) {
			return override, nil
		}
	}

	for _, p := range preferredModels {
		if slices.Contains(simple, p) {
			return "models/" + p, nil
		}
	}

	for _, s := range simple {
		if strings.Contains(s, "flash") {
			return "models/" + s, nil
		}
	}
	return names[0], nil
}

func supportsGeneration(c ModelCandidate) bool {
	return slices.Contains(c.GenerationMethods, "generateContent")
}

func bareName(name string) string {
	parts := strings.Split(name, "/")
	return parts[len(parts)-1]
}
