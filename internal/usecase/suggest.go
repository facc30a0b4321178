package usecase

import (
	"context"
	"fmt"
	"strings"
)

const maxSuggestions = 3

const suggestionPrompt = `Create exactly three open-ended, friendly questions
for an anonymous social messaging platform.

Rules:
- Avoid personal or sensitive topics
- Focus on universal, positive themes
- Separate each question with "||"
- Do NOT add numbering
- Do NOT add explanations

Example format:
Question one||Question two||Question three`

// Generator is the subset of the genai client the usecase needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type SuggestUsecase struct {
	gen Generator
}

func NewSuggestUsecase(gen Generator) *SuggestUsecase {
	return &SuggestUsecase{gen: gen}
}

// Suggestions asks the upstream model for conversation starters. A malformed
// or empty completion yields an empty slice, not an error; the caller decides
// whether empty is a problem.
func (u *SuggestUsecase) Suggestions(ctx context.Context) ([]string, error) {
	raw, err := u.gen.Generate(ctx, suggestionPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}
	return parseSuggestions(raw), nil
}

// parseSuggestions splits the raw completion on "||", trims each segment,
// drops empties and truncates to maxSuggestions.
func parseSuggestions(raw string) []string {
	out := make([]string, 0, maxSuggestions)
	for _, part := range strings.Split(raw, "||") {
		q := strings.TrimSpace(part)
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
