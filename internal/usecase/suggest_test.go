package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/whisperbox/whisperbox/internal/domain"
	"github.com/whisperbox/whisperbox/internal/usecase"
)

type fakeGenerator struct {
	generate func(ctx context.Context, prompt string) (string, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt)
}

func TestSuggestions_ParsesCompletion(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "three well-formed questions",
			raw:  "What made you smile today?||What's a hobby you've picked up?||What song is stuck in your head?",
			want: []string{
				"What made you smile today?",
				"What's a hobby you've picked up?",
				"What song is stuck in your head?",
			},
		},
		{
			name: "extra questions are truncated",
			raw:  "Q1||Q2||Q3||Q4||Q5",
			want: []string{"Q1", "Q2", "Q3"},
		},
		{
			name: "whitespace trimmed, empties dropped",
			raw:  "  Q1  || || Q2 ||",
			want: []string{"Q1", "Q2"},
		},
		{
			name: "empty completion",
			raw:  "",
			want: []string{},
		},
		{
			name: "no separator is one suggestion",
			raw:  "Just one question?",
			want: []string{"Just one question?"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{
				generate: func(_ context.Context, _ string) (string, error) { return tc.raw, nil },
			}
			got, err := usecase.NewSuggestUsecase(gen).Suggestions(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestSuggestions_UpstreamError_Propagates(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(_ context.Context, _ string) (string, error) {
			return "", domain.ErrUpstream
		},
	}

	_, err := usecase.NewSuggestUsecase(gen).Suggestions(context.Background())
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("want wrapped ErrUpstream, got %v", err)
	}
}

func TestSuggestions_PromptAsksForSeparator(t *testing.T) {
	var gotPrompt string
	gen := &fakeGenerator{
		generate: func(_ context.Context, prompt string) (string, error) {
			gotPrompt = prompt
			return "Q1||Q2||Q3", nil
		},
	}

	if _, err := usecase.NewSuggestUsecase(gen).Suggestions(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPrompt == "" {
		t.Fatal("generator received an empty prompt")
	}
}
