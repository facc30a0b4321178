package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox/internal/domain"
	"github.com/whisperbox/whisperbox/internal/transport/http/handler"
)

type fakeSuggestUsecase struct {
	suggestions func(ctx context.Context) ([]string, error)
}

func (f *fakeSuggestUsecase) Suggestions(ctx context.Context) ([]string, error) {
	return f.suggestions(ctx)
}

func newSuggestEngine(uc *fakeSuggestUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewSuggestHandler(uc, discardLogger())

	r := gin.New()
	r.POST("/suggest-messages", h.Suggest)
	return r
}

func postSuggest(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/suggest-messages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSuggestHandler_ReturnsQuestions(t *testing.T) {
	r := newSuggestEngine(&fakeSuggestUsecase{
		suggestions: func(_ context.Context) ([]string, error) {
			return []string{"Q1", "Q2", "Q3"}, nil
		},
	})

	w := postSuggest(r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success   bool     `json:"success"`
		Message   string   `json:"message"`
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || len(resp.Questions) != 3 {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Message == "" {
		t.Error("success envelope is missing the message field")
	}
}

func TestSuggestHandler_EmptyListIsSuccess(t *testing.T) {
	r := newSuggestEngine(&fakeSuggestUsecase{
		suggestions: func(_ context.Context) ([]string, error) { return nil, nil },
	})

	w := postSuggest(r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Questions == nil || len(resp.Questions) != 0 {
		t.Errorf("questions = %#v, want empty array", resp.Questions)
	}
}

func TestSuggestHandler_UpstreamFailure_Returns500(t *testing.T) {
	r := newSuggestEngine(&fakeSuggestUsecase{
		suggestions: func(_ context.Context) ([]string, error) {
			return nil, domain.ErrUpstream
		},
	})

	w := postSuggest(r)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500: %s", w.Code, w.Body.String())
	}
}
