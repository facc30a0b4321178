package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/whisperbox/whisperbox/internal/domain"
	"github.com/whisperbox/whisperbox/internal/usecase"
)

type fakeMessageRepo struct {
	appendFn    func(ctx context.Context, userID, content string) (*domain.Message, error)
	listByOwner func(ctx context.Context, userID string) ([]*domain.Message, error)
	deleteFn    func(ctx context.Context, userID, messageID string) error
}

func (r *fakeMessageRepo) Append(ctx context.Context, userID, content string) (*domain.Message, error) {
	return r.appendFn(ctx, userID, content)
}

func (r *fakeMessageRepo) ListByOwner(ctx context.Context, userID string) ([]*domain.Message, error) {
	return r.listByOwner(ctx, userID)
}

func (r *fakeMessageRepo) Delete(ctx context.Context, userID, messageID string) error {
	return r.deleteFn(ctx, userID, messageID)
}

func inboxTarget(accepting bool) *fakeUserRepo {
	user := &domain.User{
		ID:                  "u1",
		Username:            "alice",
		IsVerified:          true,
		IsAcceptingMessages: accepting,
	}
	return &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id != user.ID {
				return nil, domain.ErrUserNotFound
			}
			return user, nil
		},
		findByUsername: func(_ context.Context, username string) (*domain.User, error) {
			if username != user.Username {
				return nil, domain.ErrUserNotFound
			}
			return user, nil
		},
	}
}

const validContent = "hello, what is your favorite song?"

func TestSend_AppendsToTargetInbox(t *testing.T) {
	var gotUserID, gotContent string
	messages := &fakeMessageRepo{
		appendFn: func(_ context.Context, userID, content string) (*domain.Message, error) {
			gotUserID, gotContent = userID, content
			return &domain.Message{ID: "m1", UserID: userID, Content: content, CreatedAt: time.Now()}, nil
		},
	}
	uc := usecase.NewInboxUsecase(inboxTarget(true), messages)

	msg, err := uc.Send(context.Background(), "alice", validContent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID != "m1" {
		t.Errorf("message id = %q, want m1", msg.ID)
	}
	if gotUserID != "u1" || gotContent != validContent {
		t.Errorf("appended (%q, %q), want (u1, content)", gotUserID, gotContent)
	}
}

func TestSend_UnknownRecipient_ReturnsErrUserNotFound(t *testing.T) {
	uc := usecase.NewInboxUsecase(inboxTarget(true), &fakeMessageRepo{})

	_, err := uc.Send(context.Background(), "ghost", validContent)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestSend_RecipientNotAccepting_RejectsWithoutAppend(t *testing.T) {
	appended := 0
	messages := &fakeMessageRepo{
		appendFn: func(_ context.Context, _, _ string) (*domain.Message, error) {
			appended++
			return nil, nil
		},
	}
	uc := usecase.NewInboxUsecase(inboxTarget(false), messages)

	_, err := uc.Send(context.Background(), "alice", validContent)
	if !errors.Is(err, domain.ErrNotAccepting) {
		t.Errorf("want ErrNotAccepting, got %v", err)
	}
	if appended != 0 {
		t.Errorf("Append ran %d times on a closed inbox", appended)
	}
}

func TestSend_ContentLengthBounds(t *testing.T) {
	// Bounds count characters, not bytes: a 160-rune multibyte message is
	// 320 bytes and must still pass, and 9 multibyte runes must still fail.
	cases := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"below minimum", strings.Repeat("a", 9), true},
		{"at minimum", strings.Repeat("a", 10), false},
		{"at maximum", strings.Repeat("a", 300), false},
		{"above maximum", strings.Repeat("a", 301), true},
		{"multibyte within bounds", strings.Repeat("é", 160), false},
		{"multibyte at maximum", strings.Repeat("é", 300), false},
		{"multibyte above maximum", strings.Repeat("é", 301), true},
		{"multibyte below minimum", strings.Repeat("é", 9), true},
	}

	messages := &fakeMessageRepo{
		appendFn: func(_ context.Context, userID, content string) (*domain.Message, error) {
			return &domain.Message{ID: "m1", UserID: userID, Content: content}, nil
		},
	}
	uc := usecase.NewInboxUsecase(inboxTarget(true), messages)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Send(context.Background(), "alice", tc.content)
			runes := utf8.RuneCountInString(tc.content)
			if tc.wantErr && !errors.Is(err, domain.ErrContentLength) {
				t.Errorf("%d runes: want ErrContentLength, got %v", runes, err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("%d runes: unexpected error: %v", runes, err)
			}
		})
	}
}

func TestList_ReturnsRepoOrderUnchanged(t *testing.T) {
	newer := &domain.Message{ID: "m2", UserID: "u1", CreatedAt: time.Now()}
	older := &domain.Message{ID: "m1", UserID: "u1", CreatedAt: time.Now().Add(-time.Hour)}
	messages := &fakeMessageRepo{
		listByOwner: func(_ context.Context, _ string) ([]*domain.Message, error) {
			return []*domain.Message{newer, older}, nil
		},
	}
	uc := usecase.NewInboxUsecase(inboxTarget(true), messages)

	got, err := uc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m2" || got[1].ID != "m1" {
		t.Errorf("order mangled: got %v", []string{got[0].ID, got[1].ID})
	}
}

func TestList_UnknownCaller_ReturnsErrUserNotFound(t *testing.T) {
	uc := usecase.NewInboxUsecase(inboxTarget(true), &fakeMessageRepo{})

	_, err := uc.List(context.Background(), "deleted-user")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestDelete_ScopesToCallerInbox(t *testing.T) {
	var gotUserID, gotMessageID string
	messages := &fakeMessageRepo{
		deleteFn: func(_ context.Context, userID, messageID string) error {
			gotUserID, gotMessageID = userID, messageID
			return nil
		},
	}
	uc := usecase.NewInboxUsecase(inboxTarget(true), messages)

	if err := uc.Delete(context.Background(), "u1", "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUserID != "u1" || gotMessageID != "m1" {
		t.Errorf("deleted (%q, %q), want (u1, m1)", gotUserID, gotMessageID)
	}
}

func TestDelete_ForeignOrMissingMessage_ReturnsErrMessageNotFound(t *testing.T) {
	messages := &fakeMessageRepo{
		deleteFn: func(_ context.Context, _, _ string) error {
			return domain.ErrMessageNotFound
		},
	}
	uc := usecase.NewInboxUsecase(inboxTarget(true), messages)

	err := uc.Delete(context.Background(), "u1", "someone-elses-message")
	if !errors.Is(err, domain.ErrMessageNotFound) {
		t.Errorf("want ErrMessageNotFound, got %v", err)
	}
}

func TestAcceptanceStatus_ReadsStoreNotSnapshot(t *testing.T) {
	uc := usecase.NewInboxUsecase(inboxTarget(false), &fakeMessageRepo{})

	accepting, err := uc.AcceptanceStatus(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepting {
		t.Error("store says not accepting, usecase reported accepting")
	}
}

func TestSetAcceptance_ReturnsStoredValue(t *testing.T) {
	repo := inboxTarget(true)
	repo.setAcceptingMessages = func(_ context.Context, _ string, accepting bool) (bool, error) {
		return accepting, nil
	}
	uc := usecase.NewInboxUsecase(repo, &fakeMessageRepo{})

	stored, err := uc.SetAcceptance(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored {
		t.Error("want stored value false")
	}
}
