package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/mlorenc/gotodo/internal/common"
	"github.com/mlorenc/gotodo/internal/cryptox"
)

func TestIssue_StoresDigestNotPlaintext(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewRefreshTokenService(db, rm)

	plaintext, err := s.Issue(context.Background(), 1, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if plaintext == "" {
		t.Fatalf("empty plaintext")
	}

	rows, err := rm.r.SelectUnexpired(context.Background(), time.Now())
	if err != nil || len(rows) != 1 {
		t.Fatalf("want 1 stored row, got %d (%v)", len(rows), err)
	}
	if rows[0].TokenHash == plaintext {
		t.Fatalf("plaintext stored verbatim")
	}
	if !cryptox.VerifyPassword(rows[0].TokenHash, plaintext) {
		t.Fatalf("stored digest does not verify against the plaintext")
	}
}

func TestIssue_TokensAreUnique(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewRefreshTokenService(db, newFakeRepoManager())

	a, err := s.Issue(context.Background(), 1, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	b, err := s.Issue(context.Background(), 1, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if a == b {
		t.Fatalf("two issued tokens are identical")
	}
}

func TestVerify_ReturnsOwningUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewRefreshTokenService(db, rm)

	tokenAlice, err := s.Issue(context.Background(), 1, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	tokenBob, err := s.Issue(context.Background(), 2, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if userID, err := s.Verify(context.Background(), tokenAlice); err != nil || userID != 1 {
		t.Fatalf("alice token: got (%d, %v), want (1, nil)", userID, err)
	}
	if userID, err := s.Verify(context.Background(), tokenBob); err != nil || userID != 2 {
		t.Fatalf("bob token: got (%d, %v), want (2, nil)", userID, err)
	}
}

func TestVerify_UnknownToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewRefreshTokenService(db, newFakeRepoManager())

	if _, err := s.Verify(context.Background(), "never-issued"); !errors.Is(err, common.ErrInvalidOrExpiredToken) {
		t.Fatalf("want ErrInvalidOrExpiredToken, got %v", err)
	}
}

func TestVerify_ExpiredRowExcluded(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewRefreshTokenService(db, rm)

	plaintext, err := s.Issue(context.Background(), 1, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := s.Verify(context.Background(), plaintext); !errors.Is(err, common.ErrInvalidOrExpiredToken) {
		t.Fatalf("want ErrInvalidOrExpiredToken, got %v", err)
	}
	if n := rm.r.count(); n != 1 {
		t.Fatalf("expired row should still exist until swept, got %d rows", n)
	}
}

func TestVerify_SelectError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.r.selectErr = errBoom{}
	s := NewRefreshTokenService(db, rm)

	_, err := s.Verify(context.Background(), "x")
	if err == nil || !regexp.MustCompile(`error loading refresh tokens: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped select error, got %v", err)
	}
}

func TestRevokeAllForUser_OnlyTouchesOwner(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewRefreshTokenService(db, rm)

	if _, err := s.Issue(context.Background(), 1, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	tokenBob, err := s.Issue(context.Background(), 2, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if err := s.RevokeAllForUser(context.Background(), 1); err != nil {
		t.Fatalf("RevokeAllForUser error: %v", err)
	}

	if userID, err := s.Verify(context.Background(), tokenBob); err != nil || userID != 2 {
		t.Fatalf("bob token after alice revoke: got (%d, %v)", userID, err)
	}
	if n := rm.r.count(); n != 1 {
		t.Fatalf("want 1 remaining row, got %d", n)
	}

	// revoking a user with no tokens is a no-op
	if err := s.RevokeAllForUser(context.Background(), 1); err != nil {
		t.Fatalf("second RevokeAllForUser error: %v", err)
	}
}

func TestSweepExpired_RemovesOnlyExpiredRows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewRefreshTokenService(db, rm)

	if _, err := s.Issue(context.Background(), 1, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	live, err := s.Issue(context.Background(), 1, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if err := s.SweepExpired(context.Background()); err != nil {
		t.Fatalf("SweepExpired error: %v", err)
	}
	if n := rm.r.count(); n != 1 {
		t.Fatalf("want 1 row after sweep, got %d", n)
	}
	if userID, err := s.Verify(context.Background(), live); err != nil || userID != 1 {
		t.Fatalf("live token after sweep: got (%d, %v)", userID, err)
	}
}
