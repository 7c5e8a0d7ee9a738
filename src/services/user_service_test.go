package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"github.com/theleywin/Backend-Skill-Barter/src/testfixtures"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newUserService(db *gorm.DB) *UserService {
	return &UserService{
		DB:             db,
		JWTSecret:      testSecret,
		JWTTTL:         time.Hour,
		InitialCredits: 5,
	}
}

func TestUserService_Signup(t *testing.T) {
	t.Parallel()

	t.Run("creates the account with the initial allowance", func(t *testing.T) {
		t.Parallel()

		db := testfixtures.NewDB(t)
		svc := newUserService(db)

		result, err := svc.Signup(context.Background(), SignupInput{
			Username: "alice",
			Email:    " Alice@Example.com ",
			Password: "secret1",
			Skills: []models.Skill{
				{Name: "go", Kind: models.SkillKindTeach, Level: 4},
				{Name: "piano", Kind: models.SkillKindLearn},
			},
		})
		if err != nil {
			t.Fatalf("Signup failed: %v", err)
		}
		if result.User.Email != "alice@example.com" {
			t.Fatalf("expected normalised email, got %q", result.User.Email)
		}
		if result.User.Credits != 5 {
			t.Fatalf("expected 5 initial credits, got %d", result.User.Credits)
		}
		if result.User.Password == "secret1" {
			t.Fatal("expected password to be hashed")
		}
		if result.User.Skills[1].Level != 1 {
			t.Fatalf("expected missing level to default to 1, got %d", result.User.Skills[1].Level)
		}

		userID, err := lib.VerifyJWT(testSecret, result.Token)
		if err != nil || userID != result.User.ID {
			t.Fatalf("expected token for user %d, got %d (%v)", result.User.ID, userID, err)
		}
	})

	t.Run("rejects a registered email", func(t *testing.T) {
		t.Parallel()

		db := testfixtures.NewDB(t)
		testfixtures.CreateUser(t, db, "alice", 5)
		svc := newUserService(db)

		_, err := svc.Signup(context.Background(), SignupInput{Username: "alice2", Email: "ALICE@example.com", Password: "secret1"})
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		t.Parallel()

		db := testfixtures.NewDB(t)
		svc := newUserService(db)

		_, err := svc.Signup(context.Background(), SignupInput{
			Email:    "not-an-email",
			Password: "123",
			Skills:   []models.Skill{{Name: "go", Kind: "master"}},
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"username", "email", "password", "skills"} {
			if verr.FieldErrors[field] == "" {
				t.Fatalf("expected an error on %s, got %#v", field, verr.FieldErrors)
			}
		}
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	db := testfixtures.NewDB(t)
	svc := newUserService(db)
	signup, err := svc.Signup(context.Background(), SignupInput{Username: "bob", Email: "bob@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "BOB@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.User.ID != signup.User.ID || result.Token == "" {
		t.Fatalf("unexpected login result %#v", result)
	}

	if _, err := svc.Login(context.Background(), "bob@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	db := testfixtures.NewDB(t)
	alice := testfixtures.CreateUser(t, db, "alice", 7)
	svc := newUserService(db)

	bio := "  I teach Go  "
	updated, err := svc.UpdateProfile(context.Background(), alice.ID, &bio, []models.Skill{
		{Name: "go", Kind: models.SkillKindTeach, Level: 5},
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Bio != "I teach Go" {
		t.Fatalf("expected trimmed bio, got %q", updated.Bio)
	}
	if len(updated.Skills) != 1 || updated.Skills[0].Name != "go" {
		t.Fatalf("expected skills to be replaced, got %#v", updated.Skills)
	}
	if updated.Credits != 7 {
		t.Fatalf("expected credits to stay at 7, got %d", updated.Credits)
	}

	_, err = svc.UpdateProfile(context.Background(), alice.ID, nil, []models.Skill{{Name: "go", Kind: models.SkillKindTeach, Level: 9}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for level 9, got %v", err)
	}

	if _, err := svc.GetByID(context.Background(), alice.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_Connections(t *testing.T) {
	t.Parallel()

	db := testfixtures.NewDB(t)
	alice := testfixtures.CreateUser(t, db, "alice", 5)
	bob := testfixtures.CreateUser(t, db, "bob", 5)
	carol := testfixtures.CreateUser(t, db, "carol", 5)
	dave := testfixtures.CreateUser(t, db, "dave", 5)
	testfixtures.CreateRequest(t, db, alice.ID, bob.ID, models.ConnectionStatusAccepted)
	testfixtures.CreateRequest(t, db, carol.ID, alice.ID, models.ConnectionStatusAccepted)
	testfixtures.CreateRequest(t, db, alice.ID, dave.ID, models.ConnectionStatusPending)
	svc := newUserService(db)

	ids, err := svc.Connections(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("Connections failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != bob.ID || ids[1] != carol.ID {
		t.Fatalf("expected [%d %d], got %v", bob.ID, carol.ID, ids)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	db := testfixtures.NewDB(t)
	svc := newUserService(db)
	alice := testfixtures.CreateUser(t, db, "alice", 5)
	ghost := testfixtures.CreateUser(t, db, "ghost", 5)

	aliceToken, err := lib.GenerateJWT(testSecret, time.Hour, alice.ID)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	ghostToken, err := lib.GenerateJWT(testSecret, time.Hour, ghost.ID)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	if err := db.Delete(&models.User{}, ghost.ID).Error; err != nil {
		t.Fatalf("delete ghost: %v", err)
	}
	foreignToken, err := lib.GenerateJWT("another-secret", time.Hour, alice.ID)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), aliceToken)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != alice.ID || user.Username != "alice" {
		t.Fatalf("expected alice, got %#v", user)
	}

	rejected := map[string]string{
		"empty token":       "",
		"garbage token":     "not-a-jwt",
		"foreign signature": foreignToken,
		"deleted user":      ghostToken,
	}
	for name, token := range rejected {
		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}

	// Identify only checks the token, so the deleted user still resolves.
	id, err := svc.Identify(ghostToken)
	if err != nil || id != ghost.ID {
		t.Fatalf("expected Identify to return %d, got %d (%v)", ghost.ID, id, err)
	}
	if _, err := svc.Identify(""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for an empty token, got %v", err)
	}
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	verr := &ValidationError{}
	verr.add("recipient", "recipient is required")
	verr.add("content", "content is required")

	tests := []struct {
		err  error
		want string
	}{
		{err: verr, want: "content is required"},
		{err: ErrAlreadyDecided, want: "request already processed"},
		{err: errors.Join(errors.New("tx"), ErrInsufficientCredits), want: "insufficient credits"},
		{err: errors.New("dial tcp: connection refused"), want: "Server error"},
	}
	for _, tc := range tests {
		if got := PublicMessage(tc.err); got != tc.want {
			t.Fatalf("PublicMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
