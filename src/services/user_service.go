package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost        = 11
	minPasswordLength = 6
)

// UserService covers signup, login and the editable part of a profile.
type UserService struct {
	DB             *gorm.DB
	JWTSecret      string
	JWTTTL         time.Duration
	InitialCredits int
}

type SignupInput struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Bio      string         `json:"bio"`
	Skills   []models.Skill `json:"skills"`
}

// AuthResult is a user together with a freshly issued token
type AuthResult struct {
	User  *models.User `json:"result"`
	Token string       `json:"token"`
}

// Signup creates an account with the initial credit allowance and returns a token for it
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	verr := &ValidationError{}
	if in.Username == "" {
		verr.add("username", "username is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		verr.add("email", "a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		verr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	skills, skillErr := normalizeSkills(in.Skills)
	if skillErr != "" {
		verr.add("skills", skillErr)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	var existing int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashedPassword),
		Bio:      strings.TrimSpace(in.Bio),
		Skills:   skills,
		Credits:  s.InitialCredits,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(&user)
}

// Login checks email and password and returns a new token
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(&user)
}

// Identify verifies token and returns the user id it was issued for. Every
// failure wraps ErrUnauthenticated.
func (s *UserService) Identify(token string) (uint, error) {
	if token == "" {
		return 0, fmt.Errorf("%w: no token provided", ErrUnauthenticated)
	}
	userID, err := lib.VerifyJWT(s.JWTSecret, token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return userID, nil
}

// Authenticate resolves token to the stored user it was issued for
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.Identify(token)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d no longer exists", ErrUnauthenticated, userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// GetByID loads a user with its ratings
func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Preload("Ratings").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Connections returns the ids of every user with an accepted request involving userID
func (s *UserService) Connections(ctx context.Context, userID uint) ([]uint, error) {
	user := models.User{}
	user.ID = userID
	ids, err := user.GetConnections(s.DB.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return ids, nil
}

// UpdateProfile changes bio and/or skills. Credits, ratings and the embedding are
// never writable from here.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, bio *string, skills []models.Skill) (*models.User, error) {
	updates := map[string]interface{}{}
	if bio != nil {
		updates["bio"] = strings.TrimSpace(*bio)
	}
	if skills != nil {
		normalized, msg := normalizeSkills(skills)
		if msg != "" {
			verr := &ValidationError{}
			verr.add("skills", msg)
			return nil, verr
		}
		user := models.User{Skills: normalized}
		// El serializador JSON de GORM necesita pasar por el modelo
		if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
			Select("skills").Updates(&user).Error; err != nil {
			return nil, fmt.Errorf("update skills: %w", err)
		}
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.GetByID(ctx, userID)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := lib.GenerateJWT(s.JWTSecret, s.JWTTTL, user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// normalizeSkills validates kinds and levels; a missing level defaults to 1
func normalizeSkills(skills []models.Skill) ([]models.Skill, string) {
	normalized := make([]models.Skill, 0, len(skills))
	for _, skill := range skills {
		skill.Name = strings.TrimSpace(skill.Name)
		if skill.Name == "" {
			return nil, "every skill needs a name"
		}
		if skill.Kind != models.SkillKindTeach && skill.Kind != models.SkillKindLearn {
			return nil, fmt.Sprintf("skill %q must be of type teach or learn", skill.Name)
		}
		if skill.Level == 0 {
			skill.Level = 1
		}
		if skill.Level < 1 || skill.Level > 5 {
			return nil, fmt.Sprintf("skill %q level must be between 1 and 5", skill.Name)
		}
		normalized = append(normalized, skill)
	}
	return normalized, ""
}
