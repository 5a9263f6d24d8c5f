package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/palaver-chat/palaver/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUsernameTaken is returned when registering an existing username
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned when login credentials are invalid
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidUsername is returned when the username is empty or too long
	ErrInvalidUsername = errors.New("username must be 1-32 characters")
	// ErrWeakPassword is returned when the password is too short
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte limit
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrInvalidToken is returned when a token fails validation
	ErrInvalidToken = errors.New("invalid token")
)

// bcryptCost balances hashing time against brute-force resistance
const bcryptCost = 12

// defaultColors is the palette used when a user registers without
// picking a display color
var defaultColors = []string{
	"#FFD100",
	"#FF6AC1",
	"#00E676",
	"#00E5FF",
	"#FF5252",
	"#B388FF",
	"#FF9100",
	"#69F0AE",
}

// authClaims are the JWT claims carried by a login token
type authClaims struct {
	Username string `json:"username"`
	Color    string `json:"color"`
	jwt.RegisteredClaims
}

// AuthService verifies credentials and issues login tokens. It is the
// identity collaborator: the relay core only ever sees the resulting
// {username, color} pair.
type AuthService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
}

// NewAuthService creates an AuthService backed by the given database
// and migrates the user table.
func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) (*AuthService, error) {
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	if ttl <= 0 {
		ttl = domain.TokenTTL
	}
	return &AuthService{
		db:     db,
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// Register creates a new account. Usernames are unique here, at the
// identity layer, not in the live presence registry.
func (s *AuthService) Register(username, password, color string) (domain.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > 32 {
		return domain.Identity{}, ErrInvalidUsername
	}
	if len(password) < 8 {
		return domain.Identity{}, ErrWeakPassword
	}
	if len(password) > 72 {
		return domain.Identity{}, ErrPasswordTooLong
	}

	var count int64
	if err := s.db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return domain.Identity{}, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return domain.Identity{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	if color == "" {
		color = pickColor(username)
	}

	user := domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Color:        color,
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Identity{}, ErrUsernameTaken
		}
		return domain.Identity{}, fmt.Errorf("create user: %w", err)
	}

	return domain.Identity{Username: user.Username, Color: user.Color}, nil
}

// Login verifies credentials and returns the identity plus a signed
// token for the REST surface.
func (s *AuthService) Login(username, password string) (domain.Identity, string, error) {
	var user domain.User
	err := s.db.First(&user, "username = ?", strings.TrimSpace(username)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Identity{}, "", ErrInvalidCredentials
		}
		return domain.Identity{}, "", fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := authClaims{
		Username: user.Username,
		Color:    user.Color,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("sign token: %w", err)
	}

	return domain.Identity{Username: user.Username, Color: user.Color}, token, nil
}

// Verify validates a login token and returns the identity it carries
func (s *AuthService) Verify(tokenString string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{Username: claims.Username, Color: claims.Color}, nil
}

// pickColor maps a username onto the palette so re-registrations get a
// stable default
func pickColor(username string) string {
	var sum int
	for _, r := range username {
		sum += int(r)
	}
	return defaultColors[sum%len(defaultColors)]
}
