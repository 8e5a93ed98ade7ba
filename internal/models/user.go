package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	XP           int        `json:"xp"`
	Badges       string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// Level is a deterministic function of cumulative XP: floor(xp/100)+1.
func (u *User) Level() int {
	return u.XP/100 + 1
}

// BadgeList splits the comma-joined badge column into a slice.
func (u *User) BadgeList() []string {
	if u.Badges == "" {
		return []string{}
	}
	return strings.Split(u.Badges, ",")
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserProgress struct {
	UserID         uuid.UUID `json:"user_id"`
	XP             int       `json:"xp"`
	Level          int       `json:"level"`
	XPToNextLevel  int       `json:"xp_to_next_level"`
	Badges         []string  `json:"badges"`
	GamesCompleted int       `json:"games_completed"`
	TotalScore     int       `json:"total_score"`
}

type LeaderboardEntry struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	XP       int       `json:"xp"`
	Level    int       `json:"level"`
	Rank     int       `json:"rank"`
}
