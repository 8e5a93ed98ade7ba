package models

import (
	"reflect"
	"testing"
)

func TestUserLevel(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{1000, 11},
	}

	for _, tc := range tests {
		u := &User{XP: tc.xp}
		if got := u.Level(); got != tc.level {
			t.Errorf("Level() with xp=%d = %d, want %d", tc.xp, got, tc.level)
		}
	}
}

func TestUserBadgeList(t *testing.T) {
	tests := []struct {
		name   string
		badges string
		want   []string
	}{
		{"empty", "", []string{}},
		{"single", "Perfect Score", []string{"Perfect Score"}},
		{"multiple", "Perfect Score,Speed Learner", []string{"Perfect Score", "Speed Learner"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{Badges: tc.badges}
			if got := u.BadgeList(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("BadgeList() = %v, want %v", got, tc.want)
			}
		})
	}
}
