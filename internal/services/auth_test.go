package services

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		pw      string
		wantErr bool
	}{
		{"valid", "Password1", false},
		{"too short", "Pass1", true},
		{"no digit", "Passwordd", true},
		{"exactly eight with digit", "abcdefg1", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.pw)
			if tc.wantErr && err == nil {
				t.Errorf("Expected error for %q", tc.pw)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected error for %q: %v", tc.pw, err)
			}
		})
	}
}

func TestEmailRegex(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"no-at-sign.com", false},
		{"user@nodot", false},
		{"@example.com", false},
	}

	for _, tc := range tests {
		t.Run(tc.email, func(t *testing.T) {
			if got := emailRegex.MatchString(tc.email); got != tc.valid {
				t.Errorf("emailRegex.MatchString(%q) = %v, want %v", tc.email, got, tc.valid)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	tok, err := generateToken(32)
	if err != nil {
		t.Fatalf("generateToken failed: %v", err)
	}
	if len(tok) != 64 { // hex-encoded
		t.Errorf("Expected 64 hex chars, got %d", len(tok))
	}

	other, _ := generateToken(32)
	if tok == other {
		t.Error("Expected distinct tokens on consecutive calls")
	}
}
