package credentials

import (
	"strings"
	"testing"
)

func TestGeneratePassword(t *testing.T) {
	t.Run("generates password of correct length", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			password, err := GeneratePassword()
			if err != nil {
				t.Fatalf("GeneratePassword() error = %v", err)
			}
			if len(password) != passwordLength {
				t.Errorf("password length = %d, want %d", len(password), passwordLength)
			}
		}
	})

	t.Run("generates unique passwords", func(t *testing.T) {
		passwords := make(map[string]bool)
		for i := 0; i < 50; i++ {
			password, err := GeneratePassword()
			if err != nil {
				t.Fatalf("GeneratePassword() error = %v", err)
			}
			if passwords[password] {
				t.Errorf("duplicate password generated: %s", password)
			}
			passwords[password] = true
		}
	})

	t.Run("avoids ambiguous characters", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			password, _ := GeneratePassword()
			if strings.ContainsAny(password, "0O1lI") {
				t.Errorf("password %q contains ambiguous characters", password)
			}
		}
	})
}

func TestGenerateLoginEmail(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		wantLocal string
	}{
		{"plain name", "sammy", "sammy-"},
		{"name with spaces", "Sammy Jr", "sammy.jr-"},
		{"name with symbols", "s@mmy!", "smmy-"},
		{"empty name falls back", "", "child-"},
		{"symbols only falls back", "@!#", "child-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := GenerateLoginEmail(tt.username, "children.example.com")
			if err != nil {
				t.Fatalf("GenerateLoginEmail() error = %v", err)
			}
			if !strings.HasPrefix(email, tt.wantLocal) {
				t.Errorf("email %q, want prefix %q", email, tt.wantLocal)
			}
			if !strings.HasSuffix(email, "@children.example.com") {
				t.Errorf("email %q, want domain suffix", email)
			}
		})
	}

	t.Run("identifiers are unique per call", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			email, err := GenerateLoginEmail("sammy", "children.example.com")
			if err != nil {
				t.Fatalf("GenerateLoginEmail() error = %v", err)
			}
			if seen[email] {
				t.Errorf("duplicate login identifier generated: %s", email)
			}
			seen[email] = true
		}
	})
}
