package validate

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"plain gmail address", "user@gmail.com", true},
		{"uppercase domain", "user@GMAIL.COM", true},
		{"mixed case", "User@Gmail.Com", true},
		{"odd local part still accepted", "!!weird..local!!@gmail.com", true},
		{"bare domain suffix", "@gmail.com", true},
		{"other provider", "user@yahoo.com", false},
		{"missing domain", "user", false},
		{"empty string", "", false},
		{"gmail not at end", "user@gmail.com.evil.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"all rules satisfied", "Abc123!", true},
		{"no uppercase", "abc123!", false},
		{"no lowercase", "ABC123!", false},
		{"no digit", "Abcdef!", false},
		{"no special char", "Abcdef1", false},
		{"too short", "Ab1!", false},
		{"exactly six chars", "Ab1!cd", true},
		{"empty string", "", false},
		{"long with all classes", `Tr0ub4dor&3xtra`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPassword(tt.password); got != tt.want {
				t.Errorf("IsValidPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}
