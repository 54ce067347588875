// internal/app/system/inputval/inputval_test.go
package inputval

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"simple address", "sponsor@example.org", true},
		{"with plus tag", "sponsor+boh@example.org", true},
		{"subdomain", "admin@mail.bridgeofhope.org", true},
		{"empty", "", false},
		{"missing at", "sponsor.example.org", false},
		{"missing domain", "sponsor@", false},
		{"display name form", "Sponsor <sponsor@example.org>", false},
		{"spaces inside", "spon sor@example.org", false},
		{"too long", strings.Repeat("a", 250) + "@example.org", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidAuthMethod(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{"password", true},
		{"google", true},
		{"", false},
		{"Password", false},
		{"saml", false},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := IsValidAuthMethod(tt.method); got != tt.want {
				t.Errorf("IsValidAuthMethod(%q) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestValidateSponsorID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"eight digits", "12345678", false},
		{"leading zeros", "00000001", false},
		{"seven digits", "1234567", true},
		{"nine digits", "123456789", true},
		{"letters", "1234567a", true},
		{"empty", "", true},
		{"spaces", "1234 678", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSponsorID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSponsorID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChildID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"ten digits", "1234567891", false},
		{"nine digits", "123456789", true},
		{"eleven digits", "12345678901", true},
		{"letters", "123456789x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChildID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChildID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCenterID(t *testing.T) {
	if err := ValidateCenterID("57890123"); err != nil {
		t.Errorf("ValidateCenterID(57890123) = %v, want nil", err)
	}
	if err := ValidateCenterID("5789012"); err == nil {
		t.Error("ValidateCenterID(5789012) = nil, want error")
	}
}

func TestValidateMessageText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"short message", "Hello from your sponsor!", false},
		{"exactly 200 chars", strings.Repeat("a", 200), false},
		{"201 chars", strings.Repeat("a", 201), true},
		{"empty", "", true},
		{"only whitespace", "   \n\t", true},
		{"200 multibyte runes", strings.Repeat("é", 200), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessageText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMessageText error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRoles(t *testing.T) {
	set, err := ValidateRoles([]string{"sponsor", "missionary", "sponsor"})
	if err != nil {
		t.Fatalf("ValidateRoles returned error: %v", err)
	}
	if len(set) != 2 {
		t.Errorf("expected duplicates collapsed, got %v", set)
	}

	if _, err := ValidateRoles(nil); err == nil {
		t.Error("expected error for empty role list")
	}
	if _, err := ValidateRoles([]string{"superuser"}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("hunter2"); err == nil {
		t.Error("expected error for 7-character password")
	}
	if err := ValidatePassword("correct horse battery"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
