package identity

import "testing"

func TestFromEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		want    string
		wantErr bool
	}{
		{
			name:  "valid address",
			email: "sam@example.com",
			want:  "sam@example.com",
		},
		{
			name:  "uppercase is normalized",
			email: "Sam@Example.COM",
			want:  "sam@example.com",
		},
		{
			name:  "surrounding whitespace trimmed",
			email: "  sam@example.com ",
			want:  "sam@example.com",
		},
		{
			name:  "plus addressing",
			email: "sam+makeover@example.com",
			want:  "sam+makeover@example.com",
		},
		{
			name:    "empty",
			email:   "",
			wantErr: true,
		},
		{
			name:    "missing at sign",
			email:   "sam.example.com",
			wantErr: true,
		},
		{
			name:    "missing domain dot",
			email:   "sam@example",
			wantErr: true,
		},
		{
			name:    "whitespace inside",
			email:   "sam smith@example.com",
			wantErr: true,
		},
		{
			name:    "double at",
			email:   "sam@@example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromEmail(tt.email)
			if tt.wantErr {
				if err == nil {
					t.Errorf("FromEmail(%q) expected error, got nil", tt.email)
				}
				return
			}
			if err != nil {
				t.Errorf("FromEmail(%q) unexpected error = %v", tt.email, err)
				return
			}
			if got.Email() != tt.want {
				t.Errorf("Email() = %q, want %q", got.Email(), tt.want)
			}
			if got.IsAnonymous() {
				t.Errorf("IsAnonymous() = true for identified identity")
			}
		})
	}
}

func TestAnonymous(t *testing.T) {
	anon := Anonymous()
	if !anon.IsAnonymous() {
		t.Errorf("Anonymous().IsAnonymous() = false")
	}
	if anon.Email() != "" {
		t.Errorf("Anonymous().Email() = %q, want empty", anon.Email())
	}
	if anon.String() != "anonymous" {
		t.Errorf("Anonymous().String() = %q", anon.String())
	}
}

func TestZeroValueIsAnonymous(t *testing.T) {
	var ident Identity
	if !ident.IsAnonymous() {
		t.Errorf("zero value should be anonymous")
	}
}
