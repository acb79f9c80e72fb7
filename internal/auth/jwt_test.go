package auth

import "testing"

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken("secret", 42, "sam@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Email != "sam@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.ID == "" {
		t.Error("missing JTI")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", 42, "sam@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateToken("other", token); err == nil {
		t.Error("token accepted with wrong secret")
	}
}

func TestValidateGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not.a.token"); err == nil {
		t.Error("garbage accepted")
	}
}

func TestUniqueJTI(t *testing.T) {
	a, err := GenerateToken("secret", 1, "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateToken("secret", 1, "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	ca, _ := ValidateToken("secret", a)
	cb, _ := ValidateToken("secret", b)
	if ca.ID == cb.ID {
		t.Error("two tokens share a JTI")
	}
}
