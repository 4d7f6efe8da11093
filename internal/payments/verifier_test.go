package payments

import (
	"errors"
	"testing"
)

func TestVerifierAcceptsValidSignature(t *testing.T) {
	v := NewVerifier("whsec_test")
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	if err := v.Verify(body, Sign("whsec_test", body)); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifierRejectsTamperedBody(t *testing.T) {
	v := NewVerifier("whsec_test")
	body := []byte(`{"amount":2000}`)
	sig := Sign("whsec_test", body)
	tampered := []byte(`{"amount":9000}`)
	if err := v.Verify(tampered, sig); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifierRejectsWrongSecret(t *testing.T) {
	v := NewVerifier("whsec_test")
	body := []byte(`{}`)
	if err := v.Verify(body, Sign("other-secret", body)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifierRejectsMissingOrBadSignature(t *testing.T) {
	v := NewVerifier("whsec_test")
	body := []byte(`{}`)
	for _, sig := range []string{"", "not-hex!!", "deadbeef"} {
		if err := v.Verify(body, sig); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("signature %q: expected ErrInvalidSignature, got %v", sig, err)
		}
	}
}

func TestVerifierRejectsWhenSecretUnset(t *testing.T) {
	v := NewVerifier("")
	body := []byte(`{}`)
	if err := v.Verify(body, Sign("", body)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("empty secret must reject everything, got %v", err)
	}
}
