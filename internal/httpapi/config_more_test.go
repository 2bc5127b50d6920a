package httpapi

import "testing"

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	SetMaxBodyBytes(1234)
	defer SetMaxBodyBytes(0)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetRequestTimeoutSeconds_NormalizesNegativeToZero(t *testing.T) {
	SetRequestTimeoutSeconds(-5)
	if requestTimeout != 0 {
		t.Fatalf("expected 0, got %d", requestTimeout)
	}
	SetRequestTimeoutSeconds(3)
	if requestTimeout != 3 {
		t.Fatalf("expected 3, got %d", requestTimeout)
	}
	SetRequestTimeoutSeconds(0)
}

func TestSetUploadMaxBytes(t *testing.T) {
	SetUploadMaxBytes(0)
	if uploadMaxBytes != 20<<20 {
		t.Fatalf("expected default 20MiB, got %d", uploadMaxBytes)
	}
	SetUploadMaxBytes(10)
	if uploadMaxBytes != 10 {
		t.Fatalf("expected 10, got %d", uploadMaxBytes)
	}
	SetUploadMaxBytes(-1)
}
