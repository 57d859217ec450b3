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

func TestSetSpeakTimeoutSeconds_NormalizesNegativeToZero(t *testing.T) {
	SetSpeakTimeoutSeconds(-5)
	if speakTimeout != 0 {
		t.Fatalf("expected 0, got %d", speakTimeout)
	}
	SetSpeakTimeoutSeconds(3)
	if speakTimeout != 3 {
		t.Fatalf("expected 3, got %d", speakTimeout)
	}
	SetSpeakTimeoutSeconds(0)
}

func TestSetCORSOptions_CopiesSlices(t *testing.T) {
	origins := []string{"http://a.example"}
	SetCORSOptions(true, origins, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)

	origins[0] = "http://mutated.example"
	if corsAllowedOrigins[0] != "http://a.example" {
		t.Fatalf("origins not copied: %v", corsAllowedOrigins)
	}
}
