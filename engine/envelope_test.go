package engine

import "testing"

func TestZeroEnvelopeIsMissing(t *testing.T) {
	var env Envelope
	if env.Status != StatusMissing {
		t.Fatalf("zero envelope must be the missing-callback state, got %v", env.Status)
	}
}

func TestEnvelopeConstructors(t *testing.T) {
	if env := OK("payload"); env.Status != StatusOK || env.Payload != "payload" {
		t.Errorf("OK: %+v", env)
	}
	if env := Fail("boom"); env.Status != StatusError || env.Err != "boom" {
		t.Errorf("Fail: %+v", env)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusMissing: "missing_callback",
		StatusOK:      "ok",
		StatusError:   "error",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}
