package protocol

import "testing"

func TestHeadersGet(t *testing.T) {
	headers := Headers{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "X-Multi", Value: "first"},
		{Name: "X-Multi", Value: "second"},
	}

	if got := headers.Get("content-type"); got != "application/json" {
		t.Errorf("Get(content-type) = %q", got)
	}
	if got := headers.Get("X-Multi"); got != "first" {
		t.Errorf("Get(X-Multi) = %q, want first match", got)
	}
	if got := headers.Get("Missing"); got != "" {
		t.Errorf("Get(Missing) = %q, want empty", got)
	}
	if got := Headers(nil).Get("Anything"); got != "" {
		t.Errorf("nil Headers Get = %q, want empty", got)
	}
}
