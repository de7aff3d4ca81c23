//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestPortalScreenshotOptions(t *testing.T) {
	prevToken := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prevToken })

	tests := []struct {
		name       string
		opts       Options
		wantCursor string
	}{
		{name: "defaults", opts: Options{}, wantCursor: "hidden"},
		{name: "interactive with cursor", opts: Options{Interactive: true, IncludeCursor: true}, wantCursor: "embedded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := portalScreenshotOptions(tc.opts)

			if got := boolVariant(t, values, "interactive"); got != tc.opts.Interactive {
				t.Fatalf("interactive = %v, want %v", got, tc.opts.Interactive)
			}
			if got := boolVariant(t, values, "modal"); got != tc.opts.Interactive {
				t.Fatalf("modal = %v, want %v", got, tc.opts.Interactive)
			}
			if got := stringVariant(t, values, "cursor_mode"); got != tc.wantCursor {
				t.Fatalf("cursor_mode = %q, want %q", got, tc.wantCursor)
			}
			if got := stringVariant(t, values, "handle_token"); got != "test-token" {
				t.Fatalf("handle_token = %q, want %q", got, "test-token")
			}
			if len(values) != 4 {
				t.Fatalf("expected 4 options, got %d", len(values))
			}
		})
	}
}

func TestResponsePath(t *testing.T) {
	ok := map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%20from%20today.png")}
	path, err := responsePath([]interface{}{uint32(0), ok})
	if err != nil {
		t.Fatalf("responsePath: %v", err)
	}
	if path != "/tmp/Screenshot from today.png" {
		t.Fatalf("path = %q", path)
	}

	if _, err := responsePath([]interface{}{uint32(1), ok}); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	bad := []struct {
		name string
		body []interface{}
	}{
		{"short", []interface{}{uint32(0)}},
		{"missing uri", []interface{}{uint32(0), map[string]dbus.Variant{}}},
		{"not file", []interface{}{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("https://example.com/a.png")}}},
		{"wrong type", []interface{}{uint32(0), "nope"}},
	}
	for _, tc := range bad {
		if _, err := responsePath(tc.body); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func boolVariant(t *testing.T, values map[string]dbus.Variant, key string) bool {
	t.Helper()
	variant, ok := values[key]
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	v, ok := variant.Value().(bool)
	if !ok {
		t.Fatalf("key %q value is %T, want bool", key, variant.Value())
	}
	return v
}

func stringVariant(t *testing.T, values map[string]dbus.Variant, key string) string {
	t.Helper()
	variant, ok := values[key]
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	v, ok := variant.Value().(string)
	if !ok {
		t.Fatalf("key %q value is %T, want string", key, variant.Value())
	}
	return v
}
