package viewset

import "testing"

func TestToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User", "user"},
		{"UserProfile", "user_profile"},
		{"HTTPServer", "http_server"},
		{"APIKey", "api_key"},
		{"userV2", "user_v_2"},
		{"already_snake", "already_snake"},
		{"With Space", "with_space"},
		{"with-dash", "with_dash"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := toSnake(tt.in); got != tt.want {
				t.Errorf("toSnake(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResourceName(t *testing.T) {
	type OrderItem struct{ ID string }

	if got := resourceName[OrderItem](); got != "order_item" {
		t.Errorf("resourceName[OrderItem]() = %q, want %q", got, "order_item")
	}
	if got := resourceName[*OrderItem](); got != "order_item" {
		t.Errorf("resourceName[*OrderItem]() = %q, want %q", got, "order_item")
	}
	if got := resourceName[map[string]any](); got == "" {
		t.Error("resourceName for an unnamed type should still produce something")
	}
}
