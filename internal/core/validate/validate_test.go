package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
)

func problems(t *testing.T, err error) []string {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return ve.Problems
}

func TestStructValidInput(t *testing.T) {
	input := ports.SignupInput{
		Name:            "Ann",
		Email:           "a@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            domain.RoleBarber,
	}
	if err := Struct(input); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestStructSignupMessages(t *testing.T) {
	cases := []struct {
		name  string
		input ports.SignupInput
		want  string
	}{
		{
			"missing email",
			ports.SignupInput{Password: "secret1", ConfirmPassword: "secret1", Role: domain.RoleCustomer},
			"email is required",
		},
		{
			"bad email",
			ports.SignupInput{Email: "nope", Password: "secret1", ConfirmPassword: "secret1", Role: domain.RoleCustomer},
			"email must be a valid email",
		},
		{
			"short password",
			ports.SignupInput{Email: "a@x.com", Password: "abc", ConfirmPassword: "abc", Role: domain.RoleCustomer},
			"password must be at least 6 characters",
		},
		{
			"password mismatch",
			ports.SignupInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret2", Role: domain.RoleCustomer},
			"passwords do not match",
		},
		{
			"bad role",
			ports.SignupInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1", Role: "admin"},
			"role must be one of: customer barber",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := problems(t, Struct(tc.input))
			for _, p := range got {
				if p == tc.want {
					return
				}
			}
			t.Fatalf("problems %v do not include %q", got, tc.want)
		})
	}
}

func TestStructCollectsAllProblems(t *testing.T) {
	err := Struct(ports.SignupInput{})
	got := problems(t, err)
	if len(got) < 3 {
		t.Fatalf("expected every failing field reported, got %v", got)
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Fatalf("expected joined message, got %q", err.Error())
	}
}

func TestStructShopInput(t *testing.T) {
	if err := Struct(ports.ShopInput{Name: "Fade Factory", Address: "1 Main St", City: "Brooklyn"}); err != nil {
		t.Fatalf("valid shop rejected: %v", err)
	}

	got := problems(t, Struct(ports.ShopInput{Email: "not-an-email"}))
	want := map[string]bool{
		"name is required":            false,
		"address is required":         false,
		"city is required":            false,
		"email must be a valid email": false,
	}
	for _, p := range got {
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for msg, seen := range want {
		if !seen {
			t.Fatalf("missing problem %q in %v", msg, got)
		}
	}
}

func TestStructShopServiceInput(t *testing.T) {
	if err := Struct(ports.ShopServiceInput{Name: "Skin fade", Price: 30, Duration: 45}); err != nil {
		t.Fatalf("valid service rejected: %v", err)
	}

	got := problems(t, Struct(ports.ShopServiceInput{Name: "Free cut", Price: 0, Duration: -5}))
	joined := strings.Join(got, "; ")
	if !strings.Contains(joined, "price") || !strings.Contains(joined, "duration") {
		t.Fatalf("expected price and duration problems, got %v", got)
	}
}
