package ports

import (
	"context"

	"github.com/naai-app/naai/internal/core/domain"
)

// AuthAPI is the slice of the backend contract the session manager consumes.
type AuthAPI interface {
	Signup(ctx context.Context, input SignupInput) (domain.Session, error)
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Me(ctx context.Context) (domain.User, error)
}

// ShopAPI is the slice of the backend contract the shop screens consume.
type ShopAPI interface {
	ListShops(ctx context.Context, search, city string) ([]domain.Shop, error)
	CreateShop(ctx context.Context, input ShopInput) (domain.Shop, error)
	UpdateShop(ctx context.Context, shopID string, input ShopInput) (domain.Shop, error)
	AddShopService(ctx context.Context, shopID string, input ShopServiceInput) (domain.Shop, error)
	MyShop(ctx context.Context) (domain.Shop, error)
}

// SessionHook is what the API client needs from the session manager: the
// current token read on every call (so a rotation is honoured immediately),
// and the invalidation side effect triggered by a 401 response.
type SessionHook interface {
	Token() (string, bool)
	Invalidate()
}

// SessionBinder is implemented by API clients that accept a SessionHook
// after construction. The session manager binds itself through this during
// its own construction.
type SessionBinder interface {
	BindSession(SessionHook)
}

// SignupInput carries the signup form fields. Validated client-side before
// any network call is made.
type SignupInput struct {
	Name            string      `validate:"omitempty,max=120"`
	Email           string      `validate:"required,email"`
	Password        string      `validate:"required,min=6"`
	ConfirmPassword string      `validate:"required,eqfield=Password"`
	Role            domain.Role `validate:"required,oneof=customer barber"`
}

// ShopInput carries the shop create/update form fields.
type ShopInput struct {
	Name        string             `json:"name"                  validate:"required"`
	Description string             `json:"description,omitempty"`
	Address     string             `json:"address"               validate:"required"`
	City        string             `json:"city"                  validate:"required"`
	State       string             `json:"state,omitempty"`
	ZipCode     string             `json:"zipCode,omitempty"`
	Phone       string             `json:"phone,omitempty"`
	Email       string             `json:"email,omitempty"       validate:"omitempty,email"`
	Latitude    *float64           `json:"latitude,omitempty"`
	Longitude   *float64           `json:"longitude,omitempty"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	Services    []ShopServiceInput `json:"services,omitempty"`
}

// ShopServiceInput carries a single service offering to add to a shop.
type ShopServiceInput struct {
	Name        string  `json:"name"                  validate:"required"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"                 validate:"required,gt=0"`
	Duration    int     `json:"duration"              validate:"required,gt=0"`
}
