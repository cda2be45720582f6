package auth

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

type SignupInput struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Username  string `json:"username" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email,max=320"`
	Phone     string `json:"phone" validate:"max=32"`
	Password  string `json:"password" validate:"required"`
}

type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UpdateInput fields left nil are not touched.
type UpdateInput struct {
	FirstName *string `json:"firstName" validate:"omitnil,max=100"`
	LastName  *string `json:"lastName" validate:"omitnil,max=100"`
	Username  *string `json:"username" validate:"omitnil,min=1,max=50"`
	Email     *string `json:"email" validate:"omitnil,email,max=320"`
	Phone     *string `json:"phone" validate:"omitnil,max=32"`
	Password  *string `json:"password"`
}

// Service runs the signup, login and profile update flows. It never
// touches the HTTP response; attaching the session is the caller's job.
type Service struct {
	store    UserStore
	hasher   Hasher
	issuer   *TokenIssuer
	validate *validator.Validate

	// verified against when the login identifier matches no account
	dummyHash string
}

// NewService hashes a throwaway secret up front so a login for a missing
// account still pays for one bcrypt comparison.
func NewService(store UserStore, hasher Hasher, issuer *TokenIssuer) (*Service, error) {
	dummy, err := hasher.Hash(context.Background(), uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &Service{
		store:     store,
		hasher:    hasher,
		issuer:    issuer,
		validate:  v,
		dummyHash: dummy,
	}, nil
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = s.normalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return nil, "", err
	}

	// Only a shortcut: the store's unique constraint is the real guard.
	if _, err := s.store.FindByEmailOrUsername(ctx, in.Email, in.Username); err == nil {
		return nil, "", newError(ReasonDuplicate, "User already exists")
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, "", fmt.Errorf("uniqueness check: %w", err)
	}

	hashed, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, ErrSecretTooLong) {
			return nil, "", wrapError(ReasonBadRequest, "password must be at most 72 bytes", err)
		}
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:             uuid.NewString(),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Username:       in.Username,
		Email:          in.Email,
		Phone:          strings.TrimSpace(in.Phone),
		HashedPassword: hashed,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, "", wrapError(ReasonDuplicate, "User already exists", err)
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login fails with the same INVALID_CREDENTIALS error whether the account
// is missing or the password is wrong.
func (s *Service) Login(ctx context.Context, in LoginInput) (*User, string, error) {
	in.Identifier = strings.TrimSpace(in.Identifier)
	if err := s.check(in); err != nil {
		return nil, "", newError(ReasonBadRequest, "Missing email/username or password")
	}

	var (
		user *User
		err  error
	)
	if strings.Contains(in.Identifier, "@") {
		user, err = s.store.FindByEmail(ctx, s.normalizeEmail(in.Identifier))
	} else {
		user, err = s.store.FindByUsername(ctx, in.Identifier)
	}
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, "", fmt.Errorf("lookup user: %w", err)
		}
		// burn a comparable amount of time so a miss looks like a mismatch
		s.hasher.Verify(ctx, in.Password, s.dummyHash)
		return nil, "", invalidCredentials()
	}

	if !s.hasher.Verify(ctx, in.Password, user.HashedPassword) {
		return nil, "", invalidCredentials()
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	in.FirstName = trimmed(in.FirstName)
	in.LastName = trimmed(in.LastName)
	in.Username = trimmed(in.Username)
	in.Phone = trimmed(in.Phone)
	if in.Email != nil {
		email := s.normalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, newError(ReasonNotFound, "User not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := s.hasher.Hash(ctx, *in.Password)
		if err != nil {
			if errors.Is(err, ErrSecretTooLong) {
				return nil, wrapError(ReasonBadRequest, "password must be at most 72 bytes", err)
			}
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.store.Save(ctx, user); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUser):
			return nil, wrapError(ReasonDuplicate, "Username or email already in use", err)
		case errors.Is(err, ErrUserNotFound):
			return nil, newError(ReasonNotFound, "User not found")
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return newError(ReasonBadRequest, fe.Field()+" is required")
		}
		return newError(ReasonBadRequest, fe.Field()+" is invalid")
	}
	return wrapError(ReasonBadRequest, "invalid request", err)
}

// normalizeEmail case-folds the address. A Caser holds state, so each call
// gets its own.
func (s *Service) normalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func invalidCredentials() *Error {
	return newError(ReasonInvalidCredentials, "Invalid credentials")
}
