package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/exactmatch/internal/domain"
)

type AccountUC struct {
	Users  domain.UserRepo
	Hasher domain.PasswordHasher
	Tokens domain.TokenIssuer
}

// GoogleProfile is the subset of the userinfo document used for sign-in.
type GoogleProfile struct {
	Email      string
	GivenName  string
	FamilyName string
}

func (uc *AccountUC) Register(ctx context.Context, in domain.RegisterInput) (domain.Session, error) {
	if err := in.Validate(); err != nil {
		return domain.Session{}, err
	}
	verr := &domain.ValidationError{}
	if _, err := uc.Users.FindByUsername(ctx, in.Username); err == nil {
		verr.Add("username", "a user with that username already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, err
	}
	if _, err := uc.Users.FindByEmail(ctx, in.Email); err == nil {
		verr.Add("email", "a user with that email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, err
	}
	if err := verr.Err(); err != nil {
		return domain.Session{}, err
	}

	hash, err := uc.Hasher.Hash(in.Password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := uc.Users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Session{}, domain.NewValidationError("username", "a user with that username already exists")
		}
		return domain.Session{}, err
	}
	log.Info().Uint("user_id", u.ID).Msg("user registered")
	return uc.session(u)
}

// Login checks the password of username and issues a token.
func (uc *AccountUC) Login(ctx context.Context, username, password string) (domain.Session, error) {
	u, err := uc.Users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Session{}, err
	}
	if u.PasswordHash == "" || uc.Hasher.Compare(u.PasswordHash, password) != nil {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	return uc.session(u)
}

func (uc *AccountUC) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	u, err := uc.Users.FindByID(ctx, actor.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	return u, err
}

// Authenticate resolves a bearer token to the actor it was issued for.
func (uc *AccountUC) Authenticate(token string) (domain.Actor, error) {
	a, err := uc.Tokens.Verify(token)
	if err != nil {
		return domain.Actor{}, domain.ErrUnauthorized
	}
	return a, nil
}

// GoogleLogin signs in the account owning the Google e-mail, creating it on
// first use with a username derived from the address.
func (uc *AccountUC) GoogleLogin(ctx context.Context, p GoogleProfile) (domain.Session, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		return domain.Session{}, domain.NewValidationError("email", "google account has no e-mail")
	}
	u, err := uc.Users.FindByEmail(ctx, email)
	if err == nil {
		return uc.session(u)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, err
	}
	username, err := uc.freeUsername(ctx, email)
	if err != nil {
		return domain.Session{}, err
	}
	u = &domain.User{Username: username, Email: email, FirstName: p.GivenName, LastName: p.FamilyName}
	if err := uc.Users.Create(ctx, u); err != nil {
		return domain.Session{}, err
	}
	log.Info().Uint("user_id", u.ID).Msg("user created from google sign-in")
	return uc.session(u)
}

func (uc *AccountUC) freeUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		base = email[:at]
	}
	if len(base) < 3 {
		base += "user"
	}
	if len(base) > 140 {
		base = base[:140]
	}
	name := base
	for i := 2; ; i++ {
		_, err := uc.Users.FindByUsername(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
}

func (uc *AccountUC) session(u *domain.User) (domain.Session, error) {
	tok, exp, err := uc.Tokens.Issue(u)
	if err != nil {
		return domain.Session{}, fmt.Errorf("issue token: %w", err)
	}
	return domain.Session{Token: tok, ExpiresAt: exp, User: u}, nil
}
