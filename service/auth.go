package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hako/branca"
	"github.com/nicolasparada/go-errs"

	"github.com/gatherapp/gather/auth"
	"github.com/gatherapp/gather/id"
	"github.com/gatherapp/gather/types"
)

const authTokenTTL = 14 * 24 * time.Hour

var (
	// ErrInvalidToken denotes an invalid token.
	ErrInvalidToken = errs.InvalidArgumentError("invalid token")
	// ErrExpiredToken denotes that the token already expired.
	ErrExpiredToken = errs.UnauthenticatedError("expired token")
	// ErrInvalidUserID denotes a token that decodes to garbage.
	ErrInvalidUserID = errs.InvalidArgumentError("invalid user ID")
)

// Login signs the user in by email, creating the account on first use.
// The nick defaults to the email's local part until the user updates it.
func (s *Service) Login(ctx context.Context, in types.Login) (types.LoginOutput, error) {
	var out types.LoginOutput

	if err := in.Validate(); err != nil {
		return out, err
	}

	nick, _, _ := strings.Cut(in.Email, "@")
	user, err := s.Cockroach.UpsertUserByEmail(ctx, in.Email, nick)
	if err != nil {
		return out, err
	}

	token, err := s.codec().EncodeToString(user.ID)
	if err != nil {
		return out, fmt.Errorf("encode auth token: %w", err)
	}

	out.User = user
	out.Token = token
	out.ExpiresAt = s.clock.Now().Add(authTokenTTL)

	return out, nil
}

// AuthUserIDFromToken decodes the token into a user ID.
func (s *Service) AuthUserIDFromToken(token string) (string, error) {
	uid, err := s.codec().DecodeToString(token)
	if err != nil {
		if errors.Is(err, branca.ErrInvalidToken) || errors.Is(err, branca.ErrInvalidTokenVersion) {
			return "", ErrInvalidToken
		}

		if _, ok := err.(*branca.ErrExpiredToken); ok {
			return "", ErrExpiredToken
		}

		// branca surfaces a bad key as a chacha20poly1305 failure.
		if strings.HasSuffix(err.Error(), "authentication failed") {
			return "", errs.Unauthenticated
		}

		return "", fmt.Errorf("decode auth token: %w", err)
	}

	if !id.Valid(uid) {
		return "", ErrInvalidUserID
	}

	return uid, nil
}

// UserFromToken resolves a bearer token to its user.
func (s *Service) UserFromToken(ctx context.Context, token string) (types.User, error) {
	uid, err := s.AuthUserIDFromToken(token)
	if err != nil {
		return types.User{}, err
	}
	return s.Cockroach.User(ctx, uid)
}

// AuthUser is the current authenticated user.
func (s *Service) AuthUser(ctx context.Context) (types.User, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return types.User{}, errs.Unauthenticated
	}
	return user, nil
}

func (s *Service) codec() *branca.Branca {
	cdc := branca.NewBranca(s.tokenKey)
	cdc.SetTTL(uint32(authTokenTTL.Seconds()))
	return cdc
}
