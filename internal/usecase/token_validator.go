package usecase

import (
	"booking-core/internal/domain/user"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/jwt"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// TokenValidator resolves a bearer token to the requester it was issued for.
type TokenValidator interface {
	ValidateToken(tokenString string) (shared.Actor, error)
}

type tokenValidator struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidator{jwtService: jwtService}
}

func (v *tokenValidator) ValidateToken(tokenString string) (shared.Actor, error) {
	claims, err := v.jwtService.ValidateToken(tokenString)
	if err != nil {
		return shared.Actor{}, err
	}
	if claims.UserID == uuid.Nil {
		return shared.Actor{}, errs.Wrap(jwt.ErrInvalidToken, "token has no subject")
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return shared.Actor{}, errs.Wrap(jwt.ErrInvalidToken, err.Error())
	}

	return shared.Actor{UserID: claims.UserID, Role: role}, nil
}
