package jwttoken

import (
	"muniadmin/internal/platform/middleware"
)

// MiddlewareVerifier adapts Service to the auth middleware's TokenVerifier
// interface so the middleware package stays free of JWT specifics.
type MiddlewareVerifier struct {
	svc *Service
}

func NewMiddlewareVerifier(svc *Service) *MiddlewareVerifier {
	return &MiddlewareVerifier{svc: svc}
}

func (v *MiddlewareVerifier) Verify(tokenString string) (*middleware.Claims, error) {
	claims, err := v.svc.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{
		UserID:      claims.UserID,
		Username:    claims.Username,
		Permissions: claims.Permissions,
	}, nil
}
