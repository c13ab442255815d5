package middleware

import (
	"errors"
	"net/http"

	"reader-booking/internal/models"
	"reader-booking/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTAuth configures Echo's JWT middleware for bearer tokens signed with
// jwtSecretKey. On success the user's id and role are placed into the
// request context for handlers to read via utils.ExtractUserInfo.
func JWTAuth(jwtSecretKey string) echo.MiddlewareFunc {
	config := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(models.JwtCustomClaims)
		},
		SigningKey: []byte(jwtSecretKey),
		SuccessHandler: func(c echo.Context) {
			userToken := c.Get("user").(*jwt.Token)
			claims := userToken.Claims.(*models.JwtCustomClaims)
			c.Set("userID", claims.UserID)
			c.Set("userRole", claims.Role)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			c.Logger().Errorf("JWT error: %v", err)
			switch {
			case errors.Is(err, echojwt.ErrJWTMissing):
				return utils.RespondWithError(c, http.StatusUnauthorized, "Missing or malformed JWT")
			case errors.Is(err, jwt.ErrTokenExpired):
				return utils.RespondWithError(c, http.StatusUnauthorized, "Token has expired")
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				return utils.RespondWithError(c, http.StatusUnauthorized, "Invalid token signature")
			default:
				return utils.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired JWT")
			}
		},
	}
	return echojwt.WithConfig(config)
}

// AdminRequired rejects requests from non-admin accounts.
func AdminRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("userRole").(models.Role)
			if !ok || role != models.RoleAdmin {
				return utils.RespondWithError(c, http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}
