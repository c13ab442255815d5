package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"reader-booking/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// GenerateToken mints a signed bearer token for the given account.
func GenerateToken(userID int64, role models.Role, secret string, ttl time.Duration) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("utils.GenerateToken: %w", err)
	}
	return signed, nil
}

// ExtractUserInfo reads the authenticated user's id and role that the JWT
// middleware stored in the request context.
func ExtractUserInfo(c echo.Context) (int64, models.Role, error) {
	userID, ok := c.Get("userID").(int64)
	if !ok {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	role, ok := c.Get("userRole").(models.Role)
	if !ok {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return userID, role, nil
}

// GetPageLimit parses pagination params, clamping to the allowed page sizes.
func GetPageLimit(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		limit = models.LimitSmall
	}
	switch limit {
	case models.LimitSmall, models.LimitMedium, models.LimitLarge:
	default:
		limit = models.LimitSmall
	}
	return page, limit
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
