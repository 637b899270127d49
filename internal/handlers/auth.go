package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ospanov/bar-exchange/internal/hash"
	"github.com/ospanov/bar-exchange/internal/logging"
	"github.com/ospanov/bar-exchange/internal/models"
	"github.com/ospanov/bar-exchange/internal/service/token"
	"github.com/ospanov/bar-exchange/internal/transport"
)

type AuthHandler struct {
	DB     *gorm.DB
	Tokens *token.TokenService
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !hash.CheckPassword(user.PasswordHash, req.Password)) {
		l.Warn("login_rejected", "username", req.Username)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	access, err := h.Tokens.SignAccessToken(user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	l.Info("login_ok", "username", req.Username)
	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: access})
}
