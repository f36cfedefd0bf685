package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tharsan/event-booking-api/internal/config"
	"github.com/tharsan/event-booking-api/internal/model"
	"github.com/tharsan/event-booking-api/internal/repository"
	"github.com/tharsan/event-booking-api/internal/utils"
)

// PasswordResetHandler implements the one-time-code flow: request a code by
// email, optionally pre-validate it, then consume it to set a new password.
type PasswordResetHandler struct {
	Users      UserStore
	Mail       Mailer
	OTPTTL     time.Duration
	BcryptCost int
}

func NewPasswordResetHandler(users UserStore, mail Mailer, cfg config.Config) *PasswordResetHandler {
	return &PasswordResetHandler{
		Users:      users,
		Mail:       mail,
		OTPTTL:     time.Duration(cfg.OTPTTLMin) * time.Minute,
		BcryptCost: cfg.BcryptCost,
	}
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}
type verifyOTPReq struct {
	OTP string `json:"otp"`
}
type resetPasswordReq struct {
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// ForgotPassword generates a 6-digit code, stores it on the user row
// (replacing any earlier pending code) and mails it. The sequence is a small
// saga: if mail dispatch fails the stored code is cleared again so no
// undeliverable code stays live.
func (h *PasswordResetHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	code, err := utils.NewResetCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "code generation failed"})
	}
	expiresAt := time.Now().UTC().Add(h.OTPTTL)
	if err := h.Users.SetResetCode(ctx, u.ID, code, expiresAt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save code failed"})
	}

	if err := h.Mail.SendPasswordReset(u.Email, code); err != nil {
		// Compensate: an unmailed code must not remain usable.
		_ = h.Users.ClearResetCode(ctx, u.ID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sending reset mail failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset code sent to your email"})
}

// VerifyOTP checks that a code exists and has not expired. It deliberately
// does not consume the code: clients pre-validate it before prompting for
// the new password, and the code stays live until reset or natural expiry.
func (h *PasswordResetHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.OTP) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "otp is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.lookupValidCode(ctx, req.OTP); err != nil {
		return h.codeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "otp verified successfully"})
}

// ResetPassword consumes a valid code: the new password hash is written and
// the code cleared in one statement, so the same code can never reset twice.
func (h *PasswordResetHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.OTP) == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "otp and new_password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.lookupValidCode(ctx, req.OTP)
	if err != nil {
		return h.codeError(c, err)
	}

	hash, err := utils.HashPassword(req.NewPassword, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	if err := h.Users.ResetPassword(ctx, u.ID, req.OTP, hash); err != nil {
		return h.codeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successful"})
}

// lookupValidCode resolves a code to its user and checks expiry. An expired
// code reports the same error as an unknown one.
func (h *PasswordResetHandler) lookupValidCode(ctx context.Context, code string) (model.User, error) {
	u, err := h.Users.GetByResetCode(ctx, code)
	if err != nil {
		return model.User{}, err
	}
	if u.ResetCodeExpiresAt == nil || time.Now().UTC().After(*u.ResetCodeExpiresAt) {
		return model.User{}, repository.ErrResetCodeInvalid
	}
	return u, nil
}

func (h *PasswordResetHandler) codeError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrResetCodeInvalid) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired otp"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
}
