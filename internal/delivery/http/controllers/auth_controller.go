package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "outreachengine/internal/delivery/http/helpers"
	"outreachengine/internal/domain"
)

// TokenRequest is the request body for POST /auth/token
type TokenRequest struct {
	Key string `json:"key"`
}

// Validate implements Validator.
func (t TokenRequest) Validate() []string {
	var errs []string
	if t.Key == "" {
		errs = append(errs, "key is required")
	}
	return errs
}

// TokenResponse is the response body for POST /auth/token
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Token godoc
// @Summary Exchange the operator key for an API token
// @Description Authenticate with the operator key. Returns a JWT for the protected endpoints.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body TokenRequest true "Operator key"
// @Success 200 {object} helpers.APIResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/token [post]
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.IssueToken(r.Context(), req.Key)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid operator key")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"})
}
