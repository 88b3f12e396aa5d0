package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hktplatform.app/api/common/ethsig"
	"hktplatform.app/api/common/id"
	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/service"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{service.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
	{service.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
	{service.ErrInvalidName, http.StatusBadRequest, "invalid_request"},
	{service.ErrInvalidRole, http.StatusBadRequest, "invalid_request"},
	{service.ErrInvalidProperty, http.StatusBadRequest, "invalid_property"},
	{service.ErrInvalidPost, http.StatusBadRequest, "invalid_post"},
	{service.ErrInvalidChain, http.StatusBadRequest, "invalid_chain"},
	{service.ErrInvalidChat, http.StatusBadRequest, "invalid_chat"},
	{service.ErrInvalidContact, http.StatusBadRequest, "invalid_request"},
	{service.ErrInvalidTokens, http.StatusBadRequest, "invalid_tokens"},
	{service.ErrInvalidCode, http.StatusBadRequest, "invalid_code"},
	{service.ErrCheckInPast, http.StatusBadRequest, "check_in_past"},
	{service.ErrChainUnavailable, http.StatusBadRequest, "chain_unavailable"},
	{service.ErrSignatureMismatch, http.StatusBadRequest, "signature_mismatch"},
	{domain.ErrInvalidDates, http.StatusBadRequest, "invalid_dates"},
	{domain.ErrMinimumStay, http.StatusBadRequest, "minimum_stay"},
	{domain.ErrInvalidGuests, http.StatusBadRequest, "invalid_guests"},
	{ethsig.ErrInvalidAddress, http.StatusBadRequest, "invalid_address"},
	{ethsig.ErrInvalidSignature, http.StatusBadRequest, "invalid_signature"},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrSessionExpired, http.StatusUnauthorized, "session_expired"},

	{service.ErrUserInactive, http.StatusForbidden, "user_inactive"},
	{service.ErrSelfDemote, http.StatusForbidden, "forbidden"},

	{service.ErrUserNotFound, http.StatusNotFound, "not_found"},
	{service.ErrPropertyNotFound, http.StatusNotFound, "not_found"},
	{service.ErrBookingNotFound, http.StatusNotFound, "not_found"},
	{service.ErrInvestmentNotFound, http.StatusNotFound, "not_found"},
	{service.ErrPostNotFound, http.StatusNotFound, "not_found"},
	{service.ErrChainNotFound, http.StatusNotFound, "not_found"},
	{service.ErrWalletNotFound, http.StatusNotFound, "not_found"},
	{service.ErrChallengeNotFound, http.StatusNotFound, "not_found"},
	{service.ErrUnknownSymbol, http.StatusNotFound, "unknown_symbol"},

	{service.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{service.ErrBookingConflict, http.StatusConflict, "booking_conflict"},
	{service.ErrAlreadyPaid, http.StatusConflict, "already_paid"},
	{service.ErrNotPayable, http.StatusConflict, "not_payable"},
	{domain.ErrNotCancellable, http.StatusConflict, "not_cancellable"},
	{domain.ErrCancellationWindow, http.StatusConflict, "cancellation_window"},
	{service.ErrInsufficientTokens, http.StatusConflict, "insufficient_tokens"},
	{service.ErrNotInvestable, http.StatusConflict, "not_investable"},
	{service.ErrInvestmentCancelled, http.StatusConflict, "already_cancelled"},
	{service.ErrChallengeUsed, http.StatusConflict, "challenge_used"},

	{service.ErrChallengeExpired, http.StatusGone, "challenge_expired"},

	{service.ErrBalanceUnavailable, http.StatusBadGateway, "balance_unavailable"},

	{service.ErrAssistantUnavailable, http.StatusServiceUnavailable, "assistant_unavailable"},
	{service.ErrSSODisabled, http.StatusServiceUnavailable, "sso_disabled"},
	{service.ErrPriceUnavailable, http.StatusServiceUnavailable, "price_unavailable"},
}

// respondError maps known service errors to their status and code. Anything
// else is logged and reported as "failed to <action>".
func respondError(c *gin.Context, err error, action string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": err.Error(), "code": m.code})
			return
		}
	}

	slog.ErrorContext(c.Request.Context(), "failed to "+action, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action, "code": "internal_error"})
}

func badRequest(c *gin.Context, err error) {
	slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_request"})
}

// pathID parses a snowflake path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name, "code": "invalid_request"})
		return 0, false
	}
	return v, true
}
