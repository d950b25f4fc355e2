package errors

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
)

// HTTPStatus maps a policy error to the status code the transport layer
// should return. Unknown errors map to 500.
func HTTPStatus(err error) int {
	var (
		insufficientFunds *InsufficientFundsError
		limitExceeded     *WithdrawalLimitExceededError
		kycTier           *InsufficientKycTierError
		unauthorized      *UnauthorizedError
		suspended         *AccountSuspendedError
		rateLimited       *RateLimitExceededError
	)
	switch {
	case stderrors.As(err, &insufficientFunds), stderrors.As(err, &limitExceeded):
		return fiber.StatusBadRequest
	case stderrors.As(err, &kycTier), stderrors.As(err, &unauthorized), stderrors.As(err, &suspended):
		return fiber.StatusForbidden
	case stderrors.As(err, &rateLimited):
		return fiber.StatusTooManyRequests
	}
	return fiber.StatusInternalServerError
}

// UserMessage returns the sanitized message for a policy error. Repository
// causes and anything unrecognized collapse to a generic message so database
// internals never leak.
func UserMessage(err error) string {
	var repo *RepositoryError
	if stderrors.As(err, &repo) {
		return "an internal error occurred, please try again"
	}
	switch HTTPStatus(err) {
	case fiber.StatusInternalServerError:
		return "an internal error occurred, please try again"
	default:
		return err.Error()
	}
}
