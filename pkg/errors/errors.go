package errors

import "fmt"

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

var (
	ErrStakingDisabled            = "STAKING_DISABLED"
	ErrMachineExpired             = "MACHINE_EXPIRED"
	ErrSettingsMissing            = "SETTINGS_MISSING"
	ErrWalletMissing              = "WALLET_MISSING"
	ErrInsufficientBalance        = "INSUFFICIENT_BALANCE"
	ErrStakeLimitExceeded         = "STAKE_LIMIT_EXCEEDED"
	ErrStakeLimitExceededWithBurn = "STAKE_LIMIT_EXCEEDED_WITH_BURN"
	ErrPhaseNotActive             = "PHASE_NOT_ACTIVE"
	ErrPhaseNotJoined             = "PHASE_NOT_JOINED"
	ErrTxAborted                  = "TX_ABORTED"
	ErrNumericDegeneracy          = "NUMERIC_DEGENERACY"
	ErrPriceUnavailable           = "PRICE_UNAVAILABLE"
)

// CodeOf 返回错误上的业务码，非 AppError 返回空串。
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ""
}
