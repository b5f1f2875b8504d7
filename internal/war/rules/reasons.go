package rules

import "WarSim/modules/kit/errx"

// Reason 是业务拒绝原因码，挂在 errx 错误的 data.reason 上，由适配层翻译成文案。
type Reason string

func (r Reason) ReasonCode() string { return string(r) }

const (
	ReasonInvalidQuantity      Reason = "INVALID_QUANTITY"
	ReasonInvalidName          Reason = "INVALID_NAME"
	ReasonSelfTarget           Reason = "SELF_TARGET"
	ReasonUnknownUnit          Reason = "UNKNOWN_UNIT"
	ReasonUnknownUpgrade       Reason = "UNKNOWN_UPGRADE"
	ReasonInsufficientFunds    Reason = "INSUFFICIENT_FUNDS"
	ReasonLevelTooLow          Reason = "LEVEL_TOO_LOW"
	ReasonUpgradeMaxLevel      Reason = "UPGRADE_MAX_LEVEL"
	ReasonAccrualNotDue        Reason = "ACCRUAL_NOT_DUE"
	ReasonTargetTooStrong      Reason = "TARGET_TOO_STRONG"
	ReasonCannotAttackAlly     Reason = "CANNOT_ATTACK_ALLY"
	ReasonInsufficientPower    Reason = "INSUFFICIENT_POWER"
	ReasonIntelligenceRequired Reason = "INTELLIGENCE_REQUIRED"
	ReasonAlreadyInAlliance    Reason = "ALREADY_IN_ALLIANCE"
	ReasonAllianceExists       Reason = "ALLIANCE_EXISTS"
	ReasonAllianceNotFound     Reason = "ALLIANCE_NOT_FOUND"
	ReasonNotInAlliance        Reason = "NOT_IN_ALLIANCE"
	ReasonNotAllianceLeader    Reason = "NOT_ALLIANCE_LEADER"
	ReasonCannotKickSelf       Reason = "CANNOT_KICK_SELF"
	ReasonNotSameAlliance      Reason = "NOT_SAME_ALLIANCE"
	ReasonTargetInAlliance     Reason = "TARGET_IN_ALLIANCE"
)

func Validation(r Reason) *errx.Error {
	return errx.ErrValidation.WithReason(r)
}

func Precondition(r Reason) *errx.Error {
	return errx.ErrPrecondition.WithReason(r)
}

func NotFound(r Reason) *errx.Error {
	return errx.ErrNotFound.WithReason(r)
}
