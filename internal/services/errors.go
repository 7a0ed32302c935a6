package services

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrUnauthorizedMethod  = errors.New("payment method does not belong to user")
	ErrCampaignNotActive   = errors.New("campaign is not accepting donations")
	ErrCampaignEnded       = errors.New("campaign end date has passed")
	ErrNotParticipant      = errors.New("user is not a participant of this group")
	ErrNotGroupAdmin       = errors.New("requires group admin or manager role")
	ErrAlreadyContributed  = errors.New("already contributed for this cycle")
	ErrWrongAmount         = errors.New("amount does not match the group contribution amount")
	ErrGroupCompleted      = errors.New("group has completed all cycles")
	ErrGroupFull           = errors.New("group already has one participant per cycle")
	ErrGroupStarted        = errors.New("group rotation has already started")
	ErrCycleIncomplete     = errors.New("cycle is not fully approved yet")
	ErrNoRecipient         = errors.New("no participant holds the payout position for this cycle")
	ErrLoanNotFundable     = errors.New("loan is not open for funding")
	ErrOwnLoan             = errors.New("cannot fund your own loan")
	ErrLoanNotRepayable    = errors.New("loan is not funded")
	ErrNotBorrower         = errors.New("only the borrower can repay")
	ErrPlanNotActive       = errors.New("savings plan is not active")
	ErrPlanNotMature       = errors.New("savings plan still has unpaid entries")
	ErrNotOwner            = errors.New("resource does not belong to user")
)
