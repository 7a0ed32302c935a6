package models

import "time"

type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Wallet is the user's custodial HTG balance. BalanceHTG is in centimes and
// must never go negative; every mutation happens under a row lock inside a
// serializable transaction.
type Wallet struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	BalanceHTG int64     `db:"balance_htg" json:"balance_htg"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// LinkedAccount is an external bank/mobile/card/crypto/cash account a user
// has attached for funding and payouts.
type LinkedAccount struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Type          string    `db:"type" json:"type"`
	Label         string    `db:"label" json:"label"`
	AccountNumber *string   `db:"account_number" json:"account_number,omitempty"`
	SwiftBic      *string   `db:"swift_bic" json:"swift_bic,omitempty"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Transaction is the append-only record of one wallet mutation. Type always
// holds one of the Type* constants; the old type_id/type split is gone.
// Amount is positive, Direction says which way it moved; an operation that
// touches two wallets writes one row per wallet.
type Transaction struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	WalletID        string    `db:"wallet_id" json:"wallet_id"`
	Type            string    `db:"type" json:"type"`
	Direction       string    `db:"direction" json:"direction"`
	Status          string    `db:"status" json:"status"`
	Amount          int64     `db:"amount" json:"amount"`
	Currency        string    `db:"currency" json:"currency"`
	ReferenceType   *string   `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID     *string   `db:"reference_id" json:"reference_id,omitempty"`
	Metadata        string    `db:"metadata" json:"metadata"`
	ClientRequestID *string   `db:"client_request_id" json:"client_request_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

const (
	TypeDeposit          = "deposit"
	TypeWithdrawal       = "withdrawal"
	TypeDonation         = "donation"
	TypeSolContribution  = "sol_contribution"
	TypeSolPayout        = "sol_payout"
	TypeTiKanePayment    = "ti_kane_payment"
	TypeTiKaneWithdrawal = "ti_kane_withdrawal"
	TypeLoanFunding      = "loan_funding"
	TypeLoanRepayment    = "loan_repayment"
)

const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Campaign struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	GoalAmount  int64     `db:"goal_amount" json:"goal_amount"`
	Status      string    `db:"status" json:"status"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const (
	CampaignPending = "pending"
	CampaignActive  = "active"
	CampaignEnded   = "ended"
)

type Donation struct {
	ID         string    `db:"id" json:"id"`
	CampaignID string    `db:"campaign_id" json:"campaign_id"`
	DonorID    string    `db:"donor_id" json:"donor_id"`
	Amount     int64     `db:"amount" json:"amount"`
	Message    *string   `db:"message" json:"message,omitempty"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CampaignUpdate struct {
	ID         string    `db:"id" json:"id"`
	CampaignID string    `db:"campaign_id" json:"campaign_id"`
	AuthorID   string    `db:"author_id" json:"author_id"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SolGroup is a rotating savings circle. Each cycle every participant
// contributes ContributionAmount and one participant receives the pot.
type SolGroup struct {
	ID                 string    `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	CreatedBy          string    `db:"created_by" json:"created_by"`
	ContributionAmount int64     `db:"contribution_amount" json:"contribution_amount"`
	Frequency          string    `db:"frequency" json:"frequency"`
	TotalCycles        int       `db:"total_cycles" json:"total_cycles"`
	CurrentCycle       int       `db:"current_cycle" json:"current_cycle"`
	Status             string    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

const (
	SolGroupActive    = "active"
	SolGroupCompleted = "completed"
)

type SolParticipant struct {
	ID       string    `db:"id" json:"id"`
	GroupID  string    `db:"group_id" json:"group_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	Role     string    `db:"role" json:"role"`
	Position int       `db:"position" json:"position"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

const (
	SolRoleAdmin   = "admin"
	SolRoleManager = "manager"
	SolRoleMember  = "member"
)

type SolContribution struct {
	ID            string     `db:"id" json:"id"`
	GroupID       string     `db:"group_id" json:"group_id"`
	UserID        string     `db:"user_id" json:"user_id"`
	Cycle         int        `db:"cycle" json:"cycle"`
	Amount        int64      `db:"amount" json:"amount"`
	Status        string     `db:"status" json:"status"`
	TransactionID *string    `db:"transaction_id" json:"transaction_id,omitempty"`
	ApprovedBy    *string    `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

const (
	ContributionPending  = "pending"
	ContributionApproved = "approved"
)

type SolPayoutEvent struct {
	ID            string    `db:"id" json:"id"`
	GroupID       string    `db:"group_id" json:"group_id"`
	Cycle         int       `db:"cycle" json:"cycle"`
	RecipientID   string    `db:"recipient_id" json:"recipient_id"`
	Amount        int64     `db:"amount" json:"amount"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Loan struct {
	ID             string     `db:"id" json:"id"`
	BorrowerID     string     `db:"borrower_id" json:"borrower_id"`
	LenderID       *string    `db:"lender_id" json:"lender_id,omitempty"`
	Amount         int64      `db:"amount" json:"amount"`
	InterestRate   string     `db:"interest_rate" json:"interest_rate"`
	DurationMonths int        `db:"duration_months" json:"duration_months"`
	Status         string     `db:"status" json:"status"`
	FundedAt       *time.Time `db:"funded_at" json:"funded_at,omitempty"`
	RepaidAt       *time.Time `db:"repaid_at" json:"repaid_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

const (
	LoanPending = "pending"
	LoanFunded  = "funded"
	LoanRepaid  = "repaid"
)

type Notification struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Type          string    `db:"type" json:"type"`
	Message       string    `db:"message" json:"message"`
	ReferenceType *string   `db:"reference_type" json:"-"`
	ReferenceID   *string   `db:"reference_id" json:"-"`
	IsRead        bool      `db:"is_read" json:"is_read"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type PaymentMethod struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Label     string    `db:"label" json:"label"`
	Details   string    `db:"details" json:"details"`
	IsDefault bool      `db:"is_default" json:"is_default"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TiKaneAccount is a fixed-schedule savings plan: TotalPayments scheduled
// payments of AmountPerPayment each, with a maturity withdrawal at the end.
type TiKaneAccount struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	Name             string    `db:"name" json:"name"`
	AmountPerPayment int64     `db:"amount_per_payment" json:"amount_per_payment"`
	Frequency        string    `db:"frequency" json:"frequency"`
	TotalPayments    int       `db:"total_payments" json:"total_payments"`
	StartDate        time.Time `db:"start_date" json:"start_date"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

const (
	TiKaneActive    = "active"
	TiKaneCompleted = "completed"
)

type TiKanePayment struct {
	ID            string     `db:"id" json:"id"`
	AccountID     string     `db:"account_id" json:"account_id"`
	DayNumber     int        `db:"day_number" json:"day_number"`
	DueDate       time.Time  `db:"due_date" json:"due_date"`
	Amount        int64      `db:"amount" json:"amount"`
	Status        string     `db:"status" json:"status"`
	TransactionID *string    `db:"transaction_id" json:"transaction_id,omitempty"`
	PaidAt        *time.Time `db:"paid_at" json:"paid_at,omitempty"`
}

const (
	TiKanePaymentDue  = "due"
	TiKanePaymentPaid = "paid"
)

type Activity struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   string    `db:"entity_id" json:"entity_id"`
	Data       string    `db:"data" json:"data"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
