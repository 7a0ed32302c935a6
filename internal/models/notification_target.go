package models

// NotificationTarget is what a notification points at. The old schema kept a
// free-form (reference_type, reference_id) pair resolved by a switch; here
// the pair is a closed set of variants so an unknown type cannot be
// constructed and forgetting a case is a compile error at the switch sites.
type NotificationTarget interface {
	notificationTarget()
}

type TransactionTarget struct{ ID string }
type CampaignTarget struct{ ID string }
type LoanTarget struct{ ID string }
type NoTarget struct{}

func (TransactionTarget) notificationTarget() {}
func (CampaignTarget) notificationTarget()    {}
func (LoanTarget) notificationTarget()        {}
func (NoTarget) notificationTarget()          {}

const (
	targetTransaction = "transaction"
	targetCampaign    = "campaign"
	targetLoan        = "loan"
)

// EncodeTarget flattens a target into the nullable column pair stored on the
// notifications row.
func EncodeTarget(target NotificationTarget) (referenceType, referenceID *string) {
	switch t := target.(type) {
	case TransactionTarget:
		return ptr(targetTransaction), ptr(t.ID)
	case CampaignTarget:
		return ptr(targetCampaign), ptr(t.ID)
	case LoanTarget:
		return ptr(targetLoan), ptr(t.ID)
	default:
		return nil, nil
	}
}

// DecodeTarget rebuilds the variant from stored columns. Rows written before
// the variant set existed may carry an unknown type string; those decode to
// NoTarget rather than failing the read.
func DecodeTarget(referenceType, referenceID *string) NotificationTarget {
	if referenceType == nil || referenceID == nil {
		return NoTarget{}
	}
	switch *referenceType {
	case targetTransaction:
		return TransactionTarget{ID: *referenceID}
	case targetCampaign:
		return CampaignTarget{ID: *referenceID}
	case targetLoan:
		return LoanTarget{ID: *referenceID}
	default:
		return NoTarget{}
	}
}

func ptr(value string) *string {
	return &value
}
