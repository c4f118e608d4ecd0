package domain

const (
	RoleClient = "CLIENT"
	RoleAdmin  = "ADMIN"
)

// Order statuses. Only these three values are ever stored.
const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "approved"
	OrderStatusRejected = "rejected"
)

// Legacy fulfillment vocabulary still sent by older callers.
const (
	legacyStatusDone       = "done"
	legacyStatusOnProgress = "onProgress"
)

// Ledger entry types. Amounts are always positive; direction comes from the type.
const (
	TxTypePay    = "pay"
	TxTypeRefund = "refund"
	TxTypeCredit = "credit"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

const PaymentProviderStripe = "stripe"

// Ad services that can be purchased.
const (
	ServiceFacebook  = "facebook"
	ServiceTikTok    = "tiktok"
	ServiceSnapchat  = "snapchat"
	ServiceGoogleAds = "google_ads"
)

// NormalizeOrderStatus maps any accepted spelling to the canonical status.
// The second return is false for unknown values.
func NormalizeOrderStatus(s string) (string, bool) {
	switch s {
	case OrderStatusPending, legacyStatusOnProgress:
		return OrderStatusPending, true
	case OrderStatusApproved, legacyStatusDone:
		return OrderStatusApproved, true
	case OrderStatusRejected:
		return OrderStatusRejected, true
	}
	return "", false
}

// IsTerminalStatus reports whether an order in this status can no longer change.
func IsTerminalStatus(s string) bool {
	return s == OrderStatusApproved || s == OrderStatusRejected
}

// IsCredit reports whether a ledger entry of this type adds to the wallet.
func IsCredit(txType string) bool {
	return txType == TxTypeRefund || txType == TxTypeCredit
}
