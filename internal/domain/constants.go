package domain

const (
	RoleOwner = "OWNER"
	RoleAdmin = "ADMIN"
)

// Listing lifecycle. Only draft, in_review, published and rejected are touched
// by the payment lifecycle; the rest are set by owners or the admin panel.
const (
	ListingDraft          = "draft"
	ListingPendingPayment = "pending_payment"
	ListingInReview       = "in_review"
	ListingPublished      = "published"
	ListingRejected       = "rejected"
	ListingSold           = "sold"
	ListingRented         = "rented"
	ListingPaused         = "paused"
	ListingExpired        = "expired"
)

const (
	VerificationPendingDocuments = "pending_documents"
	VerificationPendingReview    = "pending_review"
	VerificationVerified         = "verified"
	VerificationRejected         = "rejected"
)

const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

const (
	NotificationVerificationReminder = "verification_reminder"
	NotificationVerificationUrgent   = "verification_urgent"
)

const (
	OfferSale = "sale"
	OfferRent = "rent"
)

var PropertyTypes = []string{"casa", "apartamento", "lote", "finca", "local"}
