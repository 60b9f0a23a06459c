package wompi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Transaction is the slice of Wompi's transaction object the backend cares
// about. Amounts are in cents, COP included.
type Transaction struct {
	ID           string `json:"id"`
	Status       string `json:"status"` // APPROVED, DECLINED, PENDING, VOIDED, ERROR
	Reference    string `json:"reference"`
	AmountCents  int64  `json:"amount_in_cents"`
	Currency     string `json:"currency"`
	CustomerMail string `json:"customer_email"`
}

// Event is the webhook body Wompi POSTs on transaction updates.
type Event struct {
	Event string `json:"event"` // e.g. "transaction.updated"
	Data  struct {
		Transaction Transaction `json:"transaction"`
	} `json:"data"`
	Signature struct {
		Checksum   string   `json:"checksum"`
		Properties []string `json:"properties"`
	} `json:"signature"`
	Timestamp   int64  `json:"timestamp"`
	Environment string `json:"environment"`
}

const EventTransactionUpdated = "transaction.updated"

const StatusApproved = "APPROVED"

// IntegritySignature is the checksum embedded in a checkout session:
// sha256(reference + amount_in_cents + currency + integrity_secret). Wompi
// recomputes it before honoring the session.
func IntegritySignature(reference string, amountCents int64, currency, secret string) string {
	sum := sha256.Sum256([]byte(reference + strconv.FormatInt(amountCents, 10) + currency + secret))
	return hex.EncodeToString(sum[:])
}

// ExpectedChecksum recomputes the event checksum: the values of the declared
// signature properties concatenated in order, then the timestamp, then the
// events secret, all through sha256.
func (e *Event) ExpectedChecksum(eventsSecret string) string {
	var concat string
	for _, prop := range e.Signature.Properties {
		concat += e.propertyValue(prop)
	}
	concat += strconv.FormatInt(e.Timestamp, 10) + eventsSecret
	sum := sha256.Sum256([]byte(concat))
	return hex.EncodeToString(sum[:])
}

// ValidChecksum reports whether the checksum Wompi sent matches the one
// recomputed with the events secret.
func (e *Event) ValidChecksum(eventsSecret string) bool {
	return e.Signature.Checksum != "" && e.ExpectedChecksum(eventsSecret) == e.Signature.Checksum
}

func (e *Event) propertyValue(path string) string {
	switch path {
	case "transaction.id":
		return e.Data.Transaction.ID
	case "transaction.status":
		return e.Data.Transaction.Status
	case "transaction.reference":
		return e.Data.Transaction.Reference
	case "transaction.amount_in_cents":
		return strconv.FormatInt(e.Data.Transaction.AmountCents, 10)
	case "transaction.currency":
		return e.Data.Transaction.Currency
	default:
		return ""
	}
}

// Client fetches transactions from the Wompi REST API.
type Client struct {
	BaseURL   string
	PublicKey string
	client    *http.Client
}

func NewClient(baseURL, publicKey string) *Client {
	if baseURL == "" {
		baseURL = "https://production.wompi.co/v1"
	}
	return &Client{
		BaseURL:   baseURL,
		PublicKey: publicKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// GetTransaction fetches a transaction by id, useful to re-check a payment
// when a webhook is in doubt.
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/transactions/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.PublicKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wompi: get transaction %s: status %d", id, resp.StatusCode)
	}
	var out struct {
		Data Transaction `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
