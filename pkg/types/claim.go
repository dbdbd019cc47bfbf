package types

import "fmt"

// ClaimMessagePrefix is the fixed text every donor signs. The registry
// rebuilds the same string to verify the signature, so it must not change.
const ClaimMessagePrefix = "Assign accumulated Scavenger rights to: "

// ClaimMessage returns the exact message a donor signs for recipient.
func ClaimMessage(recipient string) string {
	return ClaimMessagePrefix + recipient
}

// Claim binds a donor to a recipient with the donor's signature.
type Claim struct {
	Recipient string `json:"recipient"`
	Donor     string `json:"donor"`
	Signature string `json:"signature"`
}

// Validate checks that every field is present.
func (c Claim) Validate() error {
	switch {
	case c.Recipient == "":
		return fmt.Errorf("claim recipient is empty")
	case c.Donor == "":
		return fmt.Errorf("claim donor is empty")
	case c.Signature == "":
		return fmt.Errorf("claim signature is empty")
	}
	return nil
}

// WalletInput is one donor wallet read from a wallet file.
type WalletInput struct {
	WalletNumber string
	Mnemonic     []string
	WalletName   string
}

// Status is the processing state of a wallet.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	// StatusPending is never recorded as a final result.
	StatusPending Status = "pending"
)

// IsTerminal reports whether s is a final state.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// WalletResult is the outcome of processing one donor wallet.
type WalletResult struct {
	WalletNumber          string `json:"walletNumber"`
	WalletName            string `json:"walletName"`
	DonorAddress          string `json:"donorAddress,omitempty"`
	Status                Status `json:"status"`
	Message               string `json:"message,omitempty"`
	Error                 string `json:"error,omitempty"`
	SolutionsConsolidated int    `json:"solutionsConsolidated"`
}

// Detail returns the text to show for this result: the error for failures
// that carry one, otherwise the message.
func (r WalletResult) Detail() string {
	if r.Status != StatusSuccess && r.Error != "" {
		return r.Error
	}
	return r.Message
}
