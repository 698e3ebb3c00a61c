package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Bill and receipt numbers need to be human-friendly and collision-proof.
// Timestamp-only schemes collide under concurrent generation, so the display
// codes carry a UUID-derived suffix and the database enforces uniqueness.

// NewBillNo returns a display code like "BILL202404-1a2b3c4d".
func NewBillNo(year, month int) string {
	return fmt.Sprintf("BILL%d%02d-%s", year, month, shortID())
}

// NewReceiptNo returns a display code like "REC-1a2b3c4d".
func NewReceiptNo() string {
	return fmt.Sprintf("REC-%s", shortID())
}

// NewTransactionID returns a full UUID string.
func NewTransactionID() string {
	return uuid.NewString()
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
