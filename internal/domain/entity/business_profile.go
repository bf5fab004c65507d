package entity

import "time"

// BusinessProfile is the seller data printed on every invoice (one per user).
type BusinessProfile struct {
	ID            string
	UserID        string
	BusinessName  string
	GSTIN         string // normalized upper-case, optional for unregistered dealers
	PAN           string
	Address       string
	City          string
	State         string // compared with the customer state to pick IGST vs CGST+SGST
	Pincode       string
	Phone         string
	Email         string
	LogoPath      string
	InvoicePrefix string // default "INV"
	BankName      string
	AccountNumber string
	IFSC          string
	UPIID         string // VPA for the payment QR on the PDF
	Terms         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
