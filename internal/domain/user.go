package domain

// User is the backend's user record. WalletBalance is authoritative on the
// backend only; the client never computes it locally.
type User struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	FullName      string  `json:"full_name"`
	WalletBalance float64 `json:"wallet_balance"`
	CreatedAt     Time    `json:"created_at"`
}
