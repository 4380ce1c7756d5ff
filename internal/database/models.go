package database

// Journal statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusApology = "apology"
)

// RelayRecord is one relay attempt from the source chat to the destination.
// CreatedAt is stored as unix seconds.
type RelayRecord struct {
	ID        int64  `db:"id"`
	RelayID   string `db:"relay_id"`
	Platform  string `db:"platform"`
	ChatID    int64  `db:"chat_id"`
	MessageID int64  `db:"message_id"`
	UserID    int64  `db:"user_id"`
	Kind      string `db:"kind"`
	Status    string `db:"status"`
	Error     string `db:"error"`
	CreatedAt int64  `db:"created_at"`
}

// ReportRecord is one escalated report.
type ReportRecord struct {
	ID        int64  `db:"id"`
	Platform  string `db:"platform"`
	ChatID    int64  `db:"chat_id"`
	UserID    int64  `db:"user_id"`
	Status    string `db:"status"`
	Error     string `db:"error"`
	CreatedAt int64  `db:"created_at"`
}

// Stats aggregates journal rows over a time window, keyed by status.
type Stats struct {
	Relays  map[string]int
	Reports map[string]int
}
