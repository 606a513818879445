package models

// Mode is the ephemeral conversation state of a single user. It decides
// how the next plain-text message is interpreted. A user has at most
// one mode at a time; it lives in process memory only.
type Mode string

const (
	ModeNone           Mode = ""
	ModeAwaitingNumber Mode = "awaiting_number"

	ModeAdminAddCredit    Mode = "admin_add_credit"
	ModeAdminRemoveCredit Mode = "admin_remove_credit"
	ModeAdminBan          Mode = "admin_ban"
	ModeAdminUnban        Mode = "admin_unban"
	ModeAdminBroadcast    Mode = "admin_broadcast"
)

// IsAdmin reports whether the mode belongs to the admin console.
func (m Mode) IsAdmin() bool {
	switch m {
	case ModeAdminAddCredit, ModeAdminRemoveCredit, ModeAdminBan, ModeAdminUnban, ModeAdminBroadcast:
		return true
	}
	return false
}
