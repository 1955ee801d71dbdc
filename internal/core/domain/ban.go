package domain

import "time"

const (
	BanPermanent = "permanent"
	BanTemporary = "temporary"
)

// BanTimeFormat is the layout of BanStatus.ExpiresAtFormatted.
const BanTimeFormat = "2006-01-02 15:04:05 MST"

// Ban is a suspension record. A permanent ban has no expiry.
type Ban struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Reason    string     `json:"reason"`
	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Permanent bool       `json:"permanent"`
}

// ActiveAt reports whether the ban is in force at now.
func (b *Ban) ActiveAt(now time.Time) bool {
	if b.Permanent {
		return true
	}
	return b.ExpiresAt != nil && b.ExpiresAt.After(now)
}

// BanStatus is the evaluated ban state of a user at a point in time.
type BanStatus struct {
	Banned             bool       `json:"banned"`
	Type               string     `json:"type,omitempty"`
	Reason             string     `json:"reason,omitempty"`
	IssuedAt           *time.Time `json:"issued_at,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	ExpiresAtFormatted string     `json:"expires_at_formatted,omitempty"`
	ExpiresIn          int64      `json:"expires_in,omitempty"`
}

// ResolveBan picks the governing ban among bans: any permanent ban wins,
// otherwise the active temporary ban with the latest expiry. It returns nil
// when no ban is active at now.
func ResolveBan(bans []Ban, now time.Time) *Ban {
	var governing *Ban
	for i := range bans {
		b := &bans[i]
		if !b.ActiveAt(now) {
			continue
		}
		if b.Permanent {
			return b
		}
		if governing == nil || b.ExpiresAt.After(*governing.ExpiresAt) {
			governing = b
		}
	}
	return governing
}

// StatusOf evaluates the status produced by the governing ban b at now.
// A nil or inactive ban yields an unbanned status.
func StatusOf(b *Ban, now time.Time) BanStatus {
	if b == nil || !b.ActiveAt(now) {
		return BanStatus{}
	}
	issued := b.IssuedAt
	st := BanStatus{
		Banned:   true,
		Reason:   b.Reason,
		IssuedAt: &issued,
	}
	if b.Permanent {
		st.Type = BanPermanent
		return st
	}
	expires := *b.ExpiresAt
	st.Type = BanTemporary
	st.ExpiresAt = &expires
	st.ExpiresAtFormatted = expires.UTC().Format(BanTimeFormat)
	st.ExpiresIn = int64(expires.Sub(now).Seconds())
	return st
}
