package models

// Identity is the minimal authenticated-user record, independent of role.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type MemberProfile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Banned      bool   `json:"banned"`
}

type AdminProfile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type ProfileKind string

const (
	KindMember ProfileKind = "member"
	KindAdmin  ProfileKind = "admin"
)

// Profile is a tagged union: exactly one of Member/Admin is set, selected by
// Kind. A session never carries both role shapes at once.
type Profile struct {
	Kind   ProfileKind
	Member *MemberProfile
	Admin  *AdminProfile
}

func MemberOf(p MemberProfile) Profile {
	return Profile{Kind: KindMember, Member: &p}
}

func AdminOf(p AdminProfile) Profile {
	return Profile{Kind: KindAdmin, Admin: &p}
}

// Banned reports whether the profile is a banned member. Admin profiles have
// no ban flag.
func (p Profile) Banned() bool {
	return p.Kind == KindMember && p.Member != nil && p.Member.Banned
}

// CartLine is one quantity-keyed entry of the persisted cart.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
