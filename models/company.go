package models

// Address is a normalized registered-office address. A missing upstream
// address yields the zero value, never a nil.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Town     string `json:"town"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// Company is the canonical, upstream-schema-independent company record.
// SICCodes are sorted lexicographically, not numerically; the ordering is
// part of the dossier's observable output.
type Company struct {
	CompanyNumber  string   `json:"companyNumber"`
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	Type           string   `json:"type"`
	IncorporatedOn string   `json:"incorporatedOn"`
	Address        Address  `json:"address"`
	SICCodes       []string `json:"sicCodes"`
}

// Officer is an ownership-free value object held only inside a Dossier.
// The birth day is deliberately never carried, only month and year.
type Officer struct {
	Name               string `json:"name"`
	Role               string `json:"role"`
	AppointedOn        string `json:"appointedOn"`
	ResignedOn         string `json:"resignedOn,omitempty"`
	Nationality        string `json:"nationality"`
	CountryOfResidence string `json:"countryOfResidence"`
	Occupation         string `json:"occupation"`
	BirthMonth         int    `json:"birthMonth,omitempty"`
	BirthYear          int    `json:"birthYear,omitempty"`
}

// PSC is a person with significant control, an ownership-free value object
// held only inside a Dossier.
type PSC struct {
	Name             string   `json:"name"`
	Kind             string   `json:"kind"`
	NotifiedOn       string   `json:"notifiedOn"`
	CeasedOn         string   `json:"ceasedOn,omitempty"`
	NaturesOfControl []string `json:"naturesOfControl"`
	Nationality      string   `json:"nationality"`
}

// IsCeased reports whether the PSC has a ceased date.
func (p *PSC) IsCeased() bool {
	return p.CeasedOn != ""
}

// ModernSlaveryStatement records a registry match. The registry signal does
// not carry signer identity or signing date, so SignedBy and SignedOn are
// emitted empty when a statement is found.
type ModernSlaveryStatement struct {
	URL       string `json:"url"`
	Compliant bool   `json:"compliant"`
	SignedBy  string `json:"signedBy"`
	SignedOn  string `json:"signedOn"`
}
