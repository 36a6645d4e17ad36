package models

// Raw upstream records as parsed off the Companies House wire. Field names
// follow the upstream snake_case schema; everything downstream of the
// normalizers is schema-independent.

type RawAddress struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	Premises     string `json:"premises"`
	Locality     string `json:"locality"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

type RawNextAccounts struct {
	Overdue bool   `json:"overdue"`
	DueOn   string `json:"due_on"`
}

type RawAccounts struct {
	Overdue      bool            `json:"overdue"`
	NextDue      string          `json:"next_due"`
	NextAccounts RawNextAccounts `json:"next_accounts"`
}

type RawConfirmationStatement struct {
	Overdue bool   `json:"overdue"`
	NextDue string `json:"next_due"`
}

type RawCompanyLinks struct {
	PSCStatements string `json:"persons_with_significant_control_statements"`
}

type RawCompanyProfile struct {
	CompanyName             string                   `json:"company_name"`
	CompanyNumber           string                   `json:"company_number"`
	CompanyStatus           string                   `json:"company_status"`
	Type                    string                   `json:"type"`
	DateOfCreation          string                   `json:"date_of_creation"`
	RegisteredOfficeAddress RawAddress               `json:"registered_office_address"`
	SICCodes                []string                 `json:"sic_codes"`
	Accounts                RawAccounts              `json:"accounts"`
	ConfirmationStatement   RawConfirmationStatement `json:"confirmation_statement"`
	HasInsolvencyHistory    bool                     `json:"has_insolvency_history"`
	HasBeenLiquidated       bool                     `json:"has_been_liquidated"`
	Links                   RawCompanyLinks          `json:"links"`
}

type RawDateOfBirth struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

type RawOfficer struct {
	Name               string          `json:"name"`
	OfficerRole        string          `json:"officer_role"`
	AppointedOn        string          `json:"appointed_on"`
	ResignedOn         string          `json:"resigned_on"`
	DateOfBirth        *RawDateOfBirth `json:"date_of_birth"`
	Nationality        string          `json:"nationality"`
	CountryOfResidence string          `json:"country_of_residence"`
	Occupation         string          `json:"occupation"`
}

type RawOfficerList struct {
	Items        []RawOfficer `json:"items"`
	TotalResults int          `json:"total_results"`
}

type RawPSC struct {
	Name             string   `json:"name"`
	Kind             string   `json:"kind"`
	NotifiedOn       string   `json:"notified_on"`
	CeasedOn         string   `json:"ceased_on"`
	NaturesOfControl []string `json:"natures_of_control"`
	Nationality      string   `json:"nationality"`
}

type RawPSCList struct {
	Items        []RawPSC `json:"items"`
	TotalResults int      `json:"total_results"`
}

// RawSlaveryLookup is the modern-slavery registry signal. A registry miss is
// Found=false, not an error.
type RawSlaveryLookup struct {
	Found       bool   `json:"found"`
	URL         string `json:"url"`
	CompanyName string `json:"company_name"`
}
