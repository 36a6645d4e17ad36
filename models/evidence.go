package models

// EvidenceInput describes a fetched upstream resource before an id has been
// assigned to it.
type EvidenceInput struct {
	APIURL    string `json:"apiUrl"`
	PublicURL string `json:"publicUrl,omitempty"`
	FetchedAt string `json:"fetchedAt"`
	FromCache bool   `json:"fromCache"`
}

// Evidence is a provenance record citing the upstream source of a piece of
// dossier data. ID is a pure function of APIURL, so two records citing the
// same API URL always share an id regardless of when they were fetched.
type Evidence struct {
	ID        string `json:"id"`
	APIURL    string `json:"apiUrl"`
	PublicURL string `json:"publicUrl,omitempty"`
	FetchedAt string `json:"fetchedAt"`
	FromCache bool   `json:"fromCache"`
}
