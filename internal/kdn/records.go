// Package kdn extracts the Home Ministry sanction list from its published
// PDF: individuals from section A, groups from section B.
package kdn

// Individual is one record of the list's section A. Blank source cells
// carry the "-" placeholder; the two date fields are normalized to
// "D Month YYYY" where the source format allows.
type Individual struct {
	ID              int    `json:"ID"`
	ReferenceNumber string `json:"REFERENCE_NUMBER"`
	Name            string `json:"NAME"`
	Salutation      string `json:"SALUTATION"`
	Occupation      string `json:"OCCUPATION"`
	DateOfBirth     string `json:"DATE_OF_BIRTH"`
	BirthPlace      string `json:"BIRTH_PLACE"`
	OtherName       string `json:"OTHER_NAME"`
	Nationality     string `json:"NATIONALITY"`
	PassportNumber  string `json:"PASSPORT_NUMBER"`
	IDNumber        string `json:"ID_NUMBER"`
	Address         string `json:"ADDRESS"`
	ListedDate      string `json:"LISTED_DATE"`
}

// Group is one record of the list's section B.
type Group struct {
	ID              int    `json:"ID"`
	ReferenceNumber string `json:"REFERENCE_NUMBER"`
	Name            string `json:"NAME"`
	Alias           string `json:"ALIAS"`
	OtherName       string `json:"OTHER_NAME"`
	Address         string `json:"ADDRESS"`
	ListedDate      string `json:"LISTED_DATE"`
}
