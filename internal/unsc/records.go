// Package unsc maps the Security Council consolidated-list XML onto the
// published JSON snapshot.
package unsc

// List is the top-level snapshot. The three LIST_ fields carry the root
// element's relocated attributes; the two slices are always present and
// never null.
type List struct {
	XMLNamespaceXSI string       `json:"LIST_XMLNS_XSI"`
	SchemaLocation  string       `json:"LIST_SCHEMA_LOCATION"`
	DateGenerated   string       `json:"LIST_DATE_GENERATED"`
	Individuals     []Individual `json:"INDIVIDUALS"`
	Entities        []Entity     `json:"ENTITIES"`
}

// Individual is one listed person. Fields without omitempty form the
// serialization contract with downstream consumers: they appear in every
// record, list-typed ones as [] rather than null or a missing key.
type Individual struct {
	DataID          any          `json:"DATAID"`
	VersionNum      any          `json:"VERSIONNUM"`
	FirstName       string       `json:"FIRST_NAME"`
	SecondName      string       `json:"SECOND_NAME"`
	ThirdName       string       `json:"THIRD_NAME"`
	FourthName      string       `json:"FOURTH_NAME"`
	UNListType      string       `json:"UN_LIST_TYPE"`
	ReferenceNumber string       `json:"REFERENCE_NUMBER"`
	Comments        string       `json:"COMMENTS1"`
	Nationality     []string     `json:"NATIONALITY"`
	ListedOn        string       `json:"LISTED_ON"`
	OriginalScript  string       `json:"NAME_ORIGINAL_SCRIPT"`
	SubmittedBy     string       `json:"SUBMITTED_BY"`
	Aliases         []Alias      `json:"INDIVIDUAL_ALIAS"`
	Addresses       []Address    `json:"INDIVIDUAL_ADDRESS"`
	BirthDates      []BirthDate  `json:"INDIVIDUAL_DATE_OF_BIRTH"`
	BirthPlaces     []BirthPlace `json:"INDIVIDUAL_PLACE_OF_BIRTH"`
	Documents       []Document   `json:"INDIVIDUAL_DOCUMENT"`
	Gender          string       `json:"GENDER"`
	Designations    []string     `json:"DESIGNATION"`
	NationalIDs     []string     `json:"NATIONAL_ID"`
	Passports       []string     `json:"PASSPORT"`
	OtherInfo       string       `json:"OTHER_INFORMATION"`

	Titles         []string `json:"TITLE,omitempty"`
	ListTypes      []string `json:"LIST_TYPE,omitempty"`
	LastDayUpdated []string `json:"LAST_DAY_UPDATED,omitempty"`
	SortKey        string   `json:"SORT_KEY,omitempty"`
	SortKeyLastMod string   `json:"SORT_KEY_LAST_MOD,omitempty"`
	DelistedOn     string   `json:"DELISTED_ON,omitempty"`
}

// Entity is one listed organisation.
type Entity struct {
	DataID          any       `json:"DATAID"`
	VersionNum      any       `json:"VERSIONNUM"`
	FirstName       string    `json:"FIRST_NAME"`
	UNListType      string    `json:"UN_LIST_TYPE"`
	ReferenceNumber string    `json:"REFERENCE_NUMBER"`
	Comments        string    `json:"COMMENTS1"`
	ListedOn        string    `json:"LISTED_ON"`
	OriginalScript  string    `json:"NAME_ORIGINAL_SCRIPT"`
	SubmittedBy     string    `json:"SUBMITTED_BY"`
	Aliases         []Alias   `json:"ENTITY_ALIAS"`
	Addresses       []Address `json:"ENTITY_ADDRESS"`
	OtherInfo       string    `json:"OTHER_INFORMATION"`

	ListTypes      []string `json:"LIST_TYPE,omitempty"`
	LastDayUpdated []string `json:"LAST_DAY_UPDATED,omitempty"`
	SortKey        string   `json:"SORT_KEY,omitempty"`
	SortKeyLastMod string   `json:"SORT_KEY_LAST_MOD,omitempty"`
	DelistedOn     string   `json:"DELISTED_ON,omitempty"`
}

// Alias is one known alternative name.
type Alias struct {
	Quality     string `json:"QUALITY,omitempty"`
	AliasName   string `json:"ALIAS_NAME,omitempty"`
	DateOfBirth string `json:"DATE_OF_BIRTH,omitempty"`
	CityOfBirth string `json:"CITY_OF_BIRTH,omitempty"`
	Note        string `json:"NOTE,omitempty"`
}

// Address is one known address.
type Address struct {
	Street        string `json:"STREET,omitempty"`
	City          string `json:"CITY,omitempty"`
	StateProvince string `json:"STATE_PROVINCE,omitempty"`
	ZipCode       string `json:"ZIP_CODE,omitempty"`
	Country       string `json:"COUNTRY,omitempty"`
	Note          string `json:"NOTE,omitempty"`
}

// BirthDate is one date-of-birth entry; the source mixes exact dates,
// years, and year ranges.
type BirthDate struct {
	TypeOfDate string `json:"TYPE_OF_DATE,omitempty"`
	Date       string `json:"DATE,omitempty"`
	Year       string `json:"YEAR,omitempty"`
	FromYear   string `json:"FROM_YEAR,omitempty"`
	ToYear     string `json:"TO_YEAR,omitempty"`
	Note       string `json:"NOTE,omitempty"`
}

// BirthPlace is one place-of-birth entry.
type BirthPlace struct {
	City          string `json:"CITY,omitempty"`
	StateProvince string `json:"STATE_PROVINCE,omitempty"`
	Country       string `json:"COUNTRY,omitempty"`
	Note          string `json:"NOTE,omitempty"`
}

// Document is one identity document.
type Document struct {
	TypeOfDocument  string `json:"TYPE_OF_DOCUMENT,omitempty"`
	TypeOfDocument2 string `json:"TYPE_OF_DOCUMENT2,omitempty"`
	Number          string `json:"NUMBER,omitempty"`
	IssuingCountry  string `json:"ISSUING_COUNTRY,omitempty"`
	DateOfIssue     string `json:"DATE_OF_ISSUE,omitempty"`
	CityOfIssue     string `json:"CITY_OF_ISSUE,omitempty"`
	CountryOfIssue  string `json:"COUNTRY_OF_ISSUE,omitempty"`
	Note            string `json:"NOTE,omitempty"`
}
