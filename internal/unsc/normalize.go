package unsc

import (
	"fmt"
	"strconv"

	"github.com/Lllllllleong/sanctionlistflow/internal/xmltree"
)

// rootElement is the document element of every consolidated-list export.
const rootElement = "CONSOLIDATED_LIST"

// Normalize parses a consolidated-list XML document and rebuilds it as the
// snapshot published downstream. The root element's namespace attributes are
// relocated onto the list itself so the JSON round-trips the provenance of
// the export. A document whose root is not CONSOLIDATED_LIST is rejected;
// missing sections inside a valid document degrade to empty lists.
func Normalize(data []byte) (*List, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing consolidated list: %w", err)
	}
	if root.Name != rootElement {
		return nil, fmt.Errorf("unexpected root element %q, want %s", root.Name, rootElement)
	}

	individualNodes := root.First("INDIVIDUALS").All("INDIVIDUAL")
	entityNodes := root.First("ENTITIES").All("ENTITY")

	list := &List{
		XMLNamespaceXSI: root.AttrValue("xmlns:xsi"),
		SchemaLocation:  root.AttrValue("xsi:noNamespaceSchemaLocation"),
		DateGenerated:   root.AttrValue("dateGenerated"),
		Individuals:     make([]Individual, 0, len(individualNodes)),
		Entities:        make([]Entity, 0, len(entityNodes)),
	}
	for _, n := range individualNodes {
		list.Individuals = append(list.Individuals, normalizeIndividual(n))
	}
	for _, n := range entityNodes {
		list.Entities = append(list.Entities, normalizeEntity(n))
	}
	return list, nil
}

func normalizeIndividual(n *xmltree.Node) Individual {
	return Individual{
		DataID:          safeInt(n.ChildText("DATAID")),
		VersionNum:      safeInt(n.ChildText("VERSIONNUM")),
		FirstName:       n.ChildText("FIRST_NAME"),
		SecondName:      n.ChildText("SECOND_NAME"),
		ThirdName:       n.ChildText("THIRD_NAME"),
		FourthName:      n.ChildText("FOURTH_NAME"),
		UNListType:      n.ChildText("UN_LIST_TYPE"),
		ReferenceNumber: n.ChildText("REFERENCE_NUMBER"),
		Comments:        n.ChildText("COMMENTS1"),
		Nationality:     n.Values("NATIONALITY"),
		ListedOn:        n.ChildText("LISTED_ON"),
		OriginalScript:  n.ChildText("NAME_ORIGINAL_SCRIPT"),
		SubmittedBy:     n.ChildText("SUBMITTED_BY"),
		Aliases:         aliases(n.All("INDIVIDUAL_ALIAS")),
		Addresses:       addresses(n.All("INDIVIDUAL_ADDRESS")),
		BirthDates:      birthDates(n.All("INDIVIDUAL_DATE_OF_BIRTH")),
		BirthPlaces:     birthPlaces(n.All("INDIVIDUAL_PLACE_OF_BIRTH")),
		Documents:       documents(n.All("INDIVIDUAL_DOCUMENT")),
		Gender:          n.ChildText("GENDER"),
		Designations:    n.Values("DESIGNATION"),
		NationalIDs:     n.Values("NATIONAL_ID"),
		Passports:       n.Values("PASSPORT"),
		OtherInfo:       n.ChildText("OTHER_INFORMATION"),
		Titles:          n.Values("TITLE"),
		ListTypes:       n.Values("LIST_TYPE"),
		LastDayUpdated:  n.Values("LAST_DAY_UPDATED"),
		SortKey:         n.ChildText("SORT_KEY"),
		SortKeyLastMod:  n.ChildText("SORT_KEY_LAST_MOD"),
		DelistedOn:      n.ChildText("DELISTED_ON"),
	}
}

func normalizeEntity(n *xmltree.Node) Entity {
	return Entity{
		DataID:          safeInt(n.ChildText("DATAID")),
		VersionNum:      safeInt(n.ChildText("VERSIONNUM")),
		FirstName:       n.ChildText("FIRST_NAME"),
		UNListType:      n.ChildText("UN_LIST_TYPE"),
		ReferenceNumber: n.ChildText("REFERENCE_NUMBER"),
		Comments:        n.ChildText("COMMENTS1"),
		ListedOn:        n.ChildText("LISTED_ON"),
		OriginalScript:  n.ChildText("NAME_ORIGINAL_SCRIPT"),
		SubmittedBy:     n.ChildText("SUBMITTED_BY"),
		Aliases:         aliases(n.All("ENTITY_ALIAS")),
		Addresses:       addresses(n.All("ENTITY_ADDRESS")),
		OtherInfo:       n.ChildText("OTHER_INFORMATION"),
		ListTypes:       n.Values("LIST_TYPE"),
		LastDayUpdated:  n.Values("LAST_DAY_UPDATED"),
		SortKey:         n.ChildText("SORT_KEY"),
		SortKeyLastMod:  n.ChildText("SORT_KEY_LAST_MOD"),
		DelistedOn:      n.ChildText("DELISTED_ON"),
	}
}

func aliases(nodes []*xmltree.Node) []Alias {
	out := make([]Alias, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Alias{
			Quality:     n.ChildText("QUALITY"),
			AliasName:   n.ChildText("ALIAS_NAME"),
			DateOfBirth: n.ChildText("DATE_OF_BIRTH"),
			CityOfBirth: n.ChildText("CITY_OF_BIRTH"),
			Note:        n.ChildText("NOTE"),
		})
	}
	return out
}

func addresses(nodes []*xmltree.Node) []Address {
	out := make([]Address, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Address{
			Street:        n.ChildText("STREET"),
			City:          n.ChildText("CITY"),
			StateProvince: n.ChildText("STATE_PROVINCE"),
			ZipCode:       n.ChildText("ZIP_CODE"),
			Country:       n.ChildText("COUNTRY"),
			Note:          n.ChildText("NOTE"),
		})
	}
	return out
}

func birthDates(nodes []*xmltree.Node) []BirthDate {
	out := make([]BirthDate, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, BirthDate{
			TypeOfDate: n.ChildText("TYPE_OF_DATE"),
			Date:       n.ChildText("DATE"),
			Year:       n.ChildText("YEAR"),
			FromYear:   n.ChildText("FROM_YEAR"),
			ToYear:     n.ChildText("TO_YEAR"),
			Note:       n.ChildText("NOTE"),
		})
	}
	return out
}

func birthPlaces(nodes []*xmltree.Node) []BirthPlace {
	out := make([]BirthPlace, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, BirthPlace{
			City:          n.ChildText("CITY"),
			StateProvince: n.ChildText("STATE_PROVINCE"),
			Country:       n.ChildText("COUNTRY"),
			Note:          n.ChildText("NOTE"),
		})
	}
	return out
}

func documents(nodes []*xmltree.Node) []Document {
	out := make([]Document, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Document{
			TypeOfDocument:  n.ChildText("TYPE_OF_DOCUMENT"),
			TypeOfDocument2: n.ChildText("TYPE_OF_DOCUMENT2"),
			Number:          n.ChildText("NUMBER"),
			IssuingCountry:  n.ChildText("ISSUING_COUNTRY"),
			DateOfIssue:     n.ChildText("DATE_OF_ISSUE"),
			CityOfIssue:     n.ChildText("CITY_OF_ISSUE"),
			CountryOfIssue:  n.ChildText("COUNTRY_OF_ISSUE"),
			Note:            n.ChildText("NOTE"),
		})
	}
	return out
}

// safeInt keeps numeric identifiers as numbers in the output while letting
// malformed ones pass through as empty strings instead of failing the run.
func safeInt(s string) any {
	v, err := strconv.Atoi(s)
	if err != nil {
		return ""
	}
	return v
}
