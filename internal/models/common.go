// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type AccessState string

const (
	AccessStateOpen       AccessState = "OPEN"
	AccessStateRestricted AccessState = "RESTRICTED"
	AccessStateClosed     AccessState = "CLOSED"
)

type BasisAccessState string

const (
	BasisAccessStateAuthorRightException BasisAccessState = "AUTHOR_RIGHT_EXCEPTION"
	BasisAccessStateLicenceContract      BasisAccessState = "LICENCE_CONTRACT"
	BasisAccessStateLicenceContractOA    BasisAccessState = "LICENCE_CONTRACT_OA"
	BasisAccessStateOpenContentLicence   BasisAccessState = "OPEN_CONTENT_LICENCE"
	BasisAccessStateUserAgreement        BasisAccessState = "USER_AGREEMENT"
	BasisAccessStateZBWPolicy            BasisAccessState = "ZBW_POLICY"
)

type BasisStorage string

const (
	BasisStorageAuthorRightException BasisStorage = "AUTHOR_RIGHT_EXCEPTION"
	BasisStorageLicenceContract      BasisStorage = "LICENCE_CONTRACT"
	BasisStorageOpenContentLicence   BasisStorage = "OPEN_CONTENT_LICENCE"
	BasisStorageUserAgreement        BasisStorage = "USER_AGREEMENT"
	BasisStoragePolicyRestricted     BasisStorage = "ZBW_POLICY_RESTRICTED"
	BasisStoragePolicyUnanswered     BasisStorage = "ZBW_POLICY_UNANSWERED"
)

type PublicationType string

const (
	PublicationTypeArticle        PublicationType = "ARTICLE"
	PublicationTypeBook           PublicationType = "BOOK"
	PublicationTypeBookPart       PublicationType = "BOOK_PART"
	PublicationTypeConferencePaper PublicationType = "CONFERENCE_PAPER"
	PublicationTypePeriodicalPart PublicationType = "PERIODICAL_PART"
	PublicationTypeProceedings    PublicationType = "PROCEEDINGS"
	PublicationTypeResearchReport PublicationType = "RESEARCH_REPORT"
	PublicationTypeThesis         PublicationType = "THESIS"
	PublicationTypeWorkingPaper   PublicationType = "WORKING_PAPER"
)

type TemporalValidity string

const (
	TemporalValidityFuture  TemporalValidity = "FUTURE"
	TemporalValidityPast    TemporalValidity = "PAST"
	TemporalValidityPresent TemporalValidity = "PRESENT"
)

type FormalRule string

const (
	FormalRuleLicenceContract    FormalRule = "LICENCE_CONTRACT"
	FormalRuleOpenContentLicence FormalRule = "OPEN_CONTENT_LICENCE"
	FormalRuleUserAgreement      FormalRule = "ZBW_USER_AGREEMENT"
)

type UserRole string

const (
	UserRoleReadOnly  UserRole = "READONLY"
	UserRoleReadWrite UserRole = "READWRITE"
	UserRoleAdmin     UserRole = "ADMIN"
)

// ParsePublicationType maps a wire value to its enum member, reporting
// whether the value is known.
func ParsePublicationType(s string) (PublicationType, bool) {
	switch PublicationType(s) {
	case PublicationTypeArticle, PublicationTypeBook, PublicationTypeBookPart,
		PublicationTypeConferencePaper, PublicationTypePeriodicalPart,
		PublicationTypeProceedings, PublicationTypeResearchReport,
		PublicationTypeThesis, PublicationTypeWorkingPaper:
		return PublicationType(s), true
	}
	return "", false
}

func ParseAccessState(s string) (AccessState, bool) {
	switch AccessState(s) {
	case AccessStateOpen, AccessStateRestricted, AccessStateClosed:
		return AccessState(s), true
	}
	return "", false
}

func ParseTemporalValidity(s string) (TemporalValidity, bool) {
	switch TemporalValidity(s) {
	case TemporalValidityFuture, TemporalValidityPast, TemporalValidityPresent:
		return TemporalValidity(s), true
	}
	return "", false
}

func ParseFormalRule(s string) (FormalRule, bool) {
	switch FormalRule(s) {
	case FormalRuleLicenceContract, FormalRuleOpenContentLicence, FormalRuleUserAgreement:
		return FormalRule(s), true
	}
	return "", false
}
