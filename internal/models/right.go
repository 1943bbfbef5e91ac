// internal/models/right.go
package models

import (
	"time"
)

// ItemRight is one usage-right record. Rights flagged as template drive the
// automatic item linking: their bookmarks select the candidate items and the
// template engine replaces the item associations on every apply.
type ItemRight struct {
	RightID       string     `json:"right_id" gorm:"primaryKey;column:right_id"`
	IsTemplate    bool       `json:"is_template" gorm:"index"`
	TemplateName  *string    `json:"template_name,omitempty" gorm:"uniqueIndex:idx_rights_template_name"`
	ExceptionFrom *string    `json:"exception_from,omitempty" gorm:"index"`
	LastAppliedOn *time.Time `json:"last_applied_on,omitempty"`

	AccessState      *AccessState      `json:"access_state,omitempty" gorm:"type:varchar(16);index"`
	BasisAccessState *BasisAccessState `json:"basis_access_state,omitempty" gorm:"type:varchar(32)"`
	BasisStorage     *BasisStorage     `json:"basis_storage,omitempty" gorm:"type:varchar(32)"`

	StartDate time.Time  `json:"start_date" gorm:"type:date;index"`
	EndDate   *time.Time `json:"end_date,omitempty" gorm:"type:date;index"`

	LicenceContract                  *string `json:"licence_contract,omitempty"`
	AuthorRightException             *bool   `json:"author_right_exception,omitempty"`
	ZBWUserAgreement                 *bool   `json:"zbw_user_agreement,omitempty" gorm:"column:zbw_user_agreement"`
	OpenContentLicence               *string `json:"open_content_licence,omitempty"`
	NonStandardOpenContentLicence    *bool   `json:"non_standard_open_content_licence,omitempty"`
	NonStandardOpenContentLicenceURL *string `json:"non_standard_open_content_licence_url,omitempty" gorm:"column:non_standard_open_content_licence_url"`
	RestrictedOpenContentLicence     *bool   `json:"restricted_open_content_licence,omitempty"`

	NotesGeneral              *string `json:"notes_general,omitempty" gorm:"type:text"`
	NotesFormalRules          *string `json:"notes_formal_rules,omitempty" gorm:"type:text"`
	NotesProcessDocumentation *string `json:"notes_process_documentation,omitempty" gorm:"type:text"`
	NotesManagementRelated    *string `json:"notes_management_related,omitempty" gorm:"type:text"`

	// Access-restriction groups this right belongs to. Persisted through the
	// group_right_pairs join table, not as a column.
	GroupIDs []string `json:"group_ids,omitempty" gorm:"-"`

	CreatedOn     *time.Time `json:"created_on,omitempty"`
	LastUpdatedOn *time.Time `json:"last_updated_on,omitempty"`
	CreatedBy     *string    `json:"created_by,omitempty"`
	LastUpdatedBy *string    `json:"last_updated_by,omitempty"`
}

func (ItemRight) TableName() string {
	return "item_rights"
}

// ValidityWindow is a right's time range of applicability. A nil End means
// the right is open-ended.
type ValidityWindow struct {
	Start time.Time
	End   *time.Time
}

func (r *ItemRight) Window() ValidityWindow {
	return ValidityWindow{Start: r.StartDate, End: r.EndDate}
}

// RightGroup is an access-restriction group. Entries hold the organisation
// and IP-range payload the proxy layer evaluates.
type RightGroup struct {
	GroupID     string  `json:"group_id" gorm:"primaryKey;column:group_id"`
	Description *string `json:"description,omitempty" gorm:"type:text"`
	Entries     JSONB   `json:"entries,omitempty" gorm:"type:jsonb"`

	CreatedOn     *time.Time `json:"created_on,omitempty"`
	LastUpdatedOn *time.Time `json:"last_updated_on,omitempty"`
}

func (RightGroup) TableName() string {
	return "right_groups"
}

// GroupRightPair links a right to a group.
type GroupRightPair struct {
	GroupID string `json:"group_id" gorm:"primaryKey;column:group_id"`
	RightID string `json:"right_id" gorm:"primaryKey;column:right_id"`
}

func (GroupRightPair) TableName() string {
	return "group_right_pairs"
}
