package store

import "github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"

type CreateUserRequest struct {
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	RoleID       int64
	Confirmed    bool
}

// UpdateUserRequest changes the non nil fields of a user.
type UpdateUserRequest struct {
	ID           int64
	RoleID       *int64
	Confirmed    *bool
	PasswordHash *string
	FirstName    *string
	LastName     *string
}

type CreateControlListRequest struct {
	Name        string
	Description string
	Notes       string
	Visibility  model.Visibility
}

// ListControlListsRequest lists public lists and the lists UserID is linked
// to, or every list when All is set.
type ListControlListsRequest struct {
	UserID int64
	All    bool
}

type UpdateControlListRequest struct {
	ID          int64
	Name        *string
	Description *string
	Notes       *string
	Visibility  *model.Visibility
}

type AllowedValuesRequest struct {
	ControlListID int64
	Field         model.Field
	// Prefix filters labels case-insensitively.
	Prefix string
	Offset int
	// Limit of 0 returns every value.
	Limit int
}

type CreateCorpusRequest struct {
	Name           string
	ControlListID  int64
	ContextLeft    int
	ContextRight   int
	DelimiterToken *string
}

type ListCorporaRequest struct {
	UserID int64
	All    bool
}

type ListTokensRequest struct {
	CorpusID int64
	Offset   int
	// Limit of 0 returns every token.
	Limit int
}

// SearchTokensRequest matches tokens field by field. Empty patterns are
// ignored, "*" matches any run of characters and the remaining criteria
// are AND-combined.
type SearchTokensRequest struct {
	CorpusID int64
	Form     string
	Lemma    string
	POS      string
	Morph    string
	Offset   int
	Limit    int
}

type UnallowedTokensRequest struct {
	CorpusID      int64
	ControlListID int64
	Field         model.Field
	Offset        int
	Limit         int
}

type DistinctValuesRequest struct {
	CorpusID int64
	Field    model.Field
	Prefix   string
	Limit    int
}

type ListChangeRecordsRequest struct {
	CorpusID int64
	UserID   *int64
	Offset   int
	Limit    int
}

type ListTokenHistoryRequest struct {
	CorpusID int64
	Offset   int
	Limit    int
}
