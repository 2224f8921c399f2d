package model

import "time"

// Field is one of the annotation columns of a token.
type Field string

const (
	FieldLemma Field = "lemma"
	FieldPOS   Field = "POS"
	FieldMorph Field = "morph"
)

// Fields lists the annotation columns in display order.
var Fields = []Field{FieldLemma, FieldPOS, FieldMorph}

func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

const (
	PermGeneral    = 0x01
	PermAdminister = 0xff
)

type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Permissions int    `json:"permissions"`
	Default     bool   `json:"default"`
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Confirmed    bool      `json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the user on whose behalf an operation runs.
type Actor struct {
	UserID      int64
	Permissions int
}

func (a Actor) IsAdmin() bool {
	return a.Permissions&PermAdminister == PermAdminister
}

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilitySubmitted Visibility = "submitted"
	VisibilityPrivate   Visibility = "private"
)

type ControlList struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Notes       string     `json:"notes"`
	Visibility  Visibility `json:"visibility"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Member links a user to a corpus or a control list.
type Member struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email,omitempty"`
	IsOwner bool   `json:"is_owner"`
}

// AllowedValue is an accepted label of a control list. Readable is only
// used by morphology values.
type AllowedValue struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	Readable string `json:"readable,omitempty"`
}

type Corpus struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ControlListID  int64     `json:"control_list_id"`
	ContextLeft    int       `json:"context_left"`
	ContextRight   int       `json:"context_right"`
	DelimiterToken *string   `json:"delimiter_token"`
	CreatedAt      time.Time `json:"created_at"`
}

type Column struct {
	Name   Field `json:"name"`
	Hidden bool  `json:"hidden"`
}

// Annotation is the correctable part of a token.
type Annotation struct {
	Lemma string  `json:"lemma"`
	POS   *string `json:"POS"`
	Morph *string `json:"morph"`
}

// Get returns the value of f, nil when absent.
func (a Annotation) Get(f Field) *string {
	switch f {
	case FieldLemma:
		return &a.Lemma
	case FieldPOS:
		return a.POS
	case FieldMorph:
		return a.Morph
	}
	return nil
}

// Set replaces the value of f. Lemma cannot be absent: nil clears it to "".
func (a *Annotation) Set(f Field, v *string) {
	switch f {
	case FieldLemma:
		a.Lemma = deref(v)
	case FieldPOS:
		a.POS = v
	case FieldMorph:
		a.Morph = v
	}
}

func (a Annotation) Equal(o Annotation) bool {
	for _, f := range Fields {
		if !SameValue(a.Get(f), o.Get(f)) {
			return false
		}
	}
	return true
}

type WordToken struct {
	ID       int64  `json:"id"`
	CorpusID int64  `json:"corpus_id"`
	OrderID  int    `json:"order_id"`
	Form     string `json:"form"`
	Annotation
	LeftContext  string `json:"left_context"`
	RightContext string `json:"right_context"`
}

// Context holds the neighbouring forms displayed around a token.
type Context struct {
	Left  string
	Right string
}

type ChangeRecord struct {
	ID        int64      `json:"id"`
	CorpusID  int64      `json:"corpus_id"`
	TokenID   int64      `json:"word_token_id"`
	UserID    int64      `json:"user_id"`
	Form      string     `json:"form,omitempty"`
	Old       Annotation `json:"old"`
	New       Annotation `json:"new"`
	CreatedAt time.Time  `json:"created_at"`
}

// Changed returns the fields whose value differs between Old and New.
func (r ChangeRecord) Changed() []Field {
	var fs []Field
	for _, f := range Fields {
		if !SameValue(r.Old.Get(f), r.New.Get(f)) {
			fs = append(fs, f)
		}
	}
	return fs
}

type HistoryAction string

const (
	ActionAddition HistoryAction = "addition"
	ActionDeletion HistoryAction = "deletion"
	ActionEdition  HistoryAction = "edition"
)

// TokenHistory records a structural edit of the token sequence.
type TokenHistory struct {
	ID        int64         `json:"id"`
	CorpusID  int64         `json:"corpus_id"`
	TokenID   *int64        `json:"word_token_id"`
	UserID    int64         `json:"user_id"`
	Action    HistoryAction `json:"action"`
	OrderID   int           `json:"order_id"`
	Form      string        `json:"form"`
	FormNew   *string       `json:"form_new"`
	CreatedAt time.Time     `json:"created_at"`
}

type DictionaryEntry struct {
	ID             int64   `json:"id"`
	CorpusID       int64   `json:"corpus_id"`
	Category       Field   `json:"category"`
	Label          string  `json:"label"`
	SecondaryLabel *string `json:"secondary_label"`
}

type Bookmark struct {
	UserID   int64 `json:"user_id"`
	CorpusID int64 `json:"corpus_id"`
	TokenID  int64 `json:"token_id"`
	Page     int   `json:"page"`
}

// SimilarityMode selects how a token is compared to its look-alikes.
type SimilarityMode string

const (
	SimilarPartial  SimilarityMode = "partial"
	SimilarComplete SimilarityMode = "complete"
	SimilarLemma    SimilarityMode = "lemma"
	SimilarPOS      SimilarityMode = "POS"
	SimilarMorph    SimilarityMode = "morph"
	SimilarNotLemma SimilarityMode = "lemma-"
	SimilarNotPOS   SimilarityMode = "POS-"
	SimilarNotMorph SimilarityMode = "morph-"
	SimilarForm     SimilarityMode = "form"
)

var SimilarityModes = []SimilarityMode{
	SimilarPartial, SimilarComplete,
	SimilarLemma, SimilarPOS, SimilarMorph,
	SimilarNotLemma, SimilarNotPOS, SimilarNotMorph,
	SimilarForm,
}

func ParseSimilarityMode(s string) (SimilarityMode, bool) {
	if s == "" {
		return SimilarPartial, true
	}
	for _, m := range SimilarityModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// SameValue compares optional values, two absent values being equal.
func SameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
