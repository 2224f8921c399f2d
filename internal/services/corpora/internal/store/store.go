package store

import (
	"context"
	"errors"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
	ErrInUse    = errors.New("still referenced")
)

type Store interface {
	UserStore
	ControlListStore
	CorpusStore
	TokenStore
	HistoryStore
	DictionaryStore
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type UserStore interface {
	CreateUser(ctx context.Context, r CreateUserRequest) (int64, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, r UpdateUserRequest) error
	GetRole(ctx context.Context, name string) (model.Role, error)
	DefaultRole(ctx context.Context) (model.Role, error)
}

type ControlListStore interface {
	CreateControlList(ctx context.Context, r CreateControlListRequest) (int64, error)
	GetControlList(ctx context.Context, id int64) (model.ControlList, error)
	ListControlLists(ctx context.Context, r ListControlListsRequest) ([]model.ControlList, error)
	UpdateControlList(ctx context.Context, r UpdateControlListRequest) error
	DeleteControlList(ctx context.Context, id int64) error
	ControlListMembers(ctx context.Context, id int64) ([]model.Member, error)
	SetControlListMembers(ctx context.Context, id int64, members []model.Member) error
	ControlListMembership(ctx context.Context, id, userID int64) (model.Member, error)

	AllowedValues(ctx context.Context, r AllowedValuesRequest) ([]model.AllowedValue, int, error)
	CountAllowed(ctx context.Context, controlListID int64, f model.Field) (int, error)
	IsAllowed(ctx context.Context, controlListID int64, f model.Field, label string) (bool, error)
	ReplaceAllowed(ctx context.Context, controlListID int64, f model.Field, values []model.AllowedValue) error
	AddAllowed(ctx context.Context, controlListID int64, f model.Field, v model.AllowedValue) (int64, error)
	DeleteAllowed(ctx context.Context, controlListID int64, f model.Field, id int64) error
}

type CorpusStore interface {
	CreateCorpus(ctx context.Context, r CreateCorpusRequest) (int64, error)
	GetCorpus(ctx context.Context, id int64) (model.Corpus, error)
	ListCorpora(ctx context.Context, r ListCorporaRequest) ([]model.Corpus, error)
	DeleteCorpus(ctx context.Context, id int64) error
	CorpusMembers(ctx context.Context, id int64) ([]model.Member, error)
	SetCorpusMembers(ctx context.Context, id int64, members []model.Member) error
	CorpusMembership(ctx context.Context, id, userID int64) (model.Member, error)
	Columns(ctx context.Context, corpusID int64) ([]model.Column, error)
	SetColumns(ctx context.Context, corpusID int64, cols []model.Column) error
	GetBookmark(ctx context.Context, userID, corpusID int64) (model.Bookmark, error)
	SetBookmark(ctx context.Context, b model.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, corpusID int64) error
}

type TokenStore interface {
	InsertTokens(ctx context.Context, corpusID int64, tokens []model.WordToken) error
	InsertToken(ctx context.Context, t model.WordToken) (int64, error)
	GetToken(ctx context.Context, corpusID, tokenID int64) (model.WordToken, error)
	TokensByID(ctx context.Context, corpusID int64, ids []int64) ([]model.WordToken, error)
	ListTokens(ctx context.Context, r ListTokensRequest) ([]model.WordToken, int, error)
	SearchTokens(ctx context.Context, r SearchTokensRequest) ([]model.WordToken, int, error)
	UnallowedTokens(ctx context.Context, r UnallowedTokensRequest) ([]model.WordToken, int, error)
	SimilarTokens(ctx context.Context, tokenID int64, mode model.SimilarityMode) ([]model.WordToken, error)
	SimilarToRecord(ctx context.Context, rec model.ChangeRecord) ([]model.WordToken, error)
	CountTokens(ctx context.Context, corpusID int64) (int, error)
	DistinctValues(ctx context.Context, r DistinctValuesRequest) ([]string, error)
	UpdateAnnotation(ctx context.Context, tokenID int64, a model.Annotation) error
	UpdateForm(ctx context.Context, tokenID int64, form string) error
	DeleteToken(ctx context.Context, tokenID int64) error
	ShiftOrder(ctx context.Context, corpusID int64, from, delta int) error
	Forms(ctx context.Context, corpusID int64, first, last int) ([]string, error)
	SetContexts(ctx context.Context, corpusID int64, first int, contexts []model.Context) error
}

type HistoryStore interface {
	InsertChangeRecord(ctx context.Context, r model.ChangeRecord) (int64, error)
	GetChangeRecord(ctx context.Context, corpusID, id int64) (model.ChangeRecord, error)
	ListChangeRecords(ctx context.Context, r ListChangeRecordsRequest) ([]model.ChangeRecord, int, error)
	InsertTokenHistory(ctx context.Context, h model.TokenHistory) (int64, error)
	ListTokenHistory(ctx context.Context, r ListTokenHistoryRequest) ([]model.TokenHistory, int, error)
}

type DictionaryStore interface {
	DictionaryEntries(ctx context.Context, corpusID int64, f model.Field) ([]model.DictionaryEntry, error)
	InDictionary(ctx context.Context, corpusID int64, f model.Field, label string) (bool, error)
	AddDictionaryEntry(ctx context.Context, e model.DictionaryEntry) (int64, error)
	DeleteDictionaryEntry(ctx context.Context, corpusID int64, f model.Field, label string) error
	ReplaceDictionary(ctx context.Context, corpusID int64, f model.Field, entries []model.DictionaryEntry) error
}
