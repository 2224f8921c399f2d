package rest

import (
	"context"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
)

type mockCorpora struct {
	CreateFunc               func(ctx context.Context, a model.Actor, r service.CreateCorpusRequest) (model.Corpus, error)
	GetFunc                  func(ctx context.Context, a model.Actor, corpusID int64) (service.CorpusDetails, error)
	ListFunc                 func(ctx context.Context, a model.Actor) ([]model.Corpus, error)
	DeleteFunc               func(ctx context.Context, a model.Actor, corpusID int64) error
	MembersFunc              func(ctx context.Context, a model.Actor, corpusID int64) ([]model.Member, error)
	SetMembersFunc           func(ctx context.Context, a model.Actor, corpusID int64, members []model.Member) error
	ColumnsFunc              func(ctx context.Context, a model.Actor, corpusID int64) ([]model.Column, error)
	UpdateColumnsFunc        func(ctx context.Context, a model.Actor, corpusID int64, cols []model.Column) error
	BookmarkFunc             func(ctx context.Context, a model.Actor, corpusID int64) (model.Bookmark, error)
	SetBookmarkFunc          func(ctx context.Context, a model.Actor, corpusID, tokenID int64, page int) error
	DeleteBookmarkFunc       func(ctx context.Context, a model.Actor, corpusID int64) error
	ExportFunc               func(ctx context.Context, a model.Actor, corpusID int64) (service.Export, error)
	TokensFunc               func(ctx context.Context, a model.Actor, corpusID int64, r service.PageRequest) (model.Page[model.WordToken], error)
	TokenFunc                func(ctx context.Context, a model.Actor, corpusID, tokenID int64) (model.WordToken, error)
	SearchFunc               func(ctx context.Context, a model.Actor, corpusID int64, r service.SearchRequest) (model.Page[model.WordToken], error)
	UnallowedFunc            func(ctx context.Context, a model.Actor, corpusID int64, f model.Field, r service.PageRequest) (model.Page[model.WordToken], error)
	UpdateTokenFunc          func(ctx context.Context, a model.Actor, corpusID, tokenID int64, u service.TokenUpdate) (service.UpdateResult, error)
	SimilarFunc              func(ctx context.Context, a model.Actor, corpusID, tokenID int64, mode model.SimilarityMode) ([]model.WordToken, error)
	SimilarToRecordFunc      func(ctx context.Context, a model.Actor, corpusID, recordID int64) (model.ChangeRecord, []model.WordToken, error)
	ApplyChangesFunc         func(ctx context.Context, a model.Actor, corpusID, recordID int64, tokenIDs []int64) ([]model.WordToken, error)
	HistoryFunc              func(ctx context.Context, a model.Actor, corpusID int64, r service.HistoryRequest) (model.Page[model.ChangeRecord], error)
	AddTokenFunc             func(ctx context.Context, a model.Actor, corpusID int64, nt service.NewToken) (model.WordToken, error)
	EditFormFunc             func(ctx context.Context, a model.Actor, corpusID, tokenID int64, form string) (model.WordToken, error)
	DeleteTokenFunc          func(ctx context.Context, a model.Actor, corpusID, tokenID int64) error
	TokenHistoryFunc         func(ctx context.Context, a model.Actor, corpusID int64, r service.PageRequest) (model.Page[model.TokenHistory], error)
	DictionaryFunc           func(ctx context.Context, a model.Actor, corpusID int64, f model.Field) ([]model.DictionaryEntry, error)
	AddToDictionaryFunc      func(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string, secondary *string) (model.DictionaryEntry, error)
	RemoveFromDictionaryFunc func(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string) error
	ReplaceDictionaryFunc    func(ctx context.Context, a model.Actor, corpusID int64, f model.Field, labels []string) error
	AutocompleteFunc         func(ctx context.Context, a model.Actor, corpusID int64, f model.Field, prefix string) ([]service.Suggestion, error)
}

func (m *mockCorpora) Create(ctx context.Context, a model.Actor, r service.CreateCorpusRequest) (model.Corpus, error) {
	return m.CreateFunc(ctx, a, r)
}

func (m *mockCorpora) Get(ctx context.Context, a model.Actor, corpusID int64) (service.CorpusDetails, error) {
	return m.GetFunc(ctx, a, corpusID)
}

func (m *mockCorpora) List(ctx context.Context, a model.Actor) ([]model.Corpus, error) {
	return m.ListFunc(ctx, a)
}

func (m *mockCorpora) Delete(ctx context.Context, a model.Actor, corpusID int64) error {
	return m.DeleteFunc(ctx, a, corpusID)
}

func (m *mockCorpora) Members(ctx context.Context, a model.Actor, corpusID int64) ([]model.Member, error) {
	return m.MembersFunc(ctx, a, corpusID)
}

func (m *mockCorpora) SetMembers(ctx context.Context, a model.Actor, corpusID int64, members []model.Member) error {
	return m.SetMembersFunc(ctx, a, corpusID, members)
}

func (m *mockCorpora) Columns(ctx context.Context, a model.Actor, corpusID int64) ([]model.Column, error) {
	return m.ColumnsFunc(ctx, a, corpusID)
}

func (m *mockCorpora) UpdateColumns(ctx context.Context, a model.Actor, corpusID int64, cols []model.Column) error {
	return m.UpdateColumnsFunc(ctx, a, corpusID, cols)
}

func (m *mockCorpora) Bookmark(ctx context.Context, a model.Actor, corpusID int64) (model.Bookmark, error) {
	return m.BookmarkFunc(ctx, a, corpusID)
}

func (m *mockCorpora) SetBookmark(ctx context.Context, a model.Actor, corpusID, tokenID int64, page int) error {
	return m.SetBookmarkFunc(ctx, a, corpusID, tokenID, page)
}

func (m *mockCorpora) DeleteBookmark(ctx context.Context, a model.Actor, corpusID int64) error {
	return m.DeleteBookmarkFunc(ctx, a, corpusID)
}

func (m *mockCorpora) Export(ctx context.Context, a model.Actor, corpusID int64) (service.Export, error) {
	return m.ExportFunc(ctx, a, corpusID)
}

func (m *mockCorpora) Tokens(ctx context.Context, a model.Actor, corpusID int64, r service.PageRequest) (model.Page[model.WordToken], error) {
	return m.TokensFunc(ctx, a, corpusID, r)
}

func (m *mockCorpora) Token(ctx context.Context, a model.Actor, corpusID, tokenID int64) (model.WordToken, error) {
	return m.TokenFunc(ctx, a, corpusID, tokenID)
}

func (m *mockCorpora) Search(ctx context.Context, a model.Actor, corpusID int64, r service.SearchRequest) (model.Page[model.WordToken], error) {
	return m.SearchFunc(ctx, a, corpusID, r)
}

func (m *mockCorpora) Unallowed(ctx context.Context, a model.Actor, corpusID int64, f model.Field, r service.PageRequest) (model.Page[model.WordToken], error) {
	return m.UnallowedFunc(ctx, a, corpusID, f, r)
}

func (m *mockCorpora) UpdateToken(ctx context.Context, a model.Actor, corpusID, tokenID int64, u service.TokenUpdate) (service.UpdateResult, error) {
	return m.UpdateTokenFunc(ctx, a, corpusID, tokenID, u)
}

func (m *mockCorpora) Similar(ctx context.Context, a model.Actor, corpusID, tokenID int64, mode model.SimilarityMode) ([]model.WordToken, error) {
	return m.SimilarFunc(ctx, a, corpusID, tokenID, mode)
}

func (m *mockCorpora) SimilarToRecord(ctx context.Context, a model.Actor, corpusID, recordID int64) (model.ChangeRecord, []model.WordToken, error) {
	return m.SimilarToRecordFunc(ctx, a, corpusID, recordID)
}

func (m *mockCorpora) ApplyChanges(ctx context.Context, a model.Actor, corpusID, recordID int64, tokenIDs []int64) ([]model.WordToken, error) {
	return m.ApplyChangesFunc(ctx, a, corpusID, recordID, tokenIDs)
}

func (m *mockCorpora) History(ctx context.Context, a model.Actor, corpusID int64, r service.HistoryRequest) (model.Page[model.ChangeRecord], error) {
	return m.HistoryFunc(ctx, a, corpusID, r)
}

func (m *mockCorpora) AddToken(ctx context.Context, a model.Actor, corpusID int64, nt service.NewToken) (model.WordToken, error) {
	return m.AddTokenFunc(ctx, a, corpusID, nt)
}

func (m *mockCorpora) EditForm(ctx context.Context, a model.Actor, corpusID, tokenID int64, form string) (model.WordToken, error) {
	return m.EditFormFunc(ctx, a, corpusID, tokenID, form)
}

func (m *mockCorpora) DeleteToken(ctx context.Context, a model.Actor, corpusID, tokenID int64) error {
	return m.DeleteTokenFunc(ctx, a, corpusID, tokenID)
}

func (m *mockCorpora) TokenHistory(ctx context.Context, a model.Actor, corpusID int64, r service.PageRequest) (model.Page[model.TokenHistory], error) {
	return m.TokenHistoryFunc(ctx, a, corpusID, r)
}

func (m *mockCorpora) Dictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field) ([]model.DictionaryEntry, error) {
	return m.DictionaryFunc(ctx, a, corpusID, f)
}

func (m *mockCorpora) AddToDictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string, secondary *string) (model.DictionaryEntry, error) {
	return m.AddToDictionaryFunc(ctx, a, corpusID, f, label, secondary)
}

func (m *mockCorpora) RemoveFromDictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string) error {
	return m.RemoveFromDictionaryFunc(ctx, a, corpusID, f, label)
}

func (m *mockCorpora) ReplaceDictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field, labels []string) error {
	return m.ReplaceDictionaryFunc(ctx, a, corpusID, f, labels)
}

func (m *mockCorpora) Autocomplete(ctx context.Context, a model.Actor, corpusID int64, f model.Field, prefix string) ([]service.Suggestion, error) {
	return m.AutocompleteFunc(ctx, a, corpusID, f, prefix)
}

type mockControlLists struct {
	CreateFunc         func(ctx context.Context, a model.Actor, n service.NewControlList) (model.ControlList, error)
	ListFunc           func(ctx context.Context, a model.Actor) ([]model.ControlList, error)
	GetFunc            func(ctx context.Context, a model.Actor, id int64) (service.ControlListDetails, error)
	AllowedFunc        func(ctx context.Context, a model.Actor, id int64, r service.AllowedRequest) (model.Page[model.AllowedValue], error)
	AllAllowedFunc     func(ctx context.Context, a model.Actor, id int64, f model.Field) ([]model.AllowedValue, error)
	ReplaceAllowedFunc func(ctx context.Context, a model.Actor, id int64, f model.Field, values []model.AllowedValue) error
	AddAllowedFunc     func(ctx context.Context, a model.Actor, id int64, f model.Field, v model.AllowedValue) (model.AllowedValue, error)
	DeleteAllowedFunc  func(ctx context.Context, a model.Actor, id int64, f model.Field, valueID int64) error
	UpdateFunc         func(ctx context.Context, a model.Actor, id int64, r service.UpdateControlListRequest) (model.ControlList, error)
	ProposeFunc        func(ctx context.Context, a model.Actor, id int64) error
	ReviewFunc         func(ctx context.Context, a model.Actor, id int64, accept bool) error
	MembersFunc        func(ctx context.Context, a model.Actor, id int64) ([]model.Member, error)
	SetMembersFunc     func(ctx context.Context, a model.Actor, id int64, members []model.Member) error
	DeleteFunc         func(ctx context.Context, a model.Actor, id int64) error
}

func (m *mockControlLists) Create(ctx context.Context, a model.Actor, n service.NewControlList) (model.ControlList, error) {
	return m.CreateFunc(ctx, a, n)
}

func (m *mockControlLists) List(ctx context.Context, a model.Actor) ([]model.ControlList, error) {
	return m.ListFunc(ctx, a)
}

func (m *mockControlLists) Get(ctx context.Context, a model.Actor, id int64) (service.ControlListDetails, error) {
	return m.GetFunc(ctx, a, id)
}

func (m *mockControlLists) Allowed(ctx context.Context, a model.Actor, id int64, r service.AllowedRequest) (model.Page[model.AllowedValue], error) {
	return m.AllowedFunc(ctx, a, id, r)
}

func (m *mockControlLists) AllAllowed(ctx context.Context, a model.Actor, id int64, f model.Field) ([]model.AllowedValue, error) {
	return m.AllAllowedFunc(ctx, a, id, f)
}

func (m *mockControlLists) ReplaceAllowed(ctx context.Context, a model.Actor, id int64, f model.Field, values []model.AllowedValue) error {
	return m.ReplaceAllowedFunc(ctx, a, id, f, values)
}

func (m *mockControlLists) AddAllowed(ctx context.Context, a model.Actor, id int64, f model.Field, v model.AllowedValue) (model.AllowedValue, error) {
	return m.AddAllowedFunc(ctx, a, id, f, v)
}

func (m *mockControlLists) DeleteAllowed(ctx context.Context, a model.Actor, id int64, f model.Field, valueID int64) error {
	return m.DeleteAllowedFunc(ctx, a, id, f, valueID)
}

func (m *mockControlLists) Update(ctx context.Context, a model.Actor, id int64, r service.UpdateControlListRequest) (model.ControlList, error) {
	return m.UpdateFunc(ctx, a, id, r)
}

func (m *mockControlLists) Propose(ctx context.Context, a model.Actor, id int64) error {
	return m.ProposeFunc(ctx, a, id)
}

func (m *mockControlLists) Review(ctx context.Context, a model.Actor, id int64, accept bool) error {
	return m.ReviewFunc(ctx, a, id, accept)
}

func (m *mockControlLists) Members(ctx context.Context, a model.Actor, id int64) ([]model.Member, error) {
	return m.MembersFunc(ctx, a, id)
}

func (m *mockControlLists) SetMembers(ctx context.Context, a model.Actor, id int64, members []model.Member) error {
	return m.SetMembersFunc(ctx, a, id, members)
}

func (m *mockControlLists) Delete(ctx context.Context, a model.Actor, id int64) error {
	return m.DeleteFunc(ctx, a, id)
}

type mockAccounts struct {
	RegisterFunc       func(ctx context.Context, r service.RegisterRequest) (model.User, error)
	LoginFunc          func(ctx context.Context, email, password string) (service.Session, error)
	MeFunc             func(ctx context.Context, a model.Actor) (model.User, error)
	ChangePasswordFunc func(ctx context.Context, a model.Actor, current, next string) error
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, code, password string) error
	ListUsersFunc      func(ctx context.Context, a model.Actor) ([]model.User, error)
	UpdateUserFunc     func(ctx context.Context, a model.Actor, userID int64, e service.EditUser) (model.User, error)
}

func (m *mockAccounts) Register(ctx context.Context, r service.RegisterRequest) (model.User, error) {
	return m.RegisterFunc(ctx, r)
}

func (m *mockAccounts) Login(ctx context.Context, email, password string) (service.Session, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *mockAccounts) Me(ctx context.Context, a model.Actor) (model.User, error) {
	return m.MeFunc(ctx, a)
}

func (m *mockAccounts) ChangePassword(ctx context.Context, a model.Actor, current, next string) error {
	return m.ChangePasswordFunc(ctx, a, current, next)
}

func (m *mockAccounts) ForgotPassword(ctx context.Context, email string) error {
	return m.ForgotPasswordFunc(ctx, email)
}

func (m *mockAccounts) ResetPassword(ctx context.Context, code, password string) error {
	return m.ResetPasswordFunc(ctx, code, password)
}

func (m *mockAccounts) ListUsers(ctx context.Context, a model.Actor) ([]model.User, error) {
	return m.ListUsersFunc(ctx, a)
}

func (m *mockAccounts) UpdateUser(ctx context.Context, a model.Actor, userID int64, e service.EditUser) (model.User, error) {
	return m.UpdateUserFunc(ctx, a, userID, e)
}
