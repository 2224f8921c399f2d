package service

import (
	"context"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
)

// mockStore implements store.Store with one function per method. Methods
// a test does not expect to be called are left nil.
type mockStore struct {
	createUserFunc            func(ctx context.Context, r store.CreateUserRequest) (int64, error)
	getUserFunc               func(ctx context.Context, id int64) (model.User, error)
	getUserByEmailFunc        func(ctx context.Context, email string) (model.User, error)
	listUsersFunc             func(ctx context.Context) ([]model.User, error)
	updateUserFunc            func(ctx context.Context, r store.UpdateUserRequest) error
	getRoleFunc               func(ctx context.Context, name string) (model.Role, error)
	defaultRoleFunc           func(ctx context.Context) (model.Role, error)
	createControlListFunc     func(ctx context.Context, r store.CreateControlListRequest) (int64, error)
	getControlListFunc        func(ctx context.Context, id int64) (model.ControlList, error)
	listControlListsFunc      func(ctx context.Context, r store.ListControlListsRequest) ([]model.ControlList, error)
	updateControlListFunc     func(ctx context.Context, r store.UpdateControlListRequest) error
	deleteControlListFunc     func(ctx context.Context, id int64) error
	controlListMembersFunc    func(ctx context.Context, id int64) ([]model.Member, error)
	setControlListMembersFunc func(ctx context.Context, id int64, members []model.Member) error
	controlListMembershipFunc func(ctx context.Context, id, userID int64) (model.Member, error)
	allowedValuesFunc         func(ctx context.Context, r store.AllowedValuesRequest) ([]model.AllowedValue, int, error)
	countAllowedFunc          func(ctx context.Context, controlListID int64, f model.Field) (int, error)
	isAllowedFunc             func(ctx context.Context, controlListID int64, f model.Field, label string) (bool, error)
	replaceAllowedFunc        func(ctx context.Context, controlListID int64, f model.Field, values []model.AllowedValue) error
	addAllowedFunc            func(ctx context.Context, controlListID int64, f model.Field, v model.AllowedValue) (int64, error)
	deleteAllowedFunc         func(ctx context.Context, controlListID int64, f model.Field, id int64) error
	createCorpusFunc          func(ctx context.Context, r store.CreateCorpusRequest) (int64, error)
	getCorpusFunc             func(ctx context.Context, id int64) (model.Corpus, error)
	listCorporaFunc           func(ctx context.Context, r store.ListCorporaRequest) ([]model.Corpus, error)
	deleteCorpusFunc          func(ctx context.Context, id int64) error
	corpusMembersFunc         func(ctx context.Context, id int64) ([]model.Member, error)
	setCorpusMembersFunc      func(ctx context.Context, id int64, members []model.Member) error
	corpusMembershipFunc      func(ctx context.Context, id, userID int64) (model.Member, error)
	columnsFunc               func(ctx context.Context, corpusID int64) ([]model.Column, error)
	setColumnsFunc            func(ctx context.Context, corpusID int64, cols []model.Column) error
	getBookmarkFunc           func(ctx context.Context, userID, corpusID int64) (model.Bookmark, error)
	setBookmarkFunc           func(ctx context.Context, b model.Bookmark) error
	deleteBookmarkFunc        func(ctx context.Context, userID, corpusID int64) error
	insertTokensFunc          func(ctx context.Context, corpusID int64, tokens []model.WordToken) error
	insertTokenFunc           func(ctx context.Context, t model.WordToken) (int64, error)
	getTokenFunc              func(ctx context.Context, corpusID, tokenID int64) (model.WordToken, error)
	tokensByIDFunc            func(ctx context.Context, corpusID int64, ids []int64) ([]model.WordToken, error)
	listTokensFunc            func(ctx context.Context, r store.ListTokensRequest) ([]model.WordToken, int, error)
	searchTokensFunc          func(ctx context.Context, r store.SearchTokensRequest) ([]model.WordToken, int, error)
	unallowedTokensFunc       func(ctx context.Context, r store.UnallowedTokensRequest) ([]model.WordToken, int, error)
	similarTokensFunc         func(ctx context.Context, tokenID int64, mode model.SimilarityMode) ([]model.WordToken, error)
	similarToRecordFunc       func(ctx context.Context, rec model.ChangeRecord) ([]model.WordToken, error)
	countTokensFunc           func(ctx context.Context, corpusID int64) (int, error)
	distinctValuesFunc        func(ctx context.Context, r store.DistinctValuesRequest) ([]string, error)
	updateAnnotationFunc      func(ctx context.Context, tokenID int64, a model.Annotation) error
	updateFormFunc            func(ctx context.Context, tokenID int64, form string) error
	deleteTokenFunc           func(ctx context.Context, tokenID int64) error
	shiftOrderFunc            func(ctx context.Context, corpusID int64, from, delta int) error
	formsFunc                 func(ctx context.Context, corpusID int64, first, last int) ([]string, error)
	setContextsFunc           func(ctx context.Context, corpusID int64, first int, contexts []model.Context) error
	insertChangeRecordFunc    func(ctx context.Context, r model.ChangeRecord) (int64, error)
	getChangeRecordFunc       func(ctx context.Context, corpusID, id int64) (model.ChangeRecord, error)
	listChangeRecordsFunc     func(ctx context.Context, r store.ListChangeRecordsRequest) ([]model.ChangeRecord, int, error)
	insertTokenHistoryFunc    func(ctx context.Context, h model.TokenHistory) (int64, error)
	listTokenHistoryFunc      func(ctx context.Context, r store.ListTokenHistoryRequest) ([]model.TokenHistory, int, error)
	dictionaryEntriesFunc     func(ctx context.Context, corpusID int64, f model.Field) ([]model.DictionaryEntry, error)
	inDictionaryFunc          func(ctx context.Context, corpusID int64, f model.Field, label string) (bool, error)
	addDictionaryEntryFunc    func(ctx context.Context, e model.DictionaryEntry) (int64, error)
	deleteDictionaryEntryFunc func(ctx context.Context, corpusID int64, f model.Field, label string) error
	replaceDictionaryFunc     func(ctx context.Context, corpusID int64, f model.Field, entries []model.DictionaryEntry) error
}

func (m *mockStore) CreateUser(ctx context.Context, r store.CreateUserRequest) (int64, error) {
	return m.createUserFunc(ctx, r)
}

func (m *mockStore) GetUser(ctx context.Context, id int64) (model.User, error) {
	return m.getUserFunc(ctx, id)
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return m.getUserByEmailFunc(ctx, email)
}

func (m *mockStore) ListUsers(ctx context.Context) ([]model.User, error) {
	return m.listUsersFunc(ctx)
}

func (m *mockStore) UpdateUser(ctx context.Context, r store.UpdateUserRequest) error {
	return m.updateUserFunc(ctx, r)
}

func (m *mockStore) GetRole(ctx context.Context, name string) (model.Role, error) {
	return m.getRoleFunc(ctx, name)
}

func (m *mockStore) DefaultRole(ctx context.Context) (model.Role, error) {
	return m.defaultRoleFunc(ctx)
}

func (m *mockStore) CreateControlList(ctx context.Context, r store.CreateControlListRequest) (int64, error) {
	return m.createControlListFunc(ctx, r)
}

func (m *mockStore) GetControlList(ctx context.Context, id int64) (model.ControlList, error) {
	return m.getControlListFunc(ctx, id)
}

func (m *mockStore) ListControlLists(ctx context.Context, r store.ListControlListsRequest) ([]model.ControlList, error) {
	return m.listControlListsFunc(ctx, r)
}

func (m *mockStore) UpdateControlList(ctx context.Context, r store.UpdateControlListRequest) error {
	return m.updateControlListFunc(ctx, r)
}

func (m *mockStore) DeleteControlList(ctx context.Context, id int64) error {
	return m.deleteControlListFunc(ctx, id)
}

func (m *mockStore) ControlListMembers(ctx context.Context, id int64) ([]model.Member, error) {
	return m.controlListMembersFunc(ctx, id)
}

func (m *mockStore) SetControlListMembers(ctx context.Context, id int64, members []model.Member) error {
	return m.setControlListMembersFunc(ctx, id, members)
}

func (m *mockStore) ControlListMembership(ctx context.Context, id, userID int64) (model.Member, error) {
	return m.controlListMembershipFunc(ctx, id, userID)
}

func (m *mockStore) AllowedValues(ctx context.Context, r store.AllowedValuesRequest) ([]model.AllowedValue, int, error) {
	return m.allowedValuesFunc(ctx, r)
}

func (m *mockStore) CountAllowed(ctx context.Context, controlListID int64, f model.Field) (int, error) {
	return m.countAllowedFunc(ctx, controlListID, f)
}

func (m *mockStore) IsAllowed(ctx context.Context, controlListID int64, f model.Field, label string) (bool, error) {
	return m.isAllowedFunc(ctx, controlListID, f, label)
}

func (m *mockStore) ReplaceAllowed(ctx context.Context, controlListID int64, f model.Field, values []model.AllowedValue) error {
	return m.replaceAllowedFunc(ctx, controlListID, f, values)
}

func (m *mockStore) AddAllowed(ctx context.Context, controlListID int64, f model.Field, v model.AllowedValue) (int64, error) {
	return m.addAllowedFunc(ctx, controlListID, f, v)
}

func (m *mockStore) DeleteAllowed(ctx context.Context, controlListID int64, f model.Field, id int64) error {
	return m.deleteAllowedFunc(ctx, controlListID, f, id)
}

func (m *mockStore) CreateCorpus(ctx context.Context, r store.CreateCorpusRequest) (int64, error) {
	return m.createCorpusFunc(ctx, r)
}

func (m *mockStore) GetCorpus(ctx context.Context, id int64) (model.Corpus, error) {
	return m.getCorpusFunc(ctx, id)
}

func (m *mockStore) ListCorpora(ctx context.Context, r store.ListCorporaRequest) ([]model.Corpus, error) {
	return m.listCorporaFunc(ctx, r)
}

func (m *mockStore) DeleteCorpus(ctx context.Context, id int64) error {
	return m.deleteCorpusFunc(ctx, id)
}

func (m *mockStore) CorpusMembers(ctx context.Context, id int64) ([]model.Member, error) {
	return m.corpusMembersFunc(ctx, id)
}

func (m *mockStore) SetCorpusMembers(ctx context.Context, id int64, members []model.Member) error {
	return m.setCorpusMembersFunc(ctx, id, members)
}

func (m *mockStore) CorpusMembership(ctx context.Context, id, userID int64) (model.Member, error) {
	return m.corpusMembershipFunc(ctx, id, userID)
}

func (m *mockStore) Columns(ctx context.Context, corpusID int64) ([]model.Column, error) {
	return m.columnsFunc(ctx, corpusID)
}

func (m *mockStore) SetColumns(ctx context.Context, corpusID int64, cols []model.Column) error {
	return m.setColumnsFunc(ctx, corpusID, cols)
}

func (m *mockStore) GetBookmark(ctx context.Context, userID, corpusID int64) (model.Bookmark, error) {
	return m.getBookmarkFunc(ctx, userID, corpusID)
}

func (m *mockStore) SetBookmark(ctx context.Context, b model.Bookmark) error {
	return m.setBookmarkFunc(ctx, b)
}

func (m *mockStore) DeleteBookmark(ctx context.Context, userID, corpusID int64) error {
	return m.deleteBookmarkFunc(ctx, userID, corpusID)
}

func (m *mockStore) InsertTokens(ctx context.Context, corpusID int64, tokens []model.WordToken) error {
	return m.insertTokensFunc(ctx, corpusID, tokens)
}

func (m *mockStore) InsertToken(ctx context.Context, t model.WordToken) (int64, error) {
	return m.insertTokenFunc(ctx, t)
}

func (m *mockStore) GetToken(ctx context.Context, corpusID, tokenID int64) (model.WordToken, error) {
	return m.getTokenFunc(ctx, corpusID, tokenID)
}

func (m *mockStore) TokensByID(ctx context.Context, corpusID int64, ids []int64) ([]model.WordToken, error) {
	return m.tokensByIDFunc(ctx, corpusID, ids)
}

func (m *mockStore) ListTokens(ctx context.Context, r store.ListTokensRequest) ([]model.WordToken, int, error) {
	return m.listTokensFunc(ctx, r)
}

func (m *mockStore) SearchTokens(ctx context.Context, r store.SearchTokensRequest) ([]model.WordToken, int, error) {
	return m.searchTokensFunc(ctx, r)
}

func (m *mockStore) UnallowedTokens(ctx context.Context, r store.UnallowedTokensRequest) ([]model.WordToken, int, error) {
	return m.unallowedTokensFunc(ctx, r)
}

func (m *mockStore) SimilarTokens(ctx context.Context, tokenID int64, mode model.SimilarityMode) ([]model.WordToken, error) {
	return m.similarTokensFunc(ctx, tokenID, mode)
}

func (m *mockStore) SimilarToRecord(ctx context.Context, rec model.ChangeRecord) ([]model.WordToken, error) {
	return m.similarToRecordFunc(ctx, rec)
}

func (m *mockStore) CountTokens(ctx context.Context, corpusID int64) (int, error) {
	return m.countTokensFunc(ctx, corpusID)
}

func (m *mockStore) DistinctValues(ctx context.Context, r store.DistinctValuesRequest) ([]string, error) {
	return m.distinctValuesFunc(ctx, r)
}

func (m *mockStore) UpdateAnnotation(ctx context.Context, tokenID int64, a model.Annotation) error {
	return m.updateAnnotationFunc(ctx, tokenID, a)
}

func (m *mockStore) UpdateForm(ctx context.Context, tokenID int64, form string) error {
	return m.updateFormFunc(ctx, tokenID, form)
}

func (m *mockStore) DeleteToken(ctx context.Context, tokenID int64) error {
	return m.deleteTokenFunc(ctx, tokenID)
}

func (m *mockStore) ShiftOrder(ctx context.Context, corpusID int64, from, delta int) error {
	return m.shiftOrderFunc(ctx, corpusID, from, delta)
}

func (m *mockStore) Forms(ctx context.Context, corpusID int64, first, last int) ([]string, error) {
	return m.formsFunc(ctx, corpusID, first, last)
}

func (m *mockStore) SetContexts(ctx context.Context, corpusID int64, first int, contexts []model.Context) error {
	return m.setContextsFunc(ctx, corpusID, first, contexts)
}

func (m *mockStore) InsertChangeRecord(ctx context.Context, r model.ChangeRecord) (int64, error) {
	return m.insertChangeRecordFunc(ctx, r)
}

func (m *mockStore) GetChangeRecord(ctx context.Context, corpusID, id int64) (model.ChangeRecord, error) {
	return m.getChangeRecordFunc(ctx, corpusID, id)
}

func (m *mockStore) ListChangeRecords(ctx context.Context, r store.ListChangeRecordsRequest) ([]model.ChangeRecord, int, error) {
	return m.listChangeRecordsFunc(ctx, r)
}

func (m *mockStore) InsertTokenHistory(ctx context.Context, h model.TokenHistory) (int64, error) {
	return m.insertTokenHistoryFunc(ctx, h)
}

func (m *mockStore) ListTokenHistory(ctx context.Context, r store.ListTokenHistoryRequest) ([]model.TokenHistory, int, error) {
	return m.listTokenHistoryFunc(ctx, r)
}

func (m *mockStore) DictionaryEntries(ctx context.Context, corpusID int64, f model.Field) ([]model.DictionaryEntry, error) {
	return m.dictionaryEntriesFunc(ctx, corpusID, f)
}

func (m *mockStore) InDictionary(ctx context.Context, corpusID int64, f model.Field, label string) (bool, error) {
	return m.inDictionaryFunc(ctx, corpusID, f, label)
}

func (m *mockStore) AddDictionaryEntry(ctx context.Context, e model.DictionaryEntry) (int64, error) {
	return m.addDictionaryEntryFunc(ctx, e)
}

func (m *mockStore) DeleteDictionaryEntry(ctx context.Context, corpusID int64, f model.Field, label string) error {
	return m.deleteDictionaryEntryFunc(ctx, corpusID, f, label)
}

func (m *mockStore) ReplaceDictionary(ctx context.Context, corpusID int64, f model.Field, entries []model.DictionaryEntry) error {
	return m.replaceDictionaryFunc(ctx, corpusID, f, entries)
}

func (m *mockStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	return fn(m)
}
