package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/zinote-backend/internal/adapter/memory"
	"github.com/heartmarshall/zinote-backend/internal/auth"
	"github.com/heartmarshall/zinote-backend/internal/config"
	"github.com/heartmarshall/zinote-backend/internal/domain"
	"github.com/heartmarshall/zinote-backend/pkg/ctxutil"
)

//go:generate moq -out record_store_mock_test.go -pkg dictionary . RecordStore

const coll = "health_dictionary"

func testConfig() config.DictionaryConfig {
	return config.DictionaryConfig{
		DefaultPageSize: 20,
		MaxPageSize:     200,
		BatchChunkSize:  500,
		SearchMinLength: 2,
		SuggestLimit:    10,
	}
}

// newTestService wires a Service over an in-memory store with a fixed actor.
func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(slog.Default(), store, NewMirrorCache(), auth.StaticIdentity("ana@example.com"), testConfig())
	return svc, store
}

func seedTerms(t *testing.T, svc *Service, terms ...string) []domain.Record {
	t.Helper()
	out := make([]domain.Record, 0, len(terms))
	for i, term := range terms {
		rec, err := svc.Add(context.Background(), coll, domain.Record{
			ID:         fmt.Sprintf("rec-%03d", i),
			SourceTerm: term,
			TargetTerm: term + " (tr)",
		})
		require.NoError(t, err)
		out = append(out, *rec)
	}
	return out
}

func sourceTerms(recs []domain.Record) []string {
	terms := make([]string, 0, len(recs))
	for _, r := range recs {
		terms = append(terms, r.SourceTerm)
	}
	return terms
}

// collectPages walks every page and returns the concatenated records.
func collectPages(t *testing.T, svc *Service, pageSize int) []domain.Record {
	t.Helper()
	var all []domain.Record
	cursor := ""
	for i := 0; i < 1000; i++ {
		page, err := svc.Paginate(context.Background(), coll, pageSize, cursor)
		require.NoError(t, err)
		all = append(all, page.Records...)
		if page.NextCursor == nil {
			return all
		}
		cursor = *page.NextCursor
	}
	t.Fatal("pagination did not terminate")
	return nil
}

// ---------------------------------------------------------------------------
// Soft delete
// ---------------------------------------------------------------------------

func TestService_DeletedRecordHiddenButRetrievable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	recs := seedTerms(t, svc, "Apple", "Apricot", "Banana")

	require.NoError(t, svc.Delete(ctx, coll, recs[0].ID))

	page, err := svc.Paginate(ctx, coll, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apricot", "Banana"}, sourceTerms(page.Records))

	list, err := svc.List(ctx, coll)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apricot", "Banana"}, sourceTerms(list))

	found, err := svc.Search(ctx, coll, "ap")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apricot"}, sourceTerms(found))

	got, err := svc.Get(ctx, coll, recs[0].ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	require.NotNil(t, got.DeletedBy)
	assert.Equal(t, "ana@example.com", *got.DeletedBy)

	stored, err := store.GetByID(ctx, coll, recs[0].ID)
	require.NoError(t, err)
	assert.True(t, stored.Deleted, "record must remain in storage")
}

func TestService_Delete_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	recs := seedTerms(t, svc, "Apple")

	require.NoError(t, svc.Delete(ctx, coll, recs[0].ID))
	require.NoError(t, svc.Delete(ctx, coll, recs[0].ID))
	assert.Equal(t, 1, store.Stats().SoftDelete)
}

func TestService_Delete_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	err := svc.Delete(context.Background(), coll, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Delete_LeavesContentUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	recs := seedTerms(t, svc, "Apple")

	require.NoError(t, svc.Delete(ctx, coll, recs[0].ID))
	got, err := svc.Get(ctx, coll, recs[0].ID)
	require.NoError(t, err)

	assert.Equal(t, recs[0].SourceTerm, got.SourceTerm)
	assert.Equal(t, recs[0].TargetTerm, got.TargetTerm)
	assert.Equal(t, recs[0].CreatedAt, got.CreatedAt)
	assert.Equal(t, recs[0].CreatedBy, got.CreatedBy)
}

// ---------------------------------------------------------------------------
// Pagination
// ---------------------------------------------------------------------------

func TestService_Paginate_ConcatenationMatchesListing(t *testing.T) {
	t.Parallel()

	terms := []string{"kiwi", "Apple", "fig", "Banana", "cherry", "date", "Elder", "grape", "honeydew", "lime", "mango"}

	for _, pageSize := range []int{1, 3, 4, 11, 50} {
		t.Run(fmt.Sprintf("remote/size=%d", pageSize), func(t *testing.T) {
			t.Parallel()

			svc, _ := newTestService(t)
			seedTerms(t, svc, terms...)
			require.NoError(t, svc.Delete(context.Background(), coll, "rec-004"))

			got := collectPages(t, svc, pageSize)
			assert.False(t, svc.cache.IsLoaded(coll), "remote paging must not mark the collection loaded")

			want, err := svc.List(context.Background(), coll)
			require.NoError(t, err)
			assert.Equal(t, sourceTerms(want), sourceTerms(got))
		})

		t.Run(fmt.Sprintf("cached/size=%d", pageSize), func(t *testing.T) {
			t.Parallel()

			svc, store := newTestService(t)
			seedTerms(t, svc, terms...)
			require.NoError(t, svc.Delete(context.Background(), coll, "rec-004"))

			want, err := svc.List(context.Background(), coll)
			require.NoError(t, err)

			got := collectPages(t, svc, pageSize)
			assert.Equal(t, sourceTerms(want), sourceTerms(got))
			assert.Zero(t, store.Stats().QueryPage, "cached paging must not hit the store")
		})
	}
}

func TestService_Paginate_SortIsCaseSensitive(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedTerms(t, svc, "banana", "Cherry", "apple")

	got := collectPages(t, svc, 2)
	assert.Equal(t, []string{"Cherry", "apple", "banana"}, sourceTerms(got))
}

func TestService_Paginate_EmptyCollection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	page, err := svc.Paginate(ctx, coll, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Nil(t, page.NextCursor)

	_, err = svc.List(ctx, coll)
	require.NoError(t, err)
	page, err = svc.Paginate(ctx, coll, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Nil(t, page.NextCursor)
}

func TestService_Paginate_InvalidInput(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		pageSize int
		cursor   string
	}{
		{name: "zero page size", pageSize: 0},
		{name: "negative page size", pageSize: -3},
		{name: "garbage cursor", pageSize: 10, cursor: "!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Paginate(context.Background(), coll, tt.pageSize, tt.cursor)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestService_Paginate_MarkerCursorReplayedAfterLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	seedTerms(t, svc, "a1", "a2", "a3", "a4", "a5")

	first, err := svc.Paginate(ctx, coll, 2, "")
	require.NoError(t, err)
	require.NotNil(t, first.NextCursor)

	// The session becomes fully cached between pages.
	_, err = svc.List(ctx, coll)
	require.NoError(t, err)

	second, err := svc.Paginate(ctx, coll, 2, *first.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, []string{"a3", "a4"}, sourceTerms(second.Records))
}

func TestService_Paginate_StaleMarkerRestartsFromBeginning(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	seedTerms(t, svc, "a1", "a2", "a3", "a4", "a5")

	first, err := svc.Paginate(ctx, coll, 2, "")
	require.NoError(t, err)
	require.NotNil(t, first.NextCursor)

	require.NoError(t, svc.Delete(ctx, coll, first.Records[1].ID))
	_, err = svc.List(ctx, coll)
	require.NoError(t, err)

	resumed, err := svc.Paginate(ctx, coll, 2, *first.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a3"}, sourceTerms(resumed.Records))
}

func TestService_Paginate_OffsetCursorAfterInvalidateReloads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	seedTerms(t, svc, "a1", "a2", "a3")

	_, err := svc.List(ctx, coll)
	require.NoError(t, err)
	first, err := svc.Paginate(ctx, coll, 2, "")
	require.NoError(t, err)
	require.NotNil(t, first.NextCursor)

	require.NoError(t, svc.Invalidate(ctx, coll))

	second, err := svc.Paginate(ctx, coll, 2, *first.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, []string{"a3"}, sourceTerms(second.Records))
	assert.Nil(t, second.NextCursor)
	assert.Equal(t, 2, store.Stats().GetAll)
}

func TestService_Paginate_ClampsToMaxPageSize(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	cfg := testConfig()
	cfg.DefaultPageSize = 2
	cfg.MaxPageSize = 3
	svc := NewService(slog.Default(), store, nil, nil, cfg)
	seedTerms(t, svc, "a", "b", "c", "d", "e")

	page, err := svc.Paginate(context.Background(), coll, 100, "")
	require.NoError(t, err)
	assert.Len(t, page.Records, 3)
	assert.NotNil(t, page.NextCursor)
}

// ---------------------------------------------------------------------------
// Load all / cache
// ---------------------------------------------------------------------------

func TestService_LoadAllTwice_SingleFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	for i, term := range []string{"Apple", "Grape", "Banana"} {
		require.NoError(t, store.Put(ctx, coll, domain.Record{ID: fmt.Sprintf("r%d", i), SourceTerm: term}))
	}
	svc := NewService(slog.Default(), store, NewMirrorCache(), nil, testConfig())

	first, err := svc.List(ctx, coll)
	require.NoError(t, err)
	second, err := svc.List(ctx, coll)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.Stats().GetAll)

	_, err = svc.Search(ctx, coll, "ap")
	require.NoError(t, err)
	_, err = svc.Paginate(ctx, coll, 2, "")
	require.NoError(t, err)
	_, err = svc.Get(ctx, coll, "r1")
	require.NoError(t, err)

	st := store.Stats()
	assert.Equal(t, 1, st.GetAll)
	assert.Zero(t, st.QueryPage)
	assert.Zero(t, st.GetByID)
}

func TestService_LoadAll_ConcurrentCallsShareFetch(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	mock := &RecordStoreMock{
		GetAllFunc: func(ctx context.Context, collection string) ([]domain.Record, error) {
			<-release
			return []domain.Record{{ID: "a", SourceTerm: "Apple"}}, nil
		},
	}
	svc := NewService(slog.Default(), mock, nil, nil, testConfig())

	const callers = 5
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := svc.List(context.Background(), coll)
			errs <- err
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	for i := 0; i < callers; i++ {
		require.NoError(t, <-errs)
	}
	assert.LessOrEqual(t, len(mock.GetAllCalls()), 2)
}

func TestService_Invalidate_ForcesRefetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	seedTerms(t, svc, "Apple")

	_, err := svc.List(ctx, coll)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, coll, domain.Record{ID: "external", SourceTerm: "Zucchini"}))
	stale, err := svc.List(ctx, coll)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	require.NoError(t, svc.Invalidate(ctx, coll))
	fresh, err := svc.List(ctx, coll)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Zucchini"}, sourceTerms(fresh))
	assert.Equal(t, 2, store.Stats().GetAll)
}

func TestService_Get_ReadThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Put(ctx, coll, domain.Record{ID: "r1", SourceTerm: "Apple"}))
	svc := NewService(slog.Default(), store, nil, nil, testConfig())

	for i := 0; i < 3; i++ {
		rec, err := svc.Get(ctx, coll, "r1")
		require.NoError(t, err)
		assert.Equal(t, "Apple", rec.SourceTerm)
	}
	assert.Equal(t, 1, store.Stats().GetByID)

	_, err := svc.Get(ctx, coll, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Search / suggest
// ---------------------------------------------------------------------------

func TestService_Search_Substring(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedTerms(t, svc, "Apple", "Grape", "Banana")

	got, err := svc.Search(context.Background(), coll, "ap")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Grape"}, sourceTerms(got))

	got, err = svc.Search(context.Background(), coll, "  AP ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Grape"}, sourceTerms(got))
}

func TestService_Search_BlankQueryReturnsFirstPage(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	cfg := testConfig()
	cfg.DefaultPageSize = 2
	svc := NewService(slog.Default(), store, nil, nil, cfg)
	seedTerms(t, svc, "c", "a", "b")

	got, err := svc.Search(context.Background(), coll, "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sourceTerms(got))
}

func TestService_Search_NoMatches(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedTerms(t, svc, "Apple")

	got, err := svc.Search(context.Background(), coll, "xyz")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_Suggest_PrefixInBothModes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	recs := seedTerms(t, svc, "Apple", "Grape", "Banana", "apricot", "Apex")
	require.NoError(t, svc.Delete(ctx, coll, recs[4].ID))

	remote, err := svc.Suggest(ctx, coll, "ap", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "apricot"}, sourceTerms(remote))
	assert.Equal(t, 1, store.Stats().QueryPrefix)

	_, err = svc.List(ctx, coll)
	require.NoError(t, err)

	cached, err := svc.Suggest(ctx, coll, "ap", 0)
	require.NoError(t, err)
	assert.Equal(t, sourceTerms(remote), sourceTerms(cached))
	assert.Equal(t, 1, store.Stats().QueryPrefix, "cached suggest must not hit the store")
}

func TestService_Suggest_Limit(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedTerms(t, svc, "ab1", "ab2", "ab3", "ab4")

	got, err := svc.Suggest(context.Background(), coll, "ab", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab1", "ab2"}, sourceTerms(got))

	got, err = svc.Suggest(context.Background(), coll, " ", 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// ---------------------------------------------------------------------------
// Mutations and audit
// ---------------------------------------------------------------------------

func TestService_Add_StampsAudit(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	rec, err := svc.Add(context.Background(), coll, domain.Record{
		SourceTerm: "fever",
		Deleted:    true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, fixed, rec.CreatedAt)
	assert.Equal(t, "ana@example.com", rec.CreatedBy)
	assert.Equal(t, fixed, rec.ModifiedAt)
	assert.Equal(t, "ana@example.com", rec.ModifiedBy)
	assert.False(t, rec.Deleted)
	assert.Nil(t, rec.DeletedAt)
}

func TestService_Add_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	tests := []struct {
		name       string
		collection string
		rec        domain.Record
	}{
		{name: "blank terms", collection: coll, rec: domain.Record{SourceTerm: "  ", TargetTerm: ""}},
		{name: "bad id", collection: coll, rec: domain.Record{ID: "a|b", SourceTerm: "x"}},
		{name: "bad collection", collection: "Bad Name", rec: domain.Record{SourceTerm: "x"}},
		{name: "traversal collection", collection: "../etc", rec: domain.Record{SourceTerm: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Add(context.Background(), tt.collection, tt.rec)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestService_Add_TargetOnlyAccepted(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Add(context.Background(), coll, domain.Record{TargetTerm: "ateş"})
	require.NoError(t, err)
}

func TestService_Add_Duplicate(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedTerms(t, svc, "Apple")

	_, err := svc.Add(context.Background(), coll, domain.Record{ID: "rec-000", SourceTerm: "Other"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestService_Collection_AllowList(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Collections = []string{"health_dictionary"}
	svc := NewService(slog.Default(), memory.NewStore(), nil, nil, cfg)

	_, err := svc.List(context.Background(), "military_dictionary")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.List(context.Background(), "health_dictionary")
	assert.NoError(t, err)
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	recs := seedTerms(t, svc, "Apple")
	var held *domain.Record
	require.True(t, svc.cache.View(coll, recs[0].ID, func(r *domain.Record) { held = r }))

	updated, err := svc.Update(ctx, coll, recs[0].ID, domain.Record{
		SourceTerm: "Apple",
		TargetTerm: "elma",
		Definition: "a fruit",
		Forbidden:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "elma", updated.TargetTerm)
	assert.True(t, updated.Forbidden)
	assert.Equal(t, recs[0].CreatedAt, updated.CreatedAt)
	assert.Equal(t, recs[0].CreatedBy, updated.CreatedBy)
	svc.cache.View(coll, recs[0].ID, func(r *domain.Record) {
		assert.Same(t, held, r, "cached instance must be updated in place")
		assert.Equal(t, "elma", r.TargetTerm)
	})
}

func TestService_Update_DeletedIsNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	recs := seedTerms(t, svc, "Apple")
	require.NoError(t, svc.Delete(ctx, coll, recs[0].ID))

	_, err := svc.Update(ctx, coll, recs[0].ID, domain.Record{SourceTerm: "Apple"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_ModifiedAtMonotonic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	clock := []time.Time{
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), // clock stepped back
		time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
	}
	tick := 0
	svc.now = func() time.Time {
		now := clock[tick]
		tick++
		return now
	}

	rec, err := svc.Add(ctx, coll, domain.Record{ID: "r1", SourceTerm: "Apple"})
	require.NoError(t, err)
	prev := rec.ModifiedAt

	for i := 0; i < 2; i++ {
		upd, err := svc.Update(ctx, coll, "r1", domain.Record{SourceTerm: "Apple", Notes: fmt.Sprint(i)})
		require.NoError(t, err)
		assert.False(t, upd.ModifiedAt.Before(prev), "modifiedAt went backwards at update %d", i)
		prev = upd.ModifiedAt
	}
}

func TestService_UnknownActorFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity identity
		ctx      context.Context
		want     string
	}{
		{
			name: "no identity",
			ctx:  context.Background(),
			want: domain.UnknownActor,
		},
		{
			name:     "anonymous context",
			identity: auth.ContextIdentity{},
			ctx:      context.Background(),
			want:     domain.UnknownActor,
		},
		{
			name:     "guest session",
			identity: auth.ContextIdentity{},
			ctx:      ctxutil.WithActor(context.Background(), auth.GuestActor()),
			want:     domain.UnknownActor,
		},
		{
			name:     "signed in",
			identity: auth.ContextIdentity{},
			ctx:      ctxutil.WithActor(context.Background(), ctxutil.Actor{ID: "u1", Email: "ana@example.com"}),
			want:     "ana@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewService(slog.Default(), memory.NewStore(), nil, tt.identity, testConfig())
			rec, err := svc.Add(tt.ctx, coll, domain.Record{SourceTerm: "Apple"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.CreatedBy)
			assert.Equal(t, tt.want, rec.ModifiedBy)
		})
	}
}

func TestService_BatchAdd_Chunks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	recs := make([]domain.Record, 1200)
	for i := range recs {
		recs[i] = domain.Record{SourceTerm: fmt.Sprintf("term %04d", i)}
	}

	res, err := svc.BatchAdd(ctx, coll, recs)
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Written: 1200, Chunks: 3}, res)
	assert.Equal(t, []int{500, 500, 200}, store.Stats().Chunks)

	list, err := svc.List(ctx, coll)
	require.NoError(t, err)
	require.Len(t, list, 1200)
	for _, r := range list {
		assert.Equal(t, "ana@example.com", r.CreatedBy)
		assert.NotEmpty(t, r.ID)
	}
}

func TestService_BatchAdd_RejectsInvalidRecords(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	_, err := svc.BatchAdd(context.Background(), coll, []domain.Record{
		{SourceTerm: "ok"},
		{},
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "records[1]", verr.Errors[0].Field)
	assert.Zero(t, store.Stats().BatchWrite)
}

// ---------------------------------------------------------------------------
// Store failures
// ---------------------------------------------------------------------------

func TestService_StoreFailureIsTyped(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	mock := &RecordStoreMock{
		GetAllFunc: func(ctx context.Context, collection string) ([]domain.Record, error) {
			return nil, boom
		},
		GetByIDFunc: func(ctx context.Context, collection, id string) (*domain.Record, error) {
			return nil, boom
		},
		QueryPageFunc: func(ctx context.Context, collection string, limit int, after *domain.PageMarker) ([]domain.Record, error) {
			return nil, boom
		},
		QueryPrefixRangeFunc: func(ctx context.Context, collection, field, lower, upper string) ([]domain.Record, error) {
			return nil, boom
		},
		BatchWriteFunc: func(ctx context.Context, collection string, recs []domain.Record, chunkSize int) (int, error) {
			return 0, boom
		},
	}
	svc := NewService(slog.Default(), mock, nil, nil, testConfig())
	ctx := context.Background()

	_, err := svc.List(ctx, coll)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Get(ctx, coll, "r1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.Paginate(ctx, coll, 10, "")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.Suggest(ctx, coll, "ap", 5)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.Add(ctx, coll, domain.Record{SourceTerm: "x"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.BatchAdd(ctx, coll, []domain.Record{{SourceTerm: "x"}})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	assert.False(t, svc.cache.IsLoaded(coll))
}

func TestService_StoreNotFoundPassesThrough(t *testing.T) {
	t.Parallel()

	mock := &RecordStoreMock{
		GetByIDFunc: func(ctx context.Context, collection, id string) (*domain.Record, error) {
			return nil, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
		},
	}
	svc := NewService(slog.Default(), mock, nil, nil, testConfig())

	_, err := svc.Get(context.Background(), coll, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
}
