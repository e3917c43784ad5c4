package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wikiforge/requestwiki/pkg/identity"
	"github.com/wikiforge/requestwiki/pkg/request"
)

func sampleRequest() *request.WikiRequest {
	req := request.New(identity.Ref{ID: 7, Name: "Requester"}, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	req.Sitename = "Song Contest Wiki"
	req.Subdomain = "songcontest"
	req.DBName = "songcontestwiki"
	req.Language = "en"
	req.Description = "A wiki about song contests."
	return req
}

// storeUnderTest runs the shared contract against both implementations.
func storeUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "requests.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestCreateAndGet(t *testing.T) {
	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			req := sampleRequest()

			id, err := st.Create(ctx, req)
			require.NoError(t, err)
			require.NotZero(t, id)

			got, err := st.Get(ctx, id)
			require.NoError(t, err)
			require.Equal(t, req.Sitename, got.Sitename)
			require.Equal(t, req.DBName, got.DBName)
			require.Equal(t, request.StatusInReview, got.Status)
			require.Equal(t, req.Requester, got.Requester)
			require.True(t, req.Timestamp.Equal(got.Timestamp), "timestamp mismatch: %v vs %v", req.Timestamp, got.Timestamp)
		})
	}
}

func TestGetMissing(t *testing.T) {
	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(context.Background(), 12345)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestUpdatePersistsTransitions(t *testing.T) {
	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			req := sampleRequest()
			id, err := st.Create(ctx, req)
			require.NoError(t, err)
			req.ID = id

			reviewer := identity.Ref{ID: 42, Name: "Reviewer"}
			req.Decline("Too vague.", reviewer, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
			req.SetVisibility(request.VisibilityHidden)
			require.NoError(t, st.Update(ctx, req))

			got, err := st.Get(ctx, id)
			require.NoError(t, err)
			require.Equal(t, request.StatusDeclined, got.Status)
			require.Equal(t, request.VisibilityHidden, got.Visibility)
			require.Len(t, got.Comments, 1)
			require.Equal(t, "Too vague.", got.Comments[0].Text)
			require.Equal(t, reviewer, got.Comments[0].Author)
		})
	}
}

func TestUpdateMissing(t *testing.T) {
	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			req := sampleRequest()
			req.ID = 999
			require.ErrorIs(t, st.Update(context.Background(), req), ErrNotFound)
		})
	}
}

func TestUpdateAppendsOnlyNewComments(t *testing.T) {
	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			req := sampleRequest()
			id, err := st.Create(ctx, req)
			require.NoError(t, err)
			req.ID = id

			author := identity.Ref{ID: 7, Name: "Requester"}
			req.AddComment("first", author, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))
			require.NoError(t, st.Update(ctx, req))
			req.AddComment("second", author, time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC))
			require.NoError(t, st.Update(ctx, req))

			got, err := st.Get(ctx, id)
			require.NoError(t, err)
			require.Len(t, got.Comments, 2)
			require.Equal(t, "first", got.Comments[0].Text)
			require.Equal(t, "second", got.Comments[1].Text)
		})
	}
}

func TestSubdomainExists(t *testing.T) {
	for name, st := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			taken, err := st.SubdomainExists(ctx, "songcontestwiki")
			require.NoError(t, err)
			require.False(t, taken)

			require.NoError(t, st.AddWiki(ctx, "songcontestwiki"))
			// Registering twice must not fail.
			require.NoError(t, st.AddWiki(ctx, "songcontestwiki"))

			taken, err = st.SubdomainExists(ctx, "songcontestwiki")
			require.NoError(t, err)
			require.True(t, taken)
		})
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	req := sampleRequest()
	id, err := mem.Create(ctx, req)
	require.NoError(t, err)

	got, err := mem.Get(ctx, id)
	require.NoError(t, err)
	got.Sitename = "Mutated"
	got.AddComment("sneaky", identity.Ref{ID: 1, Name: "X"}, time.Now())

	fresh, err := mem.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Song Contest Wiki", fresh.Sitename)
	require.Empty(t, fresh.Comments)
}
