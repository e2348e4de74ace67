package reconciler

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entity(id string) Entity {
	return Entity{ID: id, Email: id + "@example.com", Name: id}
}

func collectionOf(ids ...string) Collection {
	c := make(Collection, len(ids))
	for i, id := range ids {
		c[i] = entity(id)
	}
	return c
}

func TestReconcile_DeleteThenInsertSameIndex(t *testing.T) {
	current := collectionOf("A", "B", "C", "D")

	res := Reconcile(current, []MutationRequest{
		DeleteAt(1),
		InsertAt(entity("E"), 1),
	}, Options{})

	assert.Equal(t, []string{"A", "E", "C", "D"}, res.Next.IDs())
	require.Len(t, res.Steps, 2)
	assert.Equal(t, ReplayDelete, res.Steps[0].Kind)
	assert.Equal(t, 1, res.Steps[0].Index)
	assert.Equal(t, ReplayInsert, res.Steps[1].Kind)
	assert.Equal(t, 1, res.Steps[1].Index)
	assert.True(t, res.MutationEnabled)
}

func TestReconcile_DoesNotMutateCurrent(t *testing.T) {
	current := collectionOf("A", "B", "C")

	Reconcile(current, []MutationRequest{
		RenameAt(0, "Zed"),
		ReloadAt(1),
		DeleteAt(2),
		InsertAt(entity("X"), 0),
	}, Options{})

	assert.Equal(t, collectionOf("A", "B", "C"), current)
}

func TestReconcile_DisablesMutationBelowMinimum(t *testing.T) {
	current := collectionOf("A", "B")

	res := Reconcile(current, []MutationRequest{DeleteAt(0)}, Options{})

	assert.Equal(t, []string{"B"}, res.Next.IDs())
	assert.False(t, res.MutationEnabled)
}

func TestReconcile_CustomMinimum(t *testing.T) {
	current := collectionOf("A", "B", "C", "D", "E")

	res := Reconcile(current, []MutationRequest{DeleteAt(0), DeleteAt(1)}, Options{MinimumEntities: 4})

	assert.Len(t, res.Next, 3)
	assert.False(t, res.MutationEnabled)
}

func TestReconcile_EmptyCollection(t *testing.T) {
	res := Reconcile(nil, []MutationRequest{DeleteAt(0), ReloadAt(0), MoveFrom(0, 1)}, Options{})

	assert.Empty(t, res.Next)
	assert.Empty(t, res.Steps)
	assert.False(t, res.MutationEnabled)
	assert.Equal(t, 1, res.Stats[KindDelete].Dropped)
	assert.Equal(t, 1, res.Stats[KindReload].Dropped)
	assert.Equal(t, 1, res.Stats[KindMove].Dropped)
}

func TestReconcile_InsertIntoEmptyCollection(t *testing.T) {
	res := Reconcile(nil, []MutationRequest{InsertAt(entity("A"), 0)}, Options{})

	assert.Equal(t, []string{"A"}, res.Next.IDs())
	assert.False(t, res.MutationEnabled)
}

func TestReconcile_DuplicateReloadCollapses(t *testing.T) {
	current := collectionOf("A", "B")

	res := Reconcile(current, []MutationRequest{ReloadAt(0), ReloadAt(0)}, Options{})

	require.Len(t, res.Steps, 1)
	assert.Equal(t, ReplayOp{Kind: ReplayRefresh, Index: 0, Entity: res.Steps[0].Entity}, res.Steps[0])
	assert.True(t, res.Next[0].Active, "a single reload toggles the status once")
	assert.Equal(t, KindStats{Applied: 1, Dropped: 1}, res.Stats[KindReload])
}

func TestReconcile_FirstSeenWins(t *testing.T) {
	current := collectionOf("A", "B", "C")

	tests := []struct {
		name     string
		requests []MutationRequest
		expected []string
		names    []string
	}{
		{
			name:     "rename then reload on same index keeps rename",
			requests: []MutationRequest{RenameAt(1, "Bee"), ReloadAt(1)},
			expected: []string{"A", "B", "C"},
			names:    []string{"A", "Bee", "C"},
		},
		{
			name:     "two inserts at the same index keep the first",
			requests: []MutationRequest{InsertAt(entity("X"), 1), InsertAt(entity("Y"), 1)},
			expected: []string{"A", "X", "B", "C"},
		},
		{
			name:     "delete then move from same index keeps delete",
			requests: []MutationRequest{DeleteAt(0), MoveFrom(0, 2)},
			expected: []string{"B", "C"},
		},
		{
			name:     "move then insert at its destination keeps move",
			requests: []MutationRequest{MoveFrom(0, 2), InsertAt(entity("X"), 2)},
			expected: []string{"B", "C", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Reconcile(current, tt.requests, Options{})
			assert.Equal(t, tt.expected, res.Next.IDs())
			if tt.names != nil {
				var names []string
				for _, e := range res.Next {
					names = append(names, e.Name)
				}
				assert.Equal(t, tt.names, names)
			}
		})
	}
}

func TestReconcile_InvalidIndicesDropped(t *testing.T) {
	current := collectionOf("A", "B", "C")

	res := Reconcile(current, []MutationRequest{
		DeleteAt(-1),
		DeleteAt(3),
		InsertAt(entity("X"), 4),
		InsertAt(entity("Y"), -1),
		{Kind: KindInsert, Index: 0},
		ReloadAt(7),
		RenameAt(-2, "nope"),
		MoveFrom(0, 3),
		MoveFrom(5, 0),
		{Kind: MutationKind("Shuffle"), Index: 0},
	}, Options{})

	assert.Equal(t, current, res.Next)
	assert.Empty(t, res.Steps)
	assert.Equal(t, 2, res.Stats[KindDelete].Dropped)
	assert.Equal(t, 3, res.Stats[KindInsert].Dropped)
	assert.Equal(t, 1, res.Stats[KindReload].Dropped)
	assert.Equal(t, 1, res.Stats[KindRename].Dropped)
	assert.Equal(t, 2, res.Stats[KindMove].Dropped)
}

func TestReconcile_InsertAtEndIsValid(t *testing.T) {
	current := collectionOf("A", "B")

	res := Reconcile(current, []MutationRequest{InsertAt(entity("C"), 2)}, Options{})

	assert.Equal(t, []string{"A", "B", "C"}, res.Next.IDs())
	require.Len(t, res.Steps, 1)
	assert.Equal(t, 2, res.Steps[0].Index)
}

func TestReconcile_InsertOutOfRangeAfterDeletesDropped(t *testing.T) {
	current := collectionOf("A", "B", "C", "D")

	// Index 4 is inside the pre-batch bounds but beyond the length left
	// once two entities are gone.
	res := Reconcile(current, []MutationRequest{
		DeleteAt(0),
		DeleteAt(1),
		InsertAt(entity("X"), 4),
	}, Options{})

	assert.Equal(t, []string{"C", "D"}, res.Next.IDs())
	assert.Equal(t, 2, res.Deleted())
	assert.Equal(t, 0, res.Inserted())
	assert.Equal(t, KindStats{Dropped: 1}, res.Stats[KindInsert])
}

func TestReconcile_MoveSameIndexIsNoop(t *testing.T) {
	current := collectionOf("A", "B", "C")

	res := Reconcile(current, []MutationRequest{MoveFrom(1, 1)}, Options{})

	assert.Equal(t, current, res.Next)
	assert.Empty(t, res.Steps)
}

func TestReconcile_Move(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		expected []string
	}{
		{"forward", 0, 3, []string{"B", "C", "D", "A"}},
		{"backward", 3, 0, []string{"D", "A", "B", "C"}},
		{"adjacent", 1, 2, []string{"A", "C", "B", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := collectionOf("A", "B", "C", "D")
			res := Reconcile(current, []MutationRequest{MoveFrom(tt.from, tt.to)}, Options{})

			assert.Equal(t, tt.expected, res.Next.IDs())
			require.Len(t, res.Steps, 2)
			assert.Equal(t, ReplayOp{Kind: ReplayDelete, Index: tt.from}, res.Steps[0])
			assert.Equal(t, ReplayInsert, res.Steps[1].Kind)
			assert.Equal(t, tt.to, res.Steps[1].Index)
			assert.Equal(t, current[tt.from], *res.Steps[1].Entity)
		})
	}
}

func TestReconcile_MoveUsesPreBatchIndices(t *testing.T) {
	current := collectionOf("A", "B", "C", "D", "E")

	// Deleting index 0 must not shift the source of the move.
	res := Reconcile(current, []MutationRequest{DeleteAt(0), MoveFrom(3, 1)}, Options{})

	assert.Equal(t, []string{"B", "D", "C", "E"}, res.Next.IDs())
}

func TestReconcile_MoveCarriesRefreshedEntity(t *testing.T) {
	current := collectionOf("A", "B", "C")

	res := Reconcile(current, []MutationRequest{MoveFrom(0, 2), RenameAt(0, "Ay")}, Options{})

	require.Len(t, res.Next, 3)
	assert.Equal(t, "A", res.Next[2].ID)
	assert.Equal(t, "Ay", res.Next[2].Name)
}

func TestReconcile_MoveCancelledWhenDestinationVanishes(t *testing.T) {
	current := collectionOf("A", "B", "C", "D")

	res := Reconcile(current, []MutationRequest{
		DeleteAt(0),
		DeleteAt(1),
		MoveFrom(2, 3),
	}, Options{})

	// The move would land past the end, so it is dropped as a whole and C
	// keeps its place.
	assert.Equal(t, []string{"C", "D"}, res.Next.IDs())
	assert.Equal(t, KindStats{Dropped: 1}, res.Stats[KindMove])
	assert.Equal(t, KindStats{Applied: 2}, res.Stats[KindDelete])
	for _, s := range res.Steps {
		assert.NotEqual(t, 2, s.Index, "cancelled move must not emit ops")
	}
}

func TestReconcile_RefreshStepsComeFirst(t *testing.T) {
	current := collectionOf("A", "B", "C")

	res := Reconcile(current, []MutationRequest{
		DeleteAt(2),
		ReloadAt(0),
		InsertAt(entity("X"), 0),
		RenameAt(1, "Bee"),
	}, Options{})

	kinds := make([]ReplayKind, len(res.Steps))
	for i, s := range res.Steps {
		kinds[i] = s.Kind
	}
	assert.Equal(t, []ReplayKind{ReplayRefresh, ReplayRefresh, ReplayDelete, ReplayInsert}, kinds)
	assert.False(t, res.Steps[0].Kind.Animated())
	assert.True(t, res.Steps[2].Kind.Animated())
	assert.Equal(t, []string{"X", "A", "B"}, res.Next.IDs())
	assert.Equal(t, "Bee", res.Next[2].Name)
}

func TestReconcile_RenameDefaults(t *testing.T) {
	current := collectionOf("A")

	once := Reconcile(current, []MutationRequest{RenameAt(0, "")}, Options{})
	assert.Equal(t, "A *", once.Next[0].Name)

	twice := Reconcile(once.Next, []MutationRequest{RenameAt(0, "")}, Options{})
	assert.Equal(t, "A", twice.Next[0].Name)
}

func TestReconcile_CustomRefreshFuncs(t *testing.T) {
	current := collectionOf("A", "B")

	res := Reconcile(current, []MutationRequest{RenameAt(0, ""), ReloadAt(1)}, Options{
		RenameFunc: func(e Entity) string { return "renamed-" + e.ID },
		ReloadFunc: func(e Entity) Entity {
			e.AvatarURL = "reloaded"
			return e
		},
	})

	assert.Equal(t, "renamed-A", res.Next[0].Name)
	assert.Equal(t, "reloaded", res.Next[1].AvatarURL)
	assert.False(t, res.Next[1].Active)
}

func TestReconcile_BatchIDsAreUnique(t *testing.T) {
	current := collectionOf("A", "B")

	a := Reconcile(current, nil, Options{})
	b := Reconcile(current, nil, Options{})

	assert.NotEmpty(t, a.BatchID)
	assert.NotEqual(t, a.BatchID, b.BatchID)
	assert.Equal(t, current, a.Next)
	assert.True(t, a.MutationEnabled)
}

// randomBatch builds requests with indices that are frequently out of range
// or duplicated, the way "simulate changes" produces them.
func randomBatch(r *rand.Rand, n int, seq *int) []MutationRequest {
	var reqs []MutationRequest
	count := r.IntN(8)
	for range count {
		idx := r.IntN(n+3) - 1
		switch r.IntN(5) {
		case 0:
			reqs = append(reqs, DeleteAt(idx))
		case 1:
			*seq++
			reqs = append(reqs, InsertAt(entity("N"+string(rune('a'+*seq%26))+string(rune('a'+*seq/26%26))), idx))
		case 2:
			reqs = append(reqs, MoveFrom(idx, r.IntN(n+2)-1))
		case 3:
			reqs = append(reqs, ReloadAt(idx))
		default:
			reqs = append(reqs, RenameAt(idx, ""))
		}
	}
	return reqs
}

func TestReconcile_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	seq := 0

	for round := range 500 {
		current := collectionOf("A", "B", "C", "D", "E", "F")[:r.IntN(7)]
		batch := randomBatch(r, len(current), &seq)

		res := Reconcile(current, batch, Options{})

		validDeletes := res.Stats[KindDelete].Applied
		validInserts := res.Stats[KindInsert].Applied
		assert.Equal(t, len(current)-validDeletes+validInserts, len(res.Next),
			"round %d: length must follow valid deletes and inserts", round)
		assert.Equal(t, res.Next, ApplyTo(current, res.Steps),
			"round %d: replaying steps must reproduce the next collection", round)
		assert.Equal(t, len(res.Next) >= DefaultMinimumEntities, res.MutationEnabled)

		refreshSeen := map[int]bool{}
		for _, s := range res.Steps {
			if s.Kind == ReplayRefresh {
				assert.False(t, refreshSeen[s.Index], "round %d: duplicate refresh for %d", round, s.Index)
				refreshSeen[s.Index] = true
			}
		}
	}
}
