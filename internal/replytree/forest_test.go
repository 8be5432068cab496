package replytree

import (
	"math/rand"
	"testing"
	"time"

	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return base.Add(time.Duration(sec) * time.Second)
}

func reply(sec int, parent *models.Reply) models.Reply {
	r := models.Reply{
		ID:        primitive.NewObjectID(),
		Content:   "reply",
		AuthorID:  "1",
		CreatedAt: at(sec),
	}
	if parent != nil {
		pid := parent.ID
		r.ParentID = &pid
		r.Level = parent.Level + 1
	}
	return r
}

func ids(nodes []*Node) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func collectIDs(nodes []*Node, into map[primitive.ObjectID]int) {
	for _, n := range nodes {
		into[n.ID]++
		collectIDs(n.ChildReplies, into)
	}
}

func assertNewestFirst(t *testing.T, nodes []*Node) {
	t.Helper()
	for i := 1; i < len(nodes); i++ {
		assert.False(t, nodes[i].CreatedAt.After(nodes[i-1].CreatedAt),
			"node %s is newer than its predecessor", nodes[i].ID.Hex())
	}
	for _, n := range nodes {
		assertNewestFirst(t, n.ChildReplies)
	}
}

// TestBuildForest_Scenario verifies roots newest first and a child nested under its parent.
func TestBuildForest_Scenario(t *testing.T) {
	r1 := reply(1, nil)
	r2 := reply(2, &r1)
	r3 := reply(3, nil)

	forest := BuildForest([]models.Reply{r1, r2, r3})

	require.Len(t, forest, 2)
	assert.Equal(t, []primitive.ObjectID{r3.ID, r1.ID}, ids(forest))
	assert.Equal(t, []primitive.ObjectID{r2.ID}, ids(forest[1].ChildReplies))
	assert.Empty(t, forest[0].ChildReplies)
	assert.NotNil(t, forest[0].ChildReplies, "leaf nodes carry an empty list, not nil")
}

func TestBuildForest_Empty(t *testing.T) {
	forest := BuildForest(nil)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

// TestBuildForest_OrderingAtEveryLevel checks [t1<t2<t3] comes back as [t3,t2,t1].
func TestBuildForest_OrderingAtEveryLevel(t *testing.T) {
	root := reply(0, nil)
	c1 := reply(1, &root)
	c2 := reply(2, &root)
	c3 := reply(3, &root)
	g1 := reply(4, &c2)
	g2 := reply(5, &c2)

	forest := BuildForest([]models.Reply{c2, g1, root, c1, g2, c3})

	require.Len(t, forest, 1)
	assert.Equal(t, []primitive.ObjectID{c3.ID, c2.ID, c1.ID}, ids(forest[0].ChildReplies))
	assert.Equal(t, []primitive.ObjectID{g2.ID, g1.ID}, ids(forest[0].ChildReplies[1].ChildReplies))
}

func TestBuildForest_OrphanPromotedToRoot(t *testing.T) {
	gone := primitive.NewObjectID()
	orphan := reply(5, nil)
	orphan.ParentID = &gone
	orphan.Level = 2
	r := reply(1, nil)

	forest := BuildForest([]models.Reply{r, orphan})

	require.Len(t, forest, 2)
	assert.Equal(t, orphan.ID, forest[0].ID)
	assert.Equal(t, 2, forest[0].Level, "cached level is reported as stored")
}

func TestBuildForest_SelfParentIsRoot(t *testing.T) {
	r := reply(1, nil)
	self := r.ID
	r.ParentID = &self

	forest := BuildForest([]models.Reply{r})
	require.Len(t, forest, 1)
	assert.Empty(t, forest[0].ChildReplies)
}

func TestBuildForest_ParentCycleKeepsEveryReply(t *testing.T) {
	a := reply(1, nil)
	b := reply(2, &a)
	aParent := b.ID
	a.ParentID = &aParent
	c := reply(3, nil)

	forest := BuildForest([]models.Reply{a, b, c})

	assert.Equal(t, 3, Count(forest))
	require.Len(t, forest, 2)
	assert.Equal(t, []primitive.ObjectID{c.ID, a.ID}, ids(forest))
	require.Len(t, forest[1].ChildReplies, 1)
	assert.Equal(t, b.ID, forest[1].ChildReplies[0].ID)
	assert.Empty(t, forest[1].ChildReplies[0].ChildReplies)
}

func TestBuildForest_LongCycleWithBranch(t *testing.T) {
	a := reply(1, nil)
	b := reply(2, &a)
	c := reply(3, &b)
	tail := reply(4, &c)
	cParent := c.ID
	a.ParentID = &cParent

	// tail hangs off the cycle and comes first in the flat list
	forest := BuildForest([]models.Reply{tail, a, b, c})

	counts := map[primitive.ObjectID]int{}
	collectIDs(forest, counts)
	assert.Len(t, counts, 4)
	for id, n := range counts {
		assert.Equal(t, 1, n, "reply %s", id.Hex())
	}
	require.Len(t, forest, 1)
	assert.Equal(t, c.ID, forest[0].ID)
}

func TestBuildForest_VoteCount(t *testing.T) {
	r := reply(1, nil)
	r.Votes = []models.Vote{
		{UserID: "a", Type: models.VoteUp},
		{UserID: "b", Type: models.VoteUp},
		{UserID: "c", Type: models.VoteDown},
	}
	forest := BuildForest([]models.Reply{r})
	require.Len(t, forest, 1)
	assert.Equal(t, 1, forest[0].VoteCount)
}

// TestBuildForest_CoverageAndOrdering builds random threads and checks every
// reply appears exactly once and every level is newest first.
func TestBuildForest_CoverageAndOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := rng.Intn(60)
		replies := make([]models.Reply, 0, n)
		for i := 0; i < n; i++ {
			var parent *models.Reply
			switch k := rng.Intn(4); {
			case k == 0 && len(replies) > 0:
				parent = &replies[rng.Intn(len(replies))]
			case k == 1 && len(replies) > 0:
				parent = &replies[len(replies)-1]
			}
			r := reply(rng.Intn(1000), parent)
			if rng.Intn(10) == 0 {
				missing := primitive.NewObjectID()
				r.ParentID = &missing
			}
			replies = append(replies, r)
		}
		rng.Shuffle(len(replies), func(i, j int) { replies[i], replies[j] = replies[j], replies[i] })

		forest := BuildForest(replies)

		seen := make(map[primitive.ObjectID]int)
		collectIDs(forest, seen)
		require.Len(t, seen, len(replies))
		for _, r := range replies {
			assert.Equal(t, 1, seen[r.ID])
		}
		assert.Equal(t, len(replies), Count(forest))
		assertNewestFirst(t, forest)
	}
}
