// Package replytree turns the flat reply list stored on a post into a nested
// thread and applies structural edits to that flat list. The flat list is the
// source of truth; the nested form is rebuilt on every read and never stored.
package replytree

import (
	"slices"

	"github.com/anonto42/alumni-forum/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Node is a reply together with its nested children
type Node struct {
	models.Reply
	VoteCount    int     `json:"voteCount"`
	ChildReplies []*Node `json:"childReplies"`
}

// BuildForest nests replies under their parents, newest first at every level.
// A reply whose parent is missing is promoted to the top level.
func BuildForest(replies []models.Reply) []*Node {
	nodes := make([]*Node, len(replies))
	byID := make(map[primitive.ObjectID]*Node, len(replies))
	for i := range replies {
		n := &Node{
			Reply:        replies[i],
			VoteCount:    VoteCount(replies[i].Votes),
			ChildReplies: []*Node{},
		}
		nodes[i] = n
		byID[n.ID] = n
	}

	roots := []*Node{}
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := byID[*n.ParentID]
		if !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.ChildReplies = append(parent.ChildReplies, n)
	}

	roots = breakCycles(nodes, byID, roots)
	sortNewestFirst(roots)
	return roots
}

// breakCycles promotes one member of every parent cycle to a root, detaching
// it from its parent, so replies caught in corrupted data are still listed.
func breakCycles(nodes []*Node, byID map[primitive.ObjectID]*Node, roots []*Node) []*Node {
	reached := make(map[*Node]bool, len(nodes))
	for _, r := range roots {
		markReached(r, reached)
	}
	for _, n := range nodes {
		if reached[n] {
			continue
		}
		// every unreached node has a parent, so walking up ends inside a cycle
		walked := map[*Node]bool{}
		member := n
		for !walked[member] {
			walked[member] = true
			member = byID[*member.ParentID]
		}
		parent := byID[*member.ParentID]
		parent.ChildReplies = slices.DeleteFunc(parent.ChildReplies, func(c *Node) bool { return c == member })
		roots = append(roots, member)
		markReached(member, reached)
	}
	return roots
}

func markReached(n *Node, reached map[*Node]bool) {
	if reached[n] {
		return
	}
	reached[n] = true
	for _, c := range n.ChildReplies {
		markReached(c, reached)
	}
}

func sortNewestFirst(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	for _, n := range nodes {
		sortNewestFirst(n.ChildReplies)
	}
}

// Count returns the number of nodes in the forest
func Count(forest []*Node) int {
	total := 0
	for _, n := range forest {
		total += 1 + Count(n.ChildReplies)
	}
	return total
}
