package service

import (
	"bytes"
	"sort"

	"notetree-be/internal/dto"
	"notetree-be/internal/entity"

	"github.com/google/uuid"
)

// buildForest assembles the nested tree view from a flat owner scan.
// Sibling groups are ordered by sort order ascending, ties broken by id so
// the output is stable. Notes whose parent is missing from the scan (foreign
// or dangling parent_id) are treated as roots rather than dropped.
func buildForest(notes []*entity.Note) []*dto.TreeNodeResponse {
	nodes := make(map[uuid.UUID]*dto.TreeNodeResponse, len(notes))
	for _, n := range notes {
		nodes[n.Id] = &dto.TreeNodeResponse{
			Id:          n.Id,
			ParentId:    n.ParentId,
			Title:       n.Title,
			TitleEmoji:  n.TitleEmoji,
			Content:     n.Content,
			SortOrder:   n.SortOrder,
			IsExpanded:  n.IsExpanded,
			IsFavorite:  n.IsFavorite,
			EditorWidth: n.EditorWidth,
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
			Children:    make([]*dto.TreeNodeResponse, 0),
		}
	}

	roots := make([]*dto.TreeNodeResponse, 0)
	for _, n := range notes {
		node := nodes[n.Id]
		if n.ParentId != nil {
			if parent, ok := nodes[*n.ParentId]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortSiblings(roots)
	for _, node := range nodes {
		sortSiblings(node.Children)
	}

	return roots
}

func sortSiblings(siblings []*dto.TreeNodeResponse) {
	sort.SliceStable(siblings, func(i, j int) bool {
		if siblings[i].SortOrder != siblings[j].SortOrder {
			return siblings[i].SortOrder < siblings[j].SortOrder
		}
		return bytes.Compare(siblings[i].Id[:], siblings[j].Id[:]) < 0
	})
}

// descendantIDs computes the transitive children of rootId (excluding rootId
// itself) by an iterative walk over parent pointers. The closure is always
// taken from a fresh scan of persisted state, never a cached tree.
func descendantIDs(notes []*entity.Note, rootId uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID, len(notes))
	for _, n := range notes {
		if n.ParentId != nil {
			children[*n.ParentId] = append(children[*n.ParentId], n.Id)
		}
	}

	var result []uuid.UUID
	seen := map[uuid.UUID]bool{rootId: true}
	queue := []uuid.UUID{rootId}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if seen[child] {
				// A corrupted parent chain must not hang the walk
				continue
			}
			seen[child] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}

	return result
}

// subtreeIDs is descendantIDs plus the root itself, in cascade order.
func subtreeIDs(notes []*entity.Note, rootId uuid.UUID) []uuid.UUID {
	return append([]uuid.UUID{rootId}, descendantIDs(notes, rootId)...)
}

func containsID(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
