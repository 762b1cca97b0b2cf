package service

import (
	"testing"

	"notetree-be/internal/entity"

	"github.com/google/uuid"
)

func makeNote(id uuid.UUID, parentId *uuid.UUID, title string, sortOrder int) *entity.Note {
	return &entity.Note{
		Id:        id,
		ParentId:  parentId,
		Title:     title,
		SortOrder: sortOrder,
	}
}

func TestBuildForest(t *testing.T) {
	rootA := uuid.New()
	rootB := uuid.New()
	childA1 := uuid.New()
	childA2 := uuid.New()
	grandchild := uuid.New()
	missing := uuid.New()

	notes := []*entity.Note{
		makeNote(rootB, nil, "root b", 1),
		makeNote(rootA, nil, "root a", 0),
		makeNote(childA2, &rootA, "child a2", 1),
		makeNote(childA1, &rootA, "child a1", 0),
		makeNote(grandchild, &childA1, "grandchild", 0),
	}

	forest := buildForest(notes)

	if len(forest) != 2 {
		t.Fatalf("roots = %d, want 2", len(forest))
	}
	if forest[0].Id != rootA || forest[1].Id != rootB {
		t.Errorf("roots not ordered by sort order: got %s, %s", forest[0].Title, forest[1].Title)
	}

	children := forest[0].Children
	if len(children) != 2 {
		t.Fatalf("children of root a = %d, want 2", len(children))
	}
	if children[0].Id != childA1 || children[1].Id != childA2 {
		t.Errorf("children not ordered by sort order: got %s, %s", children[0].Title, children[1].Title)
	}
	if len(children[0].Children) != 1 || children[0].Children[0].Id != grandchild {
		t.Errorf("grandchild not nested under child a1")
	}
	if len(forest[1].Children) != 0 {
		t.Errorf("root b should have no children")
	}

	t.Run("dangling parent becomes root", func(t *testing.T) {
		orphan := makeNote(uuid.New(), &missing, "orphan", 5)
		forest := buildForest([]*entity.Note{orphan})
		if len(forest) != 1 || forest[0].Id != orphan.Id {
			t.Errorf("orphan with missing parent should surface as a root")
		}
	})

	t.Run("sort order tie broken by id", func(t *testing.T) {
		idLow := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		idHigh := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
		forest := buildForest([]*entity.Note{
			makeNote(idHigh, nil, "high", 3),
			makeNote(idLow, nil, "low", 3),
		})
		if forest[0].Id != idLow || forest[1].Id != idHigh {
			t.Errorf("tie should be broken by id ascending")
		}
	})

	t.Run("empty scan", func(t *testing.T) {
		forest := buildForest(nil)
		if len(forest) != 0 {
			t.Errorf("empty scan should produce empty forest")
		}
	})
}

func TestDescendantIDs(t *testing.T) {
	root := uuid.New()
	child1 := uuid.New()
	child2 := uuid.New()
	grandchild := uuid.New()
	unrelated := uuid.New()

	notes := []*entity.Note{
		makeNote(root, nil, "root", 0),
		makeNote(child1, &root, "c1", 0),
		makeNote(child2, &root, "c2", 1),
		makeNote(grandchild, &child1, "gc", 0),
		makeNote(unrelated, nil, "other", 1),
	}

	got := descendantIDs(notes, root)
	if len(got) != 3 {
		t.Fatalf("descendants = %d, want 3", len(got))
	}
	for _, id := range []uuid.UUID{child1, child2, grandchild} {
		if !containsID(got, id) {
			t.Errorf("missing descendant %s", id)
		}
	}
	if containsID(got, root) {
		t.Errorf("root must not be its own descendant")
	}
	if containsID(got, unrelated) {
		t.Errorf("unrelated root leaked into closure")
	}

	t.Run("leaf has no descendants", func(t *testing.T) {
		if got := descendantIDs(notes, grandchild); len(got) != 0 {
			t.Errorf("leaf descendants = %d, want 0", len(got))
		}
	})

	t.Run("corrupted parent cycle terminates", func(t *testing.T) {
		a := uuid.New()
		b := uuid.New()
		cyclic := []*entity.Note{
			makeNote(a, &b, "a", 0),
			makeNote(b, &a, "b", 0),
		}
		got := descendantIDs(cyclic, a)
		if len(got) != 1 || got[0] != b {
			t.Errorf("cycle walk = %v, want just %s", got, b)
		}
	})
}

func TestSubtreeIDs(t *testing.T) {
	root := uuid.New()
	child := uuid.New()

	notes := []*entity.Note{
		makeNote(root, nil, "root", 0),
		makeNote(child, &root, "child", 0),
	}

	got := subtreeIDs(notes, root)
	if len(got) != 2 {
		t.Fatalf("subtree = %d, want 2", len(got))
	}
	if got[0] != root {
		t.Errorf("subtree must start with the root itself")
	}
	if got[1] != child {
		t.Errorf("subtree missing child")
	}
}
