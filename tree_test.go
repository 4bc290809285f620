package rendertree

import (
	"math/rand/v2"
	"testing"
)

// --- Insertion scenarios ---

func TestLinearInsertion(t *testing.T) {
	r := named("R")
	a, b, c, d := named("A"), named("B"), named("C"), named("D")
	r.AppendChild(a)
	r.AppendChild(b)
	r.PrependChild(c)
	r.InsertChildAtPos(d, 2)

	assertOrder(t, r, "C", "A", "D", "B")
	if r.FirstChild() != c || r.LastChild() != b {
		t.Errorf("first/last = %v/%v, want C/B", r.FirstChild(), r.LastChild())
	}
}

func TestAppendChild(t *testing.T) {
	parent := named("parent")
	child := named("child")
	parent.AppendChild(child)

	if child.Parent() != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.FirstChild() != child || parent.LastChild() != child {
		t.Error("sole child should be first and last")
	}
	if child.PrevSibling() != nil || child.NextSibling() != nil {
		t.Error("sole child should have no siblings")
	}
	assertOrder(t, parent, "child")
}

func TestPrependChildEmpty(t *testing.T) {
	parent := named("parent")
	child := named("child")
	parent.PrependChild(child)
	if parent.FirstChild() != child || parent.LastChild() != child {
		t.Error("sole child should be first and last")
	}
	assertOrder(t, parent, "child")
}

func TestInsertChildAtPos(t *testing.T) {
	tests := []struct {
		name string
		pos  int
		want []string
	}{
		{"zero prepends", 0, []string{"X", "a", "b", "c"}},
		{"middle", 1, []string{"a", "X", "b", "c"}},
		{"last index inserts before last", 2, []string{"a", "b", "X", "c"}},
		{"count appends", 3, []string{"a", "b", "c", "X"}},
		{"past end appends", 10, []string{"a", "b", "c", "X"}},
		{"negative appends", -1, []string{"a", "b", "c", "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := named("parent")
			parent.AppendChild(named("a"))
			parent.AppendChild(named("b"))
			parent.AppendChild(named("c"))
			parent.InsertChildAtPos(named("X"), tt.pos)
			assertOrder(t, parent, tt.want...)
		})
	}
}

func TestInsertChildAtPosEmpty(t *testing.T) {
	for _, pos := range []int{0, 1, -1} {
		parent := named("parent")
		x := named("X")
		parent.InsertChildAtPos(x, pos)
		if parent.FirstChild() != x || parent.LastChild() != x {
			t.Errorf("pos %d: sole child should be first and last", pos)
		}
		assertOrder(t, parent, "X")
	}
}

func TestInsertChildBefore(t *testing.T) {
	parent := named("parent")
	a, b := named("a"), named("b")
	parent.AppendChild(a)
	parent.AppendChild(b)

	parent.InsertChildBefore(named("x"), b)
	assertOrder(t, parent, "a", "x", "b")

	parent.InsertChildBefore(named("y"), a)
	assertOrder(t, parent, "y", "a", "x", "b")

	parent.InsertChildBefore(named("z"), nil)
	assertOrder(t, parent, "z", "y", "a", "x", "b")
}

func TestInsertChildAfter(t *testing.T) {
	parent := named("parent")
	a, b := named("a"), named("b")
	parent.AppendChild(a)
	parent.AppendChild(b)

	parent.InsertChildAfter(named("x"), a)
	assertOrder(t, parent, "a", "x", "b")

	parent.InsertChildAfter(named("y"), b)
	assertOrder(t, parent, "a", "x", "b", "y")
	if parent.LastChild().Name() != "y" {
		t.Error("inserting after the last child should update LastChild")
	}

	parent.InsertChildAfter(named("z"), nil)
	assertOrder(t, parent, "a", "x", "b", "y", "z")
}

func TestInsertBeforeAfterNilSiblingEmpty(t *testing.T) {
	p1 := named("p1")
	p1.InsertChildBefore(named("a"), nil)
	assertOrder(t, p1, "a")

	p2 := named("p2")
	p2.InsertChildAfter(named("a"), nil)
	assertOrder(t, p2, "a")
}

func TestInsertSiblingOfOtherParentRefused(t *testing.T) {
	h := captureDiagnostics(t)
	p1, p2 := named("p1"), named("p2")
	s := named("s")
	p2.AppendChild(s)
	x := named("x")

	p1.InsertChildBefore(x, s)
	p1.InsertChildAfter(x, s)
	expectCritical(t, h, 2)
	if x.Parent() != nil || p1.NumChildren() != 0 {
		t.Error("refused insertion should not change state")
	}
}

// --- Replace ---

func TestReplaceChild(t *testing.T) {
	r := named("R")
	a, b, c := named("A"), named("B"), named("C")
	r.AppendChild(a)
	r.AppendChild(b)
	r.AppendChild(c)
	x := named("X")

	r.ReplaceChild(x, b)

	assertOrder(t, r, "A", "X", "C")
	if b.Parent() != nil || b.PrevSibling() != nil || b.NextSibling() != nil {
		t.Error("replaced child should be fully detached")
	}
	if x.PrevSibling() != a || x.NextSibling() != c {
		t.Errorf("X siblings = %v/%v, want A/C", x.PrevSibling(), x.NextSibling())
	}
}

func TestReplaceChildEndpoints(t *testing.T) {
	r := named("R")
	a, b := named("A"), named("B")
	r.AppendChild(a)
	r.AppendChild(b)

	x := named("X")
	r.ReplaceChild(x, a)
	assertOrder(t, r, "X", "B")
	if r.FirstChild() != x {
		t.Error("replacing the first child should update FirstChild")
	}

	y := named("Y")
	r.ReplaceChild(y, b)
	assertOrder(t, r, "X", "Y")
	if r.LastChild() != y {
		t.Error("replacing the last child should update LastChild")
	}

	z := named("Z")
	single := named("single")
	only := named("only")
	single.AppendChild(only)
	single.ReplaceChild(z, only)
	assertOrder(t, single, "Z")
}

func TestReplaceChildRefused(t *testing.T) {
	h := captureDiagnostics(t)
	r := named("R")
	a := named("A")
	r.AppendChild(a)

	other := named("other")
	parented := named("parented")
	other.AppendChild(parented)
	stranger := named("stranger")

	r.ReplaceChild(parented, a) // new already has a parent
	r.ReplaceChild(named("X"), stranger)
	r.ReplaceChild(nil, a)
	r.ReplaceChild(r, a) // new is the receiver itself
	expectCritical(t, h, 4)
	assertOrder(t, r, "A")
	if parented.Parent() != other {
		t.Error("refused replacement should not touch the new child")
	}
}

// --- Remove ---

func TestRemoveChild(t *testing.T) {
	parent := named("parent")
	a, b, c := named("a"), named("b"), named("c")
	parent.AppendChild(a)
	parent.AppendChild(b)
	parent.AppendChild(c)

	parent.RemoveChild(b)
	assertOrder(t, parent, "a", "c")
	if b.Parent() != nil || b.PrevSibling() != nil || b.NextSibling() != nil {
		t.Error("removed child should be detached")
	}

	parent.RemoveChild(a)
	assertOrder(t, parent, "c")
	parent.RemoveChild(c)
	assertOrder(t, parent)
	if parent.FirstChild() != nil || parent.LastChild() != nil {
		t.Error("empty list should have nil endpoints")
	}
}

func TestRemoveChildWrongParent(t *testing.T) {
	h := captureDiagnostics(t)
	p1, p2 := named("p1"), named("p2")
	child := named("child")
	p1.AppendChild(child)

	p2.RemoveChild(child)
	p2.RemoveChild(nil)
	expectCritical(t, h, 2)
	if child.Parent() != p1 {
		t.Error("child should stay with p1")
	}
}

func TestRemoveChildResetsAge(t *testing.T) {
	parent := NewNode()
	child := NewNode()
	parent.AppendChild(child)
	child.AppendChild(NewNode())
	if child.age == 0 {
		t.Fatal("child age should grow with its own edits")
	}
	before := parent.age
	parent.RemoveChild(child)
	if child.age != 0 {
		t.Errorf("child age = %d, want 0", child.age)
	}
	if parent.age != before+1 {
		t.Errorf("parent age = %d, want %d", parent.age, before+1)
	}
}

func TestRemoveFromParent(t *testing.T) {
	parent := named("parent")
	child := named("child")
	parent.AppendChild(child)
	child.RemoveFromParent()
	assertOrder(t, parent)

	orphan := named("orphan")
	orphan.RemoveFromParent() // no-op
	if orphan.Parent() != nil {
		t.Error("orphan should stay parentless")
	}
}

func TestRemoveAllChildren(t *testing.T) {
	r := named("R")
	var kids []*Node
	for range 5 {
		k := NewNode()
		kids = append(kids, k)
		r.AppendChild(k)
	}

	r.RemoveAllChildren()

	if r.NumChildren() != 0 || r.FirstChild() != nil || r.LastChild() != nil {
		t.Error("RemoveAllChildren should empty the list")
	}
	for i, k := range kids {
		if k.Parent() != nil {
			t.Errorf("child %d still has a parent", i)
		}
	}
	r.RemoveAllChildren() // empty is a no-op
}

// --- Refused attachments ---

func TestSelfParentingRefused(t *testing.T) {
	h := captureDiagnostics(t)
	r := named("R")
	r.AppendChild(r)
	expectCritical(t, h, 1)
	if r.Parent() != nil || r.NumChildren() != 0 {
		t.Error("self-append should leave R parentless and childless")
	}
}

func TestAlreadyParentedRefused(t *testing.T) {
	h := captureDiagnostics(t)
	p1, p2 := named("p1"), named("p2")
	child := named("child")
	p1.AppendChild(child)

	p2.AppendChild(child)
	p2.PrependChild(child)
	p2.InsertChildAtPos(child, 0)
	expectCritical(t, h, 3)
	if child.Parent() != p1 || p2.NumChildren() != 0 {
		t.Error("multi-parenting should be refused")
	}
}

func TestCycleRefused(t *testing.T) {
	h := captureDiagnostics(t)
	root := named("root")
	mid := named("mid")
	leaf := named("leaf")
	root.AppendChild(mid)
	mid.AppendChild(leaf)

	leaf.AppendChild(root)
	expectCritical(t, h, 1)
	if root.Parent() != nil || leaf.NumChildren() != 0 {
		t.Error("cycle should be refused")
	}
	if root.Contains(root.Parent()) {
		t.Error("root should not be inside its own subtree")
	}
}

func TestNilChildRefused(t *testing.T) {
	h := captureDiagnostics(t)
	n := NewNode()
	n.AppendChild(nil)
	n.InsertChildBefore(nil, nil)
	expectCritical(t, h, 2)
	if n.NumChildren() != 0 {
		t.Error("nil child should be refused")
	}
}

// --- Bookkeeping ---

func TestInsertionBookkeeping(t *testing.T) {
	parent := NewNode()
	child := NewNode()
	child.AppendChild(NewNode())
	_ = parent.WorldMatrix()
	_ = child.WorldMatrix()

	ageBefore := parent.age
	parent.AppendChild(child)

	if child.age != 0 {
		t.Errorf("child age = %d, want 0", child.age)
	}
	if parent.age != ageBefore+1 {
		t.Errorf("parent age = %d, want %d", parent.age, ageBefore+1)
	}
	if !child.NeedsWorldMatrixUpdate() || !parent.NeedsWorldMatrixUpdate() {
		t.Error("attach should mark parent and child stale")
	}
	if !child.FirstChild().NeedsWorldMatrixUpdate() {
		t.Error("attach should mark the attached subtree stale")
	}
}

// --- Linkage properties ---

func checkTree(t *testing.T, root *Node) {
	t.Helper()
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := n.VerifyLinks(); err != nil {
			t.Fatal(err)
		}
		if (n.FirstChild() == nil) != (n.NumChildren() == 0) {
			t.Fatalf("%v: empty list iff nil endpoints", n)
		}
		if n.FirstChild() != nil && n.FirstChild().PrevSibling() != nil {
			t.Fatalf("%v: first child has a previous sibling", n)
		}
		if n.LastChild() != nil && n.LastChild().NextSibling() != nil {
			t.Fatalf("%v: last child has a next sibling", n)
		}
		if n.Contains(n.Parent()) {
			t.Fatalf("%v: contains its own parent", n)
		}
		for c := range n.Children() {
			if c.Contains(n) {
				t.Fatalf("%v contains its ancestor %v", c, n)
			}
			stack = append(stack, c)
		}
	}
}

func TestRandomEditsKeepLinks(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	captureDiagnostics(t) // refused edits are expected; keep them off stderr

	root := named("root")
	nodes := []*Node{root}
	for i := range 300 {
		target := nodes[rng.IntN(len(nodes))]
		switch rng.IntN(7) {
		case 0:
			c := NewNode()
			nodes = append(nodes, c)
			target.AppendChild(c)
		case 1:
			c := NewNode()
			nodes = append(nodes, c)
			target.PrependChild(c)
		case 2:
			c := NewNode()
			nodes = append(nodes, c)
			target.InsertChildAtPos(c, rng.IntN(target.NumChildren()+2)-1)
		case 3:
			c := NewNode()
			nodes = append(nodes, c)
			target.InsertChildBefore(c, target.ChildAt(rng.IntN(target.NumChildren()+1)))
		case 4:
			c := NewNode()
			nodes = append(nodes, c)
			target.InsertChildAfter(c, target.ChildAt(rng.IntN(target.NumChildren()+1)))
		case 5:
			if target.NumChildren() > 0 {
				target.RemoveChild(target.ChildAt(rng.IntN(target.NumChildren())))
			}
		case 6:
			if target.NumChildren() > 0 {
				c := NewNode()
				nodes = append(nodes, c)
				target.ReplaceChild(c, target.ChildAt(rng.IntN(target.NumChildren())))
			}
		}
		if i%25 == 0 {
			for _, n := range nodes {
				if n.Parent() == nil {
					checkTree(t, n)
				}
			}
		}
	}
	for _, n := range nodes {
		if n.Parent() == nil {
			checkTree(t, n)
		}
	}
}
