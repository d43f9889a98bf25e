package renderer

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/reactor/pkg/host/memdom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/scheduler"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *memdom.Document, *scheduler.Scheduler) {
	t.Helper()
	doc := memdom.New()
	s := scheduler.New(scheduler.WithRethrow())
	opts = append([]Option{WithScheduler(s)}, opts...)
	return New(doc, opts...), doc, s
}

// keyedList renders <ul> with one keyed <li> per key.
func keyedList(keys ...string) *vdom.VNode {
	items := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		items[i] = vdom.Li(vdom.Key(k), k)
	}
	return vdom.Ul(items)
}

func listHTML(keys ...string) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, k := range keys {
		b.WriteString("<li>" + k + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

func TestKeyedDiff(t *testing.T) {
	tests := []struct {
		name    string
		from    []string
		to      []string
		creates int
		removes int
		moves   int
	}{
		{"rotate right", []string{"1", "2", "3"}, []string{"3", "1", "2"}, 0, 0, 1},
		{"rotate left", []string{"1", "2", "3"}, []string{"2", "3", "1"}, 0, 0, 1},
		{"insert in the middle", []string{"a", "b", "c"}, []string{"a", "x", "b", "c"}, 1, 0, 0},
		{"remove non adjacent", []string{"a", "b", "c", "d"}, []string{"b", "d"}, 0, 2, 0},
		{"append", []string{"a", "b"}, []string{"a", "b", "c", "d"}, 2, 0, 0},
		{"prepend", []string{"c", "d"}, []string{"a", "b", "c", "d"}, 2, 0, 0},
		{"remove head", []string{"a", "b", "c"}, []string{"c"}, 0, 2, 0},
		{"reverse", []string{"1", "2", "3", "4", "5"}, []string{"5", "4", "3", "2", "1"}, 0, 0, 4},
		{"swap ends", []string{"1", "2", "3", "4"}, []string{"4", "2", "3", "1"}, 0, 0, 2},
		{"replace all", []string{"a", "b"}, []string{"c", "d"}, 2, 2, 0},
		{"move and insert", []string{"a", "b", "c", "d"}, []string{"d", "a", "x", "b", "c"}, 1, 0, 1},
		{"move and remove", []string{"a", "b", "c", "d", "e"}, []string{"e", "b", "d"}, 0, 2, 1},
		{"unchanged", []string{"a", "b", "c"}, []string{"a", "b", "c"}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, doc, _ := newTestRenderer(t)
			root := doc.Root()
			r.Render(keyedList(tt.from...), root)
			doc.ResetOps()

			r.Render(keyedList(tt.to...), root)

			if got := doc.HTML(); got != listHTML(tt.to...) {
				t.Errorf("HTML = %s, want %s", got, listHTML(tt.to...))
			}
			if got := doc.Count(memdom.OpCreate); got != tt.creates {
				t.Errorf("creates = %d, want %d\n%v", got, tt.creates, doc.Ops())
			}
			if got := doc.Count(memdom.OpRemove); got != tt.removes {
				t.Errorf("removes = %d, want %d\n%v", got, tt.removes, doc.Ops())
			}
			if got := doc.Count(memdom.OpMove); got != tt.moves {
				t.Errorf("moves = %d, want %d\n%v", got, tt.moves, doc.Ops())
			}
		})
	}
}

func TestKeyedDiffReusesHostNodes(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	r.Render(keyedList("a", "b", "c"), root)
	ul := root.Children[0]
	before := map[string]*memdom.Node{}
	for _, li := range ul.Children {
		before[li.TextContent()] = li
	}

	r.Render(keyedList("c", "a", "b"), root)

	for _, li := range ul.Children {
		if before[li.TextContent()] != li {
			t.Errorf("node for %q was recreated", li.TextContent())
		}
	}
}

func TestUnkeyedChildren(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	r.Render(vdom.Ul(vdom.Li("a"), vdom.Li("b")), root)
	doc.ResetOps()

	r.Render(vdom.Ul(vdom.Li("a"), vdom.Li("c"), vdom.Li("d")), root)

	if got, want := doc.HTML(), "<ul><li>a</li><li>c</li><li>d</li></ul>"; got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
	if doc.Count(memdom.OpMove) != 0 || doc.Count(memdom.OpRemove) != 0 {
		t.Errorf("unexpected ops: %v", doc.Ops())
	}
	if doc.Count(memdom.OpCreate) != 1 {
		t.Errorf("creates = %d, want 1", doc.Count(memdom.OpCreate))
	}
}

func TestUnkeyedFragmentHint(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	frag := func(items ...string) *vdom.VNode {
		children := make([]any, 0, len(items)+1)
		children = append(children, vdom.Flags(vdom.PatchUnkeyedFragment))
		for _, it := range items {
			children = append(children, vdom.Span(it))
		}
		return vdom.Fragment(children...)
	}
	r.Render(frag("a", "b", "c"), root)
	r.Render(frag("x", "b"), root)

	if got, want := doc.HTML(), "<span>x</span><span>b</span>"; got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
}

func TestChildShapeTransitions(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()

	steps := []struct {
		node *vdom.VNode
		want string
	}{
		{vdom.Div("text"), "<div>text</div>"},
		{vdom.Div(vdom.Span("a"), vdom.Span("b")), "<div><span>a</span><span>b</span></div>"},
		{vdom.Div("again"), "<div>again</div>"},
		{vdom.Div(), "<div></div>"},
		{vdom.Div(vdom.P("p")), "<div><p>p</p></div>"},
		{vdom.Div(), "<div></div>"},
	}
	for i, s := range steps {
		r.Render(s.node, root)
		if got := doc.HTML(); got != s.want {
			t.Errorf("step %d: HTML = %s, want %s", i, got, s.want)
		}
	}
}

func TestTypeChangeReplacesInPlace(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	r.Render(vdom.Div(vdom.P("first"), vdom.Div("x"), vdom.P("last")), root)
	doc.ResetOps()

	r.Render(vdom.Div(vdom.P("first"), vdom.Span("x"), vdom.P("last")), root)

	if got, want := doc.HTML(), "<div><p>first</p><span>x</span><p>last</p></div>"; got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
	if doc.Count(memdom.OpRemove) != 1 || doc.Count(memdom.OpInsert) != 1 {
		t.Errorf("expected one remove and one insert, got %v", doc.Ops())
	}
}

func TestTextAndComment(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	r.Render(vdom.Fragment(vdom.Text("hello"), vdom.Comment("c")), root)
	text := root.Children[1]
	doc.ResetOps()

	r.Render(vdom.Fragment(vdom.Text("world"), vdom.Comment("changed")), root)

	if root.Children[1] != text {
		t.Error("text node was not reused")
	}
	if got, want := doc.HTML(), "world<!--c-->"; got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
	if got := doc.Count(memdom.OpSetText); got != 1 {
		t.Errorf("SetText = %d, want 1", got)
	}
}

func TestProps(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	r.Render(vdom.Input(vdom.ID("a"), vdom.Class("x"), vdom.Value("v")), root)
	el := root.Children[0]
	if el.Attrs["id"] != "a" || el.Attrs["class"] != "x" || el.Attrs["value"] != "v" {
		t.Fatalf("Attrs = %v", el.Attrs)
	}
	doc.ResetOps()

	r.Render(vdom.Input(vdom.Class("y"), vdom.Value("v")), root)

	if _, ok := el.Attrs["id"]; ok {
		t.Error("removed prop still set")
	}
	if el.Attrs["class"] != "y" {
		t.Errorf("class = %v, want y", el.Attrs["class"])
	}
	if doc.Count(memdom.OpRemoveProp) != 1 {
		t.Errorf("RemoveProp = %d, want 1", doc.Count(memdom.OpRemoveProp))
	}
}

func TestPatchFlagProps(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	node := func(title, class string) *vdom.VNode {
		return vdom.Block(vdom.Div(
			vdom.Span(vdom.Flags(vdom.PatchProps|vdom.PatchClass, "title"), vdom.TitleAttr(title), vdom.Class(class), vdom.ID("fixed")),
		))
	}
	r.Render(node("a", "c1"), root)
	doc.ResetOps()

	r.Render(node("b", "c2"), root)

	span := root.Children[0].Children[0]
	if span.Attrs["title"] != "b" || span.Attrs["class"] != "c2" {
		t.Errorf("Attrs = %v", span.Attrs)
	}
	if got := doc.Count(memdom.OpSetProp); got != 2 {
		t.Errorf("SetProp = %d, want 2: %v", got, doc.Ops())
	}
}

func TestBlockFastPath(t *testing.T) {
	t.Run("element block", func(t *testing.T) {
		r, doc, _ := newTestRenderer(t)
		root := doc.Root()
		node := func(text string) *vdom.VNode {
			return vdom.Block(vdom.Div(vdom.P("static"), vdom.Span(vdom.Flags(vdom.PatchText), text)))
		}
		r.Render(node("1"), root)
		doc.ResetOps()

		r.Render(node("2"), root)

		if got, want := doc.HTML(), "<div><p>static</p><span>2</span></div>"; got != want {
			t.Errorf("HTML = %s, want %s", got, want)
		}
		ops := doc.Ops()
		if len(ops) != 1 || ops[0].Kind != memdom.OpSetElementText {
			t.Errorf("expected a single SetElementText, got %v", ops)
		}
	})

	t.Run("stable fragment", func(t *testing.T) {
		r, doc, _ := newTestRenderer(t)
		root := doc.Root()
		node := func(text string) *vdom.VNode {
			return vdom.Block(vdom.Fragment(
				vdom.Flags(vdom.PatchStableFragment),
				vdom.P("static"),
				vdom.Span(vdom.Flags(vdom.PatchText), text),
			))
		}
		r.Render(node("1"), root)
		doc.ResetOps()

		r.Render(node("2"), root)

		if got, want := doc.HTML(), "<p>static</p><span>2</span>"; got != want {
			t.Errorf("HTML = %s, want %s", got, want)
		}
		if got := len(doc.Ops()); got != 1 {
			t.Errorf("ops = %d, want 1: %v", got, doc.Ops())
		}
	})

	t.Run("shape change falls back to a full diff", func(t *testing.T) {
		var buf bytes.Buffer
		r, doc, _ := newTestRenderer(t, DevMode(true), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		root := doc.Root()
		r.Render(vdom.Block(vdom.Div(vdom.Span(vdom.Flags(vdom.PatchText), "1"))), root)
		r.Render(vdom.Block(vdom.Div(vdom.Span(vdom.Flags(vdom.PatchText), "1"), vdom.Span(vdom.Flags(vdom.PatchText), "2"))), root)

		if got, want := doc.HTML(), "<div><span>1</span><span>2</span></div>"; got != want {
			t.Errorf("HTML = %s, want %s", got, want)
		}
		if !strings.Contains(buf.String(), "block shape changed") {
			t.Errorf("expected block shape warning, got %q", buf.String())
		}
	})
}

func TestStatic(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	r.Render(vdom.Div(vdom.Static("<b>hi</b>", 1), vdom.Span("x")), root)
	if got, want := doc.HTML(), "<div><b>hi</b><span>x</span></div>"; got != want {
		t.Fatalf("HTML = %s, want %s", got, want)
	}
	if doc.Count(memdom.OpInsertStatic) != 1 {
		t.Errorf("InsertStatic = %d, want 1", doc.Count(memdom.OpInsertStatic))
	}
	doc.ResetOps()

	r.Render(vdom.Div(vdom.Static("<b>hi</b>", 1), vdom.Span("x")), root)
	if len(doc.Ops()) != 0 {
		t.Errorf("static content was touched: %v", doc.Ops())
	}

	r.Render(vdom.Div(vdom.Span("x")), root)
	if got, want := doc.HTML(), "<div><span>x</span></div>"; got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
}

func TestStaticDevModeReinserts(t *testing.T) {
	r, doc, _ := newTestRenderer(t, DevMode(true))
	root := doc.Root()
	r.Render(vdom.Div(vdom.Static("<b>a</b>", 1)), root)
	r.Render(vdom.Div(vdom.Static("<i>b</i>", 1)), root)
	if got, want := doc.HTML(), "<div><i>b</i></div>"; got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
}

func TestFragmentMove(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	group := func() *vdom.VNode {
		return vdom.Fragment(vdom.Key("g"), vdom.Li("1"), vdom.Li("2"))
	}
	r.Render(vdom.Ul(group(), vdom.Li(vdom.Key("x"), "x")), root)

	r.Render(vdom.Ul(vdom.Li(vdom.Key("x"), "x"), group()), root)

	if got, want := doc.HTML(), "<ul><li>x</li><li>1</li><li>2</li></ul>"; got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}

	r.Render(vdom.Ul(vdom.Li(vdom.Key("x"), "x")), root)
	if got, want := doc.HTML(), "<ul><li>x</li></ul>"; got != want {
		t.Errorf("HTML after removal = %s, want %s", got, want)
	}
	if n := len(root.Children[0].Children); n != 1 {
		t.Errorf("fragment anchors left behind: %d children", n)
	}
}

func TestDuplicateKeysWarn(t *testing.T) {
	var buf bytes.Buffer
	r, doc, _ := newTestRenderer(t, DevMode(true), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	root := doc.Root()
	r.Render(keyedList("a", "b", "c"), root)

	r.Render(keyedList("b", "b"), root)

	if !strings.Contains(buf.String(), "duplicate keys") {
		t.Errorf("expected duplicate key warning, got %q", buf.String())
	}
	if got := doc.HTML(); got != listHTML("b", "b") {
		t.Errorf("HTML = %s", got)
	}
}

func TestTransitionHooks(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	var log []string
	tr := &vdom.Transition{
		BeforeEnter: func(any) { log = append(log, "before-enter") },
		Enter:       func(any) { log = append(log, "enter") },
		Leave: func(_ any, done func()) {
			log = append(log, "leave")
			done()
		},
		AfterLeave: func() { log = append(log, "after-leave") },
	}

	r.Render(vdom.Div(vdom.P(tr, "x")), root)
	r.Render(vdom.Div(), root)

	want := []string{"before-enter", "enter", "leave", "after-leave"}
	if strings.Join(log, ",") != strings.Join(want, ",") {
		t.Errorf("hooks = %v, want %v", log, want)
	}
	if got := doc.HTML(); got != "<div></div>" {
		t.Errorf("HTML = %s", got)
	}
}

func TestRenderNilUnmounts(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	r.Render(keyedList("a"), root)
	r.Unmount(root)
	if doc.HTML() != "" {
		t.Errorf("HTML = %s, want empty", doc.HTML())
	}
	if r.Root(root) != nil {
		t.Error("root still recorded")
	}
}

func TestScopeID(t *testing.T) {
	r, doc, _ := newTestRenderer(t)
	root := doc.Root()
	r.Render(vdom.Comp(scopedComp{}, nil), root)
	div := root.Children[0]
	if div.Attrs["data-v-1"] != true {
		t.Errorf("scope id not applied: %v", div.Attrs)
	}
}

type scopedComp struct{}

func (scopedComp) ScopeID() string { return "data-v-1" }

func (scopedComp) Setup(_ *reactive.ObjectProxy, _ vdom.Context) vdom.RenderFunc {
	return func() *vdom.VNode { return vdom.Div("scoped") }
}
