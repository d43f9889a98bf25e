package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	t.Run("empty element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindElement || node.Tag != "div" {
			t.Errorf("got %v <%s>, want Element <div>", node.Kind, node.Tag)
		}
		if len(node.Children) != 0 {
			t.Errorf("Children = %d, want 0", len(node.Children))
		}
		if node.ShapeFlag != ShapeElement {
			t.Errorf("ShapeFlag = %b, want %b", node.ShapeFlag, ShapeElement)
		}
	})

	t.Run("attributes and events", func(t *testing.T) {
		handler := func() {}
		node := Button(ID("go"), Class("btn", "primary"), OnClick(handler), nil)
		if node.Props["id"] != "go" {
			t.Errorf("id = %v", node.Props["id"])
		}
		if node.Props["class"] != "btn primary" {
			t.Errorf("class = %v", node.Props["class"])
		}
		if node.Props["onclick"] == nil {
			t.Error("onclick handler missing")
		}
	})

	t.Run("attribute slice", func(t *testing.T) {
		node := Div([]Attr{ID("a"), {}, Data("x", "1"), Style("color: red")})
		if len(node.Props) != 3 || node.Props["data-x"] != "1" || node.Props["style"] != "color: red" {
			t.Errorf("Props = %v", node.Props)
		}
	})

	t.Run("key is not a prop", func(t *testing.T) {
		node := Li(Key(7))
		if node.Key != "7" {
			t.Errorf("Key = %q, want 7", node.Key)
		}
		if _, ok := node.Props["key"]; ok {
			t.Error("key leaked into props")
		}
	})

	t.Run("lone string is text content", func(t *testing.T) {
		node := P("hello")
		if node.Text != "hello" || len(node.Children) != 0 {
			t.Errorf("Text = %q, Children = %d", node.Text, len(node.Children))
		}
		if !node.ShapeFlag.Has(ShapeTextChildren) {
			t.Error("missing text children shape")
		}
	})

	t.Run("mixed children", func(t *testing.T) {
		node := P("a", Strong("b"), []*VNode{Em("c"), nil})
		if len(node.Children) != 3 {
			t.Fatalf("Children = %d, want 3", len(node.Children))
		}
		if node.Children[0].Kind != KindText || node.Children[0].Text != "a" {
			t.Errorf("first child = %+v", node.Children[0])
		}
		if !node.ShapeFlag.Has(ShapeArrayChildren) {
			t.Error("missing array children shape")
		}
	})

	t.Run("hints", func(t *testing.T) {
		node := Input(Value("x"), Flags(PatchProps, "value"), Flags(PatchClass))
		if node.PatchFlag != PatchProps|PatchClass {
			t.Errorf("PatchFlag = %b", node.PatchFlag)
		}
		if len(node.DynamicProps) != 1 || node.DynamicProps[0] != "value" {
			t.Errorf("DynamicProps = %v", node.DynamicProps)
		}
	})

	t.Run("transition", func(t *testing.T) {
		tr := &Transition{Persisted: true}
		if node := Div(tr); node.Transition != tr {
			t.Error("transition not attached")
		}
	})

	t.Run("unsupported argument panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Div(42)
	})
}

func TestVoidElements(t *testing.T) {
	for _, tag := range []string{"br", "hr", "img", "input", "meta", "wbr"} {
		if !IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = false", tag)
		}
	}
	if IsVoidElement("div") {
		t.Error("div is not void")
	}
}

func TestElementTags(t *testing.T) {
	tests := []struct {
		fn  func(...any) *VNode
		tag string
	}{
		{Div, "div"}, {Span, "span"}, {Ul, "ul"}, {Li, "li"}, {P, "p"},
		{Button, "button"}, {Input, "input"}, {Section, "section"},
	}
	for _, tt := range tests {
		if got := tt.fn().Tag; got != tt.tag {
			t.Errorf("tag = %q, want %q", got, tt.tag)
		}
	}
	if got := El("my-widget").Tag; got != "my-widget" {
		t.Errorf("El tag = %q", got)
	}
}

func TestClasses(t *testing.T) {
	tests := []struct {
		name string
		attr Attr
		want string
	}{
		{"strings", Classes("card", "", "active"), "card active"},
		{"slice", Classes([]string{"a", "b"}), "a b"},
		{"map sorted", Classes(map[string]bool{"z": true, "a": true, "off": false}), "a z"},
		{"ClassIf true", ClassIf(true, "on"), "on"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Value != tt.want {
				t.Errorf("class = %q, want %q", tt.attr.Value, tt.want)
			}
		})
	}
	if !ClassIf(false, "on").IsEmpty() {
		t.Error("ClassIf(false) should be empty")
	}
}

func TestEvents(t *testing.T) {
	tests := []struct {
		handler EventHandler
		want    string
	}{
		{OnClick(nil), "onclick"},
		{OnInput(nil), "oninput"},
		{OnKeyDown(nil), "onkeydown"},
		{On("custom", nil), "oncustom"},
	}
	for _, tt := range tests {
		if tt.handler.Event != tt.want {
			t.Errorf("Event = %q, want %q", tt.handler.Event, tt.want)
		}
	}
	if !IsEventProp("onclick") || IsEventProp("on") || IsEventProp("class") {
		t.Error("IsEventProp misclassified")
	}
	if EventName("onclick") != "click" {
		t.Error("EventName(onclick) != click")
	}
}
