package vtest_test

import (
	"fmt"
	"testing"

	"github.com/vango-dev/reactor/pkg/host/memdom"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
	"github.com/vango-dev/reactor/pkg/vtest"
)

var counter = vdom.Func("counter", func(props *reactive.ObjectProxy, _ vdom.Context) vdom.RenderFunc {
	start, _ := props.Get("start").(int)
	count := reactive.NewRef(start)
	return func() *vdom.VNode {
		return vdom.Div(
			vdom.Span(vdom.ID("value"), fmt.Sprint(count.Value())),
			vdom.Button(vdom.OnClick(func() { count.SetValue(count.Value() + 1) }), "+"),
		)
	}
})

func TestMountAndClick(t *testing.T) {
	h := vtest.Mount(t, counter, vdom.Props{"start": 1})
	h.ExpectHTML(`<div><span id="value">1</span><button>+</button></div>`)

	h.ResetOps()
	h.Click("button")
	h.ExpectContains(">2<")
	h.ExpectNotContains(">1<")
	h.ExpectOps(memdom.OpSetElementText, 1)
	h.ExpectOps(memdom.OpCreate, 0)
}

func TestExpectElementAndAttribute(t *testing.T) {
	h := vtest.Mount(t, counter, nil)
	h.ExpectElement("span")
	h.ExpectAttribute("#value", "id", "value")
	if h.Find("#value").TextContent() != "0" {
		t.Errorf("value = %q", h.Find("#value").TextContent())
	}
}

func TestRenderToString(t *testing.T) {
	html := vtest.RenderToString(vdom.Div(vdom.Class("card"), "Hello"))
	if html != `<div class="card">Hello</div>` {
		t.Errorf("RenderToString() = %s", html)
	}
}

func TestFlushAfterDirectWrite(t *testing.T) {
	label := reactive.NewRef("a")
	comp := vdom.Stateless("label", func(*reactive.ObjectProxy) *vdom.VNode {
		return vdom.P(label.Value())
	})
	h := vtest.Mount(t, comp, nil)

	label.SetValue("b")
	h.ExpectHTML("<p>a</p>")
	h.Flush()
	h.ExpectHTML("<p>b</p>")
}
