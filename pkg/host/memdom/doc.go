// Package memdom is an in-memory host tree for the renderer.
//
// A Document records every host operation the renderer performs, which
// makes it the reference host for tests, the CLI and the dev server:
//
//	doc := memdom.New()
//	r := renderer.New(doc)
//	r.Render(vdom.Ul(vdom.Li(vdom.Key("a"), "a")), doc.Root())
//	fmt.Println(doc.HTML(), doc.Count(memdom.OpMove))
//
// A Document is not safe for concurrent use.
package memdom
