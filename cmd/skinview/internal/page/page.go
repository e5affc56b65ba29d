// Package page renders the playground HTML document served by skinview serve.
package page

import (
	"fmt"
	"io"
	"path"

	"github.com/recera/skinview/pkg/renderer/html"
	"github.com/recera/skinview/pkg/vango/vdom"
)

// MountID is the id of the element the WASM client mounts the viewer into
const MountID = "skinview"

// Options controls what the playground document loads
type Options struct {
	Title        string
	ViewerScript string
	WasmPath     string
}

// loaderScript boots the Go runtime and runs the client module
const loaderScript = `const go = new Go();
WebAssembly.instantiateStreaming(fetch(%q), go.importObject)
  .then((result) => go.run(result.instance))
  .catch((err) => console.error("skinview: failed to start client", err));`

// Render writes the playground document to w
func Render(w io.Writer, opts Options) error {
	if opts.ViewerScript == "" {
		return fmt.Errorf("viewer script URL is required")
	}
	if opts.WasmPath == "" {
		return fmt.Errorf("wasm path is required")
	}
	title := opts.Title
	if title == "" {
		title = "Skin Viewer"
	}

	head := []*vdom.VNode{
		vdom.NewElement("meta", vdom.Props{"charset": "utf-8"}),
		vdom.NewElement("meta", vdom.Props{
			"name":    "viewport",
			"content": "width=device-width, initial-scale=1",
		}),
		vdom.NewElement("title", nil, vdom.NewText(title)),
		vdom.NewElement("style", nil, vdom.NewText(
			"body{margin:0;display:flex;justify-content:center;align-items:center;min-height:100vh;background:#1f2937}",
		)),
		vdom.NewElement("script", vdom.Props{"src": opts.ViewerScript}),
		vdom.NewElement("script", vdom.Props{"src": "/wasm_exec.js"}),
	}

	body := []*vdom.VNode{
		vdom.NewElement("div", vdom.Props{"id": MountID}),
		vdom.NewElement("script", nil, vdom.NewText(
			fmt.Sprintf(loaderScript, path.Join("/", opts.WasmPath)),
		)),
	}

	return html.RenderDocument(w, head, body)
}
