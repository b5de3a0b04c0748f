package js

import (
	"strconv"
	"strings"
	"unicode"

	"lineclamp/pkg/css"
	"lineclamp/pkg/html"

	"github.com/dop251/goja"
)

// domContext holds shared state for DOM bindings within a single execution.
// It maintains a node-to-proxy cache so the same JS object is returned for
// the same underlying *html.Node (needed for === identity checks).
type domContext struct {
	vm    *goja.Runtime
	doc   *html.Document
	cache map[*html.Node]goja.Value
}

func newDOMContext(vm *goja.Runtime, doc *html.Document) *domContext {
	return &domContext{
		vm:    vm,
		doc:   doc,
		cache: make(map[*html.Node]goja.Value),
	}
}

// registerDocument sets up the global `document` object on the goja runtime.
func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := newDOMContext(vm, doc)

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		node := html.FindByID(doc.Root, call.Arguments[0].String())
		if node == nil {
			return goja.Null()
		}
		return ctx.elementProxy(node)
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		return ctx.elementArray(getElementsByTagName(doc.Root, strings.ToLower(call.Arguments[0].String())))
	})
	docObj.Set("querySelector", querySelectorFn(ctx, doc.Root))
	docObj.Set("querySelectorAll", querySelectorAllFn(ctx, doc.Root))
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.elementProxy(html.NewElement(strings.ToLower(call.Arguments[0].String())))
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return ctx.elementProxy(html.NewText(text))
	})
	if body := firstByTag(doc.Root, "body"); body != nil {
		docObj.Set("body", ctx.elementProxy(body))
	}

	vm.Set("document", docObj)
	return ctx
}

func firstByTag(root *html.Node, tag string) *html.Node {
	if found := getElementsByTagName(root, tag); len(found) > 0 {
		return found[0]
	}
	return nil
}

// getElementsByTagName collects all element nodes with the given tag name.
func getElementsByTagName(node *html.Node, tag string) []*html.Node {
	var result []*html.Node
	node.Walk(func(n *html.Node) bool {
		if n != node && n.Type == html.ElementNode && (tag == "*" || n.TagName == tag) {
			result = append(result, n)
		}
		return true
	})
	return result
}

// querySelectorFn returns a JS function implementing querySelector on root.
func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelector': 1 argument required"))
		}
		found := css.QuerySelectorAll(root, call.Arguments[0].String())
		if len(found) == 0 {
			return goja.Null()
		}
		return ctx.elementProxy(found[0])
	}
}

func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelectorAll': 1 argument required"))
		}
		return ctx.elementArray(css.QuerySelectorAll(root, call.Arguments[0].String()))
	}
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	arr := ctx.vm.NewArray()
	for i, n := range nodes {
		arr.Set(strconv.Itoa(i), ctx.elementProxy(n))
	}
	return arr
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject wrapping an html.Node.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode extracts the *html.Node from a goja value that wraps an elementAccessor.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

// elementAccessor implements goja.DynamicObject to intercept property access
// on DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"tagName", "nodeName", "nodeType", "nodeValue", "id", "className",
	"textContent", "innerHTML", "outerHTML",
	"getAttribute", "setAttribute", "removeAttribute",
	"children", "childNodes", "parentElement", "style",
	"appendChild", "removeChild", "querySelector", "querySelectorAll",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	node := e.node

	switch key {
	case "nodeType":
		if node.Type == html.TextNode {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "nodeName":
		if node.Type == html.TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(node.TagName))
	case "nodeValue":
		if node.Type == html.TextNode {
			return vm.ToValue(node.Text)
		}
		return goja.Null()
	case "tagName":
		if node.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(node.TagName))
	case "id":
		id, _ := node.GetAttribute("id")
		return vm.ToValue(id)
	case "className":
		cls, _ := node.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(node.TextContent())
	case "innerHTML":
		return vm.ToValue(node.Serialize())
	case "outerHTML":
		return vm.ToValue(node.SerializeOuter())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := node.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) >= 2 {
				node.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
			}
			return goja.Undefined()
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 && node.Attributes != nil {
				delete(node.Attributes, call.Arguments[0].String())
			}
			return goja.Undefined()
		})
	case "children":
		var elChildren []*html.Node
		for _, child := range node.Children {
			if child.Type == html.ElementNode {
				elChildren = append(elChildren, child)
			}
		}
		return e.ctx.elementArray(elChildren)
	case "childNodes":
		return e.ctx.elementArray(node.Children)
	case "parentElement":
		if p := node.Parent; p != nil && p.Type == html.ElementNode && p.TagName != html.RootTag {
			return e.ctx.elementProxy(p)
		}
		return goja.Null()
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: node})
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.ctx.unwrapNode(argument(call, 0))
			if child == nil {
				panic(vm.NewTypeError("Failed to execute 'appendChild': parameter 1 is not a Node"))
			}
			child.Detach()
			node.AddChild(child)
			return call.Arguments[0]
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.ctx.unwrapNode(argument(call, 0))
			if child == nil || child.Parent != node {
				panic(vm.NewTypeError("Failed to execute 'removeChild': the node is not a child of this node"))
			}
			node.RemoveChild(child)
			return call.Arguments[0]
		})
	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, node))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, node))
	}
	return goja.Undefined()
}

func argument(call goja.FunctionCall, i int) goja.Value {
	if i < len(call.Arguments) {
		return call.Arguments[i]
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.SetTextContent(val.String())
	case "className":
		e.node.SetAttribute("class", val.String())
	case "id":
		e.node.SetAttribute("id", val.String())
	case "innerHTML":
		nodes, err := html.ParseFragment(val.String())
		if err != nil {
			panic(e.ctx.vm.NewGoError(err))
		}
		for _, c := range e.node.Children {
			c.Parent = nil
		}
		e.node.Children = nil
		for _, n := range nodes {
			e.node.AddChild(n)
		}
	case "nodeValue":
		if e.node.Type == html.TextNode {
			e.node.Text = val.String()
		}
	default:
		return false
	}
	return true
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool { return false }

func (e *elementAccessor) Keys() []string { return elementKeys }

// styleAccessor maps JS camelCase property access to CSS kebab-case on the
// node's inline style attribute.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) inline() *css.Style {
	attr, _ := s.node.GetAttribute("style")
	return css.ParseInlineStyle(attr)
}

func (s *styleAccessor) Get(key string) goja.Value {
	if val, ok := s.inline().Get(camelToKebab(key)); ok {
		return s.vm.ToValue(val)
	}
	return s.vm.ToValue("")
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	css.SetInlineProperty(s.node, camelToKebab(key), val.String())
	return true
}

func (s *styleAccessor) Has(key string) bool { return true }

func (s *styleAccessor) Delete(key string) bool {
	style := s.inline()
	style.Delete(camelToKebab(key))
	s.node.SetAttribute("style", style.String())
	return true
}

func (s *styleAccessor) Keys() []string {
	style := s.inline()
	keys := make([]string, 0, len(style.Properties))
	for k := range style.Properties {
		keys = append(keys, k)
	}
	return keys
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
// Vendor prefixes keep their leading dash: WebkitLineClamp is
// -webkit-line-clamp.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 || strings.HasPrefix(s, "Webkit") {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
