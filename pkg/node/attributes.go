package node

import "strings"

// attr creates an Attr with the given name and value.
func attr(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// Attribute creates an arbitrary attribute.
func Attribute(name, value string) Attr { return attr(name, value) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// Links and media

func Href(url string) Attr    { return attr("href", url) }
func Src(url string) Attr     { return attr("src", url) }
func Alt(text string) Attr    { return attr("alt", text) }
func Rel(rel string) Attr     { return attr("rel", rel) }
func Target(t string) Attr    { return attr("target", t) }
func Charset(cs string) Attr  { return attr("charset", cs) }
func Content(c string) Attr   { return attr("content", c) }
func NameAttr(n string) Attr  { return attr("name", n) }
func TitleAttr(t string) Attr { return attr("title", t) }

// Form attributes

func Type(t string) Attr        { return attr("type", t) }
func Value(v string) Attr       { return attr("value", v) }
func Placeholder(p string) Attr { return attr("placeholder", p) }
func For(id string) Attr        { return attr("for", id) }
func Action(url string) Attr    { return attr("action", url) }
func Method(m string) Attr      { return attr("method", m) }

// Boolean attributes render without a value.

func Disabled() Attr { return attr("disabled", "") }
func Checked() Attr  { return attr("checked", "") }
func Required() Attr { return attr("required", "") }
func Hidden() Attr   { return attr("hidden", "") }
