// Package lower turns HTML templates into node trees.
//
// Templates are ordinary HTML with {{ path }} slots:
//
//	<section class="{{ theme }}">
//	    <card title="{{ user.name }}">
//	        <p>Hello, {{ user.name }}</p>
//	    </card>
//	</section>
//
// Parse reads the markup with golang.org/x/net/html. Lowering walks the
// result inside a component.Scope: elements whose tag is a registered
// component kind become builder calls, other elements become node.Element
// values, and text slots become expression nodes. Every lowered position
// gets an id derived from the template name and the node's position, so
// lowering an unchanged template again yields the same ids.
//
// A slot that makes up a whole component attribute passes the bound value
// to the component unchanged; any other attribute slot is interpolated into
// the attribute string at lowering time. Text slots are looked up when the
// tree is rendered.
//
// Components can be written in markup too. Their props become bindings and
// <slot></slot> marks where the caller's children go:
//
//	<div class="card"><h2>{{ title }}</h2><slot></slot></div>
//
// Custom elements must be closed explicitly, since HTML has no self-closing
// syntax for them.
package lower
