// Package component instantiates user components into a world.Store.
//
// A component is any value with a Node method; its properties are bound
// when its Factory constructs it. Kinds are registered by name:
//
//	reg := component.NewRegistry()
//	reg.MustRegister("Greeter", component.Define(func(p GreeterProps) component.Component {
//	    return component.Func(func(s *component.Scope, _ []*node.Node) (*node.Node, error) {
//	        return node.H1(
//	            node.Text("Hello, "),
//	            s.ExprString("name", "p.Name", func() string { return p.Name }),
//	        ), nil
//	    })
//	}))
//
// The Builder derives a ComponentID from the kind and a context id, renders
// the instance once, caches the subtree in the store and returns a reference
// node. Building the same kind at the same context again reuses the cached
// subtree when props and slot content are unchanged.
//
//	b := component.NewBuilder(reg, world.New())
//	ref, err := b.Build("Greeter", component.Props{"name": "World"}, nil, "index")
//
// Components build nested components and expressions through their Scope,
// which prefixes every derived id with the instance's own id.
package component
