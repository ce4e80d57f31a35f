package container_test

import (
	"fmt"

	"github.com/loomdi/loom/container"
)

type Greeter struct{ prefix string }

func (g *Greeter) Greet(name string) string { return g.prefix + name }

func Example() {
	mod := container.NewModule("app",
		container.Single(func(*container.Injector) (*Greeter, error) {
			return &Greeter{prefix: "hello, "}, nil
		}),
	)

	c := container.New()
	if err := c.Start(mod); err != nil {
		panic(err)
	}
	defer c.Close()

	g := container.MustResolve[*Greeter](c)
	fmt.Println(g.Greet("world"))
	// Output: hello, world
}

func ExampleContainer_CreateScope() {
	var serial int
	mod := container.NewModule("app",
		container.Scoped(func(*container.Injector) (*widget, error) {
			serial++
			return &widget{n: serial}, nil
		}),
	)

	c := container.New()
	if err := c.Start(mod); err != nil {
		panic(err)
	}
	defer c.Close()

	first, _ := c.CreateScope("request")
	second, _ := c.CreateScope("request")

	a := container.MustResolve[*widget](first)
	b := container.MustResolve[*widget](first)
	other := container.MustResolve[*widget](second)

	fmt.Println(a.n, b.n, other.n)
	// Output: 1 1 2
}

func ExampleCheck() {
	mod := container.NewModule("api",
		container.Single(func(*container.Injector) (*Greeter, error) {
			return &Greeter{prefix: "hi, "}, nil
		}, container.Needs(container.KeyOf[string]().Qualified("prefix"))),
	)

	err := container.Check(nil, mod)
	fmt.Println(err)
	// Output: container: definition *container_test.Greeter depends on missing key string#prefix
}

func ExampleResolveNamed() {
	mod := container.NewModule("caches",
		container.Single(func(*container.Injector) (string, error) {
			return "hot cache", nil
		}, container.Qualified("hot")),
		container.Single(func(*container.Injector) (string, error) {
			return "cold cache", nil
		}, container.Qualified("cold")),
	)

	c := container.New()
	if err := c.Start(mod); err != nil {
		panic(err)
	}
	defer c.Close()

	fmt.Println(container.MustResolveNamed[string](c, "hot"))
	fmt.Println(container.MustResolveNamed[string](c, "cold"))
	// Output:
	// hot cache
	// cold cache
}
