package instancepool_test

import (
	"fmt"

	"github.com/geseq/instancepool"
)

type prefab struct {
	name string
}

type cube struct {
	name   string
	active bool
	color  string
}

func Example() {
	spawned := 0
	spawn := instancepool.FactoryFunc[*cube, prefab](func(p prefab) (*cube, error) {
		spawned++
		return &cube{name: fmt.Sprintf("%s-%d", p.name, spawned)}, nil
	})

	pool, err := instancepool.New(prefab{name: "cube"}, instancepool.Factory[*cube, prefab](spawn),
		instancepool.Hooks[*cube]{
			OnAllocate: func(c *cube) { c.active, c.color = true, "yellow" },
			OnObtain:   func(c *cube) { c.active, c.color = true, "green" },
			OnRecycle:  func(c *cube) { c.active, c.color = false, "red" },
		},
		instancepool.WithInitialSize(3),
		instancepool.WithGrowth(5),
	)
	if err != nil {
		panic(err)
	}

	var held []*cube
	for i := 0; i < 5; i++ {
		c, _ := pool.Obtain()
		held = append(held, c)
	}
	fmt.Println(held[0].name, held[0].color, held[4].name)

	for _, c := range held[:3] {
		_ = pool.Recycle(c)
	}
	fmt.Println(pool.Available(), pool.Unrecycled(), held[0].color)

	// Output:
	// cube-3 green cube-7
	// 6 2 red
}
