package topo_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topo/pkg/graph"
	"github.com/matzehuels/topo/pkg/topo"
)

func Example() {
	t, err := topo.New(topo.Config{Width: 600, Height: 600, Logger: log.New(io.Discard)})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer t.Destroy()

	_, _ = t.AddNode(graph.Node{ID: "0", X: 250, Y: 250, Radius: 5})
	_, _ = t.AddNode(graph.Node{ID: "1", X: 300, Y: 300, Radius: 10})
	snap, _ := t.AddLink(graph.LinkSpec{Source: "0", Target: "1"})
	fmt.Printf("%d nodes, %d links\n", len(snap.Nodes), len(snap.Links))

	_, err = t.AddLink(graph.LinkSpec{Source: "1", Target: "0"})
	fmt.Println(err)

	snap, _ = t.RemoveNodes("0")
	fmt.Printf("%d nodes, %d links\n", len(snap.Nodes), len(snap.Links))
	// Output:
	// 2 nodes, 1 links
	// link(source: 1, target: 0) duplicated
	// 1 nodes, 0 links
}

func ExampleTopo_AddData() {
	t, _ := topo.New(topo.Config{Width: 300, Height: 300, Logger: log.New(io.Discard)})

	_, rejected, _ := t.AddData(graph.Data{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Links: []graph.LinkSpec{{Source: "a", Target: "b"}, {Source: "b", Target: "b"}},
	})
	for _, err := range rejected {
		fmt.Println(err)
	}
	// Output:
	// link(source: b, target: b) source can't equal to target
}
