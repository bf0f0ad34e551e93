// Copyright © 2024 The ELPS authors

package depgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsc-analyze/bsc/depgraph"
)

func TestNotifyReachesDirectDependent(t *testing.T) {
	g := depgraph.New()
	g.AddEdge("child.brs", "parent.brs")

	var notified []string
	g.Subscribe("child.brs", func(key string) { notified = append(notified, key) })

	g.Notify("parent.brs")
	assert.Equal(t, []string{"parent.brs"}, notified)
}

func TestNotifyIsTransitive(t *testing.T) {
	g := depgraph.New()
	g.AddEdge("grandchild.brs", "child.brs")
	g.AddEdge("child.brs", "parent.brs")

	var notified []string
	g.Subscribe("grandchild.brs", func(key string) { notified = append(notified, "grandchild") })
	g.Subscribe("child.brs", func(key string) { notified = append(notified, "child") })

	g.Notify("parent.brs")
	assert.ElementsMatch(t, []string{"grandchild", "child"}, notified)
}

func TestNotifyVisitsEachNodeOnce(t *testing.T) {
	g := depgraph.New()
	// Diamond: both b and c depend on a; d depends on both b and c.
	g.AddEdge("b", "a")
	g.AddEdge("c", "a")
	g.AddEdge("d", "b")
	g.AddEdge("d", "c")

	count := 0
	g.Subscribe("d", func(key string) { count++ })

	g.Notify("a")
	assert.Equal(t, 1, count)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	g := depgraph.New()
	g.AddEdge("child.brs", "parent.brs")

	called := false
	h := g.Subscribe("child.brs", func(key string) { called = true })
	g.Unsubscribe(h)

	g.Notify("parent.brs")
	assert.False(t, called)
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	g := depgraph.New()
	g.AddEdge("child.brs", "parent.brs")
	require.True(t, g.DependsOn("child.brs", "parent.brs"))

	g.RemoveNode("parent.brs")
	assert.False(t, g.HasNode("parent.brs"))
	assert.False(t, g.DependsOn("child.brs", "parent.brs"))
}
