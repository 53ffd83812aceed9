package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/container"
)

type item struct {
	container.IncrementalItemBase
	id int
}

func ids(a *container.IncrementalArray[*item]) []int {
	res := []int{}
	for _, x := range a.Data() {
		res = append(res, x.id)
	}
	return res
}

func TestIncrementalArrayDeferredOperations(t *testing.T) {
	a := container.NewIncrementalArray[*item]()
	items := []*item{{id: 0}, {id: 1}, {id: 2}, {id: 3}}
	for _, x := range items {
		a.Add(x)
	}
	// Prepare之前不可见
	assert.Equal(t, 0, a.Len())
	adds, removes := a.Pending()
	assert.Equal(t, 4, adds)
	assert.Equal(t, 0, removes)

	a.Prepare()
	assert.Equal(t, []int{0, 1, 2, 3}, ids(a))

	a.Remove(items[1])
	a.Remove(items[3])
	a.Remove(items[1]) // 重复登记
	a.Add(&item{id: 4})
	assert.Equal(t, 4, a.Len())

	a.Prepare()
	assert.ElementsMatch(t, []int{0, 2, 4}, ids(a))
	for i, x := range a.Data() {
		assert.Equal(t, i, x.Index())
	}
}

func TestIncrementalArrayRemoveAll(t *testing.T) {
	a := container.NewIncrementalArray[*item]()
	items := []*item{{id: 0}, {id: 1}, {id: 2}}
	for _, x := range items {
		a.Add(x)
	}
	a.Prepare()
	for _, x := range items {
		a.Remove(x)
	}
	a.Prepare()
	assert.Equal(t, 0, a.Len())
}
