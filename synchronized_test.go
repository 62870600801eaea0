package instancepool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizedConcurrentChurn(t *testing.T) {
	var mu sync.Mutex
	allocs := 0
	f := FactoryFunc[*widget, string](func(kind string) (*widget, error) {
		mu.Lock()
		defer mu.Unlock()
		allocs++
		return &widget{id: allocs, kind: kind}, nil
	})

	p, err := NewSynchronized[*widget, string]("cube", f, widgetHooks(), WithInitialSize(8), WithGrowth(4), WithAvailableMaximum(16))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				w, err := p.Obtain()
				if !assert.NoError(t, err) {
					return
				}
				assert.NoError(t, p.Recycle(w))
			}
		}()
	}
	wg.Wait()

	s := p.Stats()
	assert.Equal(t, 0, s.Unrecycled)
	assert.Equal(t, uint64(4000), s.Obtained)
	assert.Equal(t, uint64(4000), s.Recycled)
	assert.LessOrEqual(t, s.Available, s.AvailableMaximum)
	assert.Equal(t, uint64(s.Available)+s.Discarded, s.Allocated)
}

func TestSynchronizedInvalidConfiguration(t *testing.T) {
	p, err := NewSynchronized[*widget, string]("cube", &widgetFactory{}, Hooks[*widget]{}, WithGrowth(0))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Nil(t, p)
}

func TestSynchronizedRecycleNil(t *testing.T) {
	p, err := NewSynchronized[*widget, string]("cube", &widgetFactory{}, Hooks[*widget]{}, WithName("locked"))
	require.NoError(t, err)

	assert.ErrorIs(t, p.Recycle(nil), ErrInvalidArgument)
	assert.Equal(t, "locked", p.Name())
}

func TestSynchronizedAccessors(t *testing.T) {
	p, err := NewSynchronized[*widget, string]("cube", &widgetFactory{}, widgetHooks(), WithInitialSize(3), WithGrowth(2), WithAvailableMaximum(5))
	require.NoError(t, err)

	assert.Equal(t, "cube", p.Template())
	assert.Equal(t, 3, p.Available())
	assert.Equal(t, 5, p.AvailableMaximum())
	assert.Equal(t, 2, p.Growth())
	assert.Equal(t, 0, p.Unrecycled())

	w, err := p.Obtain()
	require.NoError(t, err)
	assert.Equal(t, 2, p.Available())
	assert.Equal(t, 1, p.Unrecycled())

	require.NoError(t, p.Recycle(w))
	require.NoError(t, p.Recycle(w))
	assert.Equal(t, -1, p.Unrecycled())
	assert.Equal(t, p.Stats().Available, p.Available())
}
