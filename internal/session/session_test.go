package session

import (
	"sync"
	"testing"

	"gotest.tools/v3/assert"
)

func TestStoreIsolatesSessions(t *testing.T) {
	s := NewStore[string]()
	a, b := "repo-a", "repo-b"

	s.Do("one", func(*string) *string { return &a })
	s.Do("two", func(*string) *string { return &b })

	assert.Equal(t, *s.Load("one"), "repo-a")
	assert.Equal(t, *s.Load("two"), "repo-b")
	assert.Assert(t, s.Load("three") == nil)
	assert.Equal(t, s.Len(), 2)

	s.Drop("one")
	assert.Assert(t, s.Load("one") == nil)
}

func TestEmptyIDIsLocal(t *testing.T) {
	s := NewStore[int]()
	n := 7
	s.Do("", func(*int) *int { return &n })
	assert.Equal(t, *s.Load(LocalID), 7)

	s.Drop("")
	assert.Assert(t, s.Load(LocalID) == nil)
}

func TestDoSerializesOneSession(t *testing.T) {
	s := NewStore[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do("shared", func(cur *int) *int {
				n := 1
				if cur != nil {
					n = *cur + 1
				}
				return &n
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, *s.Load("shared"), 50)
}

func TestNilValueLeavesNoEntry(t *testing.T) {
	s := NewStore[string]()

	s.Do("visitor", func(cur *string) *string {
		assert.Assert(t, cur == nil)
		return nil
	})
	assert.Equal(t, s.Len(), 0)

	v := "kept"
	s.Do("visitor", func(*string) *string { return &v })
	assert.Equal(t, s.Len(), 1)

	s.Do("visitor", func(*string) *string { return nil })
	assert.Equal(t, s.Len(), 0)
	assert.Assert(t, s.Load("visitor") == nil)
}

func TestConcurrentEmptyCallsReclaim(t *testing.T) {
	s := NewStore[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do("idle", func(cur *int) *int { return cur })
		}()
	}
	wg.Wait()
	assert.Equal(t, s.Len(), 0)
}
