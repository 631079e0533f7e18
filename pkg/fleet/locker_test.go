package fleet

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordLocks_SerializesSameKey(t *testing.T) {
	var locks RecordLocks
	var wg sync.WaitGroup

	counter := 0
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("commission-1")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Equal(t, 0, locks.size())
}

func TestRecordLocks_IndependentKeys(t *testing.T) {
	var locks RecordLocks

	unlockA := locks.Lock("a")
	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("b")
		unlock()
		close(done)
	}()
	<-done

	assert.Equal(t, 1, locks.size())
	unlockA()
	assert.Equal(t, 0, locks.size())
}
