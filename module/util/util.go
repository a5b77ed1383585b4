package util

import (
	"sync"
)

// AllClosed closes the returned channel once every input channel is closed.
func AllClosed(channels ...<-chan struct{}) <-chan struct{} {
	var wg sync.WaitGroup
	wg.Add(len(channels))
	for _, ch := range channels {
		go func(ch <-chan struct{}) {
			defer wg.Done()
			<-ch
		}(ch)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

// WaitError returns the error received on errChan, or nil once done closes.
// An error that races with done is still returned: done may close as a consequence
// of the error being thrown.
func WaitError(errChan <-chan error, done <-chan struct{}) error {
	select {
	case err := <-errChan:
		return err
	case <-done:
		select {
		case err := <-errChan:
			return err
		default:
		}
		return nil
	}
}

