//go:build unit

package lockfile_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/automigrate/internal/domain/entities"
	"github.com/rios0rios0/automigrate/internal/infrastructure/repositories/lockfile"
	doubles "github.com/rios0rios0/automigrate/test/infrastructure/repositorydoubles"
)

const sharedLockfileKey = "octoherd/script-star-or-unstar/package-lock.json"

// blockingProvider holds every GetFileContent call until release is closed.
type blockingProvider struct {
	doubles.DummyProviderRepository
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (p *blockingProvider) GetFileContent(
	_ context.Context, _ entities.Repository, _ string,
) (entities.FileContent, error) {
	if p.calls.Add(1) == 1 {
		close(p.started)
	}
	<-p.release
	return entities.FileContent{Encoding: entities.EncodingRaw, Content: `{"name":"x","lockfileVersion":2}`}, nil
}

func TestCachedLockfileRepositoryGet(t *testing.T) {
	t.Parallel()

	t.Run("should fetch the lockfile from the fixed source", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{FileContents: map[string]entities.FileContent{
			sharedLockfileKey: {Encoding: entities.EncodingRaw, Content: `{"name":"x","lockfileVersion":2}`},
		}}
		repository := lockfile.NewCachedLockfileRepository()

		// when
		result, err := repository.Get(context.Background(), spy)

		// then
		require.NoError(t, err)
		assert.Equal(t, "x", result.Name())
		assert.Equal(t, []string{sharedLockfileKey}, spy.RequestedFiles)
	})

	t.Run("should decode base64 content", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{FileContents: map[string]entities.FileContent{
			sharedLockfileKey: {Encoding: entities.EncodingBase64, Content: "eyJuYW1lIjoieCJ9"},
		}}
		repository := lockfile.NewCachedLockfileRepository()

		// when
		result, err := repository.Get(context.Background(), spy)

		// then
		require.NoError(t, err)
		assert.Equal(t, "x", result.Name())
	})

	t.Run("should fetch only once across sequential calls", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{FileContents: map[string]entities.FileContent{
			sharedLockfileKey: {Content: `{"name":"x"}`},
		}}
		repository := lockfile.NewCachedLockfileRepository()

		// when
		first, err := repository.Get(context.Background(), spy)
		require.NoError(t, err)
		second, err := repository.Get(context.Background(), spy)
		require.NoError(t, err)

		// then
		assert.Same(t, first, second)
		assert.Len(t, spy.RequestedFiles, 1)
	})

	t.Run("should share one fetch between concurrent first callers", func(t *testing.T) {
		t.Parallel()

		// given
		provider := &blockingProvider{started: make(chan struct{}), release: make(chan struct{})}
		repository := lockfile.NewCachedLockfileRepository()
		const callers = 8
		results := make([]*entities.Lockfile, callers)
		var wg sync.WaitGroup

		// when
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := repository.Get(context.Background(), provider)
				assert.NoError(t, err)
				results[i] = result
			}()
		}
		<-provider.started
		close(provider.release)
		wg.Wait()

		// then
		assert.Equal(t, int32(1), provider.calls.Load())
		for _, result := range results {
			assert.Same(t, results[0], result)
		}
	})

	t.Run("should not cache failures and succeed on the next call", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{FileContentErr: errors.New("network error")}
		repository := lockfile.NewCachedLockfileRepository()

		// when
		_, firstErr := repository.Get(context.Background(), spy)
		spy.FileContents = map[string]entities.FileContent{sharedLockfileKey: {Content: `{"name":"x"}`}}
		result, secondErr := repository.Get(context.Background(), spy)

		// then
		require.ErrorIs(t, firstErr, entities.ErrArtifactFetch)
		assert.Contains(t, firstErr.Error(), "network error")
		require.NoError(t, secondErr)
		assert.Equal(t, "x", result.Name())
		assert.Len(t, spy.RequestedFiles, 2)
	})

	t.Run("should report unparsable lockfiles as fetch failures", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &doubles.SpyProviderRepository{FileContents: map[string]entities.FileContent{
			sharedLockfileKey: {Content: `<html>rate limited</html>`},
		}}
		repository := lockfile.NewCachedLockfileRepository()

		// when
		_, err := repository.Get(context.Background(), spy)

		// then
		require.ErrorIs(t, err, entities.ErrArtifactFetch)
	})
}
