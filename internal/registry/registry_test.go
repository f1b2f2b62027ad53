// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielG71/nf-automate/pkg/types"
)

// mapCache is an in-memory Cache for tests.
type mapCache struct {
	entries map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) CompanyName(_ context.Context, cnpj string) (string, bool, error) {
	name, ok := c.entries[cnpj]
	return name, ok, nil
}

func (c *mapCache) PutCompanyName(_ context.Context, cnpj, name string) error {
	c.entries[cnpj] = name
	return nil
}

func testConfig(baseURL string) types.RegistryConfig {
	return types.RegistryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "nf-automate-test/0",
		},
		BaseURL:     baseURL,
		LookupDelay: time.Millisecond,
	}
}

func TestCompanyName_LookupAndCache(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/11222333000181", r.URL.Path)
		fmt.Fprint(w, `{"razao_social": "  Reciclagem Boa Vista Ltda "}`)
	}))
	defer ts.Close()

	cache := newMapCache()
	client := NewClient(testConfig(ts.URL+"/"), cache)

	name, err := client.CompanyName(context.Background(), "11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "RECICLAGEM BOA VISTA LTDA", name)

	// Second lookup is served from the cache.
	name, err = client.CompanyName(context.Background(), "11222333000181")
	require.NoError(t, err)
	assert.Equal(t, "RECICLAGEM BOA VISTA LTDA", name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCompanyName_InvalidCNPJNeverHitsAPI(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL+"/"), newMapCache())

	_, err := client.CompanyName(context.Background(), "11.222.333/0001-99")
	assert.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCompanyName_NotFoundCachedAsNegative(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	cache := newMapCache()
	client := NewClient(testConfig(ts.URL+"/"), cache)

	name, err := client.CompanyName(context.Background(), "11444777000161")
	require.NoError(t, err)
	assert.Empty(t, name)

	name, err = client.CompanyName(context.Background(), "11444777000161")
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCompanyName_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL+"/"), newMapCache())

	_, err := client.CompanyName(context.Background(), "11444777000161")
	assert.Error(t, err)
}

func TestCompanyName_NilCache(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"razao_social": "ACME"}`)
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL+"/"), nil)

	for i := 0; i < 2; i++ {
		name, err := client.CompanyName(context.Background(), "12345678000195")
		require.NoError(t, err)
		assert.Equal(t, "ACME", name)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
