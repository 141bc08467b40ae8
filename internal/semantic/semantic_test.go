package semantic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"i18n-autocomplete/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingClient(t *testing.T) {
	var got embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		// Out of order on purpose.
		json.NewEncoder(w).Encode(embeddingResponse{Data: []embeddingData{
			{Index: 1, Embedding: []float32{0, 1}},
			{Index: 0, Embedding: []float32{1, 0}},
		}})
	}))
	defer srv.Close()

	ec := NewEmbeddingClient("secret", "m", srv.URL+"/v1/", 2)
	vectors, err := ec.Embed(context.Background(), []string{"Home", "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
	assert.Equal(t, embeddingRequest{Input: []string{"Home", "Welcome"}, Model: "m", Dimensions: 2}, got)
}

func TestEmbeddingClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ec := NewEmbeddingClient("k", "m", srv.URL, 0)
	assert.Equal(t, 1024, ec.Dimensions())

	_, err := ec.EmbedQuery(context.Background(), "x")
	assert.ErrorContains(t, err, "status 429")

	vectors, err := ec.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbeddingClientMissingVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"index": 0, "embedding": [1]}]}`))
	}))
	defer srv.Close()

	_, err := NewEmbeddingClient("k", "m", srv.URL, 1).Embed(context.Background(), []string{"a", "b"})
	assert.ErrorContains(t, err, "input 1")
}

func TestEmbedBatch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := embeddingResponse{}
		for i := range req.Input {
			resp.Data = append(resp.Data, embeddingData{Index: i, Embedding: []float32{float32(len(req.Input[i]))}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	vectors, err := NewEmbeddingClient("k", "m", srv.URL, 1).EmbedBatch(context.Background(), []string{"a", "bb", "ccc"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, [][]float32{{1}, {2}, {3}}, vectors)
}

type fakeEmbedder struct {
	batches [][]string
	err     error
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string, _ int) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, texts)
	out := make([][]float32, len(texts))
	for i, s := range texts {
		out[i] = []float32{float32(len(s))}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text))}, nil
}

type memCache map[string][]float32

func (m memCache) Get(_ context.Context, text string) ([]float32, bool) {
	v, ok := m[text]
	return v, ok
}

func (m memCache) Set(_ context.Context, text string, v []float32) error {
	m[text] = v
	return nil
}

type fakeVectors struct {
	locale  string
	records []EmbeddingRecord
	query   []float32
}

func (f *fakeVectors) Replace(_ context.Context, locale string, records []EmbeddingRecord) error {
	f.locale, f.records = locale, records
	return nil
}

func (f *fakeVectors) Search(_ context.Context, v []float32, k int) ([]SearchResult, error) {
	f.query = v
	return []SearchResult{{Key: "home.title", Value: "Home", Score: 0.9}}, nil
}

func TestLookupIndex(t *testing.T) {
	emb := &fakeEmbedder{}
	cache := memCache{"Home": {42}}
	vectors := &fakeVectors{}
	l := NewLookup(emb, cache, vectors)

	n, err := l.Index(context.Background(), "en", []catalog.Entry{
		{Key: "home.title", Value: "Home"},
		{Key: "home.subtitle", Value: "Welcome"},
		{Key: "nav.home", Value: "Home"},
		{Key: "todo", Value: "  "},
		{Key: "again", Value: "Welcome"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, [][]string{{"Welcome"}}, emb.batches)
	assert.Equal(t, []float32{7}, cache["Welcome"])

	assert.Equal(t, "en", vectors.locale)
	assert.Equal(t, []EmbeddingRecord{
		{Locale: "en", Key: "home.title", Value: "Home", Vector: []float32{42}},
		{Locale: "en", Key: "home.subtitle", Value: "Welcome", Vector: []float32{7}},
		{Locale: "en", Key: "nav.home", Value: "Home", Vector: []float32{42}},
		{Locale: "en", Key: "again", Value: "Welcome", Vector: []float32{7}},
	}, vectors.records)
}

func TestLookupIndexEmbedError(t *testing.T) {
	vectors := &fakeVectors{}
	l := NewLookup(&fakeEmbedder{err: errors.New("down")}, nil, vectors)

	_, err := l.Index(context.Background(), "vi", []catalog.Entry{{Key: "a", Value: "x"}})
	assert.ErrorContains(t, err, "down")
	assert.Empty(t, vectors.locale)
}

func TestLookupSimilar(t *testing.T) {
	vectors := &fakeVectors{}
	l := NewLookup(&fakeEmbedder{}, memCache{"cached": {9}}, vectors)

	results, err := l.Similar(context.Background(), " Homepage ", 3)
	require.NoError(t, err)
	assert.Equal(t, "home.title", results[0].Key)
	assert.Equal(t, []float32{8}, vectors.query)

	_, err = l.Similar(context.Background(), "cached", 0)
	require.NoError(t, err)
	assert.Equal(t, []float32{9}, vectors.query)

	_, err = l.Similar(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyPhrase)
}
