package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/gateway"
	"github.com/cory-johannsen/charsheet/internal/store"
)

const path = "/api/character"

type failingRepo struct{}

func (failingRepo) Get(context.Context) (character.Record, error) {
	return character.Record{}, errors.New("disk on fire")
}

func (failingRepo) Put(context.Context, character.Record) error {
	return errors.New("disk on fire")
}

func serve(t *testing.T, repo store.Repository, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	store.NewHandler(repo, zap.NewNop()).Routes(path).ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestHandler_GetBeforeSaveIs404(t *testing.T) {
	rr := serve(t, store.NewMemoryRepository(), httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, float64(404), decode(t, rr)["statusCode"])
}

func TestHandler_PostThenGet(t *testing.T) {
	repo := store.NewMemoryRepository()
	body := `{"attributes":{"Strength":12},"skillPoints":{"Athletics":1}}`
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(t, repo, req)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(t, repo, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	out := decode(t, rr)
	b, ok := out["body"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"Strength": float64(12)}, b["attributes"])
	assert.Equal(t, map[string]any{"Athletics": float64(1)}, b["skillPoints"])
}

func TestHandler_PostRejectsBadPayload(t *testing.T) {
	for _, body := range []string{
		`{`,
		`[]`,
		`{"attributes":{"Strength":"high"},"skillPoints":{}}`,
		`{"attributes":{"Strength":10.5},"skillPoints":{}}`,
		`{"attributes":{}}`,
		`{"attributes":null,"skillPoints":{}}`,
	} {
		rr := serve(t, store.NewMemoryRepository(), httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body %q", body)
	}
}

func TestHandler_PostNamesMissingField(t *testing.T) {
	rr := serve(t, store.NewMemoryRepository(), httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"attributes":{}}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode(t, rr)["message"], "skillPoints")
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rr := serve(t, store.NewMemoryRepository(), httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Allow"))
}

func TestHandler_RepositoryFailureIs500(t *testing.T) {
	rr := serve(t, failingRepo{}, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"attributes":{},"skillPoints":{}}`))
	rr = serve(t, failingRepo{}, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_RequestIDEchoedOrMinted(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(store.RequestIDHeader, "abc-123")
	rr := serve(t, store.NewMemoryRepository(), req)
	assert.Equal(t, "abc-123", rr.Header().Get(store.RequestIDHeader))

	rr = serve(t, store.NewMemoryRepository(), httptest.NewRequest(http.MethodGet, path, nil))
	assert.Len(t, rr.Header().Get(store.RequestIDHeader), 36)
}

func TestHandler_Healthz(t *testing.T) {
	rr := serve(t, store.NewMemoryRepository(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGateway_LoadBeforeSaveIsTransportError(t *testing.T) {
	srv := httptest.NewServer(store.NewHandler(store.NewMemoryRepository(), zap.NewNop()).Routes(path))
	t.Cleanup(srv.Close)
	c := gateway.New(config.GatewayConfig{Endpoint: srv.URL + path}, zap.NewNop())

	_, err := c.Load(context.Background())
	var te *gateway.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.Status)
}

// Property: saving a sheet through the gateway and loading it back reproduces
// the same attributes and skills.
func TestProperty_GatewayRoundTrip(t *testing.T) {
	srv := httptest.NewServer(store.NewHandler(store.NewMemoryRepository(), zap.NewNop()).Routes(path))
	t.Cleanup(srv.Close)
	c := gateway.New(config.GatewayConfig{Endpoint: srv.URL + path}, zap.NewNop())
	cat := ruleset.DefaultCatalog()
	skills := cat.SkillDefinitions()

	rapid.Check(t, func(rt *rapid.T) {
		s := character.NewSheet(cat)
		for _, a := range ruleset.Attributes() {
			s.Attributes[a] = rapid.IntRange(-5, 20).Draw(rt, string(a))
		}
		for _, sk := range skills {
			s.Skills[sk.Name] = rapid.IntRange(-2, 6).Draw(rt, sk.Name)
		}

		if err := c.Save(context.Background(), character.ToRecord(s)); err != nil {
			rt.Fatal(err)
		}
		rec, err := c.Load(context.Background())
		if err != nil {
			rt.Fatal(err)
		}
		got, err := character.FromRecord(cat, rec)
		if err != nil {
			rt.Fatal(err)
		}
		if !assert.ObjectsAreEqual(s.Attributes, got.Attributes) || !assert.ObjectsAreEqual(s.Skills, got.Skills) {
			rt.Fatalf("round trip mismatch: saved %v/%v, loaded %v/%v", s.Attributes, s.Skills, got.Attributes, got.Skills)
		}
	})
}
