// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonlab/chemresolve/internal/catalog"
	"github.com/carbonlab/chemresolve/internal/resolve"
	"github.com/carbonlab/chemresolve/internal/source"
	"github.com/carbonlab/chemresolve/pkg/types"
)

type fakeResolver struct {
	out     resolve.Outcome
	err     error
	trigger resolve.Trigger
}

func (f *fakeResolver) Resolve(_ context.Context, rec *types.Compound, trigger resolve.Trigger) (resolve.Outcome, error) {
	f.trigger = trigger
	f.out.Record = *rec
	return f.out, f.err
}

func testService(t *testing.T, resolver Resolver) (*Service, *catalog.Store) {
	t.Helper()
	store, err := catalog.NewStore(types.CatalogConfig{CatalogDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(resolver, store, nil), store
}

func postJSON(t *testing.T, svc http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)
	return rec
}

func getPath(svc http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)
	return rec
}

func TestResolveEndpoint(t *testing.T) {
	resolver := &fakeResolver{out: resolve.Outcome{
		Status:  resolve.StatusFoundInPubChem,
		Message: resolve.MsgFoundInPubChem,
	}}
	svc, _ := testService(t, resolver)

	rec := postJSON(t, svc, "/resolve", resolveRequest{
		Record: types.Compound{CommonName: "aspirin"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, resolve.TriggerSearch, resolver.trigger)

	var out resolve.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, resolve.StatusFoundInPubChem, out.Status)
	assert.Equal(t, "aspirin", out.Record.CommonName)
}

func TestResolveEndpointFieldChangeTrigger(t *testing.T) {
	resolver := &fakeResolver{}
	svc, _ := testService(t, resolver)

	rec := postJSON(t, svc, "/resolve", resolveRequest{
		Record:  types.Compound{CommonName: "aspirin"},
		Trigger: string(resolve.TriggerFieldChange),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, resolve.TriggerFieldChange, resolver.trigger)
}

func TestResolveEndpointValidationError(t *testing.T) {
	resolver := &fakeResolver{err: &source.ValidationError{Msg: resolve.MsgValidation}}
	svc, _ := testService(t, resolver)

	rec := postJSON(t, svc, "/resolve", resolveRequest{})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, resolve.MsgValidation, body["error"])
}

func TestResolveEndpointBadBody(t *testing.T) {
	svc, _ := testService(t, &fakeResolver{})

	req := httptest.NewRequest(http.MethodPost, "/resolve", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompoundSearchEndpoint(t *testing.T) {
	svc, store := testService(t, &fakeResolver{})

	_, err := store.SaveCompound(context.Background(), "", types.Compound{
		CommonName: "Aspirin",
		CASNumber:  "50-78-2",
	})
	require.NoError(t, err)

	rec := getPath(svc, "/compounds?q=aspirin")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []compoundResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "aspirin", body.Results[0].ID)
	assert.Equal(t, "50-78-2", body.Results[0].Compound.CASNumber)
}

func TestCompoundSearchMissingQuery(t *testing.T) {
	svc, _ := testService(t, &fakeResolver{})
	rec := getPath(svc, "/compounds")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompoundGetEndpoint(t *testing.T) {
	svc, store := testService(t, &fakeResolver{})

	id, err := store.SaveCompound(context.Background(), "", types.Compound{CommonName: "Benzene"})
	require.NoError(t, err)

	rec := getPath(svc, "/compounds/"+id)
	require.Equal(t, http.StatusOK, rec.Code)

	var body compoundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id, body.ID)
	assert.Equal(t, "Benzene", body.Compound.CommonName)
}

func TestCompoundGetNotFound(t *testing.T) {
	svc, _ := testService(t, &fakeResolver{})
	rec := getPath(svc, "/compounds/no-such-compound")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExperimentListEndpoint(t *testing.T) {
	svc, store := testService(t, &fakeResolver{})

	ctx := context.Background()
	id, err := store.SaveCompound(ctx, "", types.Compound{CommonName: "Benzene"})
	require.NoError(t, err)
	_, err = store.AddExperiment(ctx, types.Experiment{
		CompoundID: id, Edge: "C-K", Angle: 55, DataPath: "benzene/carbon/55deg.txt",
	})
	require.NoError(t, err)

	rec := getPath(svc, "/compounds/"+id+"/experiments")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Experiments []types.Experiment `json:"experiments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Experiments, 1)
	assert.Equal(t, "C-K", body.Experiments[0].Edge)
}

func TestExperimentListUnknownCompound(t *testing.T) {
	svc, _ := testService(t, &fakeResolver{})
	rec := getPath(svc, "/compounds/no-such-compound/experiments")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	svc, _ := testService(t, &fakeResolver{})
	rec := getPath(svc, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResultLabels(t *testing.T) {
	assert.Equal(t, "hit", resultLabel(nil))
	assert.Equal(t, "miss", resultLabel(source.ErrNotFound))
	assert.Equal(t, "error", resultLabel(context.DeadlineExceeded))
}
