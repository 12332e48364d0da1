// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// memorySink collects upserted trials; a name in failNCT makes that upsert
// fail so error accounting can be tested.
type memorySink struct {
	trials  []types.ClinicalTrial
	failNCT string
}

func (m *memorySink) UpsertTrial(_ context.Context, trial *types.ClinicalTrial) error {
	if trial.NCTID == m.failNCT {
		return fmt.Errorf("simulated store failure")
	}
	m.trials = append(m.trials, *trial)
	return nil
}

const studyJSON = `{
	"protocolSection": {
		"identificationModule": {"nctId": "NCT01234567", "briefTitle": "EGFR Study"},
		"statusModule": {
			"overallStatus": "RECRUITING",
			"primaryCompletionDateStruct": {"date": "2027-06"}
		},
		"sponsorCollaboratorsModule": {"leadSponsor": {"name": "Acme Oncology"}},
		"descriptionModule": {"briefSummary": "A study."},
		"designModule": {"phases": ["PHASE2", "PHASE3"]},
		"conditionsModule": {"conditions": ["NSCLC"]},
		"eligibilityModule": {"eligibilityCriteria": "Inclusion: EGFR mutation."},
		"armsInterventionsModule": {
			"interventions": [{"name": "Osimertinib", "type": "DRUG"}]
		},
		"contactsLocationsModule": {
			"centralContacts": [{"name": "Study Team", "email": "team@example.org"}],
			"locations": [{
				"facility": "MGH", "city": "Boston", "state": "Massachusetts",
				"country": "United States", "geoPoint": {"lat": 42.36, "lon": -71.06}
			}]
		}
	}
}`

func withTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := ctgovBase
	ctgovBase = ts.URL
	t.Cleanup(func() { ctgovBase = old })
	return ts
}

func TestFetchTrialsSinglePage(t *testing.T) {
	ts := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("query.cond"), "NSCLC")
		fmt.Fprintf(w, `{"studies": [%s]}`, studyJSON)
	})

	sink := &memorySink{}
	var buf bytes.Buffer
	summary, err := FetchTrials(context.Background(), ts.Client(), types.IngestConfig{}, sink, &buf)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Fetched)
	assert.Equal(t, 1, summary.Stored)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.Pages)

	require.Len(t, sink.trials, 1)
	trial := sink.trials[0]
	assert.Equal(t, "NCT01234567", trial.NCTID)
	assert.Equal(t, "PHASE2, PHASE3", trial.Phase)
	assert.Equal(t, "Acme Oncology", trial.Sponsor)
	assert.Equal(t, "https://clinicaltrials.gov/study/NCT01234567", trial.StudyURL)
	require.Len(t, trial.Interventions, 1)
	require.Len(t, trial.Locations, 1)
	require.NotNil(t, trial.Locations[0].Lat)
	assert.InDelta(t, 42.36, *trial.Locations[0].Lat, 0.001)
	require.NotNil(t, trial.Contact)
	assert.Equal(t, "team@example.org", trial.Contact.Email)
	require.NotNil(t, trial.PrimaryCompletionDate)
	assert.Equal(t, 2027, trial.PrimaryCompletionDate.Year())
}

func TestFetchTrialsPaginates(t *testing.T) {
	page := 0
	ts := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 1 {
			assert.Empty(t, r.URL.Query().Get("pageToken"))
			fmt.Fprintf(w, `{"studies": [%s], "nextPageToken": "tok-2"}`, studyJSON)
			return
		}
		assert.Equal(t, "tok-2", r.URL.Query().Get("pageToken"))
		fmt.Fprint(w, `{"studies": [{"protocolSection": {"identificationModule": {"nctId": "NCT07654321"}}}]}`)
	})

	sink := &memorySink{}
	var buf bytes.Buffer
	summary, err := FetchTrials(context.Background(), ts.Client(), types.IngestConfig{}, sink, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, 2, summary.Stored)
	require.Len(t, sink.trials, 2)
}

func TestFetchTrialsMaxPages(t *testing.T) {
	ts := withTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"studies": [%s], "nextPageToken": "more"}`, studyJSON)
	})

	sink := &memorySink{}
	var buf bytes.Buffer
	summary, err := FetchTrials(context.Background(), ts.Client(), types.IngestConfig{MaxPages: 2}, sink, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Pages)
}

func TestFetchTrialsCountsFailures(t *testing.T) {
	ts := withTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		// One valid study, one without an NCT ID, one that the sink rejects.
		fmt.Fprintf(w, `{"studies": [%s, {"protocolSection": {}}, {"protocolSection": {"identificationModule": {"nctId": "NCT-FAIL"}}}]}`, studyJSON)
	})

	sink := &memorySink{failNCT: "NCT-FAIL"}
	var buf bytes.Buffer
	summary, err := FetchTrials(context.Background(), ts.Client(), types.IngestConfig{}, sink, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 1, summary.Stored)
	assert.Equal(t, 2, summary.Failed)
	assert.Contains(t, buf.String(), "NCT-FAIL")
}

func TestFetchTrialsRegistryError(t *testing.T) {
	ts := withTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	var buf bytes.Buffer
	_, err := FetchTrials(context.Background(), ts.Client(), types.IngestConfig{}, &memorySink{}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestParseCompletionDate(t *testing.T) {
	if d := parseCompletionDate("2027-06-15"); d == nil || d.Day() != 15 {
		t.Errorf("full date = %v", d)
	}
	if d := parseCompletionDate("2027-06"); d == nil || d.Month() != 6 {
		t.Errorf("year-month = %v", d)
	}
	if d := parseCompletionDate(""); d != nil {
		t.Errorf("empty = %v, want nil", d)
	}
	if d := parseCompletionDate("June 2027"); d != nil {
		t.Errorf("unparseable = %v, want nil", d)
	}
}
