// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest populates the catalog from external sources: the
// ClinicalTrials.gov v2 registry API for trials and YAML seed files for
// approved treatments.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Weirwood-Admin/cancer-matching-engine/internal/httputil"
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// ctgovBase is the ClinicalTrials.gov v2 studies endpoint. Declared as a
// var so tests can substitute an httptest server.
var ctgovBase = "https://clinicaltrials.gov/api/v2/studies"

// ctgovFields are the study fields requested from the registry.
const ctgovFields = "NCTId,BriefTitle,BriefSummary,Phase,OverallStatus," +
	"LeadSponsorName,InterventionName,InterventionType,Condition," +
	"EligibilityCriteria,PrimaryCompletionDate,LocationFacility,LocationCity," +
	"LocationState,LocationCountry,CentralContactName,CentralContactPhone,CentralContactEMail"

// TrialSink receives parsed trials; the catalog store satisfies it.
type TrialSink interface {
	UpsertTrial(ctx context.Context, trial *types.ClinicalTrial) error
}

// Summary holds counts from an ingestion run.
type Summary struct {
	Fetched int
	Stored  int
	Failed  int
	Pages   int
}

// FetchTrials pages through the registry for the configured condition and
// upserts every parsed study into the sink. Individual bad studies are
// counted and skipped; a failed page fetch ends the run with an error.
func FetchTrials(ctx context.Context, client *http.Client, cfg types.IngestConfig, sink TrialSink, w io.Writer) (Summary, error) {
	condition := cfg.Condition
	if condition == "" {
		condition = "NSCLC OR Non-Small Cell Lung Cancer"
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	var summary Summary
	pageToken := ""

	for {
		page, err := fetchPage(ctx, client, cfg, condition, pageSize, pageToken)
		if err != nil {
			return summary, err
		}
		summary.Pages++

		for _, study := range page.Studies {
			trial := parseStudy(study)
			if trial.NCTID == "" {
				summary.Failed++
				continue
			}
			summary.Fetched++
			if err := sink.UpsertTrial(ctx, trial); err != nil {
				fmt.Fprintf(w, "warning: storing %s failed: %v\n", trial.NCTID, err)
				summary.Failed++
				continue
			}
			summary.Stored++
		}

		fmt.Fprintf(w, "page %d: %d studies (stored %d, failed %d)\n",
			summary.Pages, len(page.Studies), summary.Stored, summary.Failed)

		pageToken = page.NextPageToken
		if pageToken == "" || len(page.Studies) == 0 {
			break
		}
		if cfg.MaxPages > 0 && summary.Pages >= cfg.MaxPages {
			break
		}
		if cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(cfg.PageDelay):
			}
		}
	}

	return summary, nil
}

// studiesPage mirrors the registry response envelope.
type studiesPage struct {
	Studies       []ctgovStudy `json:"studies"`
	NextPageToken string       `json:"nextPageToken"`
}

func fetchPage(ctx context.Context, client *http.Client, cfg types.IngestConfig, condition string, pageSize int, pageToken string) (*studiesPage, error) {
	params := url.Values{
		"query.cond":           {condition},
		"filter.overallStatus": {"RECRUITING,ACTIVE_NOT_RECRUITING"},
		"pageSize":             {fmt.Sprintf("%d", pageSize)},
		"fields":               {ctgovFields},
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ctgovBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("registry returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var page studiesPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding registry response: %w", err)
	}
	return &page, nil
}

// ctgovStudy mirrors the nested protocolSection layout of a v2 study.
type ctgovStudy struct {
	ProtocolSection struct {
		IdentificationModule struct {
			NCTID      string `json:"nctId"`
			BriefTitle string `json:"briefTitle"`
		} `json:"identificationModule"`
		StatusModule struct {
			OverallStatus              string `json:"overallStatus"`
			PrimaryCompletionDateStruct struct {
				Date string `json:"date"`
			} `json:"primaryCompletionDateStruct"`
		} `json:"statusModule"`
		SponsorCollaboratorsModule struct {
			LeadSponsor struct {
				Name string `json:"name"`
			} `json:"leadSponsor"`
		} `json:"sponsorCollaboratorsModule"`
		DescriptionModule struct {
			BriefSummary string `json:"briefSummary"`
		} `json:"descriptionModule"`
		DesignModule struct {
			Phases []string `json:"phases"`
		} `json:"designModule"`
		ConditionsModule struct {
			Conditions []string `json:"conditions"`
		} `json:"conditionsModule"`
		EligibilityModule struct {
			EligibilityCriteria string `json:"eligibilityCriteria"`
		} `json:"eligibilityModule"`
		ArmsInterventionsModule struct {
			Interventions []struct {
				Name        string `json:"name"`
				Type        string `json:"type"`
				Description string `json:"description"`
			} `json:"interventions"`
		} `json:"armsInterventionsModule"`
		ContactsLocationsModule struct {
			CentralContacts []struct {
				Name  string `json:"name"`
				Phone string `json:"phone"`
				Email string `json:"email"`
			} `json:"centralContacts"`
			Locations []struct {
				Facility string `json:"facility"`
				City     string `json:"city"`
				State    string `json:"state"`
				Country  string `json:"country"`
				GeoPoint *struct {
					Lat float64 `json:"lat"`
					Lon float64 `json:"lon"`
				} `json:"geoPoint"`
			} `json:"locations"`
		} `json:"contactsLocationsModule"`
	} `json:"protocolSection"`
}

// parseStudy flattens a registry study into a catalog trial record.
func parseStudy(study ctgovStudy) *types.ClinicalTrial {
	p := study.ProtocolSection
	nctID := p.IdentificationModule.NCTID

	trial := &types.ClinicalTrial{
		NCTID:               nctID,
		Title:               p.IdentificationModule.BriefTitle,
		BriefSummary:        p.DescriptionModule.BriefSummary,
		Phase:               strings.Join(p.DesignModule.Phases, ", "),
		Status:              p.StatusModule.OverallStatus,
		Sponsor:             p.SponsorCollaboratorsModule.LeadSponsor.Name,
		Conditions:          p.ConditionsModule.Conditions,
		EligibilityCriteria: p.EligibilityModule.EligibilityCriteria,
	}
	if nctID != "" {
		trial.StudyURL = "https://clinicaltrials.gov/study/" + nctID
	}

	for _, intv := range p.ArmsInterventionsModule.Interventions {
		trial.Interventions = append(trial.Interventions, types.Intervention{
			Name:        intv.Name,
			Type:        intv.Type,
			Description: intv.Description,
		})
	}

	for _, loc := range p.ContactsLocationsModule.Locations {
		location := types.Location{
			Facility: loc.Facility,
			City:     loc.City,
			State:    loc.State,
			Country:  loc.Country,
		}
		if loc.GeoPoint != nil {
			lat, lng := loc.GeoPoint.Lat, loc.GeoPoint.Lon
			location.Lat, location.Lng = &lat, &lng
		}
		trial.Locations = append(trial.Locations, location)
	}

	if contacts := p.ContactsLocationsModule.CentralContacts; len(contacts) > 0 {
		trial.Contact = &types.ContactInfo{
			Name:  contacts[0].Name,
			Phone: contacts[0].Phone,
			Email: contacts[0].Email,
		}
	}

	if date := parseCompletionDate(p.StatusModule.PrimaryCompletionDateStruct.Date); date != nil {
		trial.PrimaryCompletionDate = date
	}

	return trial
}

// parseCompletionDate accepts the registry's two date shapes: full dates
// and year-month.
func parseCompletionDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
