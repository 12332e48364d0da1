// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists the trial and treatment catalog in SQLite and
// serves the pre-filtered candidate sets the scoring engine consumes. The
// engine itself never touches storage; this package is the data-store
// collaborator on the other side of that boundary.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

const dbFile = "catalog.db"

// recruitingStatuses are the registry statuses eligible for matching,
// compared case-insensitively.
var recruitingStatuses = []string{"RECRUITING", "ACTIVE_NOT_RECRUITING", "ENROLLING_BY_INVITATION"}

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog database at dataDir/catalog.db,
// creating the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS trials (
			nct_id TEXT PRIMARY KEY,
			title TEXT,
			brief_summary TEXT,
			phase TEXT,
			status TEXT,
			sponsor TEXT,
			interventions TEXT,
			conditions TEXT,
			eligibility_criteria TEXT,
			biomarker_requirements TEXT,
			primary_completion_date TEXT,
			locations TEXT,
			contact_info TEXT,
			study_url TEXT,
			structured_eligibility TEXT,
			extraction_version TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trials_status ON trials(status)`,
		`CREATE TABLE IF NOT EXISTS treatments (
			generic_name TEXT PRIMARY KEY,
			brand_names TEXT,
			drug_class TEXT,
			mechanism_of_action TEXT,
			fda_approval_status TEXT,
			approved_indications TEXT,
			biomarker_requirements TEXT,
			common_side_effects TEXT,
			manufacturer TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual tables with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='trials_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE trials_fts USING fts5(title, brief_summary, eligibility_criteria, content=trials, content_rowid=rowid)`,
			`CREATE TRIGGER trials_ai AFTER INSERT ON trials BEGIN
				INSERT INTO trials_fts(rowid, title, brief_summary, eligibility_criteria)
				VALUES (new.rowid, new.title, new.brief_summary, new.eligibility_criteria);
			END`,
			`CREATE TRIGGER trials_ad AFTER DELETE ON trials BEGIN
				INSERT INTO trials_fts(trials_fts, rowid, title, brief_summary, eligibility_criteria)
				VALUES('delete', old.rowid, old.title, old.brief_summary, old.eligibility_criteria);
			END`,
			`CREATE TRIGGER trials_au AFTER UPDATE ON trials BEGIN
				INSERT INTO trials_fts(trials_fts, rowid, title, brief_summary, eligibility_criteria)
				VALUES('delete', old.rowid, old.title, old.brief_summary, old.eligibility_criteria);
				INSERT INTO trials_fts(rowid, title, brief_summary, eligibility_criteria)
				VALUES (new.rowid, new.title, new.brief_summary, new.eligibility_criteria);
			END`,
			`CREATE VIRTUAL TABLE treatments_fts USING fts5(generic_name, drug_class, mechanism_of_action, content=treatments, content_rowid=rowid)`,
			`CREATE TRIGGER treatments_ai AFTER INSERT ON treatments BEGIN
				INSERT INTO treatments_fts(rowid, generic_name, drug_class, mechanism_of_action)
				VALUES (new.rowid, new.generic_name, new.drug_class, new.mechanism_of_action);
			END`,
			`CREATE TRIGGER treatments_ad AFTER DELETE ON treatments BEGIN
				INSERT INTO treatments_fts(treatments_fts, rowid, generic_name, drug_class, mechanism_of_action)
				VALUES('delete', old.rowid, old.generic_name, old.drug_class, old.mechanism_of_action);
			END`,
			`CREATE TRIGGER treatments_au AFTER UPDATE ON treatments BEGIN
				INSERT INTO treatments_fts(treatments_fts, rowid, generic_name, drug_class, mechanism_of_action)
				VALUES('delete', old.rowid, old.generic_name, old.drug_class, old.mechanism_of_action);
				INSERT INTO treatments_fts(rowid, generic_name, drug_class, mechanism_of_action)
				VALUES (new.rowid, new.generic_name, new.drug_class, new.mechanism_of_action);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// UpsertTrial inserts or replaces a trial record keyed by NCT ID.
func (s *Store) UpsertTrial(ctx context.Context, trial *types.ClinicalTrial) error {
	if trial.NCTID == "" {
		return fmt.Errorf("trial missing NCT ID")
	}

	completionDate := ""
	if trial.PrimaryCompletionDate != nil {
		completionDate = trial.PrimaryCompletionDate.Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trials (
			nct_id, title, brief_summary, phase, status, sponsor,
			interventions, conditions, eligibility_criteria, biomarker_requirements,
			primary_completion_date, locations, contact_info, study_url,
			structured_eligibility, extraction_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(nct_id) DO UPDATE SET
			title=excluded.title, brief_summary=excluded.brief_summary,
			phase=excluded.phase, status=excluded.status, sponsor=excluded.sponsor,
			interventions=excluded.interventions, conditions=excluded.conditions,
			eligibility_criteria=excluded.eligibility_criteria,
			biomarker_requirements=excluded.biomarker_requirements,
			primary_completion_date=excluded.primary_completion_date,
			locations=excluded.locations, contact_info=excluded.contact_info,
			study_url=excluded.study_url,
			structured_eligibility=excluded.structured_eligibility,
			extraction_version=excluded.extraction_version`,
		trial.NCTID, trial.Title, trial.BriefSummary, trial.Phase, trial.Status, trial.Sponsor,
		marshalJSON(trial.Interventions), marshalJSON(trial.Conditions),
		trial.EligibilityCriteria, marshalJSON(trial.BiomarkerRequirements),
		completionDate, marshalJSON(trial.Locations), marshalJSON(trial.Contact),
		trial.StudyURL, marshalJSON(trial.StructuredEligibility), trial.ExtractionVersion,
	)
	if err != nil {
		return fmt.Errorf("upserting trial %s: %w", trial.NCTID, err)
	}
	return nil
}

// UpsertTreatment inserts or replaces a treatment record keyed by generic name.
func (s *Store) UpsertTreatment(ctx context.Context, treatment *types.Treatment) error {
	if treatment.GenericName == "" {
		return fmt.Errorf("treatment missing generic name")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO treatments (
			generic_name, brand_names, drug_class, mechanism_of_action,
			fda_approval_status, approved_indications, biomarker_requirements,
			common_side_effects, manufacturer
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(generic_name) DO UPDATE SET
			brand_names=excluded.brand_names, drug_class=excluded.drug_class,
			mechanism_of_action=excluded.mechanism_of_action,
			fda_approval_status=excluded.fda_approval_status,
			approved_indications=excluded.approved_indications,
			biomarker_requirements=excluded.biomarker_requirements,
			common_side_effects=excluded.common_side_effects,
			manufacturer=excluded.manufacturer`,
		treatment.GenericName, marshalJSON(treatment.BrandNames), treatment.DrugClass,
		treatment.MechanismOfAction, treatment.ApprovalStatus,
		marshalJSON(treatment.ApprovedIndications), marshalJSON(treatment.BiomarkerRequirements),
		marshalJSON(treatment.CommonSideEffects), treatment.Manufacturer,
	)
	if err != nil {
		return fmt.Errorf("upserting treatment %s: %w", treatment.GenericName, err)
	}
	return nil
}

const trialColumns = `nct_id, title, brief_summary, phase, status, sponsor,
	interventions, conditions, eligibility_criteria, biomarker_requirements,
	primary_completion_date, locations, contact_info, study_url,
	structured_eligibility, extraction_version`

// RecruitingTrials returns every trial in a recruiting-class status, in
// stable NCT ID order so repeated queries feed the ranker identically.
func (s *Store) RecruitingTrials(ctx context.Context) ([]types.ClinicalTrial, error) {
	placeholders := strings.Repeat("?,", len(recruitingStatuses))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(recruitingStatuses))
	for i, status := range recruitingStatuses {
		args[i] = status
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+trialColumns+` FROM trials WHERE upper(status) IN (`+placeholders+`) ORDER BY nct_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recruiting trials: %w", err)
	}
	defer rows.Close()
	return scanTrials(rows)
}

// Trial returns one trial by NCT ID, or nil when absent.
func (s *Store) Trial(ctx context.Context, nctID string) (*types.ClinicalTrial, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+trialColumns+` FROM trials WHERE nct_id = ?`, nctID)
	if err != nil {
		return nil, fmt.Errorf("querying trial %s: %w", nctID, err)
	}
	defer rows.Close()

	trials, err := scanTrials(rows)
	if err != nil {
		return nil, err
	}
	if len(trials) == 0 {
		return nil, nil
	}
	return &trials[0], nil
}

// Treatments returns the full treatment catalog in generic-name order.
func (s *Store) Treatments(ctx context.Context) ([]types.Treatment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT generic_name, brand_names, drug_class, mechanism_of_action,
			fda_approval_status, approved_indications, biomarker_requirements,
			common_side_effects, manufacturer
		 FROM treatments ORDER BY generic_name`)
	if err != nil {
		return nil, fmt.Errorf("querying treatments: %w", err)
	}
	defer rows.Close()

	var treatments []types.Treatment
	for rows.Next() {
		var t types.Treatment
		var brandNames, indications, requirements, sideEffects string
		if err := rows.Scan(&t.GenericName, &brandNames, &t.DrugClass, &t.MechanismOfAction,
			&t.ApprovalStatus, &indications, &requirements, &sideEffects, &t.Manufacturer); err != nil {
			return nil, fmt.Errorf("scanning treatment: %w", err)
		}
		unmarshalJSON(brandNames, &t.BrandNames)
		unmarshalJSON(indications, &t.ApprovedIndications)
		unmarshalJSON(requirements, &t.BiomarkerRequirements)
		unmarshalJSON(sideEffects, &t.CommonSideEffects)
		treatments = append(treatments, t)
	}
	return treatments, rows.Err()
}

// SearchTrials runs an FTS5 query over trial title, summary, and raw
// eligibility text, ranked by relevance.
func (s *Store) SearchTrials(ctx context.Context, query string) ([]types.ClinicalTrial, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+qualify(trialColumns, "t")+`
		 FROM trials_fts f JOIN trials t ON t.rowid = f.rowid
		 WHERE trials_fts MATCH ? ORDER BY rank LIMIT ?`,
		ftsQuery(query), s.maxResults,
	)
	if err != nil {
		return nil, fmt.Errorf("searching trials: %w", err)
	}
	defer rows.Close()
	return scanTrials(rows)
}

// SearchTreatments runs an FTS5 query over treatment name, class, and
// mechanism of action.
func (s *Store) SearchTreatments(ctx context.Context, query string) ([]types.Treatment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.generic_name, t.brand_names, t.drug_class, t.mechanism_of_action,
			t.fda_approval_status, t.approved_indications, t.biomarker_requirements,
			t.common_side_effects, t.manufacturer
		 FROM treatments_fts f JOIN treatments t ON t.rowid = f.rowid
		 WHERE treatments_fts MATCH ? ORDER BY rank LIMIT ?`,
		ftsQuery(query), s.maxResults,
	)
	if err != nil {
		return nil, fmt.Errorf("searching treatments: %w", err)
	}
	defer rows.Close()

	var treatments []types.Treatment
	for rows.Next() {
		var t types.Treatment
		var brandNames, indications, requirements, sideEffects string
		if err := rows.Scan(&t.GenericName, &brandNames, &t.DrugClass, &t.MechanismOfAction,
			&t.ApprovalStatus, &indications, &requirements, &sideEffects, &t.Manufacturer); err != nil {
			return nil, fmt.Errorf("scanning treatment: %w", err)
		}
		unmarshalJSON(brandNames, &t.BrandNames)
		unmarshalJSON(indications, &t.ApprovedIndications)
		unmarshalJSON(requirements, &t.BiomarkerRequirements)
		unmarshalJSON(sideEffects, &t.CommonSideEffects)
		treatments = append(treatments, t)
	}
	return treatments, rows.Err()
}

// Stats summarizes catalog contents.
type Stats struct {
	Trials           int
	RecruitingTrials int
	StructuredTrials int
	Treatments       int
}

// Stats counts catalog records, including how many trials carry structured
// eligibility and can take the structured scoring path.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	queries := []struct {
		dst   *int
		query string
	}{
		{&st.Trials, `SELECT count(*) FROM trials`},
		{&st.RecruitingTrials, `SELECT count(*) FROM trials WHERE upper(status) IN ('RECRUITING','ACTIVE_NOT_RECRUITING','ENROLLING_BY_INVITATION')`},
		{&st.StructuredTrials, `SELECT count(*) FROM trials WHERE structured_eligibility IS NOT NULL AND structured_eligibility != ''`},
		{&st.Treatments, `SELECT count(*) FROM treatments`},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return Stats{}, fmt.Errorf("counting catalog records: %w", err)
		}
	}
	return st, nil
}

func scanTrials(rows *sql.Rows) ([]types.ClinicalTrial, error) {
	var trials []types.ClinicalTrial
	for rows.Next() {
		var t types.ClinicalTrial
		var interventions, conditions, requirements, completionDate, locations, contact, structured string
		if err := rows.Scan(&t.NCTID, &t.Title, &t.BriefSummary, &t.Phase, &t.Status, &t.Sponsor,
			&interventions, &conditions, &t.EligibilityCriteria, &requirements,
			&completionDate, &locations, &contact, &t.StudyURL,
			&structured, &t.ExtractionVersion); err != nil {
			return nil, fmt.Errorf("scanning trial: %w", err)
		}
		unmarshalJSON(interventions, &t.Interventions)
		unmarshalJSON(conditions, &t.Conditions)
		unmarshalJSON(requirements, &t.BiomarkerRequirements)
		unmarshalJSON(locations, &t.Locations)
		unmarshalJSON(contact, &t.Contact)
		unmarshalJSON(structured, &t.StructuredEligibility)
		if completionDate != "" {
			if parsed, err := time.Parse(time.RFC3339, completionDate); err == nil {
				t.PrimaryCompletionDate = &parsed
			}
		}
		// Normalization happens once here, so scorers downstream never
		// re-validate requirement shapes.
		t.StructuredEligibility.Normalize()
		trials = append(trials, t)
	}
	return trials, rows.Err()
}

// marshalJSON serializes v for a TEXT column; nil-ish values become the
// empty string so absence round-trips as absence.
func marshalJSON(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return ""
	}
	return string(data)
}

func unmarshalJSON(data string, v any) {
	if data == "" {
		return
	}
	// A malformed stored value degrades to absence, never to a failed query.
	_ = json.Unmarshal([]byte(data), v)
}

// ftsQuery quotes each term so user input with FTS operators cannot break
// the MATCH expression.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, ``) + `"`
	}
	return strings.Join(fields, " ")
}

// qualify prefixes each column in a comma-separated list with a table alias.
func qualify(columns, alias string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
